package main

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/vulkan-go/glfw/v3.3/glfw"
	"github.com/vulkan-go/vulkan"

	"opticloud/src/renderer"
)

const (
	zoomSpeed = 5
	moveSpeed = 2
)

// target is what the window drives. *renderer.Renderer implements it.
type target interface {
	Resize(width, height uint32) error
	SetPolygonMode(mode vulkan.PolygonMode) error
	SetPointSize(size uint32) error
	EnableThreePointLighting(enabled bool) error
}

var _ target = (*renderer.Renderer)(nil)

type viewer interface {
	Translate(delta mgl32.Vec3)
	Rotate(delta mgl32.Vec3)
	UpdateAspectRatio(aspect float32)
}

var polygonModes = []vulkan.PolygonMode{
	vulkan.PolygonModeFill,
	vulkan.PolygonModeLine,
	vulkan.PolygonModePoint,
}

// input turns window events into camera moves and renderer settings. The
// first error stops the main loop.
type input struct {
	target target
	view   viewer

	rotating     bool
	lastX, lastY float64

	polygonMode int
	pointSize   uint32
	threePoint  bool

	err error
}

func newInput(t target, v viewer, cfg renderer.Config) *input {
	return &input{
		target:     t,
		view:       v,
		pointSize:  cfg.PointSize,
		threePoint: cfg.Lighting.ThreePoint,
	}
}

func (in *input) attach(window *glfw.Window) {
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		in.resize(width, height)
	})
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		in.scroll(yoff)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		x, y := w.GetCursorPos()
		in.button(button, action, x, y)
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		in.move(x, y)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		if key == glfw.KeyEscape {
			w.SetShouldClose(true)
			return
		}
		in.key(key)
	})
}

func (in *input) fail(err error) {
	if err != nil && in.err == nil {
		in.err = err
	}
}

func (in *input) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	in.fail(in.target.Resize(uint32(width), uint32(height)))
	in.view.UpdateAspectRatio(float32(width) / float32(height))
}

func (in *input) scroll(yoff float64) {
	in.view.Translate(mgl32.Vec3{0, 0, float32(yoff) * zoomSpeed})
}

func (in *input) button(button glfw.MouseButton, action glfw.Action, x, y float64) {
	if button != glfw.MouseButtonRight {
		return
	}
	in.rotating = action == glfw.Press
	in.lastX, in.lastY = x, y
}

func (in *input) move(x, y float64) {
	if !in.rotating {
		return
	}
	dx, dy := x-in.lastX, y-in.lastY
	in.lastX, in.lastY = x, y
	in.view.Rotate(mgl32.Vec3{float32(dy), float32(dx), 0})
}

func (in *input) key(key glfw.Key) {
	switch key {
	case glfw.KeyW:
		in.view.Translate(mgl32.Vec3{0, 0, moveSpeed})
	case glfw.KeyS:
		in.view.Translate(mgl32.Vec3{0, 0, -moveSpeed})
	case glfw.KeyA:
		in.view.Translate(mgl32.Vec3{moveSpeed, 0, 0})
	case glfw.KeyD:
		in.view.Translate(mgl32.Vec3{-moveSpeed, 0, 0})
	case glfw.KeyP:
		in.polygonMode = (in.polygonMode + 1) % len(polygonModes)
		log.Printf("opticloud: polygon mode %d", polygonModes[in.polygonMode])
		in.fail(in.target.SetPolygonMode(polygonModes[in.polygonMode]))
	case glfw.KeyEqual, glfw.KeyKPAdd:
		in.pointSize++
		in.fail(in.target.SetPointSize(in.pointSize))
	case glfw.KeyMinus, glfw.KeyKPSubtract:
		if in.pointSize > 1 {
			in.pointSize--
			in.fail(in.target.SetPointSize(in.pointSize))
		}
	case glfw.KeyL:
		in.threePoint = !in.threePoint
		in.fail(in.target.EnableThreePointLighting(in.threePoint))
	}
}
