package renderer

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"opticloud/src/geometry"
	"opticloud/src/render"
)

const DefaultPointSize = 2

// The blocks below follow the std140 layout of the shaders.

type ModelInfo struct {
	Model mgl32.Mat4
	MVP   mgl32.Mat4
}

type CameraInfo struct {
	View    mgl32.Mat4
	InvView mgl32.Mat4
	Proj    mgl32.Mat4
	InvProj mgl32.Mat4
	CamPos  mgl32.Vec3
	_       float32
}

type ScreenSize struct {
	Width  uint32
	Height uint32
}

type Lighting struct {
	Color      mgl32.Vec3
	Intensity  float32
	ThreePoint uint32 // glsl bool
}

type PointSize struct {
	Size uint32
}

var (
	lightingColorOffset      = int(unsafe.Offsetof(Lighting{}.Color))
	lightingIntensityOffset  = int(unsafe.Offsetof(Lighting{}.Intensity))
	lightingThreePointOffset = int(unsafe.Offsetof(Lighting{}.ThreePoint))
)

// Sender takes raw bytes at an offset of a uniform block. *render.UniformBuffer implements it.
type Sender interface {
	SendData(data []byte, offset int) error
}

var _ Sender = (*render.UniformBuffer)(nil)

func send[T any](s Sender, value T, offset int) error {
	return s.SendData(render.ValueBytes(&value), offset)
}

// ViewSource is where the renderer takes its view from. *camera.Camera implements it.
type ViewSource interface {
	View() mgl32.Mat4
	Projection() mgl32.Mat4
	Position() mgl32.Vec3
	Updated() bool
	ClearUpdated()
}

// Uniforms owns the uniform blocks of the main and gradient passes.
type Uniforms struct {
	Model      *render.UniformBuffer
	Camera     *render.UniformBuffer
	ScreenSize *render.UniformBuffer
	Lighting   *render.UniformBuffer
	PointSize  *render.UniformBuffer
}

func (r *Renderer) createUniforms() error {
	for _, u := range []struct {
		dst  **render.UniformBuffer
		size uintptr
	}{
		{&r.uniforms.Model, unsafe.Sizeof(ModelInfo{})},
		{&r.uniforms.Camera, unsafe.Sizeof(CameraInfo{})},
		{&r.uniforms.ScreenSize, unsafe.Sizeof(ScreenSize{})},
		{&r.uniforms.Lighting, unsafe.Sizeof(Lighting{})},
		{&r.uniforms.PointSize, unsafe.Sizeof(PointSize{})},
	} {
		buffer, err := r.device.CreateUniformBuffer(int(u.size))
		if err != nil {
			return err
		}
		*u.dst = buffer
	}
	return nil
}

func (u *Uniforms) Destroy() {
	for _, b := range []**render.UniformBuffer{&u.Model, &u.Camera, &u.ScreenSize, &u.Lighting, &u.PointSize} {
		if *b != nil {
			(*b).Destroy()
			*b = nil
		}
	}
}

// SendView uploads the camera block and the model block for an identity model.
func SendView(view ViewSource, model, camera Sender) error {
	info := CameraInfo{
		View:   view.View(),
		Proj:   view.Projection(),
		CamPos: view.Position(),
	}
	info.InvView = info.View.Inv()
	info.InvProj = info.Proj.Inv()

	m := mgl32.Ident4()
	if err := send(model, ModelInfo{Model: m, MVP: info.Proj.Mul4(info.View).Mul4(m)}, 0); err != nil {
		return err
	}
	return send(camera, info, 0)
}

// UpdateView sends the view when it changed since the last call and restarts
// the progressive draw, the reprojection of the old view being stale. It
// reports whether the view was sent.
func UpdateView(view ViewSource, cloud *geometry.OptiCloud, model, camera Sender) (bool, error) {
	if !view.Updated() {
		return false, nil
	}
	if err := SendView(view, model, camera); err != nil {
		return false, err
	}
	cloud.ResetDraw()
	view.ClearUpdated()
	return true, nil
}

// SendLighting writes the whole lighting block.
func SendLighting(s Sender, l LightingConfig) error {
	var three uint32
	if l.ThreePoint {
		three = 1
	}
	return send(s, Lighting{Color: mgl32.Vec3(l.Color), Intensity: l.Intensity, ThreePoint: three}, 0)
}
