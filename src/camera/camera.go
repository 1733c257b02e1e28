// Package camera keeps the view and projection matrices the renderer draws with.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is an orbit style camera: the view is the translation applied after
// the x, y and z rotations, all angles in degrees.
type Camera struct {
	fov, aspect float32
	near, far   float32

	rotation mgl32.Vec3
	position mgl32.Vec3

	RotationSpeed float32
	MovementSpeed float32

	// FlipY flips the clip space y axis, vulkan's points down.
	FlipY bool

	view        mgl32.Mat4
	perspective mgl32.Mat4
	updated     bool
}

func New() *Camera {
	c := &Camera{
		RotationSpeed: 1,
		MovementSpeed: 1,
		FlipY:         true,
		view:          mgl32.Ident4(),
		perspective:   mgl32.Ident4(),
	}
	return c
}

func (c *Camera) View() mgl32.Mat4 { return c.view }

func (c *Camera) Projection() mgl32.Mat4 { return c.perspective }

func (c *Camera) Position() mgl32.Vec3 { return c.position }

func (c *Camera) Rotation() mgl32.Vec3 { return c.rotation }

func (c *Camera) NearClip() float32 { return c.near }

func (c *Camera) FarClip() float32 { return c.far }

// ViewPosition is the eye position shaders light with.
func (c *Camera) ViewPosition() mgl32.Vec4 {
	return mgl32.Vec4{-c.position[0], c.position[1], -c.position[2], 0}
}

// Updated reports whether the view changed since the last ClearUpdated.
func (c *Camera) Updated() bool { return c.updated }

func (c *Camera) ClearUpdated() { c.updated = false }

func (c *Camera) SetPerspective(fov, aspect, near, far float32) {
	c.fov, c.aspect, c.near, c.far = fov, aspect, near, far
	c.updatePerspective()
}

func (c *Camera) UpdateAspectRatio(aspect float32) {
	c.aspect = aspect
	c.updatePerspective()
}

func (c *Camera) SetPosition(position mgl32.Vec3) {
	c.position = position
	c.updateView()
}

func (c *Camera) SetRotation(rotation mgl32.Vec3) {
	c.rotation = rotation
	c.updateView()
}

func (c *Camera) Translate(delta mgl32.Vec3) {
	c.position = c.position.Add(delta.Mul(c.MovementSpeed))
	c.updateView()
}

func (c *Camera) Rotate(delta mgl32.Vec3) {
	c.rotation = c.rotation.Add(delta.Mul(c.RotationSpeed))
	c.updateView()
}

func (c *Camera) updateView() {
	rx := c.rotation[0]
	translation := c.position
	if c.FlipY {
		rx = -rx
		translation[1] = -translation[1]
	}
	rot := mgl32.HomogRotate3DX(mgl32.DegToRad(rx)).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(c.rotation[1]))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(c.rotation[2])))
	c.view = mgl32.Translate3D(translation[0], translation[1], translation[2]).Mul4(rot)
	c.updated = true
}

func (c *Camera) updatePerspective() {
	c.perspective = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
	if c.FlipY {
		c.perspective[5] *= -1
	}
	c.updated = true
}
