package camera

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestCameraView(t *testing.T) {
	for idx, tc := range []struct {
		flip     bool
		position mgl32.Vec3
		rotation mgl32.Vec3
		point    mgl32.Vec3
		want     mgl32.Vec3
	}{
		{false, mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 2, 3}},
		{false, mgl32.Vec3{0, 0, -150}, mgl32.Vec3{}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -150}},
		{false, mgl32.Vec3{}, mgl32.Vec3{0, 90, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{false, mgl32.Vec3{}, mgl32.Vec3{0, 0, 90}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{false, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 90}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 1, 0}},
		{true, mgl32.Vec3{0, 5, 0}, mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{0, -5, 0}},
		{true, mgl32.Vec3{}, mgl32.Vec3{90, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, -1}},
		{false, mgl32.Vec3{}, mgl32.Vec3{90, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
	} {
		t.Run(fmt.Sprintf("%d/flip=%v", idx, tc.flip), func(t *testing.T) {
			c := New()
			c.FlipY = tc.flip
			c.SetPosition(tc.position)
			c.SetRotation(tc.rotation)

			got := mgl32.TransformCoordinate(tc.point, c.View())
			require.InDeltaSlice(t, tc.want[:], got[:], 1e-4)
		})
	}
}

func TestCameraPerspectiveFlip(t *testing.T) {
	c := New()
	c.FlipY = false
	c.SetPerspective(45, 4.0/3.0, 0.1, 1000)
	plain := c.Projection()

	c.FlipY = true
	c.UpdateAspectRatio(4.0 / 3.0)
	flipped := c.Projection()

	require.Greater(t, plain[5], float32(0))
	require.Equal(t, -plain[5], flipped[5])
	require.Equal(t, plain[0], flipped[0])
	require.Equal(t, float32(0.1), c.NearClip())
	require.Equal(t, float32(1000), c.FarClip())
}

func TestCameraUpdated(t *testing.T) {
	c := New()
	require.False(t, c.Updated())

	c.Translate(mgl32.Vec3{0, 0, 1})
	require.True(t, c.Updated())
	c.ClearUpdated()
	require.False(t, c.Updated())

	c.RotationSpeed = 2
	c.Rotate(mgl32.Vec3{1, 0, 0})
	require.True(t, c.Updated())
	require.Equal(t, mgl32.Vec3{2, 0, 0}, c.Rotation())
	require.Equal(t, mgl32.Vec4{0, 0, -1, 0}, c.ViewPosition())
}
