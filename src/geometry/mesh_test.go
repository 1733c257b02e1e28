package geometry

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeshShapes(t *testing.T) {
	for idx, tc := range []struct {
		name     string
		mesh     *Mesh
		vertices int
		indices  int
	}{
		{"quad", NewQuad(), 3, 3},
		{"cube", NewCube(), 8, 36},
	} {
		t.Run(fmt.Sprintf("%d/%s", idx, tc.name), func(t *testing.T) {
			require.Len(t, tc.mesh.Vertices, tc.vertices)
			require.Len(t, tc.mesh.Indices, tc.indices)
			for _, i := range tc.mesh.Indices {
				require.Less(t, int(i), tc.vertices)
			}
			for _, v := range tc.mesh.Vertices {
				assert.InDelta(t, 1, v.Normal.Len(), 1e-6)
			}
		})
	}
}

func TestMeshTranslate(t *testing.T) {
	m := NewCube()
	require.True(t, m.Centroid().ApproxEqual(mgl32.Vec3{}))

	m.Translate(mgl32.Vec3{1, 2, 3})
	require.True(t, m.Centroid().ApproxEqual(mgl32.Vec3{1, 2, 3}))
	require.True(t, m.Vertices[0].Pos.ApproxEqual(mgl32.Vec3{0.5, 1.5, 2.5}))
}

func TestMeshDraw(t *testing.T) {
	alloc := &fakeAllocator{}
	rec := &recorder{}
	m := NewCube()
	m.SetRecorder(rec)

	m.Draw(cmd)
	require.Empty(t, rec.draws)

	require.NoError(t, m.Init(alloc))
	require.Len(t, alloc.uploaded, 2)
	require.Len(t, alloc.uploaded[0], 8*MeshVertexSize)
	require.Len(t, alloc.uploaded[1], 36*4)
	require.Equal(t, vertexUsage, alloc.usages[0])
	require.Equal(t, indexUsage, alloc.usages[1])

	m.Draw(cmd)
	require.Len(t, rec.draws, 1)
	require.True(t, rec.draws[0].indexed)
	require.Equal(t, uint32(36), rec.draws[0].count)
	require.NotNil(t, rec.indices)

	m.Destroy()
	m.Destroy()
	m.Draw(cmd)
	require.Len(t, rec.draws, 1)
}

func TestMeshEmpty(t *testing.T) {
	require.Error(t, NewMesh(nil, nil).Init(&fakeAllocator{}))
}

func TestCloudDraw(t *testing.T) {
	alloc := &fakeAllocator{}
	rec := &recorder{}
	c := NewCloud(make([]CloudVertex, 7))
	c.SetRecorder(rec)
	require.NoError(t, c.Init(alloc))
	require.Len(t, alloc.uploaded[0], 7*CloudVertexSize)

	c.Draw(cmd)
	c.Draw(cmd)
	require.Equal(t, []uint32{7, 7}, rec.counts())

	empty := NewCloud(nil)
	empty.SetRecorder(rec)
	require.NoError(t, empty.Init(alloc))
	empty.Draw(cmd)
	require.Len(t, rec.draws, 2)
}

func TestRandomPlane(t *testing.T) {
	for idx, n := range []int{0, 1, 10, minChunk + 3, 3 * minChunk} {
		t.Run(fmt.Sprintf("%d/%d", idx, n), func(t *testing.T) {
			points, err := RandomPlane(context.Background(), n, 42)
			require.NoError(t, err)
			require.Len(t, points, n)
			for _, p := range points {
				require.LessOrEqual(t, float32(math.Abs(float64(p.Pos[0]))), float32(planeExtent))
				require.LessOrEqual(t, float32(math.Abs(float64(p.Pos[1]))), float32(planeExtent))
				require.Zero(t, p.Pos[2])
				require.Equal(t, [3]uint8{0, 255, 255}, p.Color)
			}

			again, err := RandomPlane(context.Background(), n, 42)
			require.NoError(t, err)
			require.Equal(t, points, again)
		})
	}
}

func TestRandomPlaneCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RandomPlane(ctx, 10, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGalaxy(t *testing.T) {
	for idx, tc := range []struct {
		n                   int
		diameter, thickness float32
	}{
		{100, 100, 5},
		{1000, 10, 10},
		{minChunk + 1, 1000, 1},
	} {
		t.Run(fmt.Sprintf("%d/%v", idx, tc.diameter), func(t *testing.T) {
			points, err := Galaxy(context.Background(), tc.n, tc.diameter, tc.thickness, mgl32.Vec3{1, 1, 1}, 7)
			require.NoError(t, err)
			require.Len(t, points, tc.n)

			radius := float64(tc.diameter / 2)
			for i, p := range points {
				require.Equal(t, int32(i), p.Index)
				flat := math.Hypot(float64(p.Pos[0]), float64(p.Pos[2]))
				require.LessOrEqual(t, flat, radius+1e-3)
				require.LessOrEqual(t, math.Abs(float64(p.Pos[1])), float64(tc.thickness/2)+1e-3)
			}
		})
	}

	_, err := Galaxy(context.Background(), 10, 0, 1, mgl32.Vec3{}, 1)
	require.Error(t, err)
}

func TestSpherical(t *testing.T) {
	for idx, tc := range []struct {
		radius, theta, phi float32
		want               mgl32.Vec3
	}{
		{1, 0, 0, mgl32.Vec3{0, 1, 0}},
		{2, 0, math.Pi / 2, mgl32.Vec3{0, 0, 2}},
		{3, math.Pi / 2, math.Pi / 2, mgl32.Vec3{3, 0, 0}},
		{1, 0, math.Pi, mgl32.Vec3{0, -1, 0}},
	} {
		t.Run(fmt.Sprintf("%d", idx), func(t *testing.T) {
			got := Spherical(tc.radius, tc.theta, tc.phi)
			require.InDeltaSlice(t, tc.want[:], got[:], 1e-5)
		})
	}
}
