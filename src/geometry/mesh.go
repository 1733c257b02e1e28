package geometry

import (
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/vulkan-go/vulkan"

	"opticloud/src/render"
)

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []MeshVertex
	Indices  []uint32

	vertexBuffer *render.Buffer
	indexBuffer  *render.Buffer
	recorder     Recorder
}

func NewMesh(vertices []MeshVertex, indices []uint32) *Mesh {
	return &Mesh{Vertices: vertices, Indices: indices, recorder: render.Recorder{}}
}

// NewQuad is the single triangle the gradient background is drawn with.
func NewQuad() *Mesh {
	normal := mgl32.Vec3{0, 0, 1}
	return NewMesh([]MeshVertex{
		{Pos: mgl32.Vec3{-3, 1, 0}, Normal: normal},
		{Pos: mgl32.Vec3{3, 1, 0}, Normal: normal},
		{Pos: mgl32.Vec3{0, -2, 0}, Normal: normal},
	}, []uint32{0, 1, 2})
}

// NewCube is a unit cube centered on the origin, normals pointing out of the corners.
func NewCube() *Mesh {
	vertices := make([]MeshVertex, 0, 8)
	for _, p := range []mgl32.Vec3{
		{-0.5, -0.5, -0.5},
		{0.5, -0.5, -0.5},
		{0.5, 0.5, -0.5},
		{-0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5},
		{0.5, -0.5, 0.5},
		{0.5, 0.5, 0.5},
		{-0.5, 0.5, 0.5},
	} {
		vertices = append(vertices, MeshVertex{Pos: p, Normal: p.Normalize()})
	}
	return NewMesh(vertices, []uint32{
		0, 1, 2, 2, 3, 0,
		1, 2, 6, 6, 5, 1,
		0, 1, 5, 5, 4, 0,
		3, 0, 4, 4, 7, 3,
		6, 2, 3, 3, 7, 6,
		4, 5, 6, 6, 7, 4,
	})
}

func (m *Mesh) SetRecorder(r Recorder) { m.recorder = r }

// Translate moves every vertex by v. Call it before Init.
func (m *Mesh) Translate(v mgl32.Vec3) {
	for i := range m.Vertices {
		m.Vertices[i].Pos = m.Vertices[i].Pos.Add(v)
	}
}

func (m *Mesh) Centroid() mgl32.Vec3 {
	var c mgl32.Vec3
	if len(m.Vertices) == 0 {
		return c
	}
	for _, v := range m.Vertices {
		c = c.Add(v.Pos)
	}
	return c.Mul(1 / float32(len(m.Vertices)))
}

func (m *Mesh) Init(alloc Allocator) error {
	m.Destroy()
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return errors.New("mesh has no triangles")
	}

	vertices, err := alloc.UploadBuffer(render.Bytes(m.Vertices), vertexUsage)
	if err != nil {
		return errors.Wrap(err, "mesh vertex buffer")
	}
	indices, err := alloc.UploadBuffer(render.Bytes(m.Indices), indexUsage)
	if err != nil {
		vertices.Destroy()
		return errors.Wrap(err, "mesh index buffer")
	}
	m.vertexBuffer = vertices
	m.indexBuffer = indices
	return nil
}

func (m *Mesh) Draw(cmd vulkan.CommandBuffer) {
	if m.vertexBuffer == nil || m.indexBuffer == nil {
		return
	}
	m.recorder.BindVertexBuffer(cmd, m.vertexBuffer)
	m.recorder.BindIndexBuffer(cmd, m.indexBuffer)
	m.recorder.DrawIndexed(cmd, uint32(len(m.Indices)))
}

func (m *Mesh) Destroy() {
	m.vertexBuffer.Destroy()
	m.indexBuffer.Destroy()
	m.vertexBuffer = nil
	m.indexBuffer = nil
}
