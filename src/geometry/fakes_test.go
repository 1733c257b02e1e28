package geometry

import (
	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/vulkan"

	"opticloud/src/render"
)

// cmd stands in for a command buffer, the fakes never record into it.
var cmd vulkan.CommandBuffer

// fakeAllocator hands out buffers without device handles, Destroy on them is a no-op.
type fakeAllocator struct {
	created  []int
	uploaded [][]byte
	usages   []vulkan.BufferUsageFlags
	fail     bool
}

func (f *fakeAllocator) CreateBuffer(size int, usage vulkan.BufferUsageFlags, _ vulkan.MemoryPropertyFlags) (*render.Buffer, error) {
	if f.fail {
		return nil, errors.New("out of device memory")
	}
	f.created = append(f.created, size)
	f.usages = append(f.usages, usage)
	return &render.Buffer{Size: size}, nil
}

func (f *fakeAllocator) UploadBuffer(data []byte, usage vulkan.BufferUsageFlags) (*render.Buffer, error) {
	if f.fail {
		return nil, errors.New("out of device memory")
	}
	f.uploaded = append(f.uploaded, append([]byte(nil), data...))
	f.usages = append(f.usages, usage)
	return &render.Buffer{Size: len(data)}, nil
}

type draw struct {
	buffer       *render.Buffer
	first, count uint32
	indexed      bool
}

// recorder keeps the draws instead of recording them.
type recorder struct {
	bound   *render.Buffer
	indices *render.Buffer
	draws   []draw
}

func (r *recorder) BindVertexBuffer(_ vulkan.CommandBuffer, buffer *render.Buffer) { r.bound = buffer }

func (r *recorder) BindIndexBuffer(_ vulkan.CommandBuffer, buffer *render.Buffer) { r.indices = buffer }

func (r *recorder) Draw(_ vulkan.CommandBuffer, count, first uint32) {
	r.draws = append(r.draws, draw{buffer: r.bound, first: first, count: count})
}

func (r *recorder) DrawIndexed(_ vulkan.CommandBuffer, count uint32) {
	r.draws = append(r.draws, draw{buffer: r.bound, count: count, indexed: true})
}

func (r *recorder) counts() []uint32 {
	out := make([]uint32, 0, len(r.draws))
	for _, d := range r.draws {
		out = append(out, d.count)
	}
	return out
}
