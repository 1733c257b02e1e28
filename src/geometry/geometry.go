// Package geometry holds the drawable containers of the renderer: the
// progressive point cloud, plain point clouds and indexed meshes.
package geometry

import (
	"github.com/vulkan-go/vulkan"

	"opticloud/src/render"
)

// Allocator creates the buffers a container owns. *render.Context implements it.
type Allocator interface {
	CreateBuffer(size int, usage vulkan.BufferUsageFlags, props vulkan.MemoryPropertyFlags) (*render.Buffer, error)
	UploadBuffer(data []byte, usage vulkan.BufferUsageFlags) (*render.Buffer, error)
}

// Recorder records the draw commands of a container. render.Recorder implements it.
type Recorder interface {
	BindVertexBuffer(cmd vulkan.CommandBuffer, buffer *render.Buffer)
	BindIndexBuffer(cmd vulkan.CommandBuffer, buffer *render.Buffer)
	Draw(cmd vulkan.CommandBuffer, vertexCount, firstVertex uint32)
	DrawIndexed(cmd vulkan.CommandBuffer, indexCount uint32)
}

var (
	_ Allocator = (*render.Context)(nil)
	_ Recorder  = render.Recorder{}
)

const (
	vertexUsage  = vulkan.BufferUsageFlags(vulkan.BufferUsageVertexBufferBit)
	storageUsage = vulkan.BufferUsageFlags(vulkan.BufferUsageVertexBufferBit | vulkan.BufferUsageStorageBufferBit)
	indexUsage   = vulkan.BufferUsageFlags(vulkan.BufferUsageIndexBufferBit)
)
