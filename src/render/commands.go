package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/vulkan"
)

// AllocateCommandBuffers allocates count primary command buffers from pool.
func AllocateCommandBuffers(device vulkan.Device, pool vulkan.CommandPool, count int) ([]vulkan.CommandBuffer, error) {
	buffers := make([]vulkan.CommandBuffer, count)
	if count == 0 {
		return buffers, nil
	}
	ret := vulkan.AllocateCommandBuffers(device, &vulkan.CommandBufferAllocateInfo{
		SType:              vulkan.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              vulkan.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}, buffers)
	if err := NewError(ret); err != nil {
		return nil, errors.Wrap(err, "allocate command buffers")
	}
	return buffers, nil
}

// RunOnce records fn into a throwaway command buffer, submits it to the
// graphics queue and waits for the queue to drain.
func (c *Context) RunOnce(fn func(cmd vulkan.CommandBuffer)) error {
	buffers, err := AllocateCommandBuffers(c.device, c.commandPool, 1)
	if err != nil {
		return err
	}
	cmd := buffers[0]
	defer vulkan.FreeCommandBuffers(c.device, c.commandPool, 1, buffers)

	ret := vulkan.BeginCommandBuffer(cmd, &vulkan.CommandBufferBeginInfo{
		SType: vulkan.StructureTypeCommandBufferBeginInfo,
		Flags: vulkan.CommandBufferUsageFlags(vulkan.CommandBufferUsageOneTimeSubmitBit),
	})
	if err := NewError(ret); err != nil {
		return errors.Wrap(err, "begin one-shot command buffer")
	}
	fn(cmd)
	if err := NewError(vulkan.EndCommandBuffer(cmd)); err != nil {
		return errors.Wrap(err, "end one-shot command buffer")
	}

	ret = vulkan.QueueSubmit(c.graphicsQueue, 1, []vulkan.SubmitInfo{{
		SType:              vulkan.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    buffers,
	}}, vulkan.NullFence)
	if err := NewError(ret); err != nil {
		return errors.Wrap(err, "submit one-shot command buffer")
	}
	return NewError(vulkan.QueueWaitIdle(c.graphicsQueue))
}

// Recorder records draw commands into a command buffer.
type Recorder struct{}

func (Recorder) BindVertexBuffer(cmd vulkan.CommandBuffer, buffer *Buffer) {
	vulkan.CmdBindVertexBuffers(cmd, 0, 1, []vulkan.Buffer{buffer.Buffer}, []vulkan.DeviceSize{0})
}

func (Recorder) BindIndexBuffer(cmd vulkan.CommandBuffer, buffer *Buffer) {
	vulkan.CmdBindIndexBuffer(cmd, buffer.Buffer, 0, vulkan.IndexTypeUint32)
}

func (Recorder) Draw(cmd vulkan.CommandBuffer, vertexCount, firstVertex uint32) {
	vulkan.CmdDraw(cmd, vertexCount, 1, firstVertex, 0)
}

func (Recorder) DrawIndexed(cmd vulkan.CommandBuffer, indexCount uint32) {
	vulkan.CmdDrawIndexed(cmd, indexCount, 1, 0, 0, 0)
}
