package render

import (
	"github.com/vulkan-go/vulkan"
)

// UniformBuffer is a small host-coherent buffer the shaders read parameters from.
type UniformBuffer struct {
	*Buffer
}

func (c *Context) CreateUniformBuffer(size int) (*UniformBuffer, error) {
	buffer, err := c.CreateBuffer(size,
		vulkan.BufferUsageFlags(vulkan.BufferUsageUniformBufferBit),
		vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyHostVisibleBit|vulkan.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	return &UniformBuffer{Buffer: buffer}, nil
}

// SendData copies data into the buffer at offset.
func (u *UniformBuffer) SendData(data []byte, offset int) error {
	return u.Write(data, offset)
}
