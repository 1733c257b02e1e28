package render

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/vulkan"
)

// Buffer is a vulkan buffer together with the memory bound to it.
type Buffer struct {
	Buffer vulkan.Buffer
	Memory vulkan.DeviceMemory
	Size   int

	device vulkan.Device
}

// CreateBuffer allocates a buffer of size bytes with memory matching props.
func (c *Context) CreateBuffer(size int, usage vulkan.BufferUsageFlags, props vulkan.MemoryPropertyFlags) (*Buffer, error) {
	var buffer vulkan.Buffer
	ret := vulkan.CreateBuffer(c.device, &vulkan.BufferCreateInfo{
		SType:       vulkan.StructureTypeBufferCreateInfo,
		Size:        vulkan.DeviceSize(size),
		Usage:       usage,
		SharingMode: vulkan.SharingModeExclusive,
	}, nil, &buffer)
	if err := NewError(ret); err != nil {
		return nil, errors.Wrapf(err, "create buffer of %d bytes", size)
	}

	var req vulkan.MemoryRequirements
	vulkan.GetBufferMemoryRequirements(c.device, buffer, &req)
	req.Deref()

	memType, err := c.FindMemoryType(req.MemoryTypeBits, props)
	if err != nil {
		vulkan.DestroyBuffer(c.device, buffer, nil)
		return nil, err
	}

	var memory vulkan.DeviceMemory
	ret = vulkan.AllocateMemory(c.device, &vulkan.MemoryAllocateInfo{
		SType:           vulkan.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: memType,
	}, nil, &memory)
	if err := NewError(ret); err != nil {
		vulkan.DestroyBuffer(c.device, buffer, nil)
		return nil, errors.Wrapf(err, "allocate %d bytes", req.Size)
	}
	if err := NewError(vulkan.BindBufferMemory(c.device, buffer, memory, 0)); err != nil {
		vulkan.DestroyBuffer(c.device, buffer, nil)
		vulkan.FreeMemory(c.device, memory, nil)
		return nil, errors.Wrap(err, "bind buffer memory")
	}

	return &Buffer{
		Buffer: buffer,
		Memory: memory,
		Size:   size,
		device: c.device,
	}, nil
}

// UploadBuffer copies data into a new device-local buffer through a
// host-visible staging buffer. It returns once the copy has completed.
func (c *Context) UploadBuffer(data []byte, usage vulkan.BufferUsageFlags) (*Buffer, error) {
	staging, err := c.CreateBuffer(len(data),
		vulkan.BufferUsageFlags(vulkan.BufferUsageTransferSrcBit),
		vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyHostVisibleBit|vulkan.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, errors.Wrap(err, "staging buffer")
	}
	defer staging.Destroy()

	if err := staging.Write(data, 0); err != nil {
		return nil, err
	}

	buffer, err := c.CreateBuffer(len(data),
		usage|vulkan.BufferUsageFlags(vulkan.BufferUsageTransferDstBit),
		vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return nil, err
	}
	err = c.RunOnce(func(cmd vulkan.CommandBuffer) {
		vulkan.CmdCopyBuffer(cmd, staging.Buffer, buffer.Buffer, 1, []vulkan.BufferCopy{{
			Size: vulkan.DeviceSize(len(data)),
		}})
	})
	if err != nil {
		buffer.Destroy()
		return nil, errors.Wrap(err, "copy staging buffer")
	}
	return buffer, nil
}

// Write maps the buffer and copies data at offset. The memory must be host visible.
func (b *Buffer) Write(data []byte, offset int) error {
	if len(data) == 0 {
		return nil
	}
	if offset+len(data) > b.Size {
		return errors.Newf("write of %d bytes at %d overflows buffer of %d", len(data), offset, b.Size)
	}
	var mapped unsafe.Pointer
	ret := vulkan.MapMemory(b.device, b.Memory, vulkan.DeviceSize(offset), vulkan.DeviceSize(len(data)), 0, &mapped)
	if err := NewError(ret); err != nil {
		return errors.Wrap(err, "map buffer memory")
	}
	vulkan.Memcopy(mapped, data)
	vulkan.UnmapMemory(b.device, b.Memory)
	return nil
}

// Destroy releases the buffer and its memory. Calling it twice is a no-op.
func (b *Buffer) Destroy() {
	if b == nil || b.Buffer == vulkan.NullBuffer {
		return
	}
	vulkan.DestroyBuffer(b.device, b.Buffer, nil)
	vulkan.FreeMemory(b.device, b.Memory, nil)
	b.Buffer = vulkan.NullBuffer
	b.Memory = vulkan.NullDeviceMemory
	b.Size = 0
}

// Bytes views a slice of fixed-layout values as raw bytes without copying.
func Bytes[T any](values []T) []byte {
	if len(values) == 0 {
		return nil
	}
	size := len(values) * int(unsafe.Sizeof(values[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), size)
}

// ValueBytes views a single fixed-layout value as raw bytes.
func ValueBytes[T any](value *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(value)), int(unsafe.Sizeof(*value)))
}
