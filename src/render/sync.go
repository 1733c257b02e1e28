package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/vulkan"
)

func CreateSemaphore(device vulkan.Device) (vulkan.Semaphore, error) {
	var sem vulkan.Semaphore
	ret := vulkan.CreateSemaphore(device, &vulkan.SemaphoreCreateInfo{
		SType: vulkan.StructureTypeSemaphoreCreateInfo,
	}, nil, &sem)
	if err := NewError(ret); err != nil {
		return vulkan.Semaphore(vulkan.NullHandle), errors.Wrap(err, "create semaphore")
	}
	return sem, nil
}

// CreateFence creates a fence, already signaled when signaled is set so the
// first wait on it returns immediately.
func CreateFence(device vulkan.Device, signaled bool) (vulkan.Fence, error) {
	info := vulkan.FenceCreateInfo{
		SType: vulkan.StructureTypeFenceCreateInfo,
	}
	if signaled {
		info.Flags = vulkan.FenceCreateFlags(vulkan.FenceCreateSignaledBit)
	}
	var fence vulkan.Fence
	if err := NewError(vulkan.CreateFence(device, &info, nil, &fence)); err != nil {
		return vulkan.NullFence, errors.Wrap(err, "create fence")
	}
	return fence, nil
}

// FrameSync holds the per-slot synchronization of the frames in flight.
type FrameSync struct {
	ImageAvailable []vulkan.Semaphore
	RenderFinished []vulkan.Semaphore
	InFlight       []vulkan.Fence

	device vulkan.Device
}

func NewFrameSync(device vulkan.Device, frames int) (*FrameSync, error) {
	s := &FrameSync{
		ImageAvailable: make([]vulkan.Semaphore, 0, frames),
		RenderFinished: make([]vulkan.Semaphore, 0, frames),
		InFlight:       make([]vulkan.Fence, 0, frames),
		device:         device,
	}
	for i := 0; i < frames; i++ {
		available, err := CreateSemaphore(device)
		if err != nil {
			s.Destroy()
			return nil, err
		}
		s.ImageAvailable = append(s.ImageAvailable, available)

		finished, err := CreateSemaphore(device)
		if err != nil {
			s.Destroy()
			return nil, err
		}
		s.RenderFinished = append(s.RenderFinished, finished)

		fence, err := CreateFence(device, true)
		if err != nil {
			s.Destroy()
			return nil, err
		}
		s.InFlight = append(s.InFlight, fence)
	}
	return s, nil
}

func (s *FrameSync) Destroy() {
	for _, sem := range s.ImageAvailable {
		vulkan.DestroySemaphore(s.device, sem, nil)
	}
	for _, sem := range s.RenderFinished {
		vulkan.DestroySemaphore(s.device, sem, nil)
	}
	for _, fence := range s.InFlight {
		vulkan.DestroyFence(s.device, fence, nil)
	}
	s.ImageAvailable = nil
	s.RenderFinished = nil
	s.InFlight = nil
}
