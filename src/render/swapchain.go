package render

import (
	"log"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/vulkan"
)

type SwapchainDimensions struct {
	Width  uint32
	Height uint32
	Format vulkan.Format
}

// SwapchainImageResources groups what is created per presentable image.
type SwapchainImageResources struct {
	Image       vulkan.Image
	View        vulkan.ImageView
	Framebuffer vulkan.Framebuffer
}

// Swapchain owns the presentable images, their views and framebuffers.
type Swapchain struct {
	ctx *Context

	swapchain   vulkan.Swapchain
	dimensions  SwapchainDimensions
	colorSpace  vulkan.ColorSpace
	presentMode vulkan.PresentMode
	resources   []*SwapchainImageResources
}

func NewSwapchain(ctx *Context) *Swapchain {
	return &Swapchain{ctx: ctx}
}

// ChooseSurfaceFormat prefers BGRA8 sRGB with a non-linear sRGB color space,
// otherwise the first format the surface offers.
func ChooseSurfaceFormat(formats []vulkan.SurfaceFormat) vulkan.SurfaceFormat {
	for _, f := range formats {
		if f.Format == vulkan.FormatB8g8r8a8Srgb && f.ColorSpace == vulkan.ColorSpaceSrgbNonlinear {
			return f
		}
	}
	if len(formats) == 0 {
		return vulkan.SurfaceFormat{Format: vulkan.FormatB8g8r8a8Srgb, ColorSpace: vulkan.ColorSpaceSrgbNonlinear}
	}
	return formats[0]
}

// ChoosePresentMode prefers mailbox and falls back to FIFO, which every
// implementation supports.
func ChoosePresentMode(modes []vulkan.PresentMode) vulkan.PresentMode {
	for _, m := range modes {
		if m == vulkan.PresentModeMailbox {
			return m
		}
	}
	return vulkan.PresentModeFifo
}

// ChooseSwapExtent uses the surface's current extent when it is fixed and
// clamps the requested size otherwise. Extents must be dereferenced.
func ChooseSwapExtent(caps vulkan.SurfaceCapabilities, width, height uint32) vulkan.Extent2D {
	if caps.CurrentExtent.Width != math.MaxUint32 {
		return caps.CurrentExtent
	}
	return vulkan.Extent2D{
		Width:  clamp(width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image more than the minimum, capped by the
// maximum. A zero maximum means unlimited.
func ChooseImageCount(caps vulkan.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

func clamp(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func surfaceSupport(gpu vulkan.PhysicalDevice, surface vulkan.Surface) ([]vulkan.SurfaceFormat, []vulkan.PresentMode) {
	var formatCount uint32
	vulkan.GetPhysicalDeviceSurfaceFormats(gpu, surface, &formatCount, nil)
	formats := make([]vulkan.SurfaceFormat, formatCount)
	vulkan.GetPhysicalDeviceSurfaceFormats(gpu, surface, &formatCount, formats)
	for i := range formats {
		formats[i].Deref()
	}

	var modeCount uint32
	vulkan.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &modeCount, nil)
	modes := make([]vulkan.PresentMode, modeCount)
	vulkan.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &modeCount, modes)
	return formats, modes
}

func (s *Swapchain) capabilities() (vulkan.SurfaceCapabilities, error) {
	var caps vulkan.SurfaceCapabilities
	ret := vulkan.GetPhysicalDeviceSurfaceCapabilities(s.ctx.PhysicalDevice(), s.ctx.Surface(), &caps)
	if err := NewError(ret); err != nil {
		return caps, errors.Mark(errors.Wrap(err, "query surface capabilities"), ErrNoSurfaceSupport)
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return caps, nil
}

// SurfaceExtent is the extent Init would pick for the requested size. A
// minimized window reports 0x0.
func (s *Swapchain) SurfaceExtent(width, height uint32) (vulkan.Extent2D, error) {
	caps, err := s.capabilities()
	if err != nil {
		return vulkan.Extent2D{}, err
	}
	return ChooseSwapExtent(caps, width, height), nil
}

// Init creates the swapchain and one view per image for the requested size.
func (s *Swapchain) Init(width, height uint32) error {
	gpu := s.ctx.PhysicalDevice()
	surface := s.ctx.Surface()

	caps, err := s.capabilities()
	if err != nil {
		return err
	}

	formats, modes := surfaceSupport(gpu, surface)
	if len(formats) == 0 || len(modes) == 0 {
		return ErrNoSurfaceSupport
	}

	format := ChooseSurfaceFormat(formats)
	mode := ChoosePresentMode(modes)
	extent := ChooseSwapExtent(caps, width, height)

	info := vulkan.SwapchainCreateInfo{
		SType:            vulkan.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    ChooseImageCount(caps),
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vulkan.ImageUsageFlags(vulkan.ImageUsageColorAttachmentBit),
		ImageSharingMode: vulkan.SharingModeExclusive,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vulkan.CompositeAlphaOpaqueBit,
		PresentMode:      mode,
		Clipped:          vulkan.True,
		OldSwapchain:     vulkan.NullSwapchain,
	}
	families := s.ctx.Families()
	if families.Graphics != families.Present {
		info.ImageSharingMode = vulkan.SharingModeConcurrent
		info.QueueFamilyIndexCount = 2
		info.PQueueFamilyIndices = []uint32{families.Graphics, families.Present}
	}

	device := s.ctx.Device()
	var swapchain vulkan.Swapchain
	if err := NewError(vulkan.CreateSwapchain(device, &info, nil, &swapchain)); err != nil {
		return errors.Wrap(err, "create swapchain")
	}
	s.swapchain = swapchain
	s.dimensions = SwapchainDimensions{
		Width:  extent.Width,
		Height: extent.Height,
		Format: format.Format,
	}
	s.colorSpace = format.ColorSpace
	s.presentMode = mode

	var count uint32
	if err := NewError(vulkan.GetSwapchainImages(device, swapchain, &count, nil)); err != nil {
		return errors.Wrap(err, "get swapchain images")
	}
	images := make([]vulkan.Image, count)
	if err := NewError(vulkan.GetSwapchainImages(device, swapchain, &count, images)); err != nil {
		return errors.Wrap(err, "get swapchain images")
	}

	s.resources = make([]*SwapchainImageResources, 0, count)
	for _, image := range images {
		view, err := CreateImageView(device, image, format.Format, vulkan.ImageAspectFlags(vulkan.ImageAspectColorBit))
		if err != nil {
			s.Destroy()
			return err
		}
		s.resources = append(s.resources, &SwapchainImageResources{
			Image: image,
			View:  view,
		})
	}

	log.Printf("swapchain: %dx%d, %d images, present mode %d", extent.Width, extent.Height, count, mode)
	return nil
}

// CreateFramebuffers builds one framebuffer per image from the image view
// followed by the shared extra attachments.
func (s *Swapchain) CreateFramebuffers(renderPass vulkan.RenderPass, extra ...vulkan.ImageView) error {
	device := s.ctx.Device()
	for _, res := range s.resources {
		attachments := append([]vulkan.ImageView{res.View}, extra...)
		var fb vulkan.Framebuffer
		ret := vulkan.CreateFramebuffer(device, &vulkan.FramebufferCreateInfo{
			SType:           vulkan.StructureTypeFramebufferCreateInfo,
			RenderPass:      renderPass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           s.dimensions.Width,
			Height:          s.dimensions.Height,
			Layers:          1,
		}, nil, &fb)
		if err := NewError(ret); err != nil {
			return errors.Wrap(err, "create framebuffer")
		}
		res.Framebuffer = fb
	}
	return nil
}

// AcquireNextImage returns the next presentable image. outdated reports that
// the surface changed and everything sized after it must be rebuilt.
func (s *Swapchain) AcquireNextImage(signal vulkan.Semaphore) (imageIndex int, outdated bool, err error) {
	var idx uint32
	ret := vulkan.AcquireNextImage(s.ctx.Device(), s.swapchain, vulkan.MaxUint64, signal, vulkan.NullFence, &idx)
	switch ret {
	case vulkan.Success, vulkan.Suboptimal:
		return int(idx), false, nil
	case vulkan.ErrorOutOfDate:
		return 0, true, nil
	}
	return 0, false, errors.Wrap(NewError(ret), "acquire next image")
}

// PresentImage queues imageIndex for presentation once wait is signaled.
func (s *Swapchain) PresentImage(wait vulkan.Semaphore, imageIndex int) (outdated bool, err error) {
	ret := vulkan.QueuePresent(s.ctx.PresentQueue(), &vulkan.PresentInfo{
		SType:              vulkan.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vulkan.Semaphore{wait},
		SwapchainCount:     1,
		PSwapchains:        []vulkan.Swapchain{s.swapchain},
		PImageIndices:      []uint32{uint32(imageIndex)},
	})
	switch ret {
	case vulkan.Success:
		return false, nil
	case vulkan.ErrorOutOfDate, vulkan.Suboptimal:
		return true, nil
	}
	return false, errors.Wrap(NewError(ret), "present image")
}

func (s *Swapchain) Dimensions() SwapchainDimensions { return s.dimensions }
func (s *Swapchain) ImageResources() []*SwapchainImageResources { return s.resources }
func (s *Swapchain) ImageCount() int { return len(s.resources) }
func (s *Swapchain) Framebuffer(imageIndex int) vulkan.Framebuffer { return s.resources[imageIndex].Framebuffer }

// Destroy waits for presentation to drain, then releases framebuffers, image
// views and the swapchain itself.
func (s *Swapchain) Destroy() {
	device := s.ctx.Device()
	if err := NewError(vulkan.QueueWaitIdle(s.ctx.PresentQueue())); err != nil {
		log.Printf("swapchain: present queue wait idle: %v", err)
	}

	for _, res := range s.resources {
		if res.Framebuffer != vulkan.NullFramebuffer {
			vulkan.DestroyFramebuffer(device, res.Framebuffer, nil)
			res.Framebuffer = vulkan.NullFramebuffer
		}
	}
	for _, res := range s.resources {
		if res.View != vulkan.NullImageView {
			vulkan.DestroyImageView(device, res.View, nil)
			res.View = vulkan.NullImageView
		}
	}
	s.resources = nil
	if s.swapchain != vulkan.NullSwapchain {
		vulkan.DestroySwapchain(device, s.swapchain, nil)
		s.swapchain = vulkan.NullSwapchain
	}
}
