package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/vulkan"
)

// Image is a 2D image, its memory and a view over it.
type Image struct {
	Image  vulkan.Image
	Memory vulkan.DeviceMemory
	View   vulkan.ImageView
	Format vulkan.Format
	Width  uint32
	Height uint32

	device vulkan.Device
}

type ImageInfo struct {
	Width, Height uint32
	Format        vulkan.Format
	Usage         vulkan.ImageUsageFlags
	Aspect        vulkan.ImageAspectFlags
}

func (c *Context) CreateImage(info ImageInfo) (*Image, error) {
	var image vulkan.Image
	ret := vulkan.CreateImage(c.device, &vulkan.ImageCreateInfo{
		SType:     vulkan.StructureTypeImageCreateInfo,
		ImageType: vulkan.ImageType2d,
		Format:    info.Format,
		Extent: vulkan.Extent3D{
			Width:  info.Width,
			Height: info.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vulkan.SampleCount1Bit,
		Tiling:        vulkan.ImageTilingOptimal,
		Usage:         info.Usage,
		SharingMode:   vulkan.SharingModeExclusive,
		InitialLayout: vulkan.ImageLayoutUndefined,
	}, nil, &image)
	if err := NewError(ret); err != nil {
		return nil, errors.Wrapf(err, "create %dx%d image", info.Width, info.Height)
	}

	var req vulkan.MemoryRequirements
	vulkan.GetImageMemoryRequirements(c.device, image, &req)
	req.Deref()

	memType, err := c.FindMemoryType(req.MemoryTypeBits, vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyDeviceLocalBit))
	if err != nil {
		vulkan.DestroyImage(c.device, image, nil)
		return nil, err
	}
	var memory vulkan.DeviceMemory
	ret = vulkan.AllocateMemory(c.device, &vulkan.MemoryAllocateInfo{
		SType:           vulkan.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: memType,
	}, nil, &memory)
	if err := NewError(ret); err != nil {
		vulkan.DestroyImage(c.device, image, nil)
		return nil, errors.Wrap(err, "allocate image memory")
	}
	if err := NewError(vulkan.BindImageMemory(c.device, image, memory, 0)); err != nil {
		vulkan.DestroyImage(c.device, image, nil)
		vulkan.FreeMemory(c.device, memory, nil)
		return nil, errors.Wrap(err, "bind image memory")
	}

	view, err := CreateImageView(c.device, image, info.Format, info.Aspect)
	if err != nil {
		vulkan.DestroyImage(c.device, image, nil)
		vulkan.FreeMemory(c.device, memory, nil)
		return nil, err
	}

	return &Image{
		Image:  image,
		Memory: memory,
		View:   view,
		Format: info.Format,
		Width:  info.Width,
		Height: info.Height,
		device: c.device,
	}, nil
}

func CreateImageView(device vulkan.Device, image vulkan.Image, format vulkan.Format, aspect vulkan.ImageAspectFlags) (vulkan.ImageView, error) {
	var view vulkan.ImageView
	ret := vulkan.CreateImageView(device, &vulkan.ImageViewCreateInfo{
		SType:    vulkan.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vulkan.ImageViewType2d,
		Format:   format,
		Components: vulkan.ComponentMapping{
			R: vulkan.ComponentSwizzleIdentity,
			G: vulkan.ComponentSwizzleIdentity,
			B: vulkan.ComponentSwizzleIdentity,
			A: vulkan.ComponentSwizzleIdentity,
		},
		SubresourceRange: vulkan.ImageSubresourceRange{
			AspectMask: aspect,
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	if err := NewError(ret); err != nil {
		return vulkan.NullImageView, errors.Wrap(err, "create image view")
	}
	return view, nil
}

// Barrier holds the access masks and stages of a layout transition.
type Barrier struct {
	SrcAccess vulkan.AccessFlags
	DstAccess vulkan.AccessFlags
	SrcStage  vulkan.PipelineStageFlags
	DstStage  vulkan.PipelineStageFlags
}

// TransitionBarrier returns the barrier for one of the supported layout
// transitions. Any other pair is ErrUnsupportedTransition.
func TransitionBarrier(oldLayout, newLayout vulkan.ImageLayout) (Barrier, error) {
	switch {
	case oldLayout == vulkan.ImageLayoutUndefined && newLayout == vulkan.ImageLayoutTransferDstOptimal:
		return Barrier{
			DstAccess: vulkan.AccessFlags(vulkan.AccessTransferWriteBit),
			SrcStage:  vulkan.PipelineStageFlags(vulkan.PipelineStageTopOfPipeBit),
			DstStage:  vulkan.PipelineStageFlags(vulkan.PipelineStageTransferBit),
		}, nil
	case oldLayout == vulkan.ImageLayoutTransferDstOptimal && newLayout == vulkan.ImageLayoutShaderReadOnlyOptimal:
		return Barrier{
			SrcAccess: vulkan.AccessFlags(vulkan.AccessTransferWriteBit),
			DstAccess: vulkan.AccessFlags(vulkan.AccessShaderReadBit),
			SrcStage:  vulkan.PipelineStageFlags(vulkan.PipelineStageTransferBit),
			DstStage:  vulkan.PipelineStageFlags(vulkan.PipelineStageFragmentShaderBit),
		}, nil
	case oldLayout == vulkan.ImageLayoutUndefined && newLayout == vulkan.ImageLayoutDepthStencilAttachmentOptimal:
		return Barrier{
			DstAccess: vulkan.AccessFlags(vulkan.AccessDepthStencilAttachmentReadBit | vulkan.AccessDepthStencilAttachmentWriteBit),
			SrcStage:  vulkan.PipelineStageFlags(vulkan.PipelineStageTopOfPipeBit),
			DstStage:  vulkan.PipelineStageFlags(vulkan.PipelineStageEarlyFragmentTestsBit),
		}, nil
	case oldLayout == vulkan.ImageLayoutUndefined && newLayout == vulkan.ImageLayoutGeneral:
		return Barrier{
			SrcStage: vulkan.PipelineStageFlags(vulkan.PipelineStageAllCommandsBit),
			DstStage: vulkan.PipelineStageFlags(vulkan.PipelineStageAllCommandsBit),
		}, nil
	}
	return Barrier{}, errors.Wrapf(ErrUnsupportedTransition, "%d -> %d", oldLayout, newLayout)
}

// TransitionLayout moves the image to newLayout with a one-shot command buffer.
func (c *Context) TransitionLayout(img *Image, oldLayout, newLayout vulkan.ImageLayout) error {
	barrier, err := TransitionBarrier(oldLayout, newLayout)
	if err != nil {
		return err
	}

	aspect := vulkan.ImageAspectFlags(vulkan.ImageAspectColorBit)
	if newLayout == vulkan.ImageLayoutDepthStencilAttachmentOptimal {
		aspect = vulkan.ImageAspectFlags(vulkan.ImageAspectDepthBit)
		if HasStencilComponent(img.Format) {
			aspect |= vulkan.ImageAspectFlags(vulkan.ImageAspectStencilBit)
		}
	}

	return c.RunOnce(func(cmd vulkan.CommandBuffer) {
		vulkan.CmdPipelineBarrier(cmd, barrier.SrcStage, barrier.DstStage, 0, 0, nil, 0, nil, 1,
			[]vulkan.ImageMemoryBarrier{{
				SType:               vulkan.StructureTypeImageMemoryBarrier,
				SrcAccessMask:       barrier.SrcAccess,
				DstAccessMask:       barrier.DstAccess,
				OldLayout:           oldLayout,
				NewLayout:           newLayout,
				SrcQueueFamilyIndex: vulkan.QueueFamilyIgnored,
				DstQueueFamilyIndex: vulkan.QueueFamilyIgnored,
				Image:               img.Image,
				SubresourceRange: vulkan.ImageSubresourceRange{
					AspectMask: aspect,
					LevelCount: 1,
					LayerCount: 1,
				},
			}})
	})
}

// Destroy releases the view, the image and its memory. Calling it twice is a no-op.
func (img *Image) Destroy() {
	if img == nil || img.Image == vulkan.NullImage {
		return
	}
	vulkan.DestroyImageView(img.device, img.View, nil)
	vulkan.DestroyImage(img.device, img.Image, nil)
	vulkan.FreeMemory(img.device, img.Memory, nil)
	img.View = vulkan.NullImageView
	img.Image = vulkan.NullImage
	img.Memory = vulkan.NullDeviceMemory
}
