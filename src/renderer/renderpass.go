package renderer

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/vulkan"

	"opticloud/src/render"
)

// Attachment indices of the main render pass.
const (
	ColorAttachment = iota
	VertexIndexAttachment
	DepthAttachment
)

// Subpasses of the main render pass.
const (
	GradientSubpass = iota
	CloudSubpass
	CompositeSubpass
)

const VertexIndexFormat = vulkan.FormatR32Sint

// NoPoint marks a pixel of the vertex index image no point was drawn to.
const NoPoint int32 = -1

type RenderPassDescription struct {
	Attachments  []vulkan.AttachmentDescription
	Subpasses    []vulkan.SubpassDescription
	Dependencies []vulkan.SubpassDependency
}

// DescribeRenderPass lays out the gradient, cloud and composite subpasses
// over the swapchain color, the vertex index image and the depth buffer.
func DescribeRenderPass(colorFormat, depthFormat vulkan.Format) RenderPassDescription {
	colorRef := vulkan.AttachmentReference{
		Attachment: ColorAttachment,
		Layout:     vulkan.ImageLayoutColorAttachmentOptimal,
	}
	indexRef := vulkan.AttachmentReference{
		Attachment: VertexIndexAttachment,
		Layout:     vulkan.ImageLayoutColorAttachmentOptimal,
	}
	depthRef := vulkan.AttachmentReference{
		Attachment: DepthAttachment,
		Layout:     vulkan.ImageLayoutDepthStencilAttachmentOptimal,
	}

	byRegion := vulkan.DependencyFlags(vulkan.DependencyByRegionBit)
	colorOutput := vulkan.PipelineStageFlags(vulkan.PipelineStageColorAttachmentOutputBit)
	colorWrite := vulkan.AccessFlags(vulkan.AccessColorAttachmentWriteBit)

	return RenderPassDescription{
		Attachments: []vulkan.AttachmentDescription{{
			Format:         colorFormat,
			Samples:        vulkan.SampleCount1Bit,
			LoadOp:         vulkan.AttachmentLoadOpClear,
			StoreOp:        vulkan.AttachmentStoreOpStore,
			StencilLoadOp:  vulkan.AttachmentLoadOpDontCare,
			StencilStoreOp: vulkan.AttachmentStoreOpDontCare,
			InitialLayout:  vulkan.ImageLayoutUndefined,
			FinalLayout:    vulkan.ImageLayoutPresentSrc,
		}, {
			Format:         VertexIndexFormat,
			Samples:        vulkan.SampleCount1Bit,
			LoadOp:         vulkan.AttachmentLoadOpClear,
			StoreOp:        vulkan.AttachmentStoreOpStore,
			StencilLoadOp:  vulkan.AttachmentLoadOpDontCare,
			StencilStoreOp: vulkan.AttachmentStoreOpDontCare,
			InitialLayout:  vulkan.ImageLayoutUndefined,
			FinalLayout:    vulkan.ImageLayoutGeneral,
		}, {
			Format:         depthFormat,
			Samples:        vulkan.SampleCount1Bit,
			LoadOp:         vulkan.AttachmentLoadOpClear,
			StoreOp:        vulkan.AttachmentStoreOpDontCare,
			StencilLoadOp:  vulkan.AttachmentLoadOpDontCare,
			StencilStoreOp: vulkan.AttachmentStoreOpDontCare,
			InitialLayout:  vulkan.ImageLayoutUndefined,
			FinalLayout:    vulkan.ImageLayoutDepthStencilAttachmentOptimal,
		}},
		Subpasses: []vulkan.SubpassDescription{{
			PipelineBindPoint:    vulkan.PipelineBindPointGraphics,
			ColorAttachmentCount: 1,
			PColorAttachments:    []vulkan.AttachmentReference{colorRef},
		}, {
			PipelineBindPoint:       vulkan.PipelineBindPointGraphics,
			ColorAttachmentCount:    2,
			PColorAttachments:       []vulkan.AttachmentReference{colorRef, indexRef},
			PDepthStencilAttachment: &depthRef,
		}, {
			PipelineBindPoint:       vulkan.PipelineBindPointGraphics,
			ColorAttachmentCount:    1,
			PColorAttachments:       []vulkan.AttachmentReference{colorRef},
			PDepthStencilAttachment: &depthRef,
		}},
		Dependencies: []vulkan.SubpassDependency{{
			SrcSubpass:      vulkan.SubpassExternal,
			DstSubpass:      GradientSubpass,
			SrcStageMask:    vulkan.PipelineStageFlags(vulkan.PipelineStageBottomOfPipeBit),
			DstStageMask:    colorOutput,
			DstAccessMask:   colorWrite,
			DependencyFlags: byRegion,
		}, {
			SrcSubpass:      GradientSubpass,
			DstSubpass:      CloudSubpass,
			SrcStageMask:    colorOutput,
			DstStageMask:    vulkan.PipelineStageFlags(vulkan.PipelineStageFragmentShaderBit),
			SrcAccessMask:   colorWrite,
			DstAccessMask:   vulkan.AccessFlags(vulkan.AccessShaderReadBit),
			DependencyFlags: byRegion,
		}, {
			SrcSubpass:      CloudSubpass,
			DstSubpass:      CompositeSubpass,
			SrcStageMask:    colorOutput,
			DstStageMask:    vulkan.PipelineStageFlags(vulkan.PipelineStageFragmentShaderBit),
			SrcAccessMask:   colorWrite,
			DstAccessMask:   vulkan.AccessFlags(vulkan.AccessShaderReadBit),
			DependencyFlags: byRegion,
		}},
	}
}

func CreateRenderPass(device vulkan.Device, desc RenderPassDescription) (vulkan.RenderPass, error) {
	var renderPass vulkan.RenderPass
	ret := vulkan.CreateRenderPass(device, &vulkan.RenderPassCreateInfo{
		SType:           vulkan.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(desc.Attachments)),
		PAttachments:    desc.Attachments,
		SubpassCount:    uint32(len(desc.Subpasses)),
		PSubpasses:      desc.Subpasses,
		DependencyCount: uint32(len(desc.Dependencies)),
		PDependencies:   desc.Dependencies,
	}, nil, &renderPass)
	if err := render.NewError(ret); err != nil {
		return vulkan.NullRenderPass, errors.Wrap(err, "create render pass")
	}
	return renderPass, nil
}

// ClearValues clears color to opaque black, the vertex index image to
// NoPoint and depth to the far plane.
func ClearValues() []vulkan.ClearValue {
	return []vulkan.ClearValue{
		vulkan.NewClearValue([]float32{0, 0, 0, 1}),
		clearInt(NoPoint),
		vulkan.NewClearDepthStencil(1, 0),
	}
}

func clearInt(v int32) vulkan.ClearValue {
	var cv vulkan.ClearValue
	c := (*[4]int32)(unsafe.Pointer(&cv))
	c[0], c[1], c[2], c[3] = v, v, v, v
	return cv
}
