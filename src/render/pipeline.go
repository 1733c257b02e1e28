package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/vulkan"
)

// VertexLayout is the part of a graphics pipeline that depends on what kind
// of geometry it draws.
type VertexLayout interface {
	VertexInputState() vulkan.PipelineVertexInputStateCreateInfo
	InputAssemblyState() vulkan.PipelineInputAssemblyStateCreateInfo
	RasterizationState() vulkan.PipelineRasterizationStateCreateInfo
}

// MeshLayout draws indexed triangle lists. The zero PolygonMode is fill.
type MeshLayout struct {
	Binding     vulkan.VertexInputBindingDescription
	Attributes  []vulkan.VertexInputAttributeDescription
	PolygonMode vulkan.PolygonMode
}

func (l MeshLayout) VertexInputState() vulkan.PipelineVertexInputStateCreateInfo {
	return vertexInput(l.Binding, l.Attributes)
}

func (l MeshLayout) InputAssemblyState() vulkan.PipelineInputAssemblyStateCreateInfo {
	return vulkan.PipelineInputAssemblyStateCreateInfo{
		SType:    vulkan.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology: vulkan.PrimitiveTopologyTriangleList,
	}
}

func (l MeshLayout) RasterizationState() vulkan.PipelineRasterizationStateCreateInfo {
	return vulkan.PipelineRasterizationStateCreateInfo{
		SType:       vulkan.StructureTypePipelineRasterizationStateCreateInfo,
		PolygonMode: l.PolygonMode,
		CullMode:    vulkan.CullModeFlags(vulkan.CullModeNone),
		FrontFace:   vulkan.FrontFaceCounterClockwise,
		LineWidth:   1.0,
	}
}

// CloudLayout draws point lists.
type CloudLayout struct {
	Binding    vulkan.VertexInputBindingDescription
	Attributes []vulkan.VertexInputAttributeDescription
}

func (l CloudLayout) VertexInputState() vulkan.PipelineVertexInputStateCreateInfo {
	return vertexInput(l.Binding, l.Attributes)
}

func (l CloudLayout) InputAssemblyState() vulkan.PipelineInputAssemblyStateCreateInfo {
	return vulkan.PipelineInputAssemblyStateCreateInfo{
		SType:    vulkan.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology: vulkan.PrimitiveTopologyPointList,
	}
}

func (l CloudLayout) RasterizationState() vulkan.PipelineRasterizationStateCreateInfo {
	return vulkan.PipelineRasterizationStateCreateInfo{
		SType:       vulkan.StructureTypePipelineRasterizationStateCreateInfo,
		PolygonMode: vulkan.PolygonModeFill,
		CullMode:    vulkan.CullModeFlags(vulkan.CullModeNone),
		FrontFace:   vulkan.FrontFaceCounterClockwise,
		LineWidth:   1.0,
	}
}

func vertexInput(binding vulkan.VertexInputBindingDescription, attrs []vulkan.VertexInputAttributeDescription) vulkan.PipelineVertexInputStateCreateInfo {
	return vulkan.PipelineVertexInputStateCreateInfo{
		SType:                           vulkan.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   1,
		PVertexBindingDescriptions:      []vulkan.VertexInputBindingDescription{binding},
		VertexAttributeDescriptionCount: uint32(len(attrs)),
		PVertexAttributeDescriptions:    attrs,
	}
}

// PipelineInfo is what a graphics pipeline is built from. Shaders are read
// from ShaderBase + "_vert.spv" and ShaderBase + "_frag.spv".
type PipelineInfo struct {
	Layout      VertexLayout
	Pipeline    vulkan.PipelineLayout
	RenderPass  vulkan.RenderPass
	Subpass     uint32
	ShaderBase  string
	Width       uint32
	Height      uint32
	Attachments uint32
}

type Pipeline struct {
	pipeline vulkan.Pipeline
	device   vulkan.Device
}

func NewPipeline(device vulkan.Device) *Pipeline {
	return &Pipeline{device: device}
}

func (p *Pipeline) Handle() vulkan.Pipeline { return p.pipeline }

// Create (re)builds the pipeline. Viewport and scissor are baked in, so the
// pipeline has to be rebuilt whenever the swapchain extent changes.
func (p *Pipeline) Create(info PipelineInfo) error {
	p.Destroy()

	vert, err := LoadShader(p.device, info.ShaderBase+"_vert.spv")
	if err != nil {
		return err
	}
	defer DestroyShader(p.device, vert)
	frag, err := LoadShader(p.device, info.ShaderBase+"_frag.spv")
	if err != nil {
		return err
	}
	defer DestroyShader(p.device, frag)
	if vert == vulkan.NullShaderModule || frag == vulkan.NullShaderModule {
		return errors.Newf("pipeline %s: missing shader stage", info.ShaderBase)
	}

	vertexInput := info.Layout.VertexInputState()
	inputAssembly := info.Layout.InputAssemblyState()
	rasterization := info.Layout.RasterizationState()

	blend := make([]vulkan.PipelineColorBlendAttachmentState, info.Attachments)
	for i := range blend {
		blend[i] = vulkan.PipelineColorBlendAttachmentState{
			ColorWriteMask: vulkan.ColorComponentFlags(vulkan.ColorComponentRBit | vulkan.ColorComponentGBit |
				vulkan.ColorComponentBBit | vulkan.ColorComponentABit),
			BlendEnable: vulkan.False,
		}
	}

	pipelines := make([]vulkan.Pipeline, 1)
	ret := vulkan.CreateGraphicsPipelines(p.device, vulkan.PipelineCache(vulkan.NullHandle), 1, []vulkan.GraphicsPipelineCreateInfo{{
		SType:      vulkan.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: 2,
		PStages: []vulkan.PipelineShaderStageCreateInfo{{
			SType:  vulkan.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vulkan.ShaderStageVertexBit,
			Module: vert,
			PName:  "main\x00",
		}, {
			SType:  vulkan.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vulkan.ShaderStageFragmentBit,
			Module: frag,
			PName:  "main\x00",
		}},
		PVertexInputState:   &vertexInput,
		PInputAssemblyState: &inputAssembly,
		PRasterizationState: &rasterization,
		PViewportState: &vulkan.PipelineViewportStateCreateInfo{
			SType:         vulkan.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			PViewports: []vulkan.Viewport{{
				Width:    float32(info.Width),
				Height:   float32(info.Height),
				MaxDepth: 1,
			}},
			ScissorCount: 1,
			PScissors: []vulkan.Rect2D{{
				Extent: vulkan.Extent2D{Width: info.Width, Height: info.Height},
			}},
		},
		PMultisampleState: &vulkan.PipelineMultisampleStateCreateInfo{
			SType:                vulkan.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vulkan.SampleCount1Bit,
		},
		PDepthStencilState: &vulkan.PipelineDepthStencilStateCreateInfo{
			SType:            vulkan.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthTestEnable:  vulkan.True,
			DepthWriteEnable: vulkan.True,
			DepthCompareOp:   vulkan.CompareOpLess,
			MaxDepthBounds:   1,
		},
		PColorBlendState: &vulkan.PipelineColorBlendStateCreateInfo{
			SType:           vulkan.StructureTypePipelineColorBlendStateCreateInfo,
			LogicOp:         vulkan.LogicOpCopy,
			AttachmentCount: uint32(len(blend)),
			PAttachments:    blend,
		},
		Layout:     info.Pipeline,
		RenderPass: info.RenderPass,
		Subpass:    info.Subpass,
	}}, nil, pipelines)
	if err := NewError(ret); err != nil {
		return errors.Wrapf(err, "create pipeline %s", info.ShaderBase)
	}
	p.pipeline = pipelines[0]
	return nil
}

func (p *Pipeline) Destroy() {
	if p.pipeline == vulkan.NullPipeline {
		return
	}
	vulkan.DestroyPipeline(p.device, p.pipeline, nil)
	p.pipeline = vulkan.NullPipeline
}
