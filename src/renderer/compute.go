package renderer

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/vulkan"

	"opticloud/src/render"
)

const (
	computeShader = "prepare_comp.spv"
	workgroupSize = 16
)

// DispatchSize is the number of workgroups covering a width x height image.
func DispatchSize(width, height uint32) (x, y uint32) {
	return (width + workgroupSize - 1) / workgroupSize, (height + workgroupSize - 1) / workgroupSize
}

// ComputeInputs are the resources the reprojection shader binds.
type ComputeInputs struct {
	Points      *render.Buffer
	Reprojected *render.Buffer
	VertexIndex vulkan.ImageView
	ScreenSize  *render.Buffer
	Width       uint32
	Height      uint32
}

// ComputePass maps every pixel of the vertex index image back to the point
// drawn there and writes it to the reprojected buffer. Its command buffer is
// recorded once and replayed every frame, so it is rebuilt with everything
// sized after the swapchain.
type ComputePass struct {
	device *render.Context

	setLayout vulkan.DescriptorSetLayout
	layout    vulkan.PipelineLayout
	pipeline  vulkan.Pipeline
	pool      vulkan.CommandPool
	cmd       vulkan.CommandBuffer
	semaphore vulkan.Semaphore
	fence     vulkan.Fence
}

func NewComputePass(device *render.Context) *ComputePass {
	return &ComputePass{device: device}
}

// Create builds the pass. The descriptor set comes from pool and is freed with it.
func (p *ComputePass) Create(pool *render.DescriptorPool, shaderDir string, in ComputeInputs) (err error) {
	defer func() {
		if err != nil {
			p.Destroy()
		}
	}()
	device := p.device.Device()

	stages := vulkan.ShaderStageComputeBit
	p.setLayout, err = render.CreateDescriptorSetLayout(device, []vulkan.DescriptorSetLayoutBinding{
		render.LayoutBinding(0, vulkan.DescriptorTypeStorageBuffer, stages),
		render.LayoutBinding(1, vulkan.DescriptorTypeStorageBuffer, stages),
		render.LayoutBinding(2, vulkan.DescriptorTypeStorageImage, stages),
		render.LayoutBinding(3, vulkan.DescriptorTypeUniformBuffer, stages),
	})
	if err != nil {
		return err
	}
	if p.layout, err = render.CreatePipelineLayout(device, p.setLayout); err != nil {
		return err
	}

	set, err := pool.Allocate(p.setLayout)
	if err != nil {
		return errors.Wrap(err, "compute descriptor set")
	}
	render.NewDescriptorWriter(set).
		Buffer(0, vulkan.DescriptorTypeStorageBuffer, in.Points).
		Buffer(1, vulkan.DescriptorTypeStorageBuffer, in.Reprojected).
		Image(2, vulkan.DescriptorTypeStorageImage, in.VertexIndex, vulkan.ImageLayoutGeneral).
		Buffer(3, vulkan.DescriptorTypeUniformBuffer, in.ScreenSize).
		Update(device)

	if err = p.createPipeline(filepath.Join(shaderDir, computeShader)); err != nil {
		return err
	}

	ret := vulkan.CreateCommandPool(device, &vulkan.CommandPoolCreateInfo{
		SType:            vulkan.StructureTypeCommandPoolCreateInfo,
		Flags:            vulkan.CommandPoolCreateFlags(vulkan.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: p.device.Families().Compute,
	}, nil, &p.pool)
	if err = render.NewError(ret); err != nil {
		return errors.Wrap(err, "create compute command pool")
	}
	buffers, err := render.AllocateCommandBuffers(device, p.pool, 1)
	if err != nil {
		return err
	}
	p.cmd = buffers[0]

	if p.semaphore, err = render.CreateSemaphore(device); err != nil {
		return err
	}
	if p.fence, err = render.CreateFence(device, true); err != nil {
		return err
	}
	return p.record(set, in.Width, in.Height)
}

func (p *ComputePass) createPipeline(path string) error {
	device := p.device.Device()
	module, err := render.LoadShader(device, path)
	if err != nil {
		return err
	}
	if module == vulkan.NullShaderModule {
		return errors.Newf("compute shader %s is missing", path)
	}
	defer render.DestroyShader(device, module)

	pipelines := make([]vulkan.Pipeline, 1)
	ret := vulkan.CreateComputePipelines(device, vulkan.PipelineCache(vulkan.NullHandle), 1, []vulkan.ComputePipelineCreateInfo{{
		SType: vulkan.StructureTypeComputePipelineCreateInfo,
		Stage: vulkan.PipelineShaderStageCreateInfo{
			SType:  vulkan.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vulkan.ShaderStageComputeBit,
			Module: module,
			PName:  "main\x00",
		},
		Layout: p.layout,
	}}, nil, pipelines)
	if err := render.NewError(ret); err != nil {
		return errors.Wrap(err, "create compute pipeline")
	}
	p.pipeline = pipelines[0]
	return nil
}

func (p *ComputePass) record(set vulkan.DescriptorSet, width, height uint32) error {
	ret := vulkan.BeginCommandBuffer(p.cmd, &vulkan.CommandBufferBeginInfo{
		SType: vulkan.StructureTypeCommandBufferBeginInfo,
	})
	if err := render.NewError(ret); err != nil {
		return errors.Wrap(err, "begin compute command buffer")
	}
	vulkan.CmdBindPipeline(p.cmd, vulkan.PipelineBindPointCompute, p.pipeline)
	vulkan.CmdBindDescriptorSets(p.cmd, vulkan.PipelineBindPointCompute, p.layout, 0, 1,
		[]vulkan.DescriptorSet{set}, 0, nil)
	x, y := DispatchSize(width, height)
	vulkan.CmdDispatch(p.cmd, x, y, 1)
	return errors.Wrap(render.NewError(vulkan.EndCommandBuffer(p.cmd)), "end compute command buffer")
}

// Process submits the pass on the compute queue once wait is signaled.
// signal and the pass fence are signaled when it completes.
func (p *ComputePass) Process(wait, signal vulkan.Semaphore) error {
	if err := p.device.ResetFences(p.fence); err != nil {
		return errors.Wrap(err, "reset compute fence")
	}
	ret := vulkan.QueueSubmit(p.device.ComputeQueue(), 1, []vulkan.SubmitInfo{{
		SType:                vulkan.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vulkan.Semaphore{wait},
		PWaitDstStageMask:    []vulkan.PipelineStageFlags{vulkan.PipelineStageFlags(vulkan.PipelineStageComputeShaderBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vulkan.CommandBuffer{p.cmd},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vulkan.Semaphore{signal},
	}}, p.fence)
	return errors.Wrap(render.NewError(ret), "submit compute pass")
}

// WaitFence blocks until the last submission completed.
func (p *ComputePass) WaitFence() error {
	return errors.Wrap(p.device.WaitForFences(p.fence), "wait compute fence")
}

// Semaphore is what the graphics submission signals and Process waits on.
func (p *ComputePass) Semaphore() vulkan.Semaphore { return p.semaphore }

func (p *ComputePass) Destroy() {
	device := p.device.Device()
	if p.pool != vulkan.NullCommandPool {
		// frees p.cmd as well
		vulkan.DestroyCommandPool(device, p.pool, nil)
		p.pool = vulkan.NullCommandPool
	}
	if p.pipeline != vulkan.NullPipeline {
		vulkan.DestroyPipeline(device, p.pipeline, nil)
		p.pipeline = vulkan.NullPipeline
	}
	if p.layout != vulkan.NullPipelineLayout {
		vulkan.DestroyPipelineLayout(device, p.layout, nil)
		p.layout = vulkan.NullPipelineLayout
	}
	if p.setLayout != vulkan.DescriptorSetLayout(vulkan.NullHandle) {
		vulkan.DestroyDescriptorSetLayout(device, p.setLayout, nil)
		p.setLayout = vulkan.DescriptorSetLayout(vulkan.NullHandle)
	}
	if p.semaphore != vulkan.Semaphore(vulkan.NullHandle) {
		vulkan.DestroySemaphore(device, p.semaphore, nil)
		p.semaphore = vulkan.Semaphore(vulkan.NullHandle)
	}
	if p.fence != vulkan.NullFence {
		vulkan.DestroyFence(device, p.fence, nil)
		p.fence = vulkan.NullFence
	}
}
