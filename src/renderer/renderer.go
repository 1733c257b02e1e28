// Package renderer draws a progressive point cloud. Every frame a chunk of
// the cloud is rasterized into the swapchain image and a vertex index image,
// a compute pass maps the index image back to the points it shows, and the
// next frame redraws that reprojection before adding another chunk.
package renderer

import (
	"context"
	"log"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/vulkan-go/vulkan"

	"opticloud/src/geometry"
	"opticloud/src/render"
)

var _ FrameContext = (*Renderer)(nil)

type pipelineDesc struct {
	name        string
	subpass     uint32
	attachments uint32
	layout      render.VertexLayout
	gradient    bool
}

// pipelineDescs lists the graphics pipelines in the order they are bound.
func pipelineDescs(polygonMode vulkan.PolygonMode) []pipelineDesc {
	mesh := func(mode vulkan.PolygonMode) render.MeshLayout {
		return render.MeshLayout{
			Binding:     geometry.MeshBinding(),
			Attributes:  geometry.MeshAttributes(),
			PolygonMode: mode,
		}
	}
	cloud := render.CloudLayout{
		Binding:    geometry.CloudBinding(),
		Attributes: geometry.CloudAttributes(),
	}
	return []pipelineDesc{
		{name: "gradient", subpass: GradientSubpass, attachments: 1, layout: mesh(vulkan.PolygonModeFill), gradient: true},
		{name: "reprojectcloud", subpass: CloudSubpass, attachments: 2, layout: cloud},
		{name: "opticloud", subpass: CloudSubpass, attachments: 2, layout: render.CloudLayout{
			Binding:    geometry.OptiCloudBinding(),
			Attributes: geometry.OptiCloudAttributes(),
		}},
		{name: "mesh", subpass: CompositeSubpass, attachments: 1, layout: mesh(polygonMode)},
		{name: "cloud", subpass: CompositeSubpass, attachments: 1, layout: cloud},
	}
}

const (
	gradientPipeline = iota
	reprojectedPipeline
	optiCloudPipeline
	meshPipeline
	cloudPipeline
)

type Renderer struct {
	cfg       Config
	device    *render.Context
	swapchain *render.Swapchain
	sync      *render.FrameSync
	view      ViewSource
	loop      *FrameLoop

	optiCloud *geometry.OptiCloud
	quad      *geometry.Mesh
	meshes    []*geometry.Mesh
	clouds    []*geometry.Cloud

	depth       *render.Image
	vertexIndex *render.Image
	renderPass  vulkan.RenderPass

	mainSetLayout     vulkan.DescriptorSetLayout
	gradientSetLayout vulkan.DescriptorSetLayout
	mainLayout        vulkan.PipelineLayout
	gradientLayout    vulkan.PipelineLayout
	pipelines         []*render.Pipeline
	uniforms          Uniforms
	descriptorPool    *render.DescriptorPool
	mainSet           vulkan.DescriptorSet
	gradientSet       vulkan.DescriptorSet
	compute           *ComputePass
	commandBuffers    []vulkan.CommandBuffer

	polygonMode vulkan.PolygonMode
	lighting    LightingConfig
	pointSize   uint32
}

// NewRenderer generates the scene, uploads it and builds everything needed
// to draw into a cfg.Width x cfg.Height swapchain. The device stays owned
// by the caller.
func NewRenderer(ctx context.Context, device *render.Context, cfg Config, view ViewSource) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "renderer config")
	}
	device.SetFenceTimeout(uint64(cfg.FenceTimeout))

	r := &Renderer{
		cfg:         cfg,
		device:      device,
		swapchain:   render.NewSwapchain(device),
		view:        view,
		compute:     NewComputePass(device),
		polygonMode: vulkan.PolygonModeFill,
		lighting:    cfg.Lighting,
		pointSize:   cfg.PointSize,
	}
	for range pipelineDescs(r.polygonMode) {
		r.pipelines = append(r.pipelines, render.NewPipeline(device.Device()))
	}

	if err := r.init(ctx); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) init(ctx context.Context) error {
	if err := r.initGeometry(ctx); err != nil {
		return err
	}
	if err := r.swapchain.Init(r.cfg.Width, r.cfg.Height); err != nil {
		return errors.Wrap(err, "init swapchain")
	}
	if err := r.createSwapchainResources(); err != nil {
		return err
	}
	var err error
	if r.sync, err = render.NewFrameSync(r.device.Device(), MaxFramesInFlight); err != nil {
		return errors.Wrap(err, "create frame sync")
	}
	if err := r.createCommandBuffers(); err != nil {
		return err
	}
	dims := r.swapchain.Dimensions()
	r.loop = NewFrameLoop(r, dims.Width, dims.Height)
	return nil
}

func (r *Renderer) initGeometry(ctx context.Context) error {
	r.quad = geometry.NewQuad()
	if err := r.quad.Init(r.device); err != nil {
		return errors.Wrap(err, "init background quad")
	}

	points, err := geometry.RandomPlane(ctx, r.cfg.PointCount, r.cfg.Seed)
	if err != nil {
		return err
	}
	if r.optiCloud, err = geometry.NewOptiCloud(points, r.cfg.PointsPerStep); err != nil {
		return err
	}
	if err := r.optiCloud.Init(r.device); err != nil {
		return errors.Wrap(err, "init point cloud")
	}

	if g := r.cfg.Galaxy; g.Points > 0 {
		stars, err := geometry.Galaxy(ctx, g.Points, g.Diameter, g.Thickness, mgl32.Vec3{1, 1, 1}, r.cfg.Seed+1)
		if err != nil {
			return err
		}
		if err := r.AddCloud(geometry.NewCloud(stars)); err != nil {
			return err
		}
	}
	if r.cfg.ShowCube {
		if err := r.AddMesh(geometry.NewCube()); err != nil {
			return err
		}
	}
	return nil
}

// createSwapchainResources builds everything sized after the swapchain. The
// uniform blocks are recreated with it, so their content is sent again.
func (r *Renderer) createSwapchainResources() error {
	device := r.device.Device()
	dims := r.swapchain.Dimensions()

	depthFormat, err := r.device.FindDepthFormat()
	if err != nil {
		return err
	}
	r.depth, err = r.device.CreateImage(render.ImageInfo{
		Width:  dims.Width,
		Height: dims.Height,
		Format: depthFormat,
		Usage:  vulkan.ImageUsageFlags(vulkan.ImageUsageDepthStencilAttachmentBit),
		Aspect: vulkan.ImageAspectFlags(vulkan.ImageAspectDepthBit),
	})
	if err != nil {
		return errors.Wrap(err, "create depth image")
	}
	if err := r.device.TransitionLayout(r.depth, vulkan.ImageLayoutUndefined, vulkan.ImageLayoutDepthStencilAttachmentOptimal); err != nil {
		return err
	}

	r.vertexIndex, err = r.device.CreateImage(render.ImageInfo{
		Width:  dims.Width,
		Height: dims.Height,
		Format: VertexIndexFormat,
		Usage:  vulkan.ImageUsageFlags(vulkan.ImageUsageColorAttachmentBit | vulkan.ImageUsageInputAttachmentBit | vulkan.ImageUsageStorageBit),
		Aspect: vulkan.ImageAspectFlags(vulkan.ImageAspectColorBit),
	})
	if err != nil {
		return errors.Wrap(err, "create vertex index image")
	}
	if err := r.device.TransitionLayout(r.vertexIndex, vulkan.ImageLayoutUndefined, vulkan.ImageLayoutGeneral); err != nil {
		return err
	}

	if r.renderPass, err = CreateRenderPass(device, DescribeRenderPass(dims.Format, depthFormat)); err != nil {
		return err
	}
	if err := r.swapchain.CreateFramebuffers(r.renderPass, r.vertexIndex.View, r.depth.View); err != nil {
		return errors.Wrap(err, "create framebuffers")
	}

	if err := r.createPipelineLayouts(); err != nil {
		return err
	}
	if err := r.createPipelines(); err != nil {
		return err
	}
	if err := r.createUniforms(); err != nil {
		return errors.Wrap(err, "create uniform buffers")
	}
	if err := r.createDescriptors(); err != nil {
		return err
	}

	if err := r.optiCloud.CreateReprojectedBuffer(r.device, dims.Width, dims.Height); err != nil {
		return err
	}
	err = r.compute.Create(r.descriptorPool, r.cfg.ShaderDir, ComputeInputs{
		Points:      r.optiCloud.VertexBuffer(),
		Reprojected: r.optiCloud.ReprojectedBuffer(),
		VertexIndex: r.vertexIndex.View,
		ScreenSize:  r.uniforms.ScreenSize.Buffer,
		Width:       dims.Width,
		Height:      dims.Height,
	})
	if err != nil {
		return errors.Wrap(err, "create compute pass")
	}

	if err := send(r.uniforms.ScreenSize, ScreenSize{Width: dims.Width, Height: dims.Height}, 0); err != nil {
		return err
	}
	if err := r.sendState(); err != nil {
		return err
	}
	r.optiCloud.ResetDraw()
	return nil
}

func (r *Renderer) sendState() error {
	if err := send(r.uniforms.PointSize, PointSize{Size: r.pointSize}, 0); err != nil {
		return err
	}
	if err := SendLighting(r.uniforms.Lighting, r.lighting); err != nil {
		return err
	}
	return SendView(r.view, r.uniforms.Model, r.uniforms.Camera)
}

func (r *Renderer) createPipelineLayouts() error {
	device := r.device.Device()
	var err error
	r.mainSetLayout, err = render.CreateDescriptorSetLayout(device, []vulkan.DescriptorSetLayoutBinding{
		render.LayoutBinding(0, vulkan.DescriptorTypeUniformBuffer, vulkan.ShaderStageVertexBit),
		render.LayoutBinding(1, vulkan.DescriptorTypeUniformBuffer, vulkan.ShaderStageVertexBit|vulkan.ShaderStageFragmentBit),
		render.LayoutBinding(2, vulkan.DescriptorTypeUniformBuffer, vulkan.ShaderStageFragmentBit),
		render.LayoutBinding(3, vulkan.DescriptorTypeUniformBuffer, vulkan.ShaderStageVertexBit),
	})
	if err != nil {
		return err
	}
	r.gradientSetLayout, err = render.CreateDescriptorSetLayout(device, []vulkan.DescriptorSetLayoutBinding{
		render.LayoutBinding(0, vulkan.DescriptorTypeUniformBuffer, vulkan.ShaderStageFragmentBit),
	})
	if err != nil {
		return err
	}
	if r.mainLayout, err = render.CreatePipelineLayout(device, r.mainSetLayout); err != nil {
		return err
	}
	r.gradientLayout, err = render.CreatePipelineLayout(device, r.gradientSetLayout)
	return err
}

func (r *Renderer) createPipelines() error {
	dims := r.swapchain.Dimensions()
	for i, desc := range pipelineDescs(r.polygonMode) {
		layout := r.mainLayout
		if desc.gradient {
			layout = r.gradientLayout
		}
		err := r.pipelines[i].Create(render.PipelineInfo{
			Layout:      desc.layout,
			Pipeline:    layout,
			RenderPass:  r.renderPass,
			Subpass:     desc.subpass,
			ShaderBase:  filepath.Join(r.cfg.ShaderDir, desc.name),
			Width:       dims.Width,
			Height:      dims.Height,
			Attachments: desc.attachments,
		})
		if err != nil {
			return errors.Wrapf(err, "create %s pipeline", desc.name)
		}
	}
	return nil
}

func (r *Renderer) createDescriptors() error {
	device := r.device.Device()
	var err error
	r.descriptorPool, err = render.NewDescriptorPool(device, []vulkan.DescriptorPoolSize{
		{Type: vulkan.DescriptorTypeUniformBuffer, DescriptorCount: 6},
		{Type: vulkan.DescriptorTypeStorageImage, DescriptorCount: 1},
		{Type: vulkan.DescriptorTypeStorageBuffer, DescriptorCount: 2},
	}, 3)
	if err != nil {
		return errors.Wrap(err, "create descriptor pool")
	}

	if r.mainSet, err = r.descriptorPool.Allocate(r.mainSetLayout); err != nil {
		return err
	}
	render.NewDescriptorWriter(r.mainSet).
		Buffer(0, vulkan.DescriptorTypeUniformBuffer, r.uniforms.Model.Buffer).
		Buffer(1, vulkan.DescriptorTypeUniformBuffer, r.uniforms.Camera.Buffer).
		Buffer(2, vulkan.DescriptorTypeUniformBuffer, r.uniforms.Lighting.Buffer).
		Buffer(3, vulkan.DescriptorTypeUniformBuffer, r.uniforms.PointSize.Buffer).
		Update(device)

	if r.gradientSet, err = r.descriptorPool.Allocate(r.gradientSetLayout); err != nil {
		return err
	}
	render.NewDescriptorWriter(r.gradientSet).
		Buffer(0, vulkan.DescriptorTypeUniformBuffer, r.uniforms.ScreenSize.Buffer).
		Update(device)
	return nil
}

func (r *Renderer) createCommandBuffers() error {
	buffers, err := render.AllocateCommandBuffers(r.device.Device(), r.device.CommandPool(), r.swapchain.ImageCount())
	if err != nil {
		return errors.Wrap(err, "allocate frame command buffers")
	}
	r.commandBuffers = buffers
	return nil
}

func (r *Renderer) freeCommandBuffers() {
	if len(r.commandBuffers) == 0 {
		return
	}
	vulkan.FreeCommandBuffers(r.device.Device(), r.device.CommandPool(), uint32(len(r.commandBuffers)), r.commandBuffers)
	r.commandBuffers = nil
}

func (r *Renderer) destroyPipelineLayouts() {
	device := r.device.Device()
	if r.mainLayout != vulkan.NullPipelineLayout {
		vulkan.DestroyPipelineLayout(device, r.mainLayout, nil)
		r.mainLayout = vulkan.NullPipelineLayout
	}
	if r.gradientLayout != vulkan.NullPipelineLayout {
		vulkan.DestroyPipelineLayout(device, r.gradientLayout, nil)
		r.gradientLayout = vulkan.NullPipelineLayout
	}
	for _, layout := range []*vulkan.DescriptorSetLayout{&r.mainSetLayout, &r.gradientSetLayout} {
		if *layout != vulkan.DescriptorSetLayout(vulkan.NullHandle) {
			vulkan.DestroyDescriptorSetLayout(device, *layout, nil)
			*layout = vulkan.DescriptorSetLayout(vulkan.NullHandle)
		}
	}
}

// releaseSwapchainResources undoes createSwapchainResources and drops the
// swapchain itself. It waits for the device to go idle first.
func (r *Renderer) releaseSwapchainResources() {
	if err := r.device.WaitIdle(); err != nil {
		log.Printf("renderer: wait idle: %v", err)
	}
	r.freeCommandBuffers()
	r.uniforms.Destroy()
	if r.descriptorPool != nil {
		r.descriptorPool.Destroy()
		r.descriptorPool = nil
	}
	for _, p := range r.pipelines {
		p.Destroy()
	}
	r.destroyPipelineLayouts()
	if r.renderPass != vulkan.NullRenderPass {
		vulkan.DestroyRenderPass(r.device.Device(), r.renderPass, nil)
		r.renderPass = vulkan.NullRenderPass
	}
	if r.depth != nil {
		r.depth.Destroy()
		r.depth = nil
	}
	if r.vertexIndex != nil {
		r.vertexIndex.Destroy()
		r.vertexIndex = nil
	}
	if r.optiCloud != nil {
		r.optiCloud.DestroyReprojectedBuffer()
	}
	r.compute.Destroy()
	r.swapchain.Destroy()
}

// RecreateSwapchainResources rebuilds the swapchain and everything sized
// after it for a width x height surface.
func (r *Renderer) RecreateSwapchainResources(width, height uint32) error {
	r.releaseSwapchainResources()
	if err := r.swapchain.Init(width, height); err != nil {
		return errors.Wrap(err, "init swapchain")
	}
	if err := r.createSwapchainResources(); err != nil {
		return err
	}
	return r.createCommandBuffers()
}

// RecreatePipelines rebuilds the graphics pipelines, e.g. after the polygon
// mode changed. Command buffers are recorded every frame and pick them up.
func (r *Renderer) RecreatePipelines() error {
	if err := r.device.WaitIdle(); err != nil {
		return errors.Wrap(err, "wait idle")
	}
	return r.createPipelines()
}

func (r *Renderer) bind(cmd vulkan.CommandBuffer, pipeline int, layout vulkan.PipelineLayout, set vulkan.DescriptorSet) {
	vulkan.CmdBindPipeline(cmd, vulkan.PipelineBindPointGraphics, r.pipelines[pipeline].Handle())
	vulkan.CmdBindDescriptorSets(cmd, vulkan.PipelineBindPointGraphics, layout, 0, 1,
		[]vulkan.DescriptorSet{set}, 0, nil)
}

// BuildCommandBuffer records the frame drawn into swapchain image imageIndex.
// Drawing the point cloud advances its progressive cursor.
func (r *Renderer) BuildCommandBuffer(imageIndex int) error {
	cmd := r.commandBuffers[imageIndex]
	ret := vulkan.BeginCommandBuffer(cmd, &vulkan.CommandBufferBeginInfo{
		SType: vulkan.StructureTypeCommandBufferBeginInfo,
		Flags: vulkan.CommandBufferUsageFlags(vulkan.CommandBufferUsageOneTimeSubmitBit),
	})
	if err := render.NewError(ret); err != nil {
		return errors.Wrap(err, "begin frame command buffer")
	}

	dims := r.swapchain.Dimensions()
	clearValues := ClearValues()
	vulkan.CmdBeginRenderPass(cmd, &vulkan.RenderPassBeginInfo{
		SType:       vulkan.StructureTypeRenderPassBeginInfo,
		RenderPass:  r.renderPass,
		Framebuffer: r.swapchain.Framebuffer(imageIndex),
		RenderArea: vulkan.Rect2D{
			Extent: vulkan.Extent2D{Width: dims.Width, Height: dims.Height},
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}, vulkan.SubpassContentsInline)

	r.bind(cmd, gradientPipeline, r.gradientLayout, r.gradientSet)
	r.quad.Draw(cmd)

	vulkan.CmdNextSubpass(cmd, vulkan.SubpassContentsInline)
	r.bind(cmd, reprojectedPipeline, r.mainLayout, r.mainSet)
	r.optiCloud.DrawReprojectedBuffer(cmd)
	r.bind(cmd, optiCloudPipeline, r.mainLayout, r.mainSet)
	r.optiCloud.DrawVertexBuffer(cmd)

	vulkan.CmdNextSubpass(cmd, vulkan.SubpassContentsInline)
	r.bind(cmd, meshPipeline, r.mainLayout, r.mainSet)
	for _, m := range r.meshes {
		m.Draw(cmd)
	}
	r.bind(cmd, cloudPipeline, r.mainLayout, r.mainSet)
	for _, c := range r.clouds {
		c.Draw(cmd)
	}

	vulkan.CmdEndRenderPass(cmd)
	return errors.Wrap(render.NewError(vulkan.EndCommandBuffer(cmd)), "end frame command buffer")
}

// UpdateUniformBuffers sends the view if the camera moved, restarting the
// progressive draw.
func (r *Renderer) UpdateUniformBuffers() error {
	_, err := UpdateView(r.view, r.optiCloud, r.uniforms.Model, r.uniforms.Camera)
	return err
}

func (r *Renderer) WaitCompute() error { return r.compute.WaitFence() }

func (r *Renderer) WaitFrame(slot int) error {
	return r.device.WaitForFences(r.sync.InFlight[slot])
}

func (r *Renderer) Acquire(slot int) (int, bool, error) {
	return r.swapchain.AcquireNextImage(r.sync.ImageAvailable[slot])
}

func (r *Renderer) ImageCount() int { return r.swapchain.ImageCount() }

func (r *Renderer) Record(image int) error { return r.BuildCommandBuffer(image) }

func (r *Renderer) UpdateUniforms() error { return r.UpdateUniformBuffers() }

func (r *Renderer) SubmitGraphics(slot, image int) error {
	fence := r.sync.InFlight[slot]
	if err := r.device.ResetFences(fence); err != nil {
		return errors.Wrap(err, "reset frame fence")
	}
	ret := vulkan.QueueSubmit(r.device.GraphicsQueue(), 1, []vulkan.SubmitInfo{{
		SType:                vulkan.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vulkan.Semaphore{r.sync.ImageAvailable[slot]},
		PWaitDstStageMask:    []vulkan.PipelineStageFlags{vulkan.PipelineStageFlags(vulkan.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vulkan.CommandBuffer{r.commandBuffers[image]},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vulkan.Semaphore{r.compute.Semaphore()},
	}}, fence)
	return errors.Wrap(render.NewError(ret), "submit frame")
}

func (r *Renderer) SubmitCompute(slot int) error {
	return r.compute.Process(r.compute.Semaphore(), r.sync.RenderFinished[slot])
}

func (r *Renderer) Present(slot, image int) (bool, error) {
	return r.swapchain.PresentImage(r.sync.RenderFinished[slot], image)
}

func (r *Renderer) SurfaceExtent(width, height uint32) (uint32, uint32, error) {
	extent, err := r.swapchain.SurfaceExtent(width, height)
	return extent.Width, extent.Height, err
}

func (r *Renderer) Rebuild(width, height uint32) error {
	return r.RecreateSwapchainResources(width, height)
}

// DrawNextFrame renders and presents one frame.
func (r *Renderer) DrawNextFrame() error { return r.loop.DrawNextFrame() }

// Resize follows a framebuffer resize. Zero sizes are ignored.
func (r *Renderer) Resize(width, height uint32) error { return r.loop.Resize(width, height) }

func (r *Renderer) SetLighting(l LightingConfig) error {
	r.lighting = l
	return SendLighting(r.uniforms.Lighting, l)
}

func (r *Renderer) SetLightColor(color [3]float32) error {
	r.lighting.Color = color
	return send(r.uniforms.Lighting, mgl32.Vec3(color), lightingColorOffset)
}

func (r *Renderer) SetLightIntensity(intensity float32) error {
	r.lighting.Intensity = intensity
	return send(r.uniforms.Lighting, intensity, lightingIntensityOffset)
}

func (r *Renderer) EnableThreePointLighting(enabled bool) error {
	r.lighting.ThreePoint = enabled
	var v uint32
	if enabled {
		v = 1
	}
	return send(r.uniforms.Lighting, v, lightingThreePointOffset)
}

func (r *Renderer) SetPointSize(size uint32) error {
	if size == 0 {
		return errors.New("point size must be positive")
	}
	r.pointSize = size
	return send(r.uniforms.PointSize, PointSize{Size: size}, 0)
}

// SetPointsPerStep changes the chunk size and restarts the progressive draw.
func (r *Renderer) SetPointsPerStep(n uint32) error {
	return r.optiCloud.SetPointsPerStep(n)
}

// SetPolygonMode switches the mesh pipeline between fill, line and point.
func (r *Renderer) SetPolygonMode(mode vulkan.PolygonMode) error {
	r.polygonMode = mode
	return r.RecreatePipelines()
}

// AddMesh uploads m and draws it in the composite subpass from the next frame on.
func (r *Renderer) AddMesh(m *geometry.Mesh) error {
	if err := m.Init(r.device); err != nil {
		return errors.Wrap(err, "init mesh")
	}
	r.meshes = append(r.meshes, m)
	return nil
}

// AddCloud uploads c and draws it in the composite subpass from the next frame on.
func (r *Renderer) AddCloud(c *geometry.Cloud) error {
	if err := c.Init(r.device); err != nil {
		return errors.Wrap(err, "init cloud")
	}
	r.clouds = append(r.clouds, c)
	return nil
}

func (r *Renderer) OptiCloud() *geometry.OptiCloud { return r.optiCloud }

func (r *Renderer) Destroy() {
	if r.device == nil {
		return
	}
	r.releaseSwapchainResources()
	if r.sync != nil {
		r.sync.Destroy()
		r.sync = nil
	}
	for _, m := range r.meshes {
		m.Destroy()
	}
	for _, c := range r.clouds {
		c.Destroy()
	}
	r.meshes, r.clouds = nil, nil
	if r.optiCloud != nil {
		r.optiCloud.Destroy()
	}
	if r.quad != nil {
		r.quad.Destroy()
	}
	r.device = nil
}
