package render

import (
	"log"

	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/vulkan"
)

var deviceExtensions = []string{
	"VK_KHR_swapchain\x00",
}

var validationLayers = []string{
	"VK_LAYER_KHRONOS_validation\x00",
}

// Context owns the instance, surface, logical device, its three queues and
// the graphics command pool. Everything else in the renderer borrows it.
type Context struct {
	instance vulkan.Instance
	surface  vulkan.Surface
	gpu      vulkan.PhysicalDevice
	device   vulkan.Device

	families      QueueFamilies
	graphicsQueue vulkan.Queue
	presentQueue  vulkan.Queue
	computeQueue  vulkan.Queue
	commandPool   vulkan.CommandPool

	memoryProperties vulkan.PhysicalDeviceMemoryProperties
	gpuProperties    vulkan.PhysicalDeviceProperties

	fenceTimeout uint64
}

// NewInstance creates a vulkan instance with the given instance extensions,
// which usually come from the windowing layer.
func NewInstance(appName string, extensions []string, validation bool) (vulkan.Instance, error) {
	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		exts = append(exts, safeString(ext))
	}
	info := &vulkan.InstanceCreateInfo{
		SType: vulkan.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vulkan.ApplicationInfo{
			SType:              vulkan.StructureTypeApplicationInfo,
			PApplicationName:   safeString(appName),
			ApplicationVersion: vulkan.MakeVersion(1, 0, 0),
			PEngineName:        "opticloud\x00",
			EngineVersion:      vulkan.MakeVersion(1, 0, 0),
			ApiVersion:         vulkan.MakeVersion(1, 1, 0),
		},
		EnabledExtensionCount:   uint32(len(exts)),
		PpEnabledExtensionNames: exts,
	}
	if validation {
		info.EnabledLayerCount = uint32(len(validationLayers))
		info.PpEnabledLayerNames = validationLayers
	}

	var instance vulkan.Instance
	if err := NewError(vulkan.CreateInstance(info, nil, &instance)); err != nil {
		return nil, errors.Wrap(err, "create instance")
	}
	if err := vulkan.InitInstance(instance); err != nil {
		vulkan.DestroyInstance(instance, nil)
		return nil, errors.Wrap(err, "init instance")
	}
	return instance, nil
}

// NewContext picks a physical device able to draw and present to surface and
// creates the logical device on it. The context takes ownership of both the
// instance and the surface.
func NewContext(instance vulkan.Instance, surface vulkan.Surface) (*Context, error) {
	c := &Context{
		instance:     instance,
		surface:      surface,
		fenceTimeout: vulkan.MaxUint64,
	}
	if err := c.pickPhysicalDevice(); err != nil {
		return nil, err
	}
	if err := c.createLogicalDevice(); err != nil {
		return nil, err
	}
	if err := c.createCommandPool(); err != nil {
		vulkan.DestroyDevice(c.device, nil)
		return nil, err
	}
	return c, nil
}

func (c *Context) pickPhysicalDevice() error {
	var count uint32
	if err := NewError(vulkan.EnumeratePhysicalDevices(c.instance, &count, nil)); err != nil {
		return errors.Wrap(err, "enumerate physical devices")
	}
	if count == 0 {
		return errors.Wrap(ErrNoSuitableDevice, "no gpu with vulkan support")
	}
	gpus := make([]vulkan.PhysicalDevice, count)
	if err := NewError(vulkan.EnumeratePhysicalDevices(c.instance, &count, gpus)); err != nil {
		return errors.Wrap(err, "enumerate physical devices")
	}

	for _, gpu := range gpus {
		families, ok := c.suitable(gpu)
		if !ok {
			continue
		}
		c.gpu = gpu
		c.families = families

		vulkan.GetPhysicalDeviceMemoryProperties(gpu, &c.memoryProperties)
		c.memoryProperties.Deref()
		for i := uint32(0); i < c.memoryProperties.MemoryTypeCount; i++ {
			c.memoryProperties.MemoryTypes[i].Deref()
		}
		vulkan.GetPhysicalDeviceProperties(gpu, &c.gpuProperties)
		c.gpuProperties.Deref()
		log.Printf("vulkan: using %s (graphics %d, present %d, compute %d)",
			vulkan.ToString(c.gpuProperties.DeviceName[:]),
			families.Graphics, families.Present, families.Compute)
		return nil
	}
	return ErrNoSuitableDevice
}

func (c *Context) suitable(gpu vulkan.PhysicalDevice) (QueueFamilies, bool) {
	var count uint32
	vulkan.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	props := make([]vulkan.QueueFamilyProperties, count)
	vulkan.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, props)
	for i := range props {
		props[i].Deref()
	}

	families, ok := FindQueueFamilies(props, func(index uint32) bool {
		var supported vulkan.Bool32
		vulkan.GetPhysicalDeviceSurfaceSupport(gpu, index, c.surface, &supported)
		return supported == vulkan.True
	})
	if !ok {
		return families, false
	}
	if !hasExtensions(gpu, deviceExtensions) {
		return families, false
	}

	var features vulkan.PhysicalDeviceFeatures
	vulkan.GetPhysicalDeviceFeatures(gpu, &features)
	features.Deref()
	if features.SamplerAnisotropy != vulkan.True || features.FillModeNonSolid != vulkan.True || features.LargePoints != vulkan.True {
		return families, false
	}

	formats, modes := surfaceSupport(gpu, c.surface)
	return families, len(formats) > 0 && len(modes) > 0
}

func hasExtensions(gpu vulkan.PhysicalDevice, required []string) bool {
	var count uint32
	if vulkan.EnumerateDeviceExtensionProperties(gpu, "", &count, nil) != vulkan.Success {
		return false
	}
	available := make([]vulkan.ExtensionProperties, count)
	if vulkan.EnumerateDeviceExtensionProperties(gpu, "", &count, available) != vulkan.Success {
		return false
	}
	names := make(map[string]bool, count)
	for _, ext := range available {
		ext.Deref()
		names[vulkan.ToString(ext.ExtensionName[:])] = true
	}
	for _, ext := range required {
		if !names[trimNull(ext)] {
			return false
		}
	}
	return true
}

func (c *Context) createLogicalDevice() error {
	unique := c.families.Unique()
	queueInfos := make([]vulkan.DeviceQueueCreateInfo, 0, len(unique))
	for _, family := range unique {
		queueInfos = append(queueInfos, vulkan.DeviceQueueCreateInfo{
			SType:            vulkan.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		})
	}

	var device vulkan.Device
	ret := vulkan.CreateDevice(c.gpu, &vulkan.DeviceCreateInfo{
		SType:                   vulkan.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(deviceExtensions)),
		PpEnabledExtensionNames: deviceExtensions,
		PEnabledFeatures: []vulkan.PhysicalDeviceFeatures{{
			SamplerAnisotropy: vulkan.True,
			FillModeNonSolid:  vulkan.True,
			LargePoints:       vulkan.True,
		}},
	}, nil, &device)
	if err := NewError(ret); err != nil {
		return errors.Wrap(err, "create device")
	}
	c.device = device

	vulkan.GetDeviceQueue(device, c.families.Graphics, 0, &c.graphicsQueue)
	vulkan.GetDeviceQueue(device, c.families.Present, 0, &c.presentQueue)
	vulkan.GetDeviceQueue(device, c.families.Compute, 0, &c.computeQueue)
	return nil
}

func (c *Context) createCommandPool() error {
	var pool vulkan.CommandPool
	ret := vulkan.CreateCommandPool(c.device, &vulkan.CommandPoolCreateInfo{
		SType:            vulkan.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: c.families.Graphics,
		Flags:            vulkan.CommandPoolCreateFlags(vulkan.CommandPoolCreateResetCommandBufferBit),
	}, nil, &pool)
	if err := NewError(ret); err != nil {
		return errors.Wrap(err, "create command pool")
	}
	c.commandPool = pool
	return nil
}

func (c *Context) Device() vulkan.Device { return c.device }
func (c *Context) PhysicalDevice() vulkan.PhysicalDevice { return c.gpu }
func (c *Context) Surface() vulkan.Surface { return c.surface }
func (c *Context) Families() QueueFamilies { return c.families }
func (c *Context) GraphicsQueue() vulkan.Queue { return c.graphicsQueue }
func (c *Context) PresentQueue() vulkan.Queue { return c.presentQueue }
func (c *Context) ComputeQueue() vulkan.Queue { return c.computeQueue }
func (c *Context) CommandPool() vulkan.CommandPool { return c.commandPool }

// SetFenceTimeout bounds every fence wait issued through the context. Zero
// restores the infinite wait. An expired wait is reported as ErrTimeout.
func (c *Context) SetFenceTimeout(timeout uint64) {
	if timeout == 0 {
		timeout = vulkan.MaxUint64
	}
	c.fenceTimeout = timeout
}

// WaitForFences blocks until every fence is signaled.
func (c *Context) WaitForFences(fences ...vulkan.Fence) error {
	if len(fences) == 0 {
		return nil
	}
	ret := vulkan.WaitForFences(c.device, uint32(len(fences)), fences, vulkan.True, c.fenceTimeout)
	return NewError(ret)
}

func (c *Context) ResetFences(fences ...vulkan.Fence) error {
	return NewError(vulkan.ResetFences(c.device, uint32(len(fences)), fences))
}

func (c *Context) WaitIdle() error {
	return NewError(vulkan.DeviceWaitIdle(c.device))
}

// FindMemoryType returns the index of a memory type allowed by typeFilter
// that has every requested property.
func (c *Context) FindMemoryType(typeFilter uint32, props vulkan.MemoryPropertyFlags) (uint32, error) {
	return FindMemoryType(c.memoryProperties, typeFilter, props)
}

// FindSupportedFormat returns the first candidate whose tiling features
// include features.
func (c *Context) FindSupportedFormat(candidates []vulkan.Format, tiling vulkan.ImageTiling, features vulkan.FormatFeatureFlags) (vulkan.Format, error) {
	for _, format := range candidates {
		var props vulkan.FormatProperties
		vulkan.GetPhysicalDeviceFormatProperties(c.gpu, format, &props)
		props.Deref()
		if SupportsFormat(props, tiling, features) {
			return format, nil
		}
	}
	return vulkan.FormatUndefined, errors.Newf("no format among %v supports features %#x", candidates, features)
}

func (c *Context) FindDepthFormat() (vulkan.Format, error) {
	format, err := c.FindSupportedFormat(DepthFormats, vulkan.ImageTilingOptimal,
		vulkan.FormatFeatureFlags(vulkan.FormatFeatureDepthStencilAttachmentBit))
	if err != nil {
		return format, errors.Mark(err, ErrNoDepthFormat)
	}
	return format, nil
}

func (c *Context) Destroy() {
	if c.device != nil {
		vulkan.DeviceWaitIdle(c.device)
		if c.commandPool != vulkan.NullCommandPool {
			vulkan.DestroyCommandPool(c.device, c.commandPool, nil)
			c.commandPool = vulkan.NullCommandPool
		}
		vulkan.DestroyDevice(c.device, nil)
		c.device = nil
	}
	if c.surface != vulkan.NullSurface {
		vulkan.DestroySurface(c.instance, c.surface, nil)
		c.surface = vulkan.NullSurface
	}
	if c.instance != nil {
		vulkan.DestroyInstance(c.instance, nil)
		c.instance = nil
	}
}

func safeString(s string) string {
	if len(s) == 0 || s[len(s)-1] != 0 {
		return s + "\x00"
	}
	return s
}

func trimNull(s string) string {
	if len(s) > 0 && s[len(s)-1] == 0 {
		return s[:len(s)-1]
	}
	return s
}
