package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/vulkan"
)

// LayoutBinding is a shorthand for a single-descriptor layout binding.
func LayoutBinding(binding uint32, typ vulkan.DescriptorType, stages vulkan.ShaderStageFlagBits) vulkan.DescriptorSetLayoutBinding {
	return vulkan.DescriptorSetLayoutBinding{
		Binding:         binding,
		DescriptorType:  typ,
		DescriptorCount: 1,
		StageFlags:      vulkan.ShaderStageFlags(stages),
	}
}

func CreateDescriptorSetLayout(device vulkan.Device, bindings []vulkan.DescriptorSetLayoutBinding) (vulkan.DescriptorSetLayout, error) {
	var layout vulkan.DescriptorSetLayout
	ret := vulkan.CreateDescriptorSetLayout(device, &vulkan.DescriptorSetLayoutCreateInfo{
		SType:        vulkan.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}, nil, &layout)
	if err := NewError(ret); err != nil {
		return vulkan.DescriptorSetLayout(vulkan.NullHandle), errors.Wrap(err, "create descriptor set layout")
	}
	return layout, nil
}

func CreatePipelineLayout(device vulkan.Device, setLayouts ...vulkan.DescriptorSetLayout) (vulkan.PipelineLayout, error) {
	var layout vulkan.PipelineLayout
	ret := vulkan.CreatePipelineLayout(device, &vulkan.PipelineLayoutCreateInfo{
		SType:          vulkan.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(setLayouts)),
		PSetLayouts:    setLayouts,
	}, nil, &layout)
	if err := NewError(ret); err != nil {
		return vulkan.NullPipelineLayout, errors.Wrap(err, "create pipeline layout")
	}
	return layout, nil
}

type DescriptorPool struct {
	pool   vulkan.DescriptorPool
	device vulkan.Device
}

func NewDescriptorPool(device vulkan.Device, sizes []vulkan.DescriptorPoolSize, maxSets uint32) (*DescriptorPool, error) {
	var pool vulkan.DescriptorPool
	ret := vulkan.CreateDescriptorPool(device, &vulkan.DescriptorPoolCreateInfo{
		SType:         vulkan.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       maxSets,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}, nil, &pool)
	if err := NewError(ret); err != nil {
		return nil, errors.Wrap(err, "create descriptor pool")
	}
	return &DescriptorPool{pool: pool, device: device}, nil
}

func (p *DescriptorPool) Allocate(layout vulkan.DescriptorSetLayout) (vulkan.DescriptorSet, error) {
	var set vulkan.DescriptorSet
	ret := vulkan.AllocateDescriptorSets(p.device, &vulkan.DescriptorSetAllocateInfo{
		SType:              vulkan.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     p.pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vulkan.DescriptorSetLayout{layout},
	}, &set)
	if err := NewError(ret); err != nil {
		return vulkan.DescriptorSet(vulkan.NullHandle), errors.Wrap(err, "allocate descriptor set")
	}
	return set, nil
}

// Destroy frees the pool and every set allocated from it.
func (p *DescriptorPool) Destroy() {
	if p == nil || p.pool == vulkan.DescriptorPool(vulkan.NullHandle) {
		return
	}
	vulkan.DestroyDescriptorPool(p.device, p.pool, nil)
	p.pool = vulkan.DescriptorPool(vulkan.NullHandle)
}

// DescriptorWriter collects the writes for one descriptor set.
type DescriptorWriter struct {
	set    vulkan.DescriptorSet
	writes []vulkan.WriteDescriptorSet
}

func NewDescriptorWriter(set vulkan.DescriptorSet) *DescriptorWriter {
	return &DescriptorWriter{set: set}
}

func (w *DescriptorWriter) Buffer(binding uint32, typ vulkan.DescriptorType, buffer *Buffer) *DescriptorWriter {
	w.writes = append(w.writes, vulkan.WriteDescriptorSet{
		SType:           vulkan.StructureTypeWriteDescriptorSet,
		DstSet:          w.set,
		DstBinding:      binding,
		DescriptorCount: 1,
		DescriptorType:  typ,
		PBufferInfo: []vulkan.DescriptorBufferInfo{{
			Buffer: buffer.Buffer,
			Range:  vulkan.DeviceSize(buffer.Size),
		}},
	})
	return w
}

func (w *DescriptorWriter) Image(binding uint32, typ vulkan.DescriptorType, view vulkan.ImageView, layout vulkan.ImageLayout) *DescriptorWriter {
	w.writes = append(w.writes, vulkan.WriteDescriptorSet{
		SType:           vulkan.StructureTypeWriteDescriptorSet,
		DstSet:          w.set,
		DstBinding:      binding,
		DescriptorCount: 1,
		DescriptorType:  typ,
		PImageInfo: []vulkan.DescriptorImageInfo{{
			ImageView:   view,
			ImageLayout: layout,
		}},
	})
	return w
}

func (w *DescriptorWriter) Update(device vulkan.Device) {
	if len(w.writes) == 0 {
		return
	}
	vulkan.UpdateDescriptorSets(device, uint32(len(w.writes)), w.writes, 0, nil)
}
