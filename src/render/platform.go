package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/vulkan"
)

// DepthFormats are tried in order when picking the depth attachment format.
var DepthFormats = []vulkan.Format{
	vulkan.FormatD32Sfloat,
	vulkan.FormatD32SfloatS8Uint,
	vulkan.FormatD24UnormS8Uint,
}

type QueueFamilies struct {
	Graphics uint32
	Present  uint32
	Compute  uint32
}

// Unique returns the distinct family indices, graphics first.
func (q QueueFamilies) Unique() []uint32 {
	out := []uint32{q.Graphics}
	for _, idx := range []uint32{q.Present, q.Compute} {
		seen := false
		for _, o := range out {
			if o == idx {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, idx)
		}
	}
	return out
}

// FindQueueFamilies picks a graphics, a present and a compute family. The
// graphics family is reused for present and compute when it supports them.
// Properties must already be dereferenced.
func FindQueueFamilies(props []vulkan.QueueFamilyProperties, supportsPresent func(index uint32) bool) (QueueFamilies, bool) {
	var families QueueFamilies
	var hasGraphics, hasPresent, hasCompute bool
	for i, p := range props {
		idx := uint32(i)
		if p.QueueCount == 0 {
			continue
		}
		if !hasGraphics && p.QueueFlags&vulkan.QueueFlags(vulkan.QueueGraphicsBit) != 0 {
			families.Graphics = idx
			hasGraphics = true
		}
	}
	if !hasGraphics {
		return families, false
	}

	if supportsPresent(families.Graphics) {
		families.Present = families.Graphics
		hasPresent = true
	}
	if props[families.Graphics].QueueFlags&vulkan.QueueFlags(vulkan.QueueComputeBit) != 0 {
		families.Compute = families.Graphics
		hasCompute = true
	}

	for i, p := range props {
		idx := uint32(i)
		if p.QueueCount == 0 {
			continue
		}
		if !hasPresent && supportsPresent(idx) {
			families.Present = idx
			hasPresent = true
		}
		if !hasCompute && p.QueueFlags&vulkan.QueueFlags(vulkan.QueueComputeBit) != 0 {
			families.Compute = idx
			hasCompute = true
		}
	}
	return families, hasPresent && hasCompute
}

// FindMemoryType scans the dereferenced memory properties for a type allowed
// by typeFilter that carries every flag in props.
func FindMemoryType(mem vulkan.PhysicalDeviceMemoryProperties, typeFilter uint32, props vulkan.MemoryPropertyFlags) (uint32, error) {
	for i := uint32(0); i < mem.MemoryTypeCount; i++ {
		if typeFilter&(1<<i) == 0 {
			continue
		}
		if mem.MemoryTypes[i].PropertyFlags&props == props {
			return i, nil
		}
	}
	return 0, errors.Wrapf(ErrNoMemoryType, "filter %#x, properties %#x", typeFilter, props)
}

func SupportsFormat(props vulkan.FormatProperties, tiling vulkan.ImageTiling, features vulkan.FormatFeatureFlags) bool {
	switch tiling {
	case vulkan.ImageTilingLinear:
		return props.LinearTilingFeatures&features == features
	case vulkan.ImageTilingOptimal:
		return props.OptimalTilingFeatures&features == features
	}
	return false
}

func HasStencilComponent(format vulkan.Format) bool {
	return format == vulkan.FormatD32SfloatS8Uint || format == vulkan.FormatD24UnormS8Uint
}
