package geometry

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/vulkan-go/vulkan"
)

// OptiCloudVertex is the packed 16 byte point the progressive cloud is made of.
type OptiCloudVertex struct {
	Pos       mgl32.Vec3
	Color     [3]uint8
	Attribute uint8 // unused
}

// CloudVertex is a 32 byte point. The compute pass writes the reprojected
// buffer in this layout, Index being the source point or -1.
type CloudVertex struct {
	Pos   mgl32.Vec3
	_     float32
	Color mgl32.Vec3
	Index int32
}

type MeshVertex struct {
	Pos    mgl32.Vec3
	Normal mgl32.Vec3
}

const (
	OptiCloudVertexSize = int(unsafe.Sizeof(OptiCloudVertex{}))
	CloudVertexSize     = int(unsafe.Sizeof(CloudVertex{}))
	MeshVertexSize      = int(unsafe.Sizeof(MeshVertex{}))
)

func binding(stride int) vulkan.VertexInputBindingDescription {
	return vulkan.VertexInputBindingDescription{
		Binding:   0,
		Stride:    uint32(stride),
		InputRate: vulkan.VertexInputRateVertex,
	}
}

func attribute(location uint32, format vulkan.Format, offset uintptr) vulkan.VertexInputAttributeDescription {
	return vulkan.VertexInputAttributeDescription{
		Binding:  0,
		Location: location,
		Format:   format,
		Offset:   uint32(offset),
	}
}

func OptiCloudBinding() vulkan.VertexInputBindingDescription {
	return binding(OptiCloudVertexSize)
}

// OptiCloudAttributes reads color and the attribute byte as a single uint the
// shader unpacks.
func OptiCloudAttributes() []vulkan.VertexInputAttributeDescription {
	var v OptiCloudVertex
	return []vulkan.VertexInputAttributeDescription{
		attribute(0, vulkan.FormatR32g32b32Sfloat, unsafe.Offsetof(v.Pos)),
		attribute(1, vulkan.FormatR32Uint, unsafe.Offsetof(v.Color)),
	}
}

func CloudBinding() vulkan.VertexInputBindingDescription {
	return binding(CloudVertexSize)
}

func CloudAttributes() []vulkan.VertexInputAttributeDescription {
	var v CloudVertex
	return []vulkan.VertexInputAttributeDescription{
		attribute(0, vulkan.FormatR32g32b32Sfloat, unsafe.Offsetof(v.Pos)),
		attribute(1, vulkan.FormatR32g32b32Sfloat, unsafe.Offsetof(v.Color)),
		attribute(2, vulkan.FormatR32Sint, unsafe.Offsetof(v.Index)),
	}
}

func MeshBinding() vulkan.VertexInputBindingDescription {
	return binding(MeshVertexSize)
}

func MeshAttributes() []vulkan.VertexInputAttributeDescription {
	var v MeshVertex
	return []vulkan.VertexInputAttributeDescription{
		attribute(0, vulkan.FormatR32g32b32Sfloat, unsafe.Offsetof(v.Pos)),
		attribute(1, vulkan.FormatR32g32b32Sfloat, unsafe.Offsetof(v.Normal)),
	}
}
