package geometry

import (
	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/vulkan"

	"opticloud/src/render"
)

// Cloud is a point cloud drawn whole every frame.
type Cloud struct {
	points       []CloudVertex
	vertexBuffer *render.Buffer
	recorder     Recorder
}

func NewCloud(points []CloudVertex) *Cloud {
	return &Cloud{points: points, recorder: render.Recorder{}}
}

func (c *Cloud) SetRecorder(r Recorder) { c.recorder = r }

func (c *Cloud) Init(alloc Allocator) error {
	c.vertexBuffer.Destroy()
	c.vertexBuffer = nil
	if len(c.points) == 0 {
		return nil
	}
	buffer, err := alloc.UploadBuffer(render.Bytes(c.points), storageUsage)
	if err != nil {
		return errors.Wrap(err, "cloud vertex buffer")
	}
	c.vertexBuffer = buffer
	return nil
}

func (c *Cloud) Draw(cmd vulkan.CommandBuffer) {
	if c.vertexBuffer == nil {
		return
	}
	c.recorder.BindVertexBuffer(cmd, c.vertexBuffer)
	c.recorder.Draw(cmd, uint32(len(c.points)), 0)
}

func (c *Cloud) Size() uint32 { return uint32(len(c.points)) }

func (c *Cloud) VertexBuffer() *render.Buffer { return c.vertexBuffer }

func (c *Cloud) Destroy() {
	c.vertexBuffer.Destroy()
	c.vertexBuffer = nil
}
