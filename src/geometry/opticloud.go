package geometry

import (
	"log"

	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/vulkan"

	"opticloud/src/render"
)

// OptiCloud is a large point cloud drawn progressively, a chunk per frame,
// together with the per-pixel buffer the compute pass reprojects it into.
type OptiCloud struct {
	points []OptiCloudVertex
	cursor *Cursor

	vertexBuffer      *render.Buffer
	reprojectedBuffer *render.Buffer
	reprojectedCount  uint32

	recorder Recorder
}

func NewOptiCloud(points []OptiCloudVertex, pointsPerStep uint32) (*OptiCloud, error) {
	cursor, err := NewCursor(uint32(len(points)), pointsPerStep)
	if err != nil {
		return nil, err
	}
	return &OptiCloud{
		points:   points,
		cursor:   cursor,
		recorder: render.Recorder{},
	}, nil
}

// SetRecorder replaces the command recorder, tests use it to count draws.
func (o *OptiCloud) SetRecorder(r Recorder) { o.recorder = r }

// Init uploads the points to a device local buffer the vertex stage and the
// compute pass both read.
func (o *OptiCloud) Init(alloc Allocator) error {
	o.vertexBuffer.Destroy()

	data := render.Bytes(o.points)
	if len(data) == 0 {
		// the compute descriptor still needs a buffer to point at
		data = make([]byte, OptiCloudVertexSize)
	}
	buffer, err := alloc.UploadBuffer(data, storageUsage)
	if err != nil {
		return errors.Wrap(err, "opticloud vertex buffer")
	}
	o.vertexBuffer = buffer
	log.Printf("opticloud: uploaded %d points (%d bytes)", len(o.points), len(data))
	o.ResetDraw()
	return nil
}

// CreateReprojectedBuffer allocates one CloudVertex per pixel of a
// width x height target, replacing any previous buffer.
func (o *OptiCloud) CreateReprojectedBuffer(alloc Allocator, width, height uint32) error {
	o.DestroyReprojectedBuffer()

	count := width * height
	if count == 0 {
		return errors.Newf("reprojected buffer of %dx%d", width, height)
	}
	buffer, err := alloc.CreateBuffer(int(count)*CloudVertexSize,
		storageUsage|vulkan.BufferUsageFlags(vulkan.BufferUsageTransferDstBit),
		vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return errors.Wrap(err, "reprojected buffer")
	}
	o.reprojectedBuffer = buffer
	o.reprojectedCount = count
	return nil
}

func (o *OptiCloud) DestroyReprojectedBuffer() {
	o.reprojectedBuffer.Destroy()
	o.reprojectedBuffer = nil
	o.reprojectedCount = 0
}

// DrawVertexBuffer draws the next chunk of points, if any are left.
func (o *OptiCloud) DrawVertexBuffer(cmd vulkan.CommandBuffer) {
	if o.vertexBuffer == nil {
		return
	}
	first, count, ok := o.cursor.Next()
	if !ok {
		return
	}
	o.recorder.BindVertexBuffer(cmd, o.vertexBuffer)
	o.recorder.Draw(cmd, count, first)
}

// DrawReprojectedBuffer draws every pixel slot of the reprojected buffer.
func (o *OptiCloud) DrawReprojectedBuffer(cmd vulkan.CommandBuffer) {
	if o.reprojectedBuffer == nil {
		return
	}
	o.recorder.BindVertexBuffer(cmd, o.reprojectedBuffer)
	o.recorder.Draw(cmd, o.reprojectedCount, 0)
}

func (o *OptiCloud) ResetDraw() { o.cursor.Reset() }

func (o *OptiCloud) SetPointsPerStep(perStep uint32) error {
	return o.cursor.SetPointsPerStep(perStep)
}

func (o *OptiCloud) Cursor() *Cursor { return o.cursor }

func (o *OptiCloud) PointCount() uint32 { return uint32(len(o.points)) }

func (o *OptiCloud) VertexBuffer() *render.Buffer { return o.vertexBuffer }

func (o *OptiCloud) ReprojectedBuffer() *render.Buffer { return o.reprojectedBuffer }

func (o *OptiCloud) ReprojectedCount() uint32 { return o.reprojectedCount }

func (o *OptiCloud) Destroy() {
	o.vertexBuffer.Destroy()
	o.vertexBuffer = nil
	o.DestroyReprojectedBuffer()
}
