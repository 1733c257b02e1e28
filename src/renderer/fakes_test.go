package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/vulkan-go/vulkan"

	"opticloud/src/render"
)

// cmd stands in for a command buffer, the fakes never record into it.
var cmd vulkan.CommandBuffer

// fakeFrames plays the device side of a frame. Record captures what the
// reprojected buffer holds, SubmitCompute overwrites it with the frame number.
type fakeFrames struct {
	images int
	next   int

	acquireOutdated int // number of acquires still reporting out of date
	presentOutdated int
	acquireErr      error
	rebuildErr      error
	minimized       bool // the surface reports a 0x0 extent

	calls    []string
	waited   []int
	rebuilds [][2]uint32

	// pick overrides the round robin image order when set
	pick func() int
	// pending holds the slots submitted and not waited on since, owner the
	// slot that last submitted each image
	pending    map[int]bool
	owner      map[int]int
	violations int

	frame       int
	reprojected int
	drawn       []int
}

func newFakeFrames(images int) *fakeFrames {
	return &fakeFrames{
		images:      images,
		reprojected: -1,
		pending:     map[int]bool{},
		owner:       map[int]int{},
	}
}

func (f *fakeFrames) log(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeFrames) WaitCompute() error {
	f.log("wait compute")
	return nil
}

func (f *fakeFrames) WaitFrame(slot int) error {
	f.log("wait %d", slot)
	f.waited = append(f.waited, slot)
	delete(f.pending, slot)
	return nil
}

func (f *fakeFrames) Acquire(slot int) (int, bool, error) {
	f.log("acquire %d", slot)
	if f.acquireErr != nil {
		return 0, false, f.acquireErr
	}
	if f.acquireOutdated > 0 {
		f.acquireOutdated--
		return 0, true, nil
	}
	if f.pick != nil {
		return f.pick(), false, nil
	}
	image := f.next
	f.next = (f.next + 1) % f.images
	return image, false, nil
}

func (f *fakeFrames) ImageCount() int { return f.images }

func (f *fakeFrames) Record(image int) error {
	f.log("record %d", image)
	if slot, ok := f.owner[image]; ok && f.pending[slot] {
		f.violations++
	}
	f.drawn = append(f.drawn, f.reprojected)
	return nil
}

func (f *fakeFrames) UpdateUniforms() error {
	f.log("uniforms")
	return nil
}

func (f *fakeFrames) SubmitGraphics(slot, image int) error {
	f.log("graphics %d %d", slot, image)
	f.pending[slot] = true
	f.owner[image] = slot
	return nil
}

func (f *fakeFrames) SubmitCompute(slot int) error {
	f.log("compute %d", slot)
	f.reprojected = f.frame
	return nil
}

func (f *fakeFrames) Present(slot, image int) (bool, error) {
	f.log("present %d %d", slot, image)
	f.frame++
	if f.presentOutdated > 0 {
		f.presentOutdated--
		return true, nil
	}
	return false, nil
}

func (f *fakeFrames) SurfaceExtent(width, height uint32) (uint32, uint32, error) {
	if f.minimized {
		return 0, 0, nil
	}
	return width, height, nil
}

func (f *fakeFrames) Rebuild(width, height uint32) error {
	f.log("rebuild %dx%d", width, height)
	if f.rebuildErr != nil {
		return f.rebuildErr
	}
	f.rebuilds = append(f.rebuilds, [2]uint32{width, height})
	// the device is idle and the images are new after a rebuild
	f.pending = map[int]bool{}
	f.owner = map[int]int{}
	return nil
}

// sender keeps the last bytes written at each offset.
type sender struct {
	writes map[int][]byte
}

func newSender() *sender { return &sender{writes: map[int][]byte{}} }

func (s *sender) SendData(data []byte, offset int) error {
	s.writes[offset] = append([]byte(nil), data...)
	return nil
}

type fakeView struct {
	view, proj mgl32.Mat4
	pos        mgl32.Vec3
	updated    bool
}

func (v *fakeView) View() mgl32.Mat4 { return v.view }
func (v *fakeView) Projection() mgl32.Mat4 { return v.proj }
func (v *fakeView) Position() mgl32.Vec3 { return v.pos }
func (v *fakeView) Updated() bool { return v.updated }
func (v *fakeView) ClearUpdated() { v.updated = false }

type fakeAllocator struct{}

func (fakeAllocator) CreateBuffer(size int, _ vulkan.BufferUsageFlags, _ vulkan.MemoryPropertyFlags) (*render.Buffer, error) {
	return &render.Buffer{Size: size}, nil
}

func (fakeAllocator) UploadBuffer(data []byte, _ vulkan.BufferUsageFlags) (*render.Buffer, error) {
	return &render.Buffer{Size: len(data)}, nil
}

type draw struct {
	first, count uint32
}

type recorder struct {
	draws []draw
}

func (r *recorder) BindVertexBuffer(vulkan.CommandBuffer, *render.Buffer) {}

func (r *recorder) BindIndexBuffer(vulkan.CommandBuffer, *render.Buffer) {}

func (r *recorder) Draw(_ vulkan.CommandBuffer, count, first uint32) {
	r.draws = append(r.draws, draw{first: first, count: count})
}

func (r *recorder) DrawIndexed(_ vulkan.CommandBuffer, count uint32) {
	r.draws = append(r.draws, draw{count: count})
}
