package renderer

import (
	"log"

	"github.com/cockroachdb/errors"
)

// MaxFramesInFlight is how many frames the host records ahead of the GPU.
const MaxFramesInFlight = 2

const noFrame = -1

// FrameContext is what a frame is made of. Slots index the per frame
// synchronization objects, images index the swapchain and its command buffers.
type FrameContext interface {
	// WaitCompute blocks on the compute pass of the previous frame.
	WaitCompute() error
	// WaitFrame blocks until the last submission of slot completed.
	WaitFrame(slot int) error
	// Acquire signals the image available semaphore of slot. outdated asks
	// for a rebuild.
	Acquire(slot int) (image int, outdated bool, err error)
	ImageCount() int
	// Record fills the command buffer of image.
	Record(image int) error
	UpdateUniforms() error
	// SubmitGraphics resets the fence of slot and submits the command buffer
	// of image with it, waiting on image available and signaling the
	// compute semaphore.
	SubmitGraphics(slot, image int) error
	// SubmitCompute waits on the compute semaphore and signals render finished.
	SubmitCompute(slot int) error
	// Present waits on render finished. outdated asks for a rebuild.
	Present(slot, image int) (outdated bool, err error)
	// SurfaceExtent is the extent a swapchain built for width x height would
	// get. It is 0x0 while the window is minimized.
	SurfaceExtent(width, height uint32) (w, h uint32, err error)
	// Rebuild recreates everything sized after the swapchain.
	Rebuild(width, height uint32) error
}

// FrameLoop drives a FrameContext frame after frame.
type FrameLoop struct {
	ctx FrameContext

	currentFrame   int
	imagesInFlight []int

	width, height uint32
	// deferred is set while a rebuild waits for the surface to get an area
	deferred bool
}

func NewFrameLoop(ctx FrameContext, width, height uint32) *FrameLoop {
	l := &FrameLoop{ctx: ctx, width: width, height: height}
	l.resetImages()
	return l
}

func (l *FrameLoop) resetImages() {
	l.imagesInFlight = make([]int, l.ctx.ImageCount())
	for i := range l.imagesInFlight {
		l.imagesInFlight[i] = noFrame
	}
}

func (l *FrameLoop) CurrentFrame() int { return l.currentFrame }

func (l *FrameLoop) Size() (width, height uint32) { return l.width, l.height }

// RebuildPending reports a rebuild held back by a zero sized surface.
func (l *FrameLoop) RebuildPending() bool { return l.deferred }

// DrawNextFrame records, submits and presents one frame. An outdated
// swapchain is rebuilt, skipping the frame when it shows up on acquire.
func (l *FrameLoop) DrawNextFrame() error {
	if l.deferred {
		if err := l.rebuild(); err != nil {
			return err
		}
		if l.deferred {
			return nil
		}
	}

	slot := l.currentFrame

	if err := l.ctx.WaitCompute(); err != nil {
		return err
	}
	if err := l.ctx.WaitFrame(slot); err != nil {
		return errors.Wrapf(err, "wait frame %d", slot)
	}

	image, outdated, err := l.ctx.Acquire(slot)
	if err != nil {
		return err
	}
	if outdated {
		return l.rebuild()
	}

	if prev := l.imagesInFlight[image]; prev != noFrame && prev != slot {
		if err := l.ctx.WaitFrame(prev); err != nil {
			return errors.Wrapf(err, "wait frame %d holding image %d", prev, image)
		}
	}
	l.imagesInFlight[image] = slot

	if err := l.ctx.Record(image); err != nil {
		return err
	}
	if err := l.ctx.UpdateUniforms(); err != nil {
		return err
	}
	if err := l.ctx.SubmitGraphics(slot, image); err != nil {
		return err
	}
	if err := l.ctx.SubmitCompute(slot); err != nil {
		return err
	}

	outdated, err = l.ctx.Present(slot, image)
	if err != nil {
		return err
	}
	if outdated {
		if err := l.rebuild(); err != nil {
			return err
		}
	}

	l.currentFrame = (l.currentFrame + 1) % MaxFramesInFlight
	return nil
}

// Resize rebuilds for a width x height surface. A zero dimension, as
// reported while minimized, is ignored until a usable size arrives.
func (l *FrameLoop) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}
	l.width, l.height = width, height
	return l.rebuild()
}

// rebuild leaves the current resources alone while the surface has no area
// and retries on the next frame.
func (l *FrameLoop) rebuild() error {
	w, h, err := l.ctx.SurfaceExtent(l.width, l.height)
	if err != nil {
		return errors.Wrap(err, "query surface extent")
	}
	if w == 0 || h == 0 {
		if !l.deferred {
			log.Printf("renderer: surface is %dx%d, rebuild deferred", w, h)
		}
		l.deferred = true
		return nil
	}

	log.Printf("renderer: rebuilding swapchain resources at %dx%d", l.width, l.height)
	if err := l.ctx.Rebuild(l.width, l.height); err != nil {
		return errors.Wrap(err, "rebuild swapchain resources")
	}
	l.deferred = false
	l.resetImages()
	return nil
}
