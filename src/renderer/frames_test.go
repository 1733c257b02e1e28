package renderer

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameOrder(t *testing.T) {
	frames := newFakeFrames(3)
	loop := NewFrameLoop(frames, 800, 600)

	require.NoError(t, loop.DrawNextFrame())
	require.Equal(t, []string{
		"wait compute",
		"wait 0",
		"acquire 0",
		"record 0",
		"uniforms",
		"graphics 0 0",
		"compute 0",
		"present 0 0",
	}, frames.calls)
	require.Equal(t, 1, loop.CurrentFrame())
}

func TestFrameSlotsAlternate(t *testing.T) {
	// with two images each slot keeps getting its own image back
	frames := newFakeFrames(2)
	loop := NewFrameLoop(frames, 800, 600)

	for idx, want := range []int{1, 0, 1, 0, 1} {
		t.Run(fmt.Sprintf("%d/frame", idx), func(t *testing.T) {
			require.NoError(t, loop.DrawNextFrame())
			require.Equal(t, want, loop.CurrentFrame())
		})
	}
	require.Equal(t, []int{0, 1, 0, 1, 0}, frames.waited)
}

func TestFrameRoundRobinImagesWaitOnOwner(t *testing.T) {
	frames := newFakeFrames(3)
	loop := NewFrameLoop(frames, 800, 600)

	for i := 0; i < 5; i++ {
		require.NoError(t, loop.DrawNextFrame())
	}
	// frames 3 and 4 get images 0 and 1 back, last submitted by the other slot
	require.Equal(t, []int{0, 1, 0, 1, 0, 0, 1}, frames.waited)
}

func TestFrameWaitsOnImageOwner(t *testing.T) {
	// a single image is handed to both slots in turn
	frames := newFakeFrames(1)
	loop := NewFrameLoop(frames, 800, 600)

	require.NoError(t, loop.DrawNextFrame())
	require.Equal(t, []int{0}, frames.waited)

	require.NoError(t, loop.DrawNextFrame())
	require.Equal(t, []int{0, 1, 0}, frames.waited, "slot 1 waits on slot 0 still holding image 0")

	require.NoError(t, loop.DrawNextFrame())
	require.Equal(t, []int{0, 1, 0, 0, 1}, frames.waited)
}

// Images come back from acquire in any order, the command buffer of an image
// is only recorded again once the slot that last submitted it completed.
func TestFrameNeverRecordsInFlightImage(t *testing.T) {
	for idx, images := range []int{1, 2, 3, 5} {
		t.Run(fmt.Sprintf("%d/%d images", idx, images), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(images)))
			frames := newFakeFrames(images)
			frames.pick = func() int { return rng.Intn(images) }
			loop := NewFrameLoop(frames, 800, 600)

			for i := 0; i < 1000; i++ {
				if rng.Intn(50) == 0 {
					frames.acquireOutdated = 1
				}
				require.NoError(t, loop.DrawNextFrame())
			}
			require.Zero(t, frames.violations)
		})
	}
}

func TestFrameOutdatedAcquire(t *testing.T) {
	frames := newFakeFrames(1)
	loop := NewFrameLoop(frames, 800, 600)
	require.NoError(t, loop.DrawNextFrame())

	frames.acquireOutdated = 1
	frames.calls = nil
	require.NoError(t, loop.DrawNextFrame())
	require.Equal(t, []string{"wait compute", "wait 1", "acquire 1", "rebuild 800x600"}, frames.calls)
	require.Equal(t, 1, loop.CurrentFrame(), "a skipped frame keeps its slot")

	// image ownership is forgotten with the old swapchain
	frames.waited = nil
	require.NoError(t, loop.DrawNextFrame())
	require.Equal(t, []int{1}, frames.waited)
	require.Equal(t, 0, loop.CurrentFrame())
}

func TestFrameOutdatedPresent(t *testing.T) {
	frames := newFakeFrames(2)
	frames.presentOutdated = 1
	loop := NewFrameLoop(frames, 640, 480)

	require.NoError(t, loop.DrawNextFrame())
	require.Equal(t, "present 0 0", frames.calls[len(frames.calls)-2])
	require.Equal(t, "rebuild 640x480", frames.calls[len(frames.calls)-1])
	require.Equal(t, [][2]uint32{{640, 480}}, frames.rebuilds)
	require.Equal(t, 1, loop.CurrentFrame(), "a presented frame advances")
}

func TestFrameMinimized(t *testing.T) {
	for idx, tc := range []struct {
		name    string
		outdate func(f *fakeFrames)
		present string
	}{
		{"acquire", func(f *fakeFrames) { f.acquireOutdated = 1 }, "present 1 1"},
		{"present", func(f *fakeFrames) { f.presentOutdated = 1 }, "present 0 0"},
	} {
		t.Run(fmt.Sprintf("%d/%s", idx, tc.name), func(t *testing.T) {
			frames := newFakeFrames(2)
			loop := NewFrameLoop(frames, 800, 600)
			require.NoError(t, loop.DrawNextFrame())

			frames.minimized = true
			tc.outdate(frames)
			require.NoError(t, loop.DrawNextFrame())
			require.Empty(t, frames.rebuilds, "nothing is rebuilt for a 0x0 surface")
			require.True(t, loop.RebuildPending())

			// no frame is drawn on the stale swapchain while minimized
			frames.calls = nil
			for i := 0; i < 3; i++ {
				require.NoError(t, loop.DrawNextFrame())
			}
			require.Empty(t, frames.calls)

			frames.minimized = false
			require.NoError(t, loop.DrawNextFrame())
			require.Equal(t, [][2]uint32{{800, 600}}, frames.rebuilds)
			require.False(t, loop.RebuildPending())
			require.Equal(t, "rebuild 800x600", frames.calls[0])
			require.Equal(t, tc.present, frames.calls[len(frames.calls)-1])
		})
	}
}

func TestFrameResizeWhileMinimized(t *testing.T) {
	frames := newFakeFrames(2)
	frames.minimized = true
	loop := NewFrameLoop(frames, 800, 600)

	require.NoError(t, loop.Resize(1024, 768))
	require.Empty(t, frames.rebuilds)
	require.True(t, loop.RebuildPending())

	frames.minimized = false
	require.NoError(t, loop.DrawNextFrame())
	require.Equal(t, [][2]uint32{{1024, 768}}, frames.rebuilds)
}

func TestFrameErrors(t *testing.T) {
	for idx, tc := range []struct {
		name  string
		setup func(f *fakeFrames)
		last  string
	}{
		{"acquire", func(f *fakeFrames) { f.acquireErr = errors.New("device lost") }, "acquire 0"},
		{"rebuild", func(f *fakeFrames) {
			f.acquireOutdated = 1
			f.rebuildErr = errors.New("surface lost")
		}, "rebuild 800x600"},
	} {
		t.Run(fmt.Sprintf("%d/%s", idx, tc.name), func(t *testing.T) {
			frames := newFakeFrames(2)
			tc.setup(frames)
			loop := NewFrameLoop(frames, 800, 600)

			require.Error(t, loop.DrawNextFrame())
			require.Equal(t, tc.last, frames.calls[len(frames.calls)-1])
			require.Equal(t, 0, loop.CurrentFrame())
		})
	}
}

func TestFrameResize(t *testing.T) {
	for idx, tc := range []struct {
		width, height uint32
		rebuilt       bool
	}{
		{0, 0, false},
		{0, 600, false},
		{800, 0, false},
		{1024, 768, true},
	} {
		t.Run(fmt.Sprintf("%d/%dx%d", idx, tc.width, tc.height), func(t *testing.T) {
			frames := newFakeFrames(2)
			loop := NewFrameLoop(frames, 800, 600)

			require.NoError(t, loop.Resize(tc.width, tc.height))
			if !tc.rebuilt {
				assert.Empty(t, frames.rebuilds)
				w, h := loop.Size()
				assert.Equal(t, [2]uint32{800, 600}, [2]uint32{w, h})
				return
			}
			assert.Equal(t, [][2]uint32{{tc.width, tc.height}}, frames.rebuilds)
			w, h := loop.Size()
			assert.Equal(t, [2]uint32{tc.width, tc.height}, [2]uint32{w, h})
		})
	}
}

// The reprojection drawn in frame f is the one computed in frame f-1.
func TestFrameReprojectionLagsOneFrame(t *testing.T) {
	frames := newFakeFrames(3)
	loop := NewFrameLoop(frames, 800, 600)

	for i := 0; i < 5; i++ {
		require.NoError(t, loop.DrawNextFrame())
	}
	require.Equal(t, []int{-1, 0, 1, 2, 3}, frames.drawn)
}
