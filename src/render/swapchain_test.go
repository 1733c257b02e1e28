package render

import (
	"fmt"
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vulkan-go/vulkan"
)

func TestChooseSurfaceFormat(t *testing.T) {
	srgb := vulkan.SurfaceFormat{Format: vulkan.FormatB8g8r8a8Srgb, ColorSpace: vulkan.ColorSpaceSrgbNonlinear}
	unorm := vulkan.SurfaceFormat{Format: vulkan.FormatB8g8r8a8Unorm, ColorSpace: vulkan.ColorSpaceSrgbNonlinear}

	assert.Equal(t, srgb, ChooseSurfaceFormat([]vulkan.SurfaceFormat{unorm, srgb}))
	assert.Equal(t, unorm, ChooseSurfaceFormat([]vulkan.SurfaceFormat{unorm}))
	assert.Equal(t, srgb, ChooseSurfaceFormat(nil))
}

func TestChoosePresentMode(t *testing.T) {
	assert.Equal(t, vulkan.PresentModeMailbox, ChoosePresentMode([]vulkan.PresentMode{vulkan.PresentModeFifo, vulkan.PresentModeMailbox}))
	assert.Equal(t, vulkan.PresentModeFifo, ChoosePresentMode([]vulkan.PresentMode{vulkan.PresentModeImmediate}))
	assert.Equal(t, vulkan.PresentModeFifo, ChoosePresentMode(nil))
}

func TestChooseSwapExtent(t *testing.T) {
	floating := vulkan.SurfaceCapabilities{
		CurrentExtent:  vulkan.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32},
		MinImageExtent: vulkan.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vulkan.Extent2D{Width: 4096, Height: 2048},
	}
	fixed := floating
	fixed.CurrentExtent = vulkan.Extent2D{Width: 800, Height: 600}

	for idx, tc := range []struct {
		caps          vulkan.SurfaceCapabilities
		width, height uint32
		want          vulkan.Extent2D
	}{
		{fixed, 1280, 720, vulkan.Extent2D{Width: 800, Height: 600}},
		{floating, 1280, 720, vulkan.Extent2D{Width: 1280, Height: 720}},
		{floating, 8192, 0, vulkan.Extent2D{Width: 4096, Height: 1}},
	} {
		t.Run(fmt.Sprintf("%d/%dx%d", idx, tc.width, tc.height), func(t *testing.T) {
			assert.Equal(t, tc.want, ChooseSwapExtent(tc.caps, tc.width, tc.height))
		})
	}
}

func TestChooseImageCount(t *testing.T) {
	for idx, tc := range []struct {
		min, max, want uint32
	}{
		{2, 0, 3},
		{2, 8, 3},
		{3, 3, 3},
	} {
		t.Run(fmt.Sprintf("%d/%d-%d", idx, tc.min, tc.max), func(t *testing.T) {
			got := ChooseImageCount(vulkan.SurfaceCapabilities{MinImageCount: tc.min, MaxImageCount: tc.max})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTransitionBarrier(t *testing.T) {
	for idx, tc := range []struct {
		name     string
		from, to vulkan.ImageLayout
		dstStage vulkan.PipelineStageFlagBits
	}{
		{"upload", vulkan.ImageLayoutUndefined, vulkan.ImageLayoutTransferDstOptimal, vulkan.PipelineStageTransferBit},
		{"sample", vulkan.ImageLayoutTransferDstOptimal, vulkan.ImageLayoutShaderReadOnlyOptimal, vulkan.PipelineStageFragmentShaderBit},
		{"depth", vulkan.ImageLayoutUndefined, vulkan.ImageLayoutDepthStencilAttachmentOptimal, vulkan.PipelineStageEarlyFragmentTestsBit},
		{"general", vulkan.ImageLayoutUndefined, vulkan.ImageLayoutGeneral, vulkan.PipelineStageAllCommandsBit},
	} {
		t.Run(fmt.Sprintf("%d/%s", idx, tc.name), func(t *testing.T) {
			b, err := TransitionBarrier(tc.from, tc.to)
			require.NoError(t, err)
			require.Equal(t, vulkan.PipelineStageFlags(tc.dstStage), b.DstStage)
		})
	}

	_, err := TransitionBarrier(vulkan.ImageLayoutGeneral, vulkan.ImageLayoutPresentSrc)
	require.True(t, errors.Is(err, ErrUnsupportedTransition))
}

func TestNewError(t *testing.T) {
	require.NoError(t, NewError(vulkan.Success))
	require.False(t, IsError(vulkan.Success))

	err := NewError(vulkan.Timeout)
	require.True(t, errors.Is(err, ErrTimeout))

	err = NewError(vulkan.ErrorDeviceLost)
	require.Error(t, err)
	require.True(t, IsError(vulkan.ErrorDeviceLost))
	require.Contains(t, fmt.Sprintf("%+v", err), "TestNewError", "the error carries the caller's stack")
}

func TestOrPanic(t *testing.T) {
	recovered := func(fail error, finalized *bool) (err error) {
		defer CheckError(&err)
		OrPanic(fail, func() { *finalized = true })
		return nil
	}

	var finalized bool
	require.NoError(t, recovered(nil, &finalized))
	require.False(t, finalized)

	err := recovered(ErrNoDepthFormat, &finalized)
	require.True(t, errors.Is(err, ErrNoDepthFormat))
	require.True(t, finalized)
}
