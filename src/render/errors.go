package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/vulkan"
)

var (
	ErrNoSuitableDevice      = errors.New("no suitable gpu found")
	ErrNoSurfaceSupport      = errors.New("surface is not supported by the physical device")
	ErrNoMemoryType          = errors.New("no suitable memory type")
	ErrNoDepthFormat         = errors.New("no supported depth format")
	ErrUnsupportedTransition = errors.New("unsupported layout transition")
	ErrTimeout               = errors.New("timed out waiting on fence")
)

// NewError turns a non-success vulkan result into an error carrying the caller's stack.
func NewError(retVal vulkan.Result) error {
	if retVal == vulkan.Success {
		return nil
	}
	if retVal == vulkan.Timeout {
		return errors.WithStackDepth(ErrTimeout, 1)
	}
	return errors.WithStackDepth(
		errors.Wrapf(vulkan.Error(retVal), "vulkan error (%d)", retVal), 1)
}

func IsError(retVal vulkan.Result) bool {
	return retVal != vulkan.Success
}

// OrPanic runs the finalizers and panics when err is set.
func OrPanic(err error, finalizers ...func()) {
	if err == nil {
		return
	}
	for _, fn := range finalizers {
		fn()
	}
	panic(err)
}

// CheckError recovers a panic into *err. Use it deferred.
func CheckError(err *error) {
	if v := recover(); v != nil {
		if e, ok := v.(error); ok {
			*err = e
			return
		}
		*err = errors.Newf("%+v", v)
	}
}
