package geometry

import (
	"github.com/cockroachdb/errors"
)

var ErrZeroStep = errors.New("points per step must be positive")

// Cursor walks a buffer of Total points PerStep at a time. Once the whole
// buffer is consumed Next reports nothing until Reset.
type Cursor struct {
	total   uint64
	perStep uint64
	step    uint64
}

func NewCursor(total, perStep uint32) (*Cursor, error) {
	if perStep == 0 {
		return nil, errors.WithStack(ErrZeroStep)
	}
	return &Cursor{total: uint64(total), perStep: uint64(perStep)}, nil
}

// Next returns the next chunk and advances by one step.
func (c *Cursor) Next() (first, count uint32, ok bool) {
	offset := c.step * c.perStep
	if offset >= c.total {
		return 0, 0, false
	}
	n := min(c.total-offset, c.perStep)
	c.step++
	return uint32(offset), uint32(n), true
}

func (c *Cursor) Reset() { c.step = 0 }

func (c *Cursor) Step() uint32 { return uint32(c.step) }

// Offset is the first point the next chunk starts from.
func (c *Cursor) Offset() uint32 { return uint32(min(c.step*c.perStep, c.total)) }

func (c *Cursor) Done() bool { return c.step*c.perStep >= c.total }

func (c *Cursor) Total() uint32 { return uint32(c.total) }

func (c *Cursor) PointsPerStep() uint32 { return uint32(c.perStep) }

// SetPointsPerStep changes the chunk size and restarts from the first point.
func (c *Cursor) SetPointsPerStep(perStep uint32) error {
	if perStep == 0 {
		return errors.WithStack(ErrZeroStep)
	}
	c.perStep = uint64(perStep)
	c.step = 0
	return nil
}
