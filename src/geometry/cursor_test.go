package geometry

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestCursorCoversAllPoints(t *testing.T) {
	for idx, tc := range []struct {
		total, perStep uint32
		draws          int
	}{
		{0, 1, 0},
		{0, 100, 0},
		{1, 1, 1},
		{1, 100, 1},
		{10, 4, 3},
		{10, 5, 2},
		{10, 10, 1},
		{10, 11, 1},
		{99, 1, 99},
		{5_000_000, 100_000, 50},
		{5_000_001, 100_000, 51},
		{1 << 31, 1 << 30, 2},
		{^uint32(0), ^uint32(0), 1},
		{^uint32(0), 1 << 31, 2},
	} {
		t.Run(fmt.Sprintf("%d/%d by %d", idx, tc.total, tc.perStep), func(t *testing.T) {
			c, err := NewCursor(tc.total, tc.perStep)
			require.NoError(t, err)

			var sum uint64
			var next uint32
			draws := 0
			for {
				first, count, ok := c.Next()
				if !ok {
					break
				}
				require.Equal(t, next, first)
				require.NotZero(t, count)
				require.LessOrEqual(t, count, tc.perStep)
				sum += uint64(count)
				next = first + count
				draws++
				require.LessOrEqual(t, draws, tc.draws)
			}
			require.Equal(t, tc.draws, draws)
			require.Equal(t, uint64(tc.total), sum)
			require.True(t, c.Done())

			for i := 0; i < 3; i++ {
				_, _, ok := c.Next()
				require.False(t, ok)
			}
		})
	}
}

func TestCursorReset(t *testing.T) {
	for idx, tc := range []struct {
		total, perStep uint32
		before         int
	}{
		{10, 4, 0},
		{10, 4, 1},
		{10, 4, 3},
		{10, 4, 7},
		{1000, 3, 200},
	} {
		t.Run(fmt.Sprintf("%d/after %d", idx, tc.before), func(t *testing.T) {
			c, err := NewCursor(tc.total, tc.perStep)
			require.NoError(t, err)
			for i := 0; i < tc.before; i++ {
				c.Next()
			}
			c.Reset()
			require.Zero(t, c.Step())
			require.Zero(t, c.Offset())

			first, count, ok := c.Next()
			require.True(t, ok)
			require.Zero(t, first)
			require.Equal(t, min(tc.perStep, tc.total), count)
		})
	}
}

func TestCursorZeroStep(t *testing.T) {
	_, err := NewCursor(10, 0)
	require.True(t, errors.Is(err, ErrZeroStep))

	c, err := NewCursor(10, 4)
	require.NoError(t, err)
	c.Next()
	require.True(t, errors.Is(c.SetPointsPerStep(0), ErrZeroStep))
	require.Equal(t, uint32(4), c.PointsPerStep())
	require.Equal(t, uint32(1), c.Step())
}

func TestCursorSetPointsPerStepRestarts(t *testing.T) {
	c, err := NewCursor(10, 4)
	require.NoError(t, err)
	c.Next()
	c.Next()

	require.NoError(t, c.SetPointsPerStep(3))
	var counts []uint32
	for {
		first, count, ok := c.Next()
		if !ok {
			break
		}
		require.Equal(t, uint32(len(counts))*3, first)
		counts = append(counts, count)
	}
	require.Equal(t, []uint32{3, 3, 3, 1}, counts)
}
