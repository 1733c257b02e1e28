package geometry

import (
	"context"
	"math"
	"math/rand"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPointCount    = 5_000_000
	DefaultPointsPerStep = 100_000

	planeExtent = 10
	minChunk    = 1 << 16
)

// fill runs gen over [0,n) split in chunks, one goroutine and one random
// source per chunk.
func fill(ctx context.Context, n int, seed int64, gen func(r *rand.Rand, lo, hi int)) error {
	if n < 0 {
		return errors.Newf("negative point count %d", n)
	}
	cpus := runtime.NumCPU()
	chunk := max(minChunk, (n+cpus-1)/cpus)

	g, ctx := errgroup.WithContext(ctx)
	for lo, i := 0, int64(0); lo < n; lo, i = lo+chunk, i+1 {
		hi := min(lo+chunk, n)
		r := rand.New(rand.NewSource(seed + i))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			gen(r, lo, hi)
			return nil
		})
	}
	return g.Wait()
}

// RandomPlane scatters n cyan points over the z=0 square [-10,10]².
func RandomPlane(ctx context.Context, n int, seed int64) ([]OptiCloudVertex, error) {
	points := make([]OptiCloudVertex, max(n, 0))
	err := fill(ctx, n, seed, func(r *rand.Rand, lo, hi int) {
		for i := lo; i < hi; i++ {
			points[i] = OptiCloudVertex{
				Pos: mgl32.Vec3{
					uniform(r, -planeExtent, planeExtent),
					uniform(r, -planeExtent, planeExtent),
					0,
				},
				Color: [3]uint8{0, 255, 255},
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

// Galaxy spreads n points in a sphere of the given diameter flattened on
// the y axis to thickness.
func Galaxy(ctx context.Context, n int, diameter, thickness float32, color mgl32.Vec3, seed int64) ([]CloudVertex, error) {
	if diameter <= 0 {
		return nil, errors.Newf("galaxy diameter %v", diameter)
	}
	points := make([]CloudVertex, max(n, 0))
	err := fill(ctx, n, seed, func(r *rand.Rand, lo, hi int) {
		for i := lo; i < hi; i++ {
			pos := Spherical(
				uniform(r, 0, diameter/2),
				uniform(r, 0, 2*math.Pi),
				uniform(r, 0, math.Pi))
			pos[1] *= thickness / diameter
			points[i] = CloudVertex{Pos: pos, Color: color, Index: int32(i)}
		}
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

// Spherical converts a radius, an azimuth theta around y and a polar angle
// phi from y into cartesian coordinates.
func Spherical(radius, theta, phi float32) mgl32.Vec3 {
	st, ct := math.Sincos(float64(theta))
	sp, cp := math.Sincos(float64(phi))
	r := float64(radius)
	return mgl32.Vec3{float32(r * st * sp), float32(r * cp), float32(r * ct * sp)}
}

func uniform(r *rand.Rand, lo, hi float32) float32 {
	return lo + r.Float32()*(hi-lo)
}
