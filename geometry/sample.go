package geometry

import (
	"math"
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

func triangleArea(a, b, c mgl64.Vec3) float64 {
	return 0.5 * b.Sub(a).Cross(c.Sub(a)).Len()
}

// SamplePoints picks count points uniformly distributed over the surface
// of the triangles, choosing a triangle with probability proportional to its
// area.
func SamplePoints(verts []mgl64.Vec3, triangles [][3]int, count int, rng *rand.Rand) ([]mgl64.Vec3, error) {
	if len(triangles) == 0 {
		return nil, errors.New("mesh has no triangles")
	}

	cumulative := make([]float64, len(triangles))
	total := 0.0
	for i, tri := range triangles {
		total += triangleArea(verts[tri[0]], verts[tri[1]], verts[tri[2]])
		cumulative[i] = total
	}
	if total <= 0 {
		return nil, errors.New("mesh has zero surface area")
	}

	points := make([]mgl64.Vec3, 0, count)
	for i := 0; i < count; i++ {
		target := rng.Float64() * total
		idx := sort.Search(len(cumulative), func(j int) bool { return cumulative[j] >= target })
		if idx >= len(triangles) {
			idx = len(triangles) - 1
		}
		tri := triangles[idx]
		a, b, c := verts[tri[0]], verts[tri[1]], verts[tri[2]]

		s := math.Sqrt(rng.Float64())
		r2 := rng.Float64()
		u := 1 - s
		v := r2 * s
		w := 1 - u - v

		points = append(points, a.Mul(u).Add(b.Mul(v)).Add(c.Mul(w)))
	}
	return points, nil
}
