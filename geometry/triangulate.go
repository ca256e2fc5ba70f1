// Package geometry implements the mesh editing primitives the tools need:
// polygon triangulation, world-space joining and surface sampling.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mogaika/fbx_scene_tools/scene"
)

const epsilon = 1e-12

// newellNormal is robust for concave and slightly non-planar polygons.
func newellNormal(face []int, verts []mgl64.Vec3) mgl64.Vec3 {
	var n mgl64.Vec3
	for i := range face {
		cur := verts[face[i]]
		next := verts[face[(i+1)%len(face)]]
		n[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		n[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		n[2] += (cur[0] - next[0]) * (cur[1] + next[1])
	}
	return n
}

// project drops the dominant normal axis, keeping a counter-clockwise
// orientation for the face winding.
func project(face []int, verts []mgl64.Vec3) []mgl64.Vec2 {
	n := newellNormal(face, verts)
	ax, ay, az := math.Abs(n[0]), math.Abs(n[1]), math.Abs(n[2])

	u, v, sign := 0, 1, n[2]
	if ax >= ay && ax >= az {
		u, v, sign = 1, 2, n[0]
	} else if ay >= az {
		u, v, sign = 2, 0, n[1]
	}

	result := make([]mgl64.Vec2, len(face))
	for i, idx := range face {
		p := verts[idx]
		if sign < 0 {
			result[i] = mgl64.Vec2{p[v], p[u]}
		} else {
			result[i] = mgl64.Vec2{p[u], p[v]}
		}
	}
	return result
}

func cross2(a, b, c mgl64.Vec2) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func insideTriangle(p, a, b, c mgl64.Vec2) bool {
	return cross2(a, b, p) >= -epsilon && cross2(b, c, p) >= -epsilon && cross2(c, a, p) >= -epsilon
}

// Triangulate splits one polygon into triangles of vertex indices. Triangles
// pass through untouched, larger polygons are ear clipped and degenerate
// leftovers are fanned.
func Triangulate(face []int, verts []mgl64.Vec3) [][3]int {
	if len(face) < 3 {
		return nil
	}
	if len(face) == 3 {
		return [][3]int{{face[0], face[1], face[2]}}
	}

	points := project(face, verts)
	remaining := make([]int, len(face))
	for i := range remaining {
		remaining[i] = i
	}

	result := make([][3]int, 0, len(face)-2)
	for len(remaining) > 3 {
		count := len(remaining)
		clipped := false
		for k := 0; k < count; k++ {
			i := (k + 1) % count
			prev, cur, next := remaining[(i+count-1)%count], remaining[i], remaining[(i+1)%count]
			a, b, c := points[prev], points[cur], points[next]
			if cross2(a, b, c) <= epsilon {
				continue
			}
			ear := true
			for _, other := range remaining {
				if other == prev || other == cur || other == next {
					continue
				}
				if insideTriangle(points[other], a, b, c) {
					ear = false
					break
				}
			}
			if !ear {
				continue
			}
			result = append(result, [3]int{face[prev], face[cur], face[next]})
			remaining = append(remaining[:i], remaining[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			break
		}
	}

	for i := 1; i+1 < len(remaining); i++ {
		result = append(result, [3]int{face[remaining[0]], face[remaining[i]], face[remaining[i+1]]})
	}
	return result
}

// TriangulateMesh triangulates every face of m in face order.
func TriangulateMesh(m *scene.Mesh) [][3]int {
	result := make([][3]int, 0, len(m.Faces))
	for _, face := range m.Faces {
		result = append(result, Triangulate(face, m.Vertices)...)
	}
	return result
}
