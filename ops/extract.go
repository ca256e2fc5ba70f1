package ops

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/mogaika/fbx_scene_tools/geometry"
	"github.com/mogaika/fbx_scene_tools/scene"
)

type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Geometry is a triangulated mesh in the local space of its node.
type Geometry struct {
	Vertices  []Vertex `json:"vertices"`
	Triangles [][3]int `json:"triangles"`
}

type Point struct {
	X float64 `json:"X"`
	Y float64 `json:"Y"`
	Z float64 `json:"Z"`
}

func lookupMesh(g *scene.Graph, name string) (*scene.Node, error) {
	n, err := g.Lookup(name)
	if err != nil {
		return nil, err
	}
	if n.Kind != scene.KindMesh {
		return nil, scene.NotFound(name, "object is %s, not MESH", n.TypeName())
	}
	return n, nil
}

func ExtractGeometry(g *scene.Graph, editor MeshEditor, name string) (*Geometry, error) {
	n, err := lookupMesh(g, name)
	if err != nil {
		return nil, err
	}

	result := &Geometry{
		Vertices:  make([]Vertex, 0),
		Triangles: make([][3]int, 0),
	}
	m := n.Mesh()
	if m == nil {
		return result, nil
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	for _, v := range m.Vertices {
		result.Vertices = append(result.Vertices, Vertex{X: v[0], Y: v[1], Z: v[2]})
	}
	result.Triangles = append(result.Triangles, editor.Triangulate(m)...)
	return result, nil
}

// PointCloud samples count points on the surface of the named mesh in its
// local space. The same seed always yields the same points.
func PointCloud(g *scene.Graph, editor MeshEditor, name string, count int, seed int64) ([]Point, error) {
	if count < 0 {
		return nil, errors.Errorf("negative point count %d", count)
	}
	n, err := lookupMesh(g, name)
	if err != nil {
		return nil, err
	}
	m := n.Mesh()
	if m == nil {
		return nil, errors.Errorf("object %q has no mesh data", name)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	samples, err := geometry.SamplePoints(m.Vertices, editor.Triangulate(m), count, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to sample %q", name)
	}
	result := make([]Point, len(samples))
	for i, p := range samples {
		result[i] = Point{X: p[0], Y: p[1], Z: p[2]}
	}
	return result, nil
}
