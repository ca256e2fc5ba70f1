package geometry

import (
	"github.com/mogaika/fbx_scene_tools/scene"
)

// Editor is the in-process implementation of the mesh editing capabilities
// a host environment provides.
type Editor struct{}

func (Editor) Triangulate(m *scene.Mesh) [][3]int {
	return TriangulateMesh(m)
}

func (Editor) Join(g *scene.Graph, carrier *scene.Node, others []*scene.Node) error {
	return Join(g, carrier, others)
}
