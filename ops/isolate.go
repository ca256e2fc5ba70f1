package ops

import (
	"github.com/mogaika/fbx_scene_tools/scene"
)

type TargetMode int

const (
	// ByName picks the node with exactly that name.
	ByName TargetMode = iota
	// FirstMeshChildOf picks the first MESH among the direct children of the
	// named root, in the host child order.
	FirstMeshChildOf
)

type Target struct {
	Mode TargetMode
	Name string
}

func (t Target) Resolve(g *scene.Graph) (*scene.Node, error) {
	n, err := g.Lookup(t.Name)
	if err != nil {
		return nil, err
	}
	switch t.Mode {
	case FirstMeshChildOf:
		for _, child := range g.ChildrenInOrder(n) {
			if child.Kind == scene.KindMesh {
				return child, nil
			}
		}
		return nil, scene.NotFound(t.Name, "no mesh child under root")
	default:
		if n.Kind != scene.KindMesh {
			return nil, scene.NotFound(t.Name, "object is %s, not MESH", n.TypeName())
		}
		return n, nil
	}
}

// Isolate leaves only the target mesh in the scene, as a root keeping its
// world placement, renamed together with its datablock to outputName.
// An empty outputName keeps the name given in the target.
func Isolate(g *scene.Graph, target Target, outputName string) (*scene.Node, error) {
	n, err := target.Resolve(g)
	if err != nil {
		return nil, err
	}
	if outputName == "" {
		outputName = target.Name
	}

	g.ClearParentKeepTransform(n)
	for _, other := range g.Nodes() {
		if other != n {
			g.RemoveNode(other)
		}
	}
	collectOrphans(g)

	if err := renameWithMesh(g, n, outputName); err != nil {
		return nil, err
	}
	logger.Infof("isolated %q as %q", target.Name, outputName)
	return n, nil
}
