package ops

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mogaika/fbx_scene_tools/scene"
)

// Flatten collapses every MESH in the scene into one MESH named outputName.
// Meshes keep their world placement and empties left without children are
// deleted. A scene without meshes is returned unchanged with a nil node.
func Flatten(g *scene.Graph, editor MeshEditor, outputName string) (*scene.Node, error) {
	if outputName == "" {
		return nil, errors.Errorf("empty output name")
	}
	meshes := g.MeshNodes()
	if len(meshes) == 0 {
		logger.Infof("no meshes to flatten")
		return nil, nil
	}

	emptied := emptiesLeftBare(g)
	if err := checkFlattenName(g, outputName, emptied); err != nil {
		return nil, err
	}

	for _, n := range meshes {
		g.ClearParentKeepTransform(n)
	}
	for _, n := range emptied {
		g.RemoveNode(n)
	}

	meshes = g.MeshNodes()
	carrier := meshes[0]
	if len(meshes) > 1 {
		if err := editor.Join(g, carrier, meshes[1:]); err != nil {
			return nil, errors.Wrapf(err, "Failed to join %d meshes", len(meshes))
		}
	}
	collectOrphans(g)

	if err := renameWithMesh(g, carrier, outputName); err != nil {
		return nil, err
	}
	logger.Infof("flattened %d meshes into %q", len(meshes), outputName)
	return carrier, nil
}

// emptiesLeftBare lists the EMPTY nodes that will have no children once
// every mesh is detached, that is those whose children are all meshes.
func emptiesLeftBare(g *scene.Graph) []*scene.Node {
	result := make([]*scene.Node, 0)
	for _, n := range g.NodesOfKind(scene.KindEmpty) {
		bare := true
		for _, child := range g.ChildrenInOrder(n) {
			if child.Kind != scene.KindMesh {
				bare = false
				break
			}
		}
		if bare {
			result = append(result, n)
		}
	}
	return result
}

// checkFlattenName fails when outputName belongs to something that survives
// the flatten and is not the merged mesh.
func checkFlattenName(g *scene.Graph, outputName string, emptied []*scene.Node) error {
	if holder := g.Find(outputName); holder != nil && holder.Kind != scene.KindMesh {
		for _, e := range emptied {
			if e == holder {
				holder = nil
				break
			}
		}
		if holder != nil {
			return &scene.NameConflictError{Name: outputName, Holder: fmt.Sprintf("object %q", holder.Name())}
		}
	}
	if m := g.FindMesh(outputName); m != nil {
		for _, user := range g.MeshUsers(m) {
			if user.Kind != scene.KindMesh {
				return &scene.NameConflictError{Name: outputName, Holder: fmt.Sprintf("mesh %q", m.Name())}
			}
		}
	}
	return nil
}
