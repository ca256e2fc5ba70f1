package ops

import (
	"fmt"

	"github.com/mogaika/fbx_scene_tools/scene"
	"github.com/mogaika/fbx_scene_tools/utils"
)

// MeshNames returns the names RenameMeshes assigns to count meshes.
func MeshNames(base string, count int) []string {
	if count == 1 {
		return []string{base}
	}
	result := make([]string, count)
	for i := range result {
		result[i] = fmt.Sprintf("%s-%03d", base, i+1)
	}
	return result
}

// RenameMeshes renames every MESH node and its datablock after base. Meshes
// are numbered in ascending name order when there is more than one.
func RenameMeshes(g *scene.Graph, base string) error {
	meshes := g.MeshNodes()
	if len(meshes) == 0 {
		return nil
	}
	names := MeshNames(base, len(meshes))

	renamed := make(map[*scene.Node]bool, len(meshes))
	for _, n := range meshes {
		renamed[n] = true
	}
	for _, name := range names {
		if err := checkRenameTarget(g, name, renamed); err != nil {
			return err
		}
	}

	collectOrphans(g)
	makeSingleUser(g, meshes)

	var rng utils.RandomNameGenerator
	taken := func(name string) bool {
		return g.Find(name) != nil || g.FindMesh(name) != nil
	}
	for _, n := range meshes {
		if err := renameWithMesh(g, n, rng.RandomNameExcept(taken)); err != nil {
			return err
		}
	}
	for i, n := range meshes {
		logger.Debugf("renaming mesh #%d to %q", i, names[i])
		if err := renameWithMesh(g, n, names[i]); err != nil {
			return err
		}
	}
	return nil
}

func checkRenameTarget(g *scene.Graph, name string, renamed map[*scene.Node]bool) error {
	if holder := g.Find(name); holder != nil && !renamed[holder] {
		return &scene.NameConflictError{Name: name, Holder: fmt.Sprintf("object %q", holder.Name())}
	}
	if m := g.FindMesh(name); m != nil {
		for _, user := range g.MeshUsers(m) {
			if !renamed[user] {
				return &scene.NameConflictError{Name: name, Holder: fmt.Sprintf("mesh %q", m.Name())}
			}
		}
	}
	return nil
}

// makeSingleUser gives every node after the first its own copy of a shared
// mesh datablock.
func makeSingleUser(g *scene.Graph, nodes []*scene.Node) {
	seen := make(map[*scene.Mesh]bool)
	for _, n := range nodes {
		m := n.Mesh()
		if m == nil {
			continue
		}
		if seen[m] {
			g.LinkMesh(n, g.CopyMesh(m, m.Name()))
		}
		seen[m] = true
	}
}
