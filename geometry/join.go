package geometry

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/mogaika/fbx_scene_tools/scene"
)

// Join merges the geometry of others into carrier and deletes others.
// Every vertex is baked into world space, so the carrier ends up as a root
// with an identity transform. Children of deleted parts that are not joined
// themselves move under the carrier with their world placement kept.
// Shared datablocks are never written in place.
func Join(g *scene.Graph, carrier *scene.Node, others []*scene.Node) error {
	parts := append([]*scene.Node{carrier}, others...)
	for _, n := range parts {
		if !n.Alive() {
			return errors.Errorf("cannot join deleted object")
		}
		if n.Kind != scene.KindMesh {
			return errors.Errorf("cannot join %q: type %s, expected MESH", n.Name(), n.TypeName())
		}
	}

	orphans := adoptees(g, parts, others)

	vertices := make([]mgl64.Vec3, 0)
	faces := make([][]int, 0)
	slots := make([]*scene.Material, 0)
	for _, n := range parts {
		m := n.Mesh()
		if m == nil {
			continue
		}
		world := g.World(n)
		base := len(vertices)
		for _, v := range m.Vertices {
			vertices = append(vertices, world.Mul4x1(v.Vec4(1)).Vec3())
		}
		for _, face := range m.Faces {
			rebased := make([]int, len(face))
			for i, idx := range face {
				rebased[i] = idx + base
			}
			faces = append(faces, rebased)
		}
		for _, mat := range m.Slots() {
			if !containsMaterial(slots, mat) {
				slots = append(slots, mat)
			}
		}
	}

	target := carrier.Mesh()
	if target == nil || target.Users() > 1 {
		name := carrier.Name()
		if target != nil {
			name = target.Name()
		}
		target = g.NewMesh(name)
		g.LinkMesh(carrier, target)
	}
	g.ClearMaterials(target)
	target.Vertices = vertices
	target.Faces = faces
	for _, mat := range slots {
		g.AssignMaterial(target, mat)
	}

	g.ClearParentKeepTransform(carrier)
	carrier.Local = scene.IdentityTransform()
	for _, n := range others {
		g.RemoveNode(n)
	}
	for _, o := range orphans {
		if err := g.SetParent(o.node, carrier); err != nil {
			return errors.Wrapf(err, "Failed to keep %q", o.node.Name())
		}
		o.node.Local = scene.TransformFromMat4(o.world)
	}
	return nil
}

type adoptee struct {
	node  *scene.Node
	world mgl64.Mat4
}

// adoptees lists children of others that survive the join, with world
// matrices taken before anything moves.
func adoptees(g *scene.Graph, parts, others []*scene.Node) []adoptee {
	joined := make(map[*scene.Node]bool, len(parts))
	for _, n := range parts {
		joined[n] = true
	}
	result := make([]adoptee, 0)
	for _, n := range others {
		for _, child := range g.ChildrenInOrder(n) {
			if !joined[child] {
				result = append(result, adoptee{node: child, world: g.World(child)})
			}
		}
	}
	return result
}

func containsMaterial(list []*scene.Material, mat *scene.Material) bool {
	for _, m := range list {
		if m == mat {
			return true
		}
	}
	return false
}
