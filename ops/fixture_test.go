package ops

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/fbx_scene_tools/geometry"
	"github.com/mogaika/fbx_scene_tools/scene"
)

var editor = geometry.Editor{}

func addQuad(g *scene.Graph, name string, parent *scene.Node, offset mgl64.Vec3) *scene.Node {
	n := g.AddNode(name, scene.KindMesh)
	n.Local.Translation = offset
	m := g.NewMesh(name)
	m.Vertices = []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	m.Faces = [][]int{{0, 1, 2, 3}}
	g.LinkMesh(n, m)
	if parent != nil {
		if err := g.SetParent(n, parent); err != nil {
			panic(err)
		}
	}
	return n
}

// characterScene builds
//
//	Armature (EMPTY, rotated)
//	  Body (MESH, material Skin)
//	  Props (EMPTY, translated)
//	    Zed (MESH)
//	    Alpha (MESH, material Steel)
//	Camera (CAMERA)
func characterScene(t *testing.T) *scene.Graph {
	g := scene.New()
	armature := g.AddNode("Armature", scene.KindEmpty)
	armature.Local.Rotation = mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{1, 0, 0})
	armature.Local.Scale = mgl64.Vec3{2, 2, 2}

	body := addQuad(g, "Body", armature, mgl64.Vec3{0, 0, 1})
	skin := g.NewMaterial("Skin")
	g.AssignMaterial(body.Mesh(), skin)

	props := g.AddNode("Props", scene.KindEmpty)
	props.Local.Translation = mgl64.Vec3{5, 0, 0}
	require.NoError(t, g.SetParent(props, armature))

	addQuad(g, "Zed", props, mgl64.Vec3{0, 3, 0})
	alpha := addQuad(g, "Alpha", props, mgl64.Vec3{0, -3, 0})
	steel := g.NewMaterial("Steel")
	g.AssignMaterial(alpha.Mesh(), steel)

	camera := g.AddNode("Camera", scene.KindOther)
	camera.HostType = "CAMERA"
	return g
}

func nodeNames(g *scene.Graph) []string {
	result := make([]string, 0)
	for _, n := range g.Nodes() {
		result = append(result, n.Name())
	}
	return result
}

func meshNames(g *scene.Graph) []string {
	result := make([]string, 0)
	for _, m := range g.Meshes() {
		result = append(result, m.Name())
	}
	return result
}
