package ops

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/fbx_scene_tools/scene"
)

func TestStripMaterials(t *testing.T) {
	g := characterScene(t)
	report := StripMaterials(g)

	assert.True(t, report.Converged)
	assert.Empty(t, g.Materials())
	assert.ElementsMatch(t, []string{"Body", "Zed", "Alpha"}, meshNames(g))
	for _, m := range g.Meshes() {
		assert.Empty(t, m.Slots())
	}
}

func TestIsolateByName(t *testing.T) {
	g := characterScene(t)
	alpha := g.Find("Alpha")
	world := g.World(alpha)

	n, err := Isolate(g, Target{Mode: ByName, Name: "Alpha"}, "Out")
	require.NoError(t, err)

	assert.Same(t, alpha, n)
	assert.Equal(t, []string{"Out"}, nodeNames(g))
	assert.Equal(t, []string{"Out"}, meshNames(g))
	assert.Equal(t, "Out", n.Mesh().Name())
	assert.False(t, n.HasParent())
	assert.True(t, scene.MatNear(g.World(n), world, 1e-5))
	require.Len(t, g.Materials(), 1)
	assert.Equal(t, "Steel", g.Materials()[0].Name())
}

func TestIsolateDefaultsToTargetName(t *testing.T) {
	g := characterScene(t)
	n, err := Isolate(g, Target{Mode: ByName, Name: "Body"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Body", n.Name())
	assert.Equal(t, "Body", n.Mesh().Name())
}

func TestIsolateFirstMeshChildUsesHostOrder(t *testing.T) {
	g := characterScene(t)
	zed := g.Find("Zed")

	n, err := Isolate(g, Target{Mode: FirstMeshChildOf, Name: "Props"}, "")
	require.NoError(t, err)

	assert.Same(t, zed, n)
	assert.Equal(t, []string{"Props"}, nodeNames(g))
	assert.Equal(t, "Props", n.Mesh().Name())
}

func TestIsolateFailuresLeaveGraphUntouched(t *testing.T) {
	for _, target := range []Target{
		{Mode: ByName, Name: "Missing"},
		{Mode: ByName, Name: "Camera"},
		{Mode: FirstMeshChildOf, Name: "Missing"},
		{Mode: FirstMeshChildOf, Name: "Zed"},
		{Mode: FirstMeshChildOf, Name: "Camera"},
	} {
		g := characterScene(t)
		before := nodeNames(g)

		_, err := Isolate(g, target, "Out")
		assert.True(t, scene.IsNotFound(err), "%+v: %v", target, err)
		assert.Equal(t, before, nodeNames(g))
	}
}

func TestFlatten(t *testing.T) {
	g := characterScene(t)
	StripMaterials(g)

	var worldCorners []mgl64.Vec3
	for _, n := range g.MeshNodes() {
		world := g.World(n)
		for _, v := range n.Mesh().Vertices {
			worldCorners = append(worldCorners, world.Mul4x1(v.Vec4(1)).Vec3())
		}
	}

	n, err := Flatten(g, editor, "Merged")
	require.NoError(t, err)

	// Props lost all its children, Armature still holds Props when the
	// empties are collected
	assert.Equal(t, []string{"Armature", "Camera", "Merged"}, nodeNames(g))
	assert.Equal(t, []string{"Merged"}, meshNames(g))
	assert.False(t, n.HasParent())
	assert.True(t, n.Local.IsIdentity())

	m := n.Mesh()
	assert.Equal(t, 12, m.VertexCount())
	assert.Equal(t, 3, m.FaceCount())
	require.NoError(t, m.Validate())
	for _, want := range worldCorners {
		found := false
		for _, v := range m.Vertices {
			if scene.VecNear(v, want, 1e-5) {
				found = true
				break
			}
		}
		assert.True(t, found, "missing world vertex %v", want)
	}
}

func TestFlattenKeepsEmptiesWithOtherChildren(t *testing.T) {
	g := characterScene(t)
	light := g.AddNode("Light", scene.KindOther)
	require.NoError(t, g.SetParent(light, g.Find("Props")))

	_, err := Flatten(g, editor, "Merged")
	require.NoError(t, err)

	assert.Equal(t, []string{"Armature", "Camera", "Light", "Merged", "Props"}, nodeNames(g))
}

func TestFlattenSingleMesh(t *testing.T) {
	g := scene.New()
	root := g.AddNode("Root", scene.KindEmpty)
	root.Local.Translation = mgl64.Vec3{1, 2, 3}
	addQuad(g, "Only", root, mgl64.Vec3{})

	n, err := Flatten(g, editor, "Root")
	require.NoError(t, err)
	assert.Equal(t, []string{"Root"}, nodeNames(g))
	assert.Equal(t, "Root", n.Mesh().Name())
	assert.True(t, scene.VecNear(n.Local.Translation, mgl64.Vec3{1, 2, 3}, 1e-9))
}

func TestFlattenWithoutMeshes(t *testing.T) {
	g := scene.New()
	g.AddNode("Empty", scene.KindEmpty)

	n, err := Flatten(g, editor, "Merged")
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Equal(t, []string{"Empty"}, nodeNames(g))
}

func TestFlattenNameConflict(t *testing.T) {
	g := characterScene(t)
	before := nodeNames(g)

	_, err := Flatten(g, editor, "Camera")
	assert.True(t, scene.IsNameConflict(err))
	assert.Equal(t, before, nodeNames(g))

	_, err = Flatten(g, editor, "")
	assert.Error(t, err)
}

func TestRenameSingleMesh(t *testing.T) {
	g := scene.New()
	addQuad(g, "Foo", nil, mgl64.Vec3{})

	require.NoError(t, RenameMeshes(g, "Base"))
	assert.Equal(t, []string{"Base"}, nodeNames(g))
	assert.Equal(t, []string{"Base"}, meshNames(g))
}

func TestRenameNumbersInNameOrder(t *testing.T) {
	g := scene.New()
	b := addQuad(g, "B", nil, mgl64.Vec3{})
	a := addQuad(g, "A", nil, mgl64.Vec3{})
	c := addQuad(g, "C", nil, mgl64.Vec3{})

	require.NoError(t, RenameMeshes(g, "base"))
	assert.Equal(t, "base-001", a.Name())
	assert.Equal(t, "base-002", b.Name())
	assert.Equal(t, "base-003", c.Name())
	for _, n := range []*scene.Node{a, b, c} {
		assert.Equal(t, n.Name(), n.Mesh().Name())
	}
}

func TestRenameShiftsExistingNumbers(t *testing.T) {
	g := scene.New()
	second := addQuad(g, "X-001", nil, mgl64.Vec3{})
	first := addQuad(g, "X-000", nil, mgl64.Vec3{})

	require.NoError(t, RenameMeshes(g, "X"))
	assert.Equal(t, "X-001", first.Name())
	assert.Equal(t, "X-002", second.Name())
	assert.Equal(t, []string{"X-001", "X-002"}, nodeNames(g))
}

func TestRenameSplitsSharedMesh(t *testing.T) {
	g := scene.New()
	a := addQuad(g, "A", nil, mgl64.Vec3{})
	b := g.AddNode("B", scene.KindMesh)
	g.LinkMesh(b, a.Mesh())

	require.NoError(t, RenameMeshes(g, "part"))
	assert.NotSame(t, a.Mesh(), b.Mesh())
	assert.Equal(t, "part-001", a.Mesh().Name())
	assert.Equal(t, "part-002", b.Mesh().Name())
	assert.Equal(t, b.Mesh().Vertices, a.Mesh().Vertices)
}

func TestRenameBaseMayMatchOtherNode(t *testing.T) {
	g := characterScene(t)
	require.NoError(t, RenameMeshes(g, "Camera"))
	assert.ElementsMatch(t, []string{"Camera-001", "Camera-002", "Camera-003"}, meshNames(g))
}

func TestRenameConflictLeavesNames(t *testing.T) {
	g := characterScene(t)
	g.AddNode("Mesh-002", scene.KindEmpty)
	before := nodeNames(g)

	err := RenameMeshes(g, "Mesh")
	assert.True(t, scene.IsNameConflict(err))
	assert.Equal(t, before, nodeNames(g))
}

func TestRenameWithoutMeshes(t *testing.T) {
	g := scene.New()
	g.AddNode("Empty", scene.KindEmpty)
	assert.NoError(t, RenameMeshes(g, "Base"))
	assert.Equal(t, []string{"Empty"}, nodeNames(g))
}
