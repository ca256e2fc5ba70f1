package hierarchy

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/fbx_scene_tools/scene"
)

// R has children B and A (inserted out of order), B has child C.
func sampleGraph(t *testing.T) *scene.Graph {
	g := scene.New()
	r := g.AddNode("R", scene.KindEmpty)
	b := g.AddNode("B", scene.KindEmpty)
	a := g.AddNode("A", scene.KindMesh)
	c := g.AddNode("C", scene.KindMesh)
	require.NoError(t, g.SetParent(b, r))
	require.NoError(t, g.SetParent(a, r))
	require.NoError(t, g.SetParent(c, b))
	return g
}

func TestEntriesOrder(t *testing.T) {
	assert.Equal(t, []Entry{
		{Name: "R", Path: "R", Type: "EMPTY"},
		{Name: "A", Path: "R/A", Type: "MESH"},
		{Name: "B", Path: "R/B", Type: "EMPTY"},
		{Name: "C", Path: "R/B/C", Type: "MESH"},
	}, Entries(sampleGraph(t)))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleGraph(t)))
	assert.Equal(t,
		`[{"name":"R","path":"R","type":"EMPTY"},{"name":"A","path":"R/A","type":"MESH"},`+
			`{"name":"B","path":"R/B","type":"EMPTY"},{"name":"C","path":"R/B/C","type":"MESH"}]`+"\n",
		buf.String())
}

func TestWriteJSONEmptyScene(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, scene.New()))
	assert.Equal(t, "[]\n", buf.String())
}

func TestTree(t *testing.T) {
	g := sampleGraph(t)
	cam := g.AddNode("Camera", scene.KindOther)
	cam.HostType = "CAMERA"

	assert.Equal(t, ""+
		"├ Camera (CAMERA)\n"+
		"└ R (EMPTY)\n"+
		"  ├ A (MESH)\n"+
		"  └ B (EMPTY)\n"+
		"    └ C (MESH)\n",
		Tree(g))
}

func TestTreeContinuationBars(t *testing.T) {
	g := sampleGraph(t)
	d := g.AddNode("D", scene.KindMesh)
	require.NoError(t, g.SetParent(d, g.Find("R")))

	assert.Equal(t, ""+
		"└ R (EMPTY)\n"+
		"  ├ A (MESH)\n"+
		"  ├ B (EMPTY)\n"+
		"  │ └ C (MESH)\n"+
		"  └ D (MESH)\n",
		Tree(g))
}
