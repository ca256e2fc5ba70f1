package scene

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func datablockNames(g *Graph) []string {
	result := make([]string, 0)
	for _, m := range g.Meshes() {
		result = append(result, "mesh:"+m.Name())
	}
	for _, m := range g.Materials() {
		result = append(result, "material:"+m.Name())
	}
	sort.Strings(result)
	return result
}

func TestCollectOrphansKeepsUsedDatablocks(t *testing.T) {
	g := New()
	n := g.AddNode("Cube", KindMesh)
	m := g.NewMesh("Cube")
	g.LinkMesh(n, m)
	used := g.NewMaterial("Used")
	g.AssignMaterial(m, used)
	g.NewMaterial("Unused")

	report := g.CollectOrphans(DefaultPurgePasses)

	assert.True(t, report.Converged)
	assert.Equal(t, []string{"material:Unused"}, report.Removed)
	assert.Equal(t, []string{"material:Used", "mesh:Cube"}, datablockNames(g))
	for _, mat := range g.Materials() {
		assert.Greater(t, mat.Users(), 0)
	}
}

func TestCollectOrphansCascades(t *testing.T) {
	g := New()
	n := g.AddNode("Cube", KindMesh)
	m := g.NewMesh("Cube")
	g.LinkMesh(n, m)
	mat := g.NewMaterial("Paint")
	g.AssignMaterial(m, mat)

	g.RemoveNode(n)
	assert.Equal(t, 0, m.Users())
	assert.Equal(t, 1, mat.Users())

	report := g.CollectOrphans(DefaultPurgePasses)

	assert.True(t, report.Converged)
	assert.Equal(t, 3, report.Passes)
	assert.Empty(t, datablockNames(g))
}

func TestCollectOrphansBoundedPasses(t *testing.T) {
	g := New()
	n := g.AddNode("Cube", KindMesh)
	m := g.NewMesh("Cube")
	g.LinkMesh(n, m)
	g.AssignMaterial(m, g.NewMaterial("Paint"))
	g.RemoveNode(n)

	report := g.CollectOrphans(1)

	assert.Equal(t, 1, report.Passes)
	assert.False(t, report.Converged)
	assert.Equal(t, []string{"material:Paint"}, datablockNames(g))
}

func TestCollectOrphansIdempotent(t *testing.T) {
	g := New()
	a := g.AddNode("A", KindMesh)
	mesh := g.NewMesh("A")
	g.LinkMesh(a, mesh)
	g.AssignMaterial(mesh, g.NewMaterial("Keep"))
	g.NewMaterial("Drop")
	g.NewMesh("Loose")

	g.CollectOrphans(DefaultPurgePasses)
	once := datablockNames(g)
	report := g.CollectOrphans(DefaultPurgePasses)

	assert.Equal(t, once, datablockNames(g))
	assert.Empty(t, report.Removed)
	assert.Equal(t, 1, report.Passes)
	assert.True(t, report.Converged)
}
