package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

type Material struct {
	name  string
	users int
}

func (m *Material) Name() string { return m.name }
func (m *Material) Users() int   { return m.users }

type Mesh struct {
	Vertices []mgl64.Vec3
	// Faces are ordered vertex index lists, at least 3 long.
	Faces [][]int

	name  string
	users int
	slots []*Material
}

func (m *Mesh) Name() string       { return m.name }
func (m *Mesh) Users() int         { return m.users }
func (m *Mesh) Slots() []*Material { return m.slots }
func (m *Mesh) VertexCount() int   { return len(m.Vertices) }
func (m *Mesh) FaceCount() int     { return len(m.Faces) }

func (m *Mesh) Validate() error {
	for iFace, face := range m.Faces {
		if len(face) < 3 {
			return errors.Errorf("mesh %q face %d has %d vertices", m.name, iFace, len(face))
		}
		for _, idx := range face {
			if idx < 0 || idx >= len(m.Vertices) {
				return errors.Errorf("mesh %q face %d references vertex %d of %d", m.name, iFace, idx, len(m.Vertices))
			}
		}
	}
	return nil
}

func (g *Graph) meshNameTaken(name string) bool {
	for _, m := range g.meshes {
		if m.name == name {
			return true
		}
	}
	return false
}

func (g *Graph) materialNameTaken(name string) bool {
	for _, m := range g.materials {
		if m.name == name {
			return true
		}
	}
	return false
}

// NewMesh adds a mesh datablock with no users.
func (g *Graph) NewMesh(name string) *Mesh {
	m := &Mesh{name: uniqueName(name, g.meshNameTaken)}
	g.meshes = append(g.meshes, m)
	return m
}

func (g *Graph) NewMaterial(name string) *Material {
	m := &Material{name: uniqueName(name, g.materialNameTaken)}
	g.materials = append(g.materials, m)
	return m
}

// CopyMesh duplicates geometry and slots into a new datablock.
func (g *Graph) CopyMesh(src *Mesh, name string) *Mesh {
	m := g.NewMesh(name)
	m.Vertices = append([]mgl64.Vec3(nil), src.Vertices...)
	m.Faces = make([][]int, len(src.Faces))
	for i, f := range src.Faces {
		m.Faces[i] = append([]int(nil), f...)
	}
	for _, mat := range src.slots {
		g.AssignMaterial(m, mat)
	}
	return m
}

func (g *Graph) Meshes() []*Mesh {
	return append([]*Mesh(nil), g.meshes...)
}

func (g *Graph) Materials() []*Material {
	return append([]*Material(nil), g.materials...)
}

func (g *Graph) FindMesh(name string) *Mesh {
	for _, m := range g.meshes {
		if m.name == name {
			return m
		}
	}
	return nil
}

func (g *Graph) RenameMesh(m *Mesh, name string) error {
	if name == "" {
		return errors.Errorf("empty name for mesh %q", m.name)
	}
	if name == m.name {
		return nil
	}
	if other := g.FindMesh(name); other != nil {
		return &NameConflictError{Name: name, Holder: fmt.Sprintf("mesh %q", other.name)}
	}
	m.name = name
	return nil
}

// AssignMaterial appends a slot to m referencing mat.
func (g *Graph) AssignMaterial(m *Mesh, mat *Material) {
	m.slots = append(m.slots, mat)
	mat.users++
}

// ClearMaterials empties every slot of m.
func (g *Graph) ClearMaterials(m *Mesh) {
	for _, mat := range m.slots {
		mat.users--
	}
	m.slots = nil
}

func (g *Graph) removeMesh(m *Mesh) {
	g.ClearMaterials(m)
	for i, x := range g.meshes {
		if x == m {
			g.meshes = append(g.meshes[:i], g.meshes[i+1:]...)
			return
		}
	}
}

func (g *Graph) removeMaterial(m *Material) {
	for i, x := range g.materials {
		if x == m {
			g.materials = append(g.materials[:i], g.materials[i+1:]...)
			return
		}
	}
}
