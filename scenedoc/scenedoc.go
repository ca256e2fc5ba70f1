// Package scenedoc is a plain document form of a scene graph. It is the
// interchange format with the Blender bridge scripts and a human editable
// scene format of its own (.json, .yaml).
package scenedoc

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/mogaika/fbx_scene_tools/scene"
)

type Node struct {
	Name   string `json:"name" yaml:"name"`
	Type   string `json:"type" yaml:"type"`
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
	Mesh   string `json:"mesh,omitempty" yaml:"mesh,omitempty"`

	Translation [3]float64 `json:"translation" yaml:"translation,flow"`
	// Rotation is a unit quaternion as x, y, z, w.
	Rotation [4]float64 `json:"rotation" yaml:"rotation,flow"`
	Scale    [3]float64 `json:"scale" yaml:"scale,flow"`
}

type Mesh struct {
	Name      string       `json:"name" yaml:"name"`
	Vertices  [][3]float64 `json:"vertices" yaml:"vertices,flow"`
	Faces     [][]int      `json:"faces" yaml:"faces,flow"`
	Materials []string     `json:"materials,omitempty" yaml:"materials,omitempty,flow"`
}

type Document struct {
	Nodes     []Node   `json:"nodes" yaml:"nodes"`
	Meshes    []Mesh   `json:"meshes" yaml:"meshes"`
	Materials []string `json:"materials,omitempty" yaml:"materials,omitempty"`
}

func FromGraph(g *scene.Graph) *Document {
	d := &Document{
		Nodes:     make([]Node, 0, g.Len()),
		Meshes:    make([]Mesh, 0),
		Materials: make([]string, 0),
	}
	for _, mat := range g.Materials() {
		d.Materials = append(d.Materials, mat.Name())
	}
	for _, m := range g.Meshes() {
		dm := Mesh{
			Name:     m.Name(),
			Vertices: make([][3]float64, len(m.Vertices)),
			Faces:    make([][]int, len(m.Faces)),
		}
		for i, v := range m.Vertices {
			dm.Vertices[i] = [3]float64{v[0], v[1], v[2]}
		}
		for i, f := range m.Faces {
			dm.Faces[i] = append([]int(nil), f...)
		}
		for _, mat := range m.Slots() {
			dm.Materials = append(dm.Materials, mat.Name())
		}
		d.Meshes = append(d.Meshes, dm)
	}
	for _, n := range g.Nodes() {
		t := n.Local
		dn := Node{
			Name:        n.Name(),
			Type:        n.TypeName(),
			Translation: [3]float64{t.Translation[0], t.Translation[1], t.Translation[2]},
			Rotation:    [4]float64{t.Rotation.X(), t.Rotation.Y(), t.Rotation.Z(), t.Rotation.W},
			Scale:       [3]float64{t.Scale[0], t.Scale[1], t.Scale[2]},
		}
		if p := g.Parent(n); p != nil {
			dn.Parent = p.Name()
		}
		if m := n.Mesh(); m != nil {
			dn.Mesh = m.Name()
		}
		d.Nodes = append(d.Nodes, dn)
	}
	return d
}

// Build adds the document content to g. Names must be unique per kind and
// every reference must resolve, otherwise g is left untouched.
func (d *Document) Build(g *scene.Graph) error {
	if err := d.Validate(); err != nil {
		return err
	}

	materials := make(map[string]*scene.Material, len(d.Materials))
	for _, name := range d.Materials {
		materials[name] = g.NewMaterial(name)
	}
	meshes := make(map[string]*scene.Mesh, len(d.Meshes))
	for _, dm := range d.Meshes {
		m := g.NewMesh(dm.Name)
		m.Vertices = make([]mgl64.Vec3, len(dm.Vertices))
		for i, v := range dm.Vertices {
			m.Vertices[i] = mgl64.Vec3{v[0], v[1], v[2]}
		}
		m.Faces = make([][]int, len(dm.Faces))
		for i, f := range dm.Faces {
			m.Faces[i] = append([]int(nil), f...)
		}
		for _, name := range dm.Materials {
			g.AssignMaterial(m, materials[name])
		}
		meshes[dm.Name] = m
	}

	nodes := make(map[string]*scene.Node, len(d.Nodes))
	for _, dn := range d.Nodes {
		kind := scene.ParseKind(dn.Type)
		n := g.AddNode(dn.Name, kind)
		if kind == scene.KindOther {
			n.HostType = dn.Type
		}
		n.Local = scene.Transform{
			Translation: mgl64.Vec3(dn.Translation),
			Rotation:    mgl64.Quat{W: dn.Rotation[3], V: mgl64.Vec3{dn.Rotation[0], dn.Rotation[1], dn.Rotation[2]}},
			Scale:       mgl64.Vec3(dn.Scale),
		}
		// omitted fields decode as zeros
		if n.Local.Rotation.Len() == 0 {
			n.Local.Rotation = mgl64.QuatIdent()
		}
		if dn.Scale == [3]float64{} {
			n.Local.Scale = mgl64.Vec3{1, 1, 1}
		}
		if dn.Mesh != "" {
			g.LinkMesh(n, meshes[dn.Mesh])
		}
		nodes[dn.Name] = n
	}
	for _, dn := range d.Nodes {
		if dn.Parent == "" {
			continue
		}
		if err := g.SetParent(nodes[dn.Name], nodes[dn.Parent]); err != nil {
			return errors.Wrapf(err, "Failed to parent %q", dn.Name)
		}
	}
	return nil
}

func (d *Document) Validate() error {
	materials := make(map[string]bool)
	for _, name := range d.Materials {
		if name == "" || materials[name] {
			return errors.Errorf("invalid or duplicate material name %q", name)
		}
		materials[name] = true
	}

	meshes := make(map[string]bool)
	for _, dm := range d.Meshes {
		if dm.Name == "" || meshes[dm.Name] {
			return errors.Errorf("invalid or duplicate mesh name %q", dm.Name)
		}
		meshes[dm.Name] = true
		for iFace, f := range dm.Faces {
			if len(f) < 3 {
				return errors.Errorf("mesh %q face %d has %d vertices", dm.Name, iFace, len(f))
			}
			for _, idx := range f {
				if idx < 0 || idx >= len(dm.Vertices) {
					return errors.Errorf("mesh %q face %d references vertex %d of %d", dm.Name, iFace, idx, len(dm.Vertices))
				}
			}
		}
		for _, name := range dm.Materials {
			if !materials[name] {
				return errors.Errorf("mesh %q uses unknown material %q", dm.Name, name)
			}
		}
	}

	nodes := make(map[string]bool)
	for _, dn := range d.Nodes {
		if dn.Name == "" || nodes[dn.Name] {
			return errors.Errorf("invalid or duplicate object name %q", dn.Name)
		}
		nodes[dn.Name] = true
		if dn.Mesh != "" && !meshes[dn.Mesh] {
			return errors.Errorf("object %q uses unknown mesh %q", dn.Name, dn.Mesh)
		}
	}
	parents := make(map[string]string, len(d.Nodes))
	for _, dn := range d.Nodes {
		if dn.Parent != "" && !nodes[dn.Parent] {
			return errors.Errorf("object %q has unknown parent %q", dn.Name, dn.Parent)
		}
		parents[dn.Name] = dn.Parent
	}
	for _, dn := range d.Nodes {
		steps := 0
		for p := parents[dn.Name]; p != ""; p = parents[p] {
			if steps++; steps > len(d.Nodes) {
				return errors.Errorf("object %q is its own ancestor", dn.Name)
			}
		}
	}
	return nil
}
