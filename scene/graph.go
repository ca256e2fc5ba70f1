// Package scene holds the in-memory scene graph every tool operates on.
//
// Nodes live in an arena and are addressed by NodeId. A node refers to its
// parent by id only, the graph owns every node and datablock.
package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

type Kind int

const (
	KindOther Kind = iota
	KindMesh
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "MESH"
	case KindEmpty:
		return "EMPTY"
	default:
		return "OTHER"
	}
}

func ParseKind(s string) Kind {
	switch strings.ToUpper(s) {
	case "MESH":
		return KindMesh
	case "EMPTY", "NULL":
		return KindEmpty
	default:
		return KindOther
	}
}

// NodeId identifies a node in a Graph.
type NodeId int

// Nil is the id of no node.
const Nil NodeId = 0

type Node struct {
	Kind Kind
	// HostType is the type label reported by the importer (CAMERA, LIGHT...).
	// Empty means Kind.String().
	HostType string
	Local    Transform

	id       NodeId
	name     string
	parent   NodeId
	children []NodeId
	mesh     *Mesh
}

func (n *Node) Id() NodeId       { return n.id }
func (n *Node) Name() string     { return n.name }
func (n *Node) Mesh() *Mesh      { return n.mesh }
func (n *Node) ParentId() NodeId { return n.parent }
func (n *Node) HasParent() bool  { return n.parent != Nil }
func (n *Node) Alive() bool      { return n.id != Nil }

func (n *Node) TypeName() string {
	if n.HostType != "" {
		return n.HostType
	}
	return n.Kind.String()
}

type Graph struct {
	nodes     []*Node
	names     map[string]NodeId
	meshes    []*Mesh
	materials []*Material
}

func New() *Graph {
	g := &Graph{}
	g.Reset()
	return g
}

// Reset drops every node and datablock.
func (g *Graph) Reset() {
	g.nodes = []*Node{nil}
	g.names = make(map[string]NodeId)
	g.meshes = nil
	g.materials = nil
}

func uniqueName(base string, taken func(string) bool) string {
	if base == "" {
		base = "Object"
	}
	if !taken(base) {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s.%03d", base, i)
		if !taken(name) {
			return name
		}
	}
}

// AddNode creates a root node. Duplicate names get a numeric suffix.
func (g *Graph) AddNode(name string, kind Kind) *Node {
	n := &Node{
		Kind:  kind,
		Local: IdentityTransform(),
		id:    NodeId(len(g.nodes)),
		name:  uniqueName(name, g.nodeNameTaken),
	}
	g.nodes = append(g.nodes, n)
	g.names[n.name] = n.id
	return n
}

func (g *Graph) nodeNameTaken(name string) bool {
	_, ok := g.names[name]
	return ok
}

// Node returns the live node with the given id or nil.
func (g *Graph) Node(id NodeId) *Node {
	if id <= Nil || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

func (g *Graph) Find(name string) *Node {
	if id, ok := g.names[name]; ok {
		return g.nodes[id]
	}
	return nil
}

func (g *Graph) Lookup(name string) (*Node, error) {
	if n := g.Find(name); n != nil {
		return n, nil
	}
	return nil, &NotFoundError{Name: name, Reason: "no such object"}
}

func (g *Graph) Len() int {
	return len(g.names)
}

func sortByName(nodes []*Node) []*Node {
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].name < nodes[j].name })
	return nodes
}

// Nodes returns every live node sorted by name.
func (g *Graph) Nodes() []*Node {
	result := make([]*Node, 0, len(g.names))
	for _, n := range g.nodes {
		if n != nil {
			result = append(result, n)
		}
	}
	return sortByName(result)
}

func (g *Graph) NodesOfKind(kind Kind) []*Node {
	result := make([]*Node, 0)
	for _, n := range g.Nodes() {
		if n.Kind == kind {
			result = append(result, n)
		}
	}
	return result
}

func (g *Graph) MeshNodes() []*Node {
	return g.NodesOfKind(KindMesh)
}

func (g *Graph) Roots() []*Node {
	result := make([]*Node, 0)
	for _, n := range g.nodes {
		if n != nil && n.parent == Nil {
			result = append(result, n)
		}
	}
	return sortByName(result)
}

func (g *Graph) Parent(n *Node) *Node {
	return g.Node(n.parent)
}

// ChildrenInOrder returns children in insertion order.
func (g *Graph) ChildrenInOrder(n *Node) []*Node {
	result := make([]*Node, 0, len(n.children))
	for _, id := range n.children {
		result = append(result, g.nodes[id])
	}
	return result
}

// Children returns children sorted by name.
func (g *Graph) Children(n *Node) []*Node {
	return sortByName(g.ChildrenInOrder(n))
}

func (g *Graph) World(n *Node) mgl64.Mat4 {
	m := n.Local.Mat4()
	for p := g.Parent(n); p != nil; p = g.Parent(p) {
		m = p.Local.Mat4().Mul4(m)
	}
	return m
}

// Path is the '/' joined chain of names from the root down to n.
func (g *Graph) Path(n *Node) string {
	parts := []string{n.name}
	for p := g.Parent(n); p != nil; p = g.Parent(p) {
		parts = append(parts, p.name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// SetParent attaches child under parent keeping its local transform.
// A nil parent detaches the child.
func (g *Graph) SetParent(child, parent *Node) error {
	if parent != nil {
		for p := parent; p != nil; p = g.Parent(p) {
			if p == child {
				return errors.Errorf("parenting %q under %q would create a cycle", child.name, parent.name)
			}
		}
	}
	g.detach(child)
	if parent != nil {
		child.parent = parent.id
		parent.children = append(parent.children, child.id)
	}
	return nil
}

func (g *Graph) detach(n *Node) {
	p := g.Parent(n)
	if p == nil {
		n.parent = Nil
		return
	}
	for i, id := range p.children {
		if id == n.id {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = Nil
}

// RemoveNode deletes n. Its children become roots with their local
// transforms untouched and its mesh loses one user.
func (g *Graph) RemoveNode(n *Node) {
	if !n.Alive() {
		return
	}
	for _, id := range n.children {
		g.nodes[id].parent = Nil
	}
	n.children = nil
	g.detach(n)
	g.LinkMesh(n, nil)

	delete(g.names, n.name)
	g.nodes[n.id] = nil
	n.id = Nil
}

// RenameNode gives n an exact name; it fails when another node holds it.
func (g *Graph) RenameNode(n *Node, name string) error {
	if name == "" {
		return errors.Errorf("empty name for %q", n.name)
	}
	if name == n.name {
		return nil
	}
	if other := g.Find(name); other != nil {
		return &NameConflictError{Name: name, Holder: fmt.Sprintf("object %q", other.name)}
	}
	delete(g.names, n.name)
	n.name = name
	g.names[name] = n.id
	return nil
}

// LinkMesh points n at m, keeping users counters in sync. Nil unlinks.
func (g *Graph) LinkMesh(n *Node, m *Mesh) {
	if n.mesh == m {
		return
	}
	if n.mesh != nil {
		n.mesh.users--
	}
	n.mesh = m
	if m != nil {
		m.users++
	}
}

// MeshUsers returns live nodes linking m, sorted by name.
func (g *Graph) MeshUsers(m *Mesh) []*Node {
	result := make([]*Node, 0, m.users)
	for _, n := range g.nodes {
		if n != nil && n.mesh == m {
			result = append(result, n)
		}
	}
	return sortByName(result)
}
