package gltfutils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/fbx_scene_tools/scene"
)

func NewDocument() *gltf.Document {
	return gltf.NewDocument()
}

func nodeTransform(node *gltf.Node) scene.Transform {
	var m mgl64.Mat4
	nonZero := false
	for i, v := range node.Matrix {
		m[i] = float64(v)
		nonZero = nonZero || v != 0
	}
	if nonZero && m != mgl64.Ident4() {
		return scene.TransformFromMat4(m)
	}

	t := scene.IdentityTransform()
	t.Translation = mgl64.Vec3{float64(node.Translation[0]), float64(node.Translation[1]), float64(node.Translation[2])}
	if node.Rotation != [4]float32{} {
		t.Rotation = mgl64.Quat{
			W: float64(node.Rotation[3]),
			V: mgl64.Vec3{float64(node.Rotation[0]), float64(node.Rotation[1]), float64(node.Rotation[2])},
		}.Normalize()
	}
	if node.Scale != [3]float32{} {
		t.Scale = mgl64.Vec3{float64(node.Scale[0]), float64(node.Scale[1]), float64(node.Scale[2])}
	}
	return t
}

func readMesh(doc *gltf.Document, src *gltf.Mesh, dst *scene.Mesh) error {
	for iPrimitive, primitive := range src.Primitives {
		if primitive.Mode != gltf.PrimitiveTriangles {
			logrus.Warnf("[gltf] mesh %q primitive %d: mode %v is not triangles, skipped", src.Name, iPrimitive, primitive.Mode)
			continue
		}
		posIdx, ok := primitive.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		if int(posIdx) >= len(doc.Accessors) {
			return errors.Errorf("mesh %q primitive %d: position accessor %d out of range", src.Name, iPrimitive, posIdx)
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return errors.Wrapf(err, "Failed to read positions of %q", src.Name)
		}

		var indices []uint32
		if primitive.Indices != nil {
			if int(*primitive.Indices) >= len(doc.Accessors) {
				return errors.Errorf("mesh %q primitive %d: index accessor %d out of range", src.Name, iPrimitive, *primitive.Indices)
			}
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil)
			if err != nil {
				return errors.Wrapf(err, "Failed to read indices of %q", src.Name)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		base := len(dst.Vertices)
		for _, p := range positions {
			dst.Vertices = append(dst.Vertices, mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
		}
		for i := 0; i+2 < len(indices); i += 3 {
			dst.Faces = append(dst.Faces, []int{
				base + int(indices[i]), base + int(indices[i+1]), base + int(indices[i+2])})
		}
	}
	return errors.Wrapf(dst.Validate(), "mesh %q", src.Name)
}

// checkHierarchy rejects child indexes out of range, nodes with several
// parents and cycles.
func checkHierarchy(doc *gltf.Document) error {
	parents := make([]int, len(doc.Nodes))
	for i := range parents {
		parents[i] = -1
	}
	for iNode, node := range doc.Nodes {
		for _, child := range node.Children {
			if int(child) >= len(doc.Nodes) {
				return errors.Errorf("node %q has invalid child %d", node.Name, child)
			}
			if parents[child] != -1 {
				return errors.Errorf("node %d has several parents", child)
			}
			parents[child] = iNode
		}
	}
	for iNode := range doc.Nodes {
		steps := 0
		for p := parents[iNode]; p != -1; p = parents[p] {
			if steps++; p == iNode || steps > len(doc.Nodes) {
				return errors.Errorf("node %q is its own ancestor", doc.Nodes[iNode].Name)
			}
		}
	}
	return nil
}

// ReadScene adds every node of doc to g. Meshes referenced by several nodes
// become one shared datablock. The document is fully checked and its
// geometry read before g is touched, so a broken file leaves g unchanged.
func ReadScene(doc *gltf.Document, g *scene.Graph) error {
	if err := checkHierarchy(doc); err != nil {
		return err
	}

	geometry := make(map[uint32]*scene.Mesh)
	for _, node := range doc.Nodes {
		if node.Mesh == nil {
			continue
		}
		if int(*node.Mesh) >= len(doc.Meshes) {
			return errors.Errorf("node %q references mesh %d of %d", node.Name, *node.Mesh, len(doc.Meshes))
		}
		if _, ok := geometry[*node.Mesh]; ok {
			continue
		}
		scratch := &scene.Mesh{}
		if err := readMesh(doc, doc.Meshes[*node.Mesh], scratch); err != nil {
			return err
		}
		geometry[*node.Mesh] = scratch
	}

	meshes := make(map[uint32]*scene.Mesh)
	nodes := make([]*scene.Node, len(doc.Nodes))
	for iNode, node := range doc.Nodes {
		kind := scene.KindEmpty
		if node.Mesh != nil {
			kind = scene.KindMesh
		} else if node.Camera != nil {
			kind = scene.KindOther
		}
		n := g.AddNode(node.Name, kind)
		if node.Camera != nil && node.Mesh == nil {
			n.HostType = "CAMERA"
		}
		n.Local = nodeTransform(node)

		if node.Mesh != nil {
			m, ok := meshes[*node.Mesh]
			if !ok {
				m = g.NewMesh(doc.Meshes[*node.Mesh].Name)
				m.Vertices = geometry[*node.Mesh].Vertices
				m.Faces = geometry[*node.Mesh].Faces
				meshes[*node.Mesh] = m
			}
			g.LinkMesh(n, m)
		}
		nodes[iNode] = n
	}

	for iNode, node := range doc.Nodes {
		for _, child := range node.Children {
			if err := g.SetParent(nodes[child], nodes[iNode]); err != nil {
				return errors.Wrapf(err, "Invalid hierarchy")
			}
		}
	}
	return nil
}

func Import(path string, g *scene.Graph) error {
	doc, err := gltf.Open(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to open gltf %q", path)
	}
	return ReadScene(doc, g)
}

// WriteScene converts g into a document. Faces are written through
// triangulate since gltf only stores triangle lists. Materials are dropped.
func WriteScene(g *scene.Graph, triangulate func(*scene.Mesh) [][3]int) *gltf.Document {
	doc := NewDocument()
	meshes := make(map[*scene.Mesh]uint32)
	ids := make(map[scene.NodeId]uint32)

	nodes := g.Nodes()
	for _, n := range nodes {
		t := n.Local
		node := &gltf.Node{
			Name:        n.Name(),
			Translation: [3]float32{float32(t.Translation[0]), float32(t.Translation[1]), float32(t.Translation[2])},
			Rotation:    [4]float32{float32(t.Rotation.V[0]), float32(t.Rotation.V[1]), float32(t.Rotation.V[2]), float32(t.Rotation.W)},
			Scale:       [3]float32{float32(t.Scale[0]), float32(t.Scale[1]), float32(t.Scale[2])},
		}

		if m := n.Mesh(); m != nil && n.Kind == scene.KindMesh {
			meshIndex, ok := meshes[m]
			if !ok {
				meshIndex = writeMesh(doc, m, triangulate(m))
				meshes[m] = meshIndex
			}
			node.Mesh = gltf.Index(meshIndex)
		}

		ids[n.Id()] = uint32(len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, node)
	}

	for _, n := range nodes {
		if n.HasParent() {
			parent := doc.Nodes[ids[n.ParentId()]]
			parent.Children = append(parent.Children, ids[n.Id()])
		} else {
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, ids[n.Id()])
		}
	}
	return doc
}

func writeMesh(doc *gltf.Document, m *scene.Mesh, triangles [][3]int) uint32 {
	positions := make([][3]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
	}
	indices := make([]uint32, 0, len(triangles)*3)
	for _, tri := range triangles {
		indices = append(indices, uint32(tri[0]), uint32(tri[1]), uint32(tri[2]))
	}

	attributes := make(map[string]uint32)
	attributes[gltf.POSITION] = modeler.WritePosition(doc, positions)
	indicesAccessor := modeler.WriteIndices(doc, indices)

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: m.Name(),
		Primitives: []*gltf.Primitive{
			{
				Indices:    &indicesAccessor,
				Attributes: attributes,
			},
		},
	})
	return uint32(len(doc.Meshes) - 1)
}

// Export writes .glb as binary and .gltf as json with embedded buffers.
func Export(path string, g *scene.Graph, triangulate func(*scene.Mesh) [][3]int) error {
	doc := WriteScene(g, triangulate)

	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return errors.Wrapf(err, "Failed to create directory for %q", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to create %q", path)
	}
	defer f.Close()

	encoder := gltf.NewEncoder(f)
	encoder.AsBinary = strings.EqualFold(filepath.Ext(path), ".glb")
	if err := encoder.Encode(doc); err != nil {
		return errors.Wrapf(err, "Failed to encode gltf %q", path)
	}
	return f.Close()
}
