package fbxbuilder

import (
	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"

	"github.com/mogaika/fbx_scene_tools/scene"
	"github.com/mogaika/fbx_scene_tools/utils"
)

// AddScene emits one Model per node and one Geometry per mesh datablock.
// Model connections mirror the parenting, roots hang from the document
// root (id 0). Materials are never written.
func (f *FBXBuilder) AddScene(g *scene.Graph) {
	models := make(map[scene.NodeId]int64)
	geometries := make(map[*scene.Mesh]int64)

	nodes := g.Nodes()
	for _, n := range nodes {
		id := f.GenerateId()
		models[n.Id()] = id

		modelType := "Null"
		if n.Kind == scene.KindMesh {
			modelType = "Mesh"
		}
		f.AddObjects(f.model(id, n, modelType))

		if m := n.Mesh(); m != nil && n.Kind == scene.KindMesh {
			geomId, ok := geometries[m]
			if !ok {
				geomId = f.GenerateId()
				geometries[m] = geomId
				f.AddObjects(geometry(geomId, m))
			}
			f.AddConnections(bfbx73.C("OO", geomId, id))
		} else {
			attribute := bfbx73.NodeAttribute(f.GenerateId(), n.Name()+"\x00\x01NodeAttribute", "Null").AddNodes(
				bfbx73.TypeFlags("Null"),
			)
			f.AddObjects(attribute)
			f.AddConnections(bfbx73.C("OO", attribute.Properties[0].(int64), id))
		}
	}

	for _, n := range nodes {
		parentId := int64(0)
		if n.HasParent() {
			parentId = models[n.ParentId()]
		}
		f.AddConnections(bfbx73.C("OO", models[n.Id()], parentId))
	}
}

func (f *FBXBuilder) model(id int64, n *scene.Node, modelType string) *fbx.Node {
	t := n.Local
	rotation := utils.RadiansToDegreesV3(utils.QuatToEuler(t.Rotation))
	return bfbx73.Model(id, n.Name()+"\x00\x01Model", modelType).AddNodes(
		bfbx73.Version(232),
		bfbx73.Properties70().AddNodes(
			bfbx73.P("InheritType", "enum", "", "", int32(1)),
			bfbx73.P("DefaultAttributeIndex", "int", "Integer", "", int32(0)),
			bfbx73.P("Lcl Translation", "Lcl Translation", "", "A",
				t.Translation[0], t.Translation[1], t.Translation[2]),
			bfbx73.P("Lcl Rotation", "Lcl Rotation", "", "A",
				rotation[0], rotation[1], rotation[2]),
			bfbx73.P("Lcl Scaling", "Lcl Scaling", "", "A",
				t.Scale[0], t.Scale[1], t.Scale[2]),
		),
		bfbx73.Shading(true),
		bfbx73.Culling("CullingOff"),
	)
}

func geometry(id int64, m *scene.Mesh) *fbx.Node {
	vertices := make([]float64, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		vertices = append(vertices, v[0], v[1], v[2])
	}

	// the last index of every polygon is stored as -(i)-1
	indexes := make([]int32, 0, len(m.Faces)*4)
	for _, face := range m.Faces {
		for i, idx := range face {
			if i == len(face)-1 {
				indexes = append(indexes, -int32(idx)-1)
			} else {
				indexes = append(indexes, int32(idx))
			}
		}
	}

	return bfbx73.Geometry(id, m.Name()+"\x00\x01Geometry", "Mesh").AddNodes(
		bfbx73.Properties70().AddNodes(
			bfbx73.P("Color", "ColorRGB", "Color", "", float64(1), float64(1), float64(1)),
		),
		bfbx73.GeometryVersion(124),
		bfbx73.Vertices(vertices),
		bfbx73.PolygonVertexIndex(indexes),
		bfbx73.Layer(0).AddNodes(
			bfbx73.Version(100),
		),
	)
}
