package fbxbuilder

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const FBX_CREATOR = "FBX SDK/FBX Plugins version 2013.3 build=20121223"
const FBX_APPLICATION_VENDOR = "mogaika"
const FBX_APPLICATION_NAME = "fbx_scene_tools"
const FBX_APPLICATION_VERSION = "1.0"
const FBX_DATE_TIME_GMT = "01/01/1970 00:00:00.000"
const FBX_CREATION_TIME = "1970-01-01 10:00:00:000"

var FBX_FILE_ID []byte = []byte{
	0x28, 0xb3, 0x2a, 0xeb, 0xb6, 0x24, 0xcc, 0xc2,
	0xbf, 0xc8, 0xb0, 0x2a, 0xa9, 0x2b, 0xfc, 0xf1}

// FBXBuilder accumulates objects and connections of a binary 7.4 document.
type FBXBuilder struct {
	f      *fbx.FBX
	lastId int64

	definitions *fbx.Node
	objects     *fbx.Node
	connections *fbx.Node
}

func NewFBXBuilder(filename string) *FBXBuilder {
	f := &FBXBuilder{
		lastId:      1000000,
		f:           fbx.NewFBX(7400),
		definitions: bfbx73.Definitions(),
		objects:     bfbx73.Objects(),
		connections: bfbx73.Connections(),
	}
	f.Root().AddNodes(
		headerExtension(filename),
		bfbx73.FileId(FBX_FILE_ID),
		bfbx73.CreationTime(FBX_CREATION_TIME),
		bfbx73.Creator(FBX_CREATOR),
		globalSettings(),
		bfbx73.Documents().AddNodes(
			bfbx73.Count(1),
			bfbx73.Document(f.GenerateId(), "Scene", "Scene").AddNodes(
				bfbx73.Properties70().AddNodes(
					bfbx73.P("SourceObject", "object", "", ""),
					bfbx73.P("ActiveAnimStackName", "KString", "", "", ""),
				),
				bfbx73.RootNode(0),
			),
		),
		bfbx73.References(),
		f.definitions,
		f.objects,
		f.connections,
		bfbx73.Takes().AddNodes(bfbx73.Current("")),
	)
	return f
}

// applicationInfo fills the Original and LastSaved compounds, both describe
// this tool.
func applicationInfo(props *fbx.Node, filename string) {
	for _, compound := range []string{"Original", "LastSaved"} {
		props.AddNodes(
			bfbx73.P(compound, "Compound", "", ""),
			bfbx73.P(compound+"|ApplicationVendor", "KString", "", "", FBX_APPLICATION_VENDOR),
			bfbx73.P(compound+"|ApplicationName", "KString", "", "", FBX_APPLICATION_NAME),
			bfbx73.P(compound+"|ApplicationVersion", "KString", "", "", FBX_APPLICATION_VERSION),
			bfbx73.P(compound+"|DateTime_GMT", "DateTime", "", "", FBX_DATE_TIME_GMT),
		)
		if compound == "Original" {
			props.AddNodes(bfbx73.P("Original|FileName", "KString", "", "", filepath.Base(filename)))
		}
	}
}

func headerExtension(filename string) *fbx.Node {
	props := bfbx73.Properties70().AddNodes(
		bfbx73.P("DocumentUrl", "KString", "Url", "", filename),
		bfbx73.P("SrcDocumentUrl", "KString", "Url", "", filename),
	)
	applicationInfo(props, filename)

	metaData := bfbx73.MetaData().AddNodes(bfbx73.Version(100))
	for _, field := range []func(string) *fbx.Node{
		bfbx73.Title, bfbx73.Subject, bfbx73.Author, bfbx73.Keywords, bfbx73.Revision, bfbx73.Comment,
	} {
		metaData.AddNodes(field(""))
	}

	return bfbx73.FBXHeaderExtension().AddNodes(
		bfbx73.FBXHeaderVersion(1003),
		bfbx73.FBXVersion(7400),
		bfbx73.EncryptionType(0),
		bfbx73.CreationTimeStamp().AddNodes(
			bfbx73.Version(1000),
			bfbx73.Year(1970), bfbx73.Month(1), bfbx73.Day(1),
			bfbx73.Hour(10), bfbx73.Minute(0), bfbx73.Second(0), bfbx73.Millisecond(0),
		),
		bfbx73.Creator(FBX_CREATOR),
		bfbx73.SceneInfo("GlobalInfo\x00\x01SceneInfo", "UserData").AddNodes(
			bfbx73.Type("UserData"),
			bfbx73.Version(100),
			metaData,
			props,
		),
	)
}

// Y up, Z front, X right handed, one unit per meter scale factor 1.
var axisSettings = []struct {
	name  string
	value int32
}{
	{"UpAxis", 1}, {"UpAxisSign", 1},
	{"FrontAxis", 2}, {"FrontAxisSign", 1},
	{"CoordAxis", 0}, {"CoordAxisSign", 1},
	{"OriginalUpAxis", 1}, {"OriginalUpAxisSign", 1},
}

func globalSettings() *fbx.Node {
	props := bfbx73.Properties70()
	for _, s := range axisSettings {
		props.AddNodes(bfbx73.P(s.name, "int", "Integer", "", s.value))
	}
	props.AddNodes(
		bfbx73.P("UnitScaleFactor", "double", "Number", "", float64(1)),
		bfbx73.P("OriginalUnitScaleFactor", "double", "Number", "", float64(1)),
		bfbx73.P("AmbientColor", "ColorRGB", "Color", "", float64(0), float64(0), float64(0)),
	)
	return bfbx73.GlobalSettings().AddNodes(bfbx73.Version(1000), props)
}

// templates holds the property template of every object type AddScene
// emits. Types missing here are declared without a template.
var templates = map[string]func() *fbx.Node{
	"Model": func() *fbx.Node {
		return bfbx73.PropertyTemplate("FbxNode").AddNodes(bfbx73.Properties70().AddNodes(
			bfbx73.P("QuaternionInterpolate", "enum", "", "", int32(0)),
			bfbx73.P("Show", "bool", "", "", int32(1)),
			bfbx73.P("Lcl Translation", "Lcl Translation", "", "A", float64(0), float64(0), float64(0)),
			bfbx73.P("Lcl Rotation", "Lcl Rotation", "", "A", float64(0), float64(0), float64(0)),
			bfbx73.P("Lcl Scaling", "Lcl Scaling", "", "A", float64(1), float64(1), float64(1)),
			bfbx73.P("Visibility", "Visibility", "", "A", float64(1)),
			bfbx73.P("Visibility Inheritance", "Visibility Inheritance", "", "", int32(1)),
		))
	},
	"Geometry": func() *fbx.Node {
		return bfbx73.PropertyTemplate("FbxMesh").AddNodes(bfbx73.Properties70().AddNodes(
			bfbx73.P("Color", "ColorRGB", "Color", "", float64(1), float64(1), float64(1)),
			bfbx73.P("Primary Visibility", "bool", "", "", int32(1)),
			bfbx73.P("Casts Shadows", "bool", "", "", int32(1)),
			bfbx73.P("Receive Shadows", "bool", "", "", int32(1)),
		))
	},
	"NodeAttribute": func() *fbx.Node {
		return bfbx73.PropertyTemplate("FbxNull").AddNodes(bfbx73.Properties70().AddNodes(
			bfbx73.P("Size", "double", "Number", "", float64(100)),
			bfbx73.P("Look", "enum", "", "", int32(1)),
		))
	},
}

// writeDefinitions declares one ObjectType per kind of object present,
// in name order, plus the GlobalSettings entry.
func (f *FBXBuilder) writeDefinitions() {
	counts := make(map[string]int32)
	for _, object := range f.objects.Nodes {
		counts[object.Name]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	total := int32(1)
	types := make([]*fbx.Node, 0, len(names))
	for _, name := range names {
		total += counts[name]
		objectType := bfbx73.ObjectType(name).AddNodes(bfbx73.Count(counts[name]))
		if template, ok := templates[name]; ok {
			objectType.AddNodes(template())
		}
		types = append(types, objectType)
		logrus.Debugf("[fbx] %d objects of type %s", counts[name], name)
	}

	f.definitions.Nodes = nil
	f.definitions.AddNodes(
		bfbx73.Version(100),
		bfbx73.Count(total),
		bfbx73.ObjectType("GlobalSettings").AddNodes(bfbx73.Count(1)),
	)
	f.definitions.AddNodes(types...)
}

func (f *FBXBuilder) Root() *fbx.Node        { return &f.f.Root }
func (f *FBXBuilder) Objects() *fbx.Node     { return f.objects }
func (f *FBXBuilder) Connections() *fbx.Node { return f.connections }

func (f *FBXBuilder) GenerateId() int64 {
	f.lastId++
	return f.lastId
}

// WriteFile finalizes the document and writes it to path.
func (f *FBXBuilder) WriteFile(path string) error {
	f.writeDefinitions()

	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return errors.Wrapf(err, "Unable to create directory for %q", path)
	}
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Unable to create %q", path)
	}
	defer out.Close()

	if err := fbx.Write(out, f.f); err != nil {
		return errors.Wrapf(err, "Unable to write fbx %q", path)
	}
	return out.Close()
}

func (f *FBXBuilder) AddObjects(nodes ...*fbx.Node)     { f.objects.AddNodes(nodes...) }
func (f *FBXBuilder) AddConnections(nodes ...*fbx.Node) { f.connections.AddNodes(nodes...) }
