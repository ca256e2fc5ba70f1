package host

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/fbx_scene_tools/config"
	"github.com/mogaika/fbx_scene_tools/geometry"
	"github.com/mogaika/fbx_scene_tools/scene"
)

type fakeEnv struct {
	geometry.Editor
	name     string
	imports  []string
	exports  []string
	imported []string
	exported []string
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (f *fakeEnv) Name() string              { return f.name }
func (f *fakeEnv) CanImport(ext string) bool { return contains(f.imports, ext) }
func (f *fakeEnv) CanExport(ext string) bool { return contains(f.exports, ext) }

func (f *fakeEnv) Import(ctx context.Context, path string, g *scene.Graph) error {
	f.imported = append(f.imported, path)
	return nil
}

func (f *fakeEnv) Export(ctx context.Context, g *scene.Graph, path string, opts ExportOptions) error {
	f.exported = append(f.exported, path)
	return nil
}

func TestRouterPicksFirstCapable(t *testing.T) {
	native := &fakeEnv{name: "native", imports: []string{".GLB"}, exports: []string{".FBX", ".GLB"}}
	blender := &fakeEnv{name: "blender", imports: []string{".FBX", ".GLB"}, exports: []string{".FBX"}}
	r := NewRouter(geometry.Editor{}, native, blender)
	ctx := context.Background()
	g := scene.New()

	require.NoError(t, r.Import(ctx, "in/model.fbx", g))
	require.NoError(t, r.Import(ctx, "in/model.glb", g))
	require.NoError(t, r.Export(ctx, g, "out/model.FBX", DefaultExportOptions()))

	assert.Equal(t, []string{"in/model.fbx"}, blender.imported)
	assert.Equal(t, []string{"in/model.glb"}, native.imported)
	assert.Equal(t, []string{"out/model.FBX"}, native.exported)
	assert.Empty(t, blender.exported)

	err := r.Import(ctx, "model.blend", g)
	var unsupported *UnsupportedError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "import", unsupported.Op)
}

func TestSelect(t *testing.T) {
	env := &fakeEnv{name: "fake-select"}
	Register(env)

	got, err := Select("fake-select", geometry.Editor{})
	require.NoError(t, err)
	assert.Same(t, env, got)

	got, err = Select(config.HostAuto, geometry.Editor{})
	require.NoError(t, err)
	assert.Equal(t, config.HostAuto, got.Name())

	_, err = Select("maya", geometry.Editor{})
	assert.Error(t, err)
}

func TestDefaultExportOptions(t *testing.T) {
	opts := DefaultExportOptions()
	assert.Equal(t, "STRIP", opts.PathMode)
	assert.False(t, opts.EmbedTextures)
	assert.False(t, opts.AddLeafBones)
	assert.False(t, opts.BakeSpaceTransform)
	assert.True(t, opts.UseSpaceTransform)
}
