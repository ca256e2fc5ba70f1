// Package host defines the 3D environment a tool runs against: something
// that can load a scene file into a graph, store a graph back to a file
// and edit mesh geometry.
package host

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/fbx_scene_tools/config"
	"github.com/mogaika/fbx_scene_tools/ops"
	"github.com/mogaika/fbx_scene_tools/scene"
)

// ExportOptions mirror the exporter settings every tool writes with.
type ExportOptions struct {
	PathMode           string `json:"path_mode"`
	EmbedTextures      bool   `json:"embed_textures"`
	AddLeafBones       bool   `json:"add_leaf_bones"`
	BakeSpaceTransform bool   `json:"bake_space_transform"`
	UseSpaceTransform  bool   `json:"use_space_transform"`
}

func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		PathMode:          "STRIP",
		UseSpaceTransform: true,
	}
}

type Environment interface {
	ops.MeshEditor

	Name() string
	// CanImport and CanExport take an upper case extension with the dot.
	CanImport(ext string) bool
	CanExport(ext string) bool

	Import(ctx context.Context, path string, g *scene.Graph) error
	Export(ctx context.Context, g *scene.Graph, path string, opts ExportOptions) error
}

type UnsupportedError struct {
	Host string
	Op   string
	Path string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("host %s cannot %s %q", e.Host, e.Op, filepath.Base(e.Path))
}

func Ext(path string) string {
	return strings.ToUpper(filepath.Ext(path))
}

var gEnvironments = make(map[string]Environment)
var gOrder []string

// Register makes env selectable by name. Registration order is the
// preference order of the auto router.
func Register(env Environment) {
	if _, exists := gEnvironments[env.Name()]; !exists {
		gOrder = append(gOrder, env.Name())
	}
	gEnvironments[env.Name()] = env
}

func Lookup(name string) (Environment, error) {
	if env, ok := gEnvironments[name]; ok {
		return env, nil
	}
	return nil, errors.Errorf("Unknown host %q", name)
}

// Router dispatches every file to the first environment able to handle it.
type Router struct {
	ops.MeshEditor
	envs []Environment
}

func NewRouter(editor ops.MeshEditor, envs ...Environment) *Router {
	return &Router{MeshEditor: editor, envs: envs}
}

// Select returns the environment named by mode, or a router over every
// registered environment for config.HostAuto.
func Select(mode string, editor ops.MeshEditor) (Environment, error) {
	if mode != config.HostAuto {
		return Lookup(mode)
	}
	envs := make([]Environment, 0, len(gOrder))
	for _, name := range gOrder {
		envs = append(envs, gEnvironments[name])
	}
	return NewRouter(editor, envs...), nil
}

func (r *Router) Name() string { return config.HostAuto }

func (r *Router) CanImport(ext string) bool { return r.importer(ext) != nil }
func (r *Router) CanExport(ext string) bool { return r.exporter(ext) != nil }

func (r *Router) importer(ext string) Environment {
	for _, env := range r.envs {
		if env.CanImport(ext) {
			return env
		}
	}
	return nil
}

func (r *Router) exporter(ext string) Environment {
	for _, env := range r.envs {
		if env.CanExport(ext) {
			return env
		}
	}
	return nil
}

func (r *Router) Import(ctx context.Context, path string, g *scene.Graph) error {
	env := r.importer(Ext(path))
	if env == nil {
		return &UnsupportedError{Host: r.Name(), Op: "import", Path: path}
	}
	logrus.Debugf("[host] importing %q with %s", path, env.Name())
	return env.Import(ctx, path, g)
}

func (r *Router) Export(ctx context.Context, g *scene.Graph, path string, opts ExportOptions) error {
	env := r.exporter(Ext(path))
	if env == nil {
		return &UnsupportedError{Host: r.Name(), Op: "export", Path: path}
	}
	logrus.Debugf("[host] exporting %q with %s", path, env.Name())
	return env.Export(ctx, g, path, opts)
}
