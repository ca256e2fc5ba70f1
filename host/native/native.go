// Package native is the in-process host. It reads glTF and scene
// documents and writes binary FBX, glTF and scene documents.
package native

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/fbx_scene_tools/config"
	"github.com/mogaika/fbx_scene_tools/geometry"
	"github.com/mogaika/fbx_scene_tools/host"
	"github.com/mogaika/fbx_scene_tools/scene"
	"github.com/mogaika/fbx_scene_tools/scenedoc"
	"github.com/mogaika/fbx_scene_tools/utils/fbxbuilder"
	"github.com/mogaika/fbx_scene_tools/utils/gltfutils"
)

type Host struct {
	geometry.Editor
}

func init() {
	host.Register(&Host{})
}

func (h *Host) Name() string { return config.HostNative }

func (h *Host) CanImport(ext string) bool {
	switch ext {
	case ".GLTF", ".GLB", ".JSON", ".YAML", ".YML":
		return true
	}
	return false
}

func (h *Host) CanExport(ext string) bool {
	switch ext {
	case ".FBX", ".GLTF", ".GLB", ".JSON", ".YAML", ".YML":
		return true
	}
	return false
}

func (h *Host) Import(ctx context.Context, path string, g *scene.Graph) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch host.Ext(path) {
	case ".GLTF", ".GLB":
		return gltfutils.Import(path, g)
	case ".JSON", ".YAML", ".YML":
		d, err := scenedoc.Load(path)
		if err != nil {
			return err
		}
		return d.Build(g)
	}
	return &host.UnsupportedError{Host: h.Name(), Op: "import", Path: path}
}

func (h *Host) Export(ctx context.Context, g *scene.Graph, path string, opts host.ExportOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if opts.EmbedTextures || opts.BakeSpaceTransform {
		logrus.Warnf("[native] embed_textures and bake_space_transform are not supported, ignored")
	}

	switch host.Ext(path) {
	case ".FBX":
		f := fbxbuilder.NewFBXBuilder(path)
		f.AddScene(g)
		if err := f.WriteFile(path); err != nil {
			return errors.Wrapf(err, "Failed to export %q", path)
		}
		return nil
	case ".GLTF", ".GLB":
		return gltfutils.Export(path, g, h.Triangulate)
	case ".JSON", ".YAML", ".YML":
		return scenedoc.FromGraph(g).Save(path)
	}
	return &host.UnsupportedError{Host: h.Name(), Op: "export", Path: path}
}
