// Package blender drives a headless Blender to read and write the scene
// formats only Blender understands, FBX import above all. The graph is
// exchanged as a scene document through temporary files.
package blender

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/fbx_scene_tools/config"
	"github.com/mogaika/fbx_scene_tools/geometry"
	"github.com/mogaika/fbx_scene_tools/host"
	"github.com/mogaika/fbx_scene_tools/scene"
	"github.com/mogaika/fbx_scene_tools/scenedoc"
)

//go:embed scripts/*.py
var scripts embed.FS

const (
	importScript = "import_scene.py"
	exportScript = "export_scene.py"
)

// HostError carries the outcome of a failed Blender run. Anything written
// to stderr counts as a failure even with a zero exit status.
type HostError struct {
	Script   string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *HostError) Error() string {
	return fmt.Sprintf("blender %s failed (exit code %d): %s", e.Script, e.ExitCode, strings.TrimSpace(e.Stderr))
}

type Host struct {
	geometry.Editor
	// Path to the blender executable, config blender_path when empty.
	Path string
}

func init() {
	host.Register(&Host{})
}

func (h *Host) Name() string { return config.HostBlender }

func (h *Host) executable() string {
	if h.Path != "" {
		return h.Path
	}
	return config.Get().BlenderPath
}

func (h *Host) CanImport(ext string) bool {
	switch ext {
	case ".FBX", ".GLTF", ".GLB", ".OBJ":
		return true
	}
	return false
}

func (h *Host) CanExport(ext string) bool {
	return h.CanImport(ext)
}

// unpackScripts copies the embedded scripts into a fresh directory.
func unpackScripts() (string, error) {
	dir, err := ioutil.TempDir("", "fbx_scene_tools.")
	if err != nil {
		return "", errors.Wrapf(err, "Failed to create temp dir")
	}
	entries, err := fs.ReadDir(scripts, "scripts")
	if err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	for _, e := range entries {
		data, err := scripts.ReadFile("scripts/" + e.Name())
		if err != nil {
			os.RemoveAll(dir)
			return "", err
		}
		if err := ioutil.WriteFile(filepath.Join(dir, e.Name()), data, 0666); err != nil {
			os.RemoveAll(dir)
			return "", errors.Wrapf(err, "Failed to unpack %q", e.Name())
		}
	}
	return dir, nil
}

func (h *Host) run(ctx context.Context, dir, script string, args ...string) ([]byte, error) {
	cmdArgs := []string{
		"--background",
		"--python-expr", fmt.Sprintf("import sys; sys.path.insert(0, r'%s')", dir),
		"--python", filepath.Join(dir, script),
		"--",
	}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.CommandContext(ctx, h.executable(), cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logrus.Debugf("[blender] %s %s", h.executable(), strings.Join(cmdArgs, " "))
	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, errors.Wrapf(err, "Failed to start blender %q", h.executable())
		}
	}
	if err != nil || stderr.Len() != 0 {
		return nil, &HostError{
			Script:   script,
			ExitCode: cmd.ProcessState.ExitCode(),
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
		}
	}
	return stdout.Bytes(), nil
}

func (h *Host) Import(ctx context.Context, path string, g *scene.Graph) error {
	dir, err := unpackScripts()
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "Invalid path %q", path)
	}
	docPath := filepath.Join(dir, "scene.json")
	if _, err := h.run(ctx, dir, importScript, absPath, docPath); err != nil {
		return errors.Wrapf(err, "Failed to import %q", path)
	}

	d, err := scenedoc.Load(docPath)
	if err != nil {
		return err
	}
	return d.Build(g)
}

func (h *Host) Export(ctx context.Context, g *scene.Graph, path string, opts host.ExportOptions) error {
	dir, err := unpackScripts()
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "Invalid path %q", path)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0777); err != nil {
		return errors.Wrapf(err, "Failed to create directory for %q", path)
	}

	docPath := filepath.Join(dir, "scene.json")
	if err := scenedoc.FromGraph(g).Save(docPath); err != nil {
		return err
	}
	optionsData, err := json.Marshal(opts)
	if err != nil {
		return errors.Wrapf(err, "Failed to marshal export options")
	}
	optionsPath := filepath.Join(dir, "options.json")
	if err := ioutil.WriteFile(optionsPath, optionsData, 0666); err != nil {
		return errors.Wrapf(err, "Failed to write export options")
	}

	if _, err := h.run(ctx, dir, exportScript, docPath, optionsPath, absPath); err != nil {
		return errors.Wrapf(err, "Failed to export %q", path)
	}
	return nil
}
