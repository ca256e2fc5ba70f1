package main

import (
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sceneYaml = `nodes:
  - {name: Root, type: EMPTY}
  - {name: Body, type: MESH, parent: Root, mesh: Body}
  - {name: Light, type: LIGHT}
meshes:
  - name: Body
    vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
    faces: [[0, 1, 2]]
`

type fixture struct {
	dir    string
	config string
	input  string
}

func newFixture(t *testing.T) *fixture {
	dir := t.TempDir()
	f := &fixture{
		dir:    dir,
		config: filepath.Join(dir, "config.yaml"),
		input:  filepath.Join(dir, "scene.yaml"),
	}
	require.NoError(t, ioutil.WriteFile(f.config, []byte("host: native\n"), 0666))
	require.NoError(t, ioutil.WriteFile(f.input, []byte(sceneYaml), 0666))
	return f
}

func (f *fixture) run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"--config", f.config}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestHierarchyCommand(t *testing.T) {
	f := newFixture(t)
	code, stdout, stderr := f.run("hierarchy", "--", f.input)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "├ Light (LIGHT)\n└ Root (EMPTY)\n  └ Body (MESH)\n", stdout)
}

func TestExtractCommandWritesOutput(t *testing.T) {
	f := newFixture(t)
	output := filepath.Join(f.dir, "out", "body.json")
	code, _, stderr := f.run("extract", "--", f.input, "Body", output, "Hero")
	require.Equal(t, 0, code, stderr)

	data, err := ioutil.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Hero"`)
	assert.NotContains(t, string(data), `"Light"`)
}

func TestMissingDashIsUsage(t *testing.T) {
	f := newFixture(t)
	code, stdout, stderr := f.run("hierarchy", f.input)
	assert.Equal(t, 2, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "--")
}

func TestWrongArgumentCountIsUsage(t *testing.T) {
	f := newFixture(t)
	code, _, _ := f.run("geometry", "--", f.input)
	assert.Equal(t, 2, code)
}

func TestUnknownCommandIsUsage(t *testing.T) {
	f := newFixture(t)
	code, _, _ := f.run("explode", "--", f.input)
	assert.Equal(t, 2, code)
}

func TestBadHostIsUsage(t *testing.T) {
	f := newFixture(t)
	code, _, _ := f.run("--host", "maya", "hierarchy", "--", f.input)
	assert.Equal(t, 2, code)
}

func TestRuntimeErrorExitsOne(t *testing.T) {
	f := newFixture(t)
	code, stdout, stderr := f.run("geometry", "--", f.input, "Missing")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Missing")
}

func TestPointCloudSeed(t *testing.T) {
	f := newFixture(t)
	_, first, _ := f.run("point-cloud", "--seed", "7", "--", f.input, "Body", "5")
	code, second, stderr := f.run("point-cloud", "--seed", "7", "--", f.input, "Body", "5")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestDumpWritesToStderr(t *testing.T) {
	f := newFixture(t)
	code, stdout, stderr := f.run("--dump", "hierarchy-json", "--", f.input)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"path":"Root/Body"`)
	assert.Contains(t, stderr, "Nodes")
}
