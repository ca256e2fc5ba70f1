package web

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/fbx_scene_tools/host/native"
	"github.com/mogaika/fbx_scene_tools/vfs"
)

const sceneYaml = `nodes:
  - {name: Root, type: EMPTY}
  - {name: Quad, type: MESH, parent: Root, mesh: QuadMesh}
  - {name: Tri, type: MESH, parent: Root, mesh: TriMesh}
meshes:
  - name: QuadMesh
    vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0], [0, 1, 0]]
    faces: [[0, 1, 2, 3]]
  - name: TriMesh
    vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
    faces: [[0, 1, 2]]
`

func newTestServer(t *testing.T) *httptest.Server {
	dir := t.TempDir()
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "scene.yaml"), []byte(sceneYaml), 0666))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0666))

	s := NewServer(vfs.NewDirectoryDriver(dir), &native.Host{})
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestScenesListsImportable(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv.URL+"/json/scenes")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `["scene.yaml"]`, string(body))
}

func TestRunHierarchy(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv.URL+"/run/hierarchy?file=scene.yaml")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "└ Root (EMPTY)\n  ├ Quad (MESH)\n  └ Tri (MESH)\n", string(body))
}

func TestRunGeometryJSON(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv.URL+"/run/geometry?file=scene.yaml&mesh_name=Quad")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var geom struct {
		Vertices  []map[string]float64 `json:"vertices"`
		Triangles [][3]int             `json:"triangles"`
	}
	require.NoError(t, json.Unmarshal(body, &geom))
	assert.Len(t, geom.Vertices, 4)
	assert.Len(t, geom.Triangles, 2)
}

func TestRunReduceDownloads(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv.URL+"/run/reduce?file=scene.yaml&output_mesh_name=Merged&format=json")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, `attachment; filename="scene.json"`, resp.Header.Get("Content-Disposition"))
	assert.Contains(t, string(body), `"Merged"`)
}

func TestRunErrors(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := get(t, srv.URL+"/run/geometry?file=scene.yaml&mesh_name=Missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/run/geometry?file=scene.yaml")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/run/hierarchy?file=../escape.yaml")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/run/explode?file=scene.yaml")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/run/extract-match?file=scene.yaml&pattern=*&format=json")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestIndexServed(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "fbx_scene_tools")
}
