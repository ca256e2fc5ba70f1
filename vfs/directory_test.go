package vfs

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTree(t *testing.T) string {
	root := t.TempDir()
	for _, name := range []string{"a.fbx", "b.txt", "sub/c.GLB", ".cache/d.fbx"} {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0777))
		require.NoError(t, ioutil.WriteFile(p, []byte("data"), 0666))
	}
	return root
}

func TestListFiltered(t *testing.T) {
	dd := NewDirectoryDriver(makeTree(t))
	dd.Filter = func(ext string) bool { return ext == ".FBX" || ext == ".GLB" }

	files, err := dd.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.fbx", "sub/c.GLB"}, files)
}

func TestResolveStaysInside(t *testing.T) {
	dd := NewDirectoryDriver(makeTree(t))

	p, err := dd.Resolve("sub/c.GLB")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dd.Path(), "sub", "c.GLB"), p)

	for _, bad := range []string{"", "../x.fbx", "sub/../../x.fbx", "/etc/passwd"} {
		_, err := dd.Resolve(bad)
		assert.Error(t, err, bad)
	}
}

func TestDirectoryGetFile(t *testing.T) {
	dd := NewDirectoryDriver(makeTree(t))

	f, err := DirectoryGetFile(dd, "a.fbx")
	require.NoError(t, err)
	assert.Equal(t, int64(4), f.Size())
	r, err := f.Open()
	require.NoError(t, err)
	data, err := ioutil.ReadAll(r)
	r.Close()
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	_, err = DirectoryGetFile(dd, "sub")
	assert.Error(t, err)
	_, err = DirectoryGetFile(dd, "missing.fbx")
	assert.Error(t, err)
}
