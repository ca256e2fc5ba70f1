package vfs

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// DirectoryDriver is a directory on disk. Names are slash separated paths
// relative to it and may never leave it.
type DirectoryDriver struct {
	path string
	// Filter selects listed files by upper case extension, nil lists all.
	Filter func(ext string) bool
}

func NewDirectoryDriver(path string) *DirectoryDriver {
	return &DirectoryDriver{path: path}
}

func (dd *DirectoryDriver) Name() string {
	return filepath.Base(dd.path)
}

func (dd *DirectoryDriver) IsDirectory() bool {
	return true
}

func (dd *DirectoryDriver) Path() string {
	return dd.path
}

func (dd *DirectoryDriver) accept(name string) bool {
	return dd.Filter == nil || dd.Filter(strings.ToUpper(filepath.Ext(name)))
}

// List walks the whole tree and returns every accepted file, sorted.
func (dd *DirectoryDriver) List() ([]string, error) {
	result := make([]string, 0, 32)
	err := filepath.WalkDir(dd.path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dd.path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !dd.accept(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(dd.path, p)
		if err != nil {
			return err
		}
		result = append(result, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Error getting directory '%s' info", dd.path)
	}
	sort.Strings(result)
	return result, nil
}

// Resolve maps a relative name to a path inside the directory.
func (dd *DirectoryDriver) Resolve(name string) (string, error) {
	if name == "" || filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", errors.Errorf("Invalid name %q", name)
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("Name %q leaves the directory", name)
	}
	return filepath.Join(dd.path, clean), nil
}

func (dd *DirectoryDriver) GetElement(name string) (Element, error) {
	p, err := dd.Resolve(name)
	if err != nil {
		return nil, err
	}
	s, err := os.Stat(p)
	if err != nil {
		return nil, errors.Wrapf(err, "Stat error")
	}
	if s.IsDir() {
		sub := NewDirectoryDriver(p)
		sub.Filter = dd.Filter
		return sub, nil
	}
	return &DirectoryDriverFile{path: p, size: s.Size()}, nil
}

type DirectoryDriverFile struct {
	path string
	size int64
}

func (ddf *DirectoryDriverFile) Name() string {
	return filepath.Base(ddf.path)
}

func (ddf *DirectoryDriverFile) IsDirectory() bool {
	return false
}

func (ddf *DirectoryDriverFile) Size() int64 {
	return ddf.size
}

func (ddf *DirectoryDriverFile) Path() string {
	return ddf.path
}

func (ddf *DirectoryDriverFile) Open() (io.ReadCloser, error) {
	return os.Open(ddf.path)
}
