// Package vfs exposes the scene directory served by the web view.
package vfs

import (
	"io"
)

type Element interface {
	Name() string
	IsDirectory() bool
}

type File interface {
	Element
	Size() int64
	// Path is the location on disk handed to the host environment.
	Path() string
	Open() (io.ReadCloser, error)
}

type Directory interface {
	Element
	List() ([]string, error)
	GetElement(name string) (Element, error)
}
