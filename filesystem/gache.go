// Package filesystem routes every disk operation through a swappable afero backend.
package filesystem

import (
	"io"
	"os"
)

// GacheFs adapts the afero backend to the gache.FileSystem interface so
// disk-backed caches honour the active backend as well.
type GacheFs struct{}

// OpenFile opens a file using the current filesystem backend.
func (GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return API().OpenFile(name, flag, perm)
}

// MkdirAll creates a directory using the current filesystem backend.
func (GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return API().MkdirAll(path, perm)
}
