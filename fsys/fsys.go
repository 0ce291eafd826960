// Package fsys abstracts file access behind an injectable interface with a
// real and an in-memory implementation, plus an fsnotify-backed watcher.
package fsys

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Filesystem is the file surface services depend on. Paths follow the
// platform conventions of the implementation; Memory uses slash paths.
type Filesystem interface {
	Open(name string) (io.ReadCloser, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Exists(name string) bool
	IsDir(name string) bool
	MkdirAll(path string, perm fs.FileMode) error
	Remove(name string) error
	ReadDir(name string) ([]string, error)
	Glob(pattern string) ([]string, error)
	Rename(oldpath, newpath string) error
	Size(name string) (int64, error)
}

// OS is the real filesystem.
type OS struct{}

// NewOS returns the real filesystem.
func NewOS() *OS {
	return &OS{}
}

func (*OS) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

func (*OS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (*OS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (*OS) Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

func (*OS) IsDir(name string) bool {
	fi, err := os.Stat(name)
	return err == nil && fi.IsDir()
}

func (*OS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (*OS) Remove(name string) error {
	return os.Remove(name)
}

// ReadDir returns the sorted names of the directory's entries.
func (*OS) ReadDir(name string) ([]string, error) {
	entries, err := os.ReadDir(name)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

func (*OS) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

func (*OS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (*OS) Size(name string) (int64, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
