package fsutil

import (
	"io/fs"
	"os"
)

// FS is the set of filesystem calls the remover needs.
// OSFS is the real implementation; tests substitute their own to inject failures.
type FS interface {
	Lstat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	Remove(name string) error
	Chmod(name string, mode fs.FileMode) error
	// Writable reports whether the current process may create or delete entries in dir.
	Writable(dir string) bool
}

// OSFS implements FS using the os package.
type OSFS struct{}

func (OSFS) Lstat(name string) (fs.FileInfo, error) {
	return os.Lstat(name)
}

func (OSFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (OSFS) Remove(name string) error {
	return os.Remove(name)
}

func (OSFS) Chmod(name string, mode fs.FileMode) error {
	return os.Chmod(name, mode)
}

func (OSFS) Writable(dir string) bool {
	return writable(dir)
}
