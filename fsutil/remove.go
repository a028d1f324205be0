// Package fsutil removes files and directory trees that may contain read-only entries.
package fsutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"syscall"

	"git_subtree_tool/log"
)

// widened is applied to an entry (and possibly its parent) before retrying a denied removal.
const widened fs.FileMode = 0o777

// Remover deletes paths with a single permission-repairing retry per entry.
type Remover struct {
	FS FS
}

// NewRemover returns a Remover backed by the OS filesystem.
func NewRemover() *Remover {
	return &Remover{FS: OSFS{}}
}

// ForceRemove is NewRemover().Remove(target).
func ForceRemove(target string) (bool, error) {
	return NewRemover().Remove(target)
}

// Remove deletes target, which may be a file, a symbolic link, a directory or nothing.
//
// An absent target reports true. A file or link is removed directly and a failure is
// returned as an error. A directory is removed bottom-up; an entry whose removal is
// denied gets its permissions (and its parent's, when the parent is not writable)
// widened to 0777 and is retried once. If the tree still cannot be removed, Remove
// reports false with a nil error. Widened permissions are never restored.
func (r *Remover) Remove(target string) (bool, error) {
	info, err := r.FS.Lstat(target)
	if absent(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	if !info.IsDir() {
		if err := r.FS.Remove(target); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := r.removeTree(target); err != nil {
		log.Logger().Warn("could not remove directory tree", "path", target, "err", err)
		return false, nil
	}
	return true, nil
}

// absent reports whether a Lstat error means no entry can exist at the path:
// it is missing, goes through a non-directory, or is not a valid path at all.
func absent(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, syscall.ENOTDIR) ||
		errors.Is(err, syscall.EINVAL)
}

func (r *Remover) removeTree(dir string) error {
	entries, err := r.FS.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := r.removeTree(path); err != nil {
				return err
			}
			continue
		}
		if err := r.removeEntry(path, entry.Type()&fs.ModeSymlink != 0); err != nil {
			return err
		}
	}

	return r.removeEntry(dir, false)
}

// removeEntry removes a single file, link or empty directory. Links are never
// chmod'ed since that would change their target.
func (r *Remover) removeEntry(path string, symlink bool) error {
	err := r.FS.Remove(path)
	if err == nil || !errors.Is(err, fs.ErrPermission) {
		return err
	}

	parent := filepath.Dir(path)
	if !r.FS.Writable(parent) {
		if err := r.FS.Chmod(parent, widened); err != nil {
			return err
		}
	}
	if !symlink {
		if err := r.FS.Chmod(path, widened); err != nil {
			return err
		}
	}

	log.Logger().Debug("retrying removal with widened permissions", "path", path)
	return r.FS.Remove(path)
}
