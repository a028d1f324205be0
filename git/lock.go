package git

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"git_subtree_tool/log"

	"github.com/gofrs/flock"
)

// LockRepository takes an exclusive advisory lock for repoPath, failing fast if
// another run already holds it. The returned function releases the lock.
func LockRepository(repoPath string) (func(), error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, log.NewError(log.ErrRepoInvalidPath, "Invalid repository path", err)
	}

	lock := flock.New(lockPath(absPath))

	locked, err := lock.TryLock()
	if err != nil {
		return nil, log.NewError(log.ErrOperationFailed, "Failed to acquire repository lock", err)
	}
	if !locked {
		return nil, log.NewError(log.ErrRepoBusy, fmt.Sprintf("Another run is already rewriting %s", absPath), nil)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			log.PrintWarning(fmt.Sprintf("failed to release repository lock: %v", err))
		}
	}, nil
}

// lockPath names the lock file for an absolute repository path. The file is
// kept after Unlock: a process blocked on the same path would otherwise lock an
// unlinked inode while the next run locks a new one.
func lockPath(absPath string) string {
	sum := sha256.Sum256([]byte(absPath))
	return filepath.Join(os.TempDir(), fmt.Sprintf("git-subtree-%x.lock", sum[:8]))
}
