package git

import (
	"os"
	"path/filepath"
	"testing"

	"git_subtree_tool/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockRepository(t *testing.T) {
	t.Parallel()
	repo := filepath.Join(t.TempDir(), "repo")

	unlock, err := LockRepository(repo)
	require.NoError(t, err)

	_, err = LockRepository(repo)
	require.Error(t, err)
	assert.Equal(t, log.ErrRepoBusy, log.CodeOf(err))

	other, err := LockRepository(filepath.Join(t.TempDir(), "other"))
	require.NoError(t, err)
	other()

	unlock()
	assert.FileExists(t, lockPath(repo))
	again, err := LockRepository(repo)
	require.NoError(t, err)
	again()
}

func TestLockPath(t *testing.T) {
	t.Parallel()

	a := lockPath("/src/a")
	assert.Equal(t, os.TempDir(), filepath.Dir(a))
	assert.Regexp(t, `^git-subtree-[0-9a-f]{16}\.lock$`, filepath.Base(a))
	assert.Equal(t, a, lockPath("/src/a"))
	assert.NotEqual(t, a, lockPath("/src/b"))
}
