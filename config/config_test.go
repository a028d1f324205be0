package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := ReadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "git", cfg.Git)
	assert.True(t, cfg.GC.Enabled)
	assert.True(t, cfg.GC.Aggressive)
	assert.Equal(t, "now", cfg.GC.Prune)
	assert.True(t, cfg.FilterBranch.SquelchWarning)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "history.yml", filepath.Base(cfg.HistoryFile))
}

func TestReadConfig_File(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yml")
	content := `git: /usr/local/bin/git
history_file: /tmp/runs.yml
verbose: true
gc:
  aggressive: false
  prune: 2.weeks.ago
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := ReadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/git", cfg.Git)
	assert.Equal(t, "/tmp/runs.yml", cfg.HistoryFile)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.GC.Enabled)
	assert.False(t, cfg.GC.Aggressive)
	assert.Equal(t, "2.weeks.ago", cfg.GC.Prune)
}

func TestReadConfig_WorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "git-subtree.yml"), []byte("gc:\n  enabled: false\n"), 0o644))

	cfg, err := ReadConfig("")
	require.NoError(t, err)
	assert.False(t, cfg.GC.Enabled)
}

func TestReadConfig_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GIT_SUBTREE_GIT", "/opt/git/bin/git")
	t.Setenv("GIT_SUBTREE_GC_AGGRESSIVE", "false")

	cfg, err := ReadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/opt/git/bin/git", cfg.Git)
	assert.False(t, cfg.GC.Aggressive)
}

func TestReadConfig_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := ReadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("gc: [unclosed\n"), 0o644))
	_, err = ReadConfig(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}
