package log

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[E301] Repository not found", FormatError(ErrRepoNotFound, "Repository not found", nil))
	assert.Equal(t, "[E201] git failed: boom", FormatError(ErrGitCommandFailed, "git failed", errors.New("boom")))
}

func TestGetErrorCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		msg  string
		want string
	}{
		{msg: "[E101] Error reading configuration file", want: "E101"},
		{msg: "[E9", want: ""},
		{msg: "plain failure", want: ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, GetErrorCode(tc.msg), tc.msg)
	}
}

func TestErrorWrapping(t *testing.T) {
	t.Parallel()

	cause := errors.New("exit status 128")
	err := fmt.Errorf("split: %w", NewError(ErrGitFilterFailed, "filter-branch failed", cause))

	require.ErrorIs(t, err, cause)
	assert.Equal(t, ErrGitFilterFailed, CodeOf(err))
	assert.Equal(t, "split: [E202] filter-branch failed: exit status 128", err.Error())

	assert.Equal(t, "E901", CodeOf(errors.New("[E901] bad")))
	assert.Empty(t, CodeOf(errors.New("bad")))
}

func TestFormatCommand(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ">>> git reset --hard", FormatCommand("git", "reset", "--hard"))
	assert.Equal(t, ">>> cp -a 'my repo' dest", FormatCommand("cp", "-a", "my repo", "dest"))
	assert.Equal(t, ">>> git gc '--prune=now'", FormatCommand("git", "gc", "--prune=now"))
}

func TestPrintCommandWritesToStdout(t *testing.T) {
	var out bytes.Buffer
	SetOutput(&out, nil)
	t.Cleanup(func() { SetOutput(os.Stdout, nil) })

	PrintCommand("git", "gc", "--prune=now")

	assert.Equal(t, ">>> git gc '--prune=now'\n", out.String())
}
