package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSubdirs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   []string
		want    []string
		wantErr bool
	}{
		{name: "plain names", input: []string{"lib", "src/old-lib"}, want: []string{"lib", "src/old-lib"}},
		{name: "trailing slashes trimmed", input: []string{"lib/", "docs//"}, want: []string{"lib", "docs"}},
		{name: "cleaned", input: []string{"./lib/./core"}, want: []string{"lib/core"}},
		{name: "backslashes", input: []string{`src\lib`}, want: []string{"src/lib"}},
		{name: "spaces allowed", input: []string{"my lib"}, want: []string{"my lib"}},
		{name: "no names", input: nil, wantErr: true},
		{name: "empty", input: []string{""}, wantErr: true},
		{name: "absolute", input: []string{"/etc"}, wantErr: true},
		{name: "drive letter", input: []string{`C:\repo`}, wantErr: true},
		{name: "parent segment", input: []string{"lib/../../x"}, wantErr: true},
		{name: "option-like", input: []string{"--all"}, wantErr: true},
		{name: "newline", input: []string{"lib\nrm -rf"}, wantErr: true},
		{name: "root", input: []string{"."}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeSubdirs(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidSubdir)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRemoveIndexFilter(t *testing.T) {
	t.Parallel()

	filter, err := RemoveIndexFilter("vendor")
	require.NoError(t, err)
	assert.Equal(t, "git rm -rf --cached --ignore-unmatch -- vendor/", filter)

	filter, err = RemoveIndexFilter("third party; rm -rf ~")
	require.NoError(t, err)
	assert.Equal(t, "git rm -rf --cached --ignore-unmatch -- 'third party; rm -rf ~/'", filter)
	require.NoError(t, checkShell(filter))
}

func TestSplitIndexFilter(t *testing.T) {
	t.Parallel()

	filter, err := SplitIndexFilter([]string{"lib", "old.lib", "a#b"})
	require.NoError(t, err)

	assert.Contains(t, filter, `'^(lib|old\.lib|a#b)/'`)
	assert.Contains(t, filter, `'s#\t(lib|old\.lib|a\#b)/#\t#'`)
	assert.Contains(t, filter, "git -c core.quotePath=false ls-files -s | sed -E")
	assert.Contains(t, filter, `GIT_INDEX_FILE="$GIT_INDEX_FILE.new" git update-index --index-info`)
	require.NoError(t, checkShell(filter))
}

func TestParentFilter(t *testing.T) {
	t.Parallel()

	require.NoError(t, checkShell(parentFilterScript))

	filter, err := ParentFilter("/tmp/git subtree/parent-filter.sh")
	require.NoError(t, err)
	assert.Equal(t, "sh '/tmp/git subtree/parent-filter.sh'", filter)
}

func TestCheckShellRejectsBrokenScript(t *testing.T) {
	t.Parallel()

	assert.Error(t, checkShell("if true; then echo"))
	assert.Error(t, checkShell(`echo "unterminated`))
}
