package config

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRunHistory_MissingFile(t *testing.T) {
	t.Parallel()

	history, err := LoadRunHistory(filepath.Join(t.TempDir(), "none.yml"))
	require.NoError(t, err)
	assert.Empty(t, history.Runs)
}

func TestAppendRun(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "history.yml")

	remove := NewRunRecord(OperationRemove, "/src/repo", "", []string{"vendor"}, false)
	require.NoError(t, AppendRun(path, remove))

	split := NewRunRecord(OperationSplit, "/src/repo", "/dst/lib", []string{"lib", "old-lib"}, true)
	split.Finish(errors.New("[E202] filter-branch failed"))
	require.NoError(t, AppendRun(path, split))

	history, err := LoadRunHistory(path)
	require.NoError(t, err)
	require.Len(t, history.Runs, 2)

	assert.Equal(t, OperationRemove, history.Runs[0].Operation)
	assert.Equal(t, ResultSuccess, history.Runs[0].Result)
	assert.Empty(t, history.Runs[0].DestRepo)

	assert.Equal(t, OperationSplit, history.Runs[1].Operation)
	assert.Equal(t, "/dst/lib", history.Runs[1].DestRepo)
	assert.Equal(t, []string{"lib", "old-lib"}, history.Runs[1].Subdirs)
	assert.True(t, history.Runs[1].DryRun)
	assert.Equal(t, ResultFailed, history.Runs[1].Result)
	assert.Equal(t, "[E202] filter-branch failed", history.Runs[1].Error)
}

func TestAppendRun_Concurrent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "history.yml")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, AppendRun(path, NewRunRecord(OperationRemove, "/repo", "", []string{"x"}, false)))
		}()
	}
	wg.Wait()

	history, err := LoadRunHistory(path)
	require.NoError(t, err)
	assert.Len(t, history.Runs, 8)
}

func TestRunHistory_Last(t *testing.T) {
	t.Parallel()
	history := &RunHistory{Runs: []RunRecord{{SourceRepo: "a"}, {SourceRepo: "b"}, {SourceRepo: "c"}}}

	assert.Len(t, history.Last(0), 3)
	assert.Len(t, history.Last(10), 3)
	last := history.Last(2)
	want := []RunRecord{{SourceRepo: "b"}, {SourceRepo: "c"}}
	if diff := cmp.Diff(want, last); diff != "" {
		t.Errorf("Last(2) mismatch (-want +got):\n%s", diff)
	}
}
