package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// Operation names recorded in the history file.
const (
	OperationRemove = "remove"
	OperationSplit  = "split"
)

// Results recorded in the history file.
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

// RunRecord describes one remove or split run.
type RunRecord struct {
	Timestamp  string   `yaml:"timestamp"`
	Operation  string   `yaml:"operation"`
	SourceRepo string   `yaml:"source_repo"`
	DestRepo   string   `yaml:"dest_repo,omitempty"` // Only set for split runs
	Subdirs    []string `yaml:"subdirs"`
	DryRun     bool     `yaml:"dry_run,omitempty"`
	Result     string   `yaml:"result"`
	Error      string   `yaml:"error,omitempty"`
}

// RunHistory stores the history of runs, oldest first.
type RunHistory struct {
	Runs []RunRecord `yaml:"runs"`
}

// NewRunRecord returns a record stamped with the current time.
func NewRunRecord(operation, sourceRepo, destRepo string, subdirs []string, dryRun bool) RunRecord {
	return RunRecord{
		Timestamp:  time.Now().Format(time.RFC3339),
		Operation:  operation,
		SourceRepo: sourceRepo,
		DestRepo:   destRepo,
		Subdirs:    subdirs,
		DryRun:     dryRun,
		Result:     ResultSuccess,
	}
}

// Finish sets the record's result from the outcome of the run.
func (r *RunRecord) Finish(err error) {
	if err == nil {
		r.Result = ResultSuccess
		r.Error = ""
		return
	}
	r.Result = ResultFailed
	r.Error = err.Error()
}

// LoadRunHistory loads the run history from file. A missing file is an empty history.
func LoadRunHistory(historyPath string) (*RunHistory, error) {
	data, err := os.ReadFile(historyPath)
	if errors.Is(err, fs.ErrNotExist) {
		return &RunHistory{Runs: []RunRecord{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var history RunHistory
	if err := yaml.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	if history.Runs == nil {
		history.Runs = []RunRecord{}
	}

	return &history, nil
}

// SaveRunHistory saves the run history to file, creating its directory if needed.
func SaveRunHistory(historyPath string, history *RunHistory) error {
	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal history to YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	if err := os.WriteFile(historyPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}

	return nil
}

// AppendRun adds a record to the history file while holding its lock, so
// concurrent runs do not drop each other's entries.
func AppendRun(historyPath string, record RunRecord) error {
	if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	lock := flock.New(historyPath + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock history file: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	history, err := LoadRunHistory(historyPath)
	if err != nil {
		return err
	}
	history.Runs = append(history.Runs, record)

	return SaveRunHistory(historyPath, history)
}

// Last returns at most n of the most recent runs, oldest first. n <= 0 returns all.
func (h *RunHistory) Last(n int) []RunRecord {
	if n <= 0 || n >= len(h.Runs) {
		return h.Runs
	}
	return h.Runs[len(h.Runs)-n:]
}
