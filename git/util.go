package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"git_subtree_tool/log"
)

// ValidateRepository checks that repoPath exists and is a git work tree.
func ValidateRepository(repoPath string) error {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return log.NewError(log.ErrRepoInvalidPath, "Invalid repository path", err)
	}

	if _, err := os.Stat(absPath); err != nil {
		return log.NewError(log.ErrRepoNotFound, fmt.Sprintf("Repository %s not found", absPath), err)
	}

	if _, err := OpenRepository(absPath); err != nil {
		return log.NewError(log.ErrRepoNotGit, fmt.Sprintf("%s is not a git repository", absPath), err)
	}

	return nil
}

// CommandError reports an external command that could not start or exited non-zero.
type CommandError struct {
	Args     []string
	ExitCode int // -1 when the process never ran to completion
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func newCommandError(name string, args []string, err error, stderr string) *CommandError {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return &CommandError{
		Args:     append([]string{name}, args...),
		ExitCode: exitCode,
		Stderr:   strings.TrimSpace(stderr),
		Err:      err,
	}
}

// Runner prints and runs external commands with explicit argument lists.
type Runner struct {
	Git    string   // git binary, "git" when empty
	Dir    string   // working directory, the current one when empty
	Env    []string // KEY=VALUE entries added to the inherited environment
	DryRun bool     // print commands without running them
	Stdout io.Writer
	Stderr io.Writer
}

// Run echoes the command and runs it, streaming its output.
func (r *Runner) Run(ctx context.Context, name string, args ...string) error {
	log.PrintCommand(name, args...)
	if r.DryRun {
		return nil
	}

	cmd := r.command(ctx, name, args...)
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return newCommandError(name, args, err, "")
	}
	return nil
}

// Output runs a read-only query and returns its stdout. Queries are not echoed
// and return empty output in dry-run mode.
func (r *Runner) Output(ctx context.Context, name string, args ...string) (string, error) {
	log.Logger().Debug("query", "cmd", log.FormatCommand(name, args...), "dir", r.Dir)
	if r.DryRun {
		return "", nil
	}

	var stderr bytes.Buffer
	cmd := r.command(ctx, name, args...)
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return "", newCommandError(name, args, err, stderr.String())
	}
	return string(output), nil
}

// RunGit runs a git subcommand in the runner's directory.
func (r *Runner) RunGit(ctx context.Context, args ...string) error {
	return r.Run(ctx, r.gitBinary(), args...)
}

// GitOutput runs a read-only git query in the runner's directory.
func (r *Runner) GitOutput(ctx context.Context, args ...string) (string, error) {
	return r.Output(ctx, r.gitBinary(), args...)
}

func (r *Runner) gitBinary() string {
	if r.Git == "" {
		return "git"
	}
	return r.Git
}

func (r *Runner) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	return cmd
}

// lines splits command output into trimmed, non-empty lines.
func lines(output string) []string {
	var result []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return result
}
