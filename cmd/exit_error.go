package cmd

import (
	"errors"
	"fmt"
	"strings"

	"git_subtree_tool/log"
)

// Process exit codes.
const (
	ExitSuccess = 0
	ExitFailure = 1 // general or git failure
	ExitUsage   = 2 // invalid arguments (E9xx)
	ExitConfig  = 3 // configuration (E1xx)
	ExitRepo    = 4 // repository (E3xx)
	ExitHistory = 5 // history journal (E4xx)
)

// ExitError carries the process exit code for err.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// newExitError wraps err with the exit code matching its error code.
func newExitError(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: exitCodeForErrorCode(log.CodeOf(err)), Err: err}
}

// exitCodeOf returns the process exit code for an error returned by a command.
func exitCodeOf(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if code := log.CodeOf(err); code != "" {
		return exitCodeForErrorCode(code)
	}
	// Anything else reaching here comes from cobra itself: unknown flags,
	// wrong argument counts.
	return ExitUsage
}

func exitCodeForErrorCode(code string) int {
	switch {
	case code == log.ErrOperationFailed:
		return ExitFailure
	case strings.HasPrefix(code, "E9"):
		return ExitUsage
	case strings.HasPrefix(code, "E1"):
		return ExitConfig
	case strings.HasPrefix(code, "E3"):
		return ExitRepo
	case strings.HasPrefix(code, "E4"):
		return ExitHistory
	default:
		return ExitFailure
	}
}
