package log

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for all application errors
const (
	// Configuration errors (1xx)
	ErrConfigReadFailed  = "E101" // Error reading configuration file
	ErrConfigParseFailed = "E102" // Error parsing configuration file

	// Git operation errors (2xx)
	ErrGitCommandFailed = "E201" // A git (or helper) command exited non-zero
	ErrGitFilterFailed  = "E202" // filter-branch rewrite failed
	ErrGitCleanupFailed = "E203" // Post-rewrite cleanup failed
	ErrGitCopyFailed    = "E204" // Copying the source repository failed
	ErrGitBranchFailed  = "E205" // Creating local tracking branches failed
	ErrGitFilterInvalid = "E206" // Generated filter script did not parse
	ErrGitHelperFailed  = "E207" // Parent-filter helper script could not be prepared

	// Repository errors (3xx)
	ErrRepoNotFound    = "E301" // Repository not found
	ErrRepoInvalidPath = "E302" // Invalid repository path
	ErrRepoNotGit      = "E303" // Not a git repository
	ErrRepoCleanFailed = "E304" // Could not remove previous destination repository
	ErrRepoBusy        = "E305" // Another run holds the repository lock

	// History operation errors (4xx)
	ErrHistoryReadFailed  = "E401" // Failed to read history file
	ErrHistoryWriteFailed = "E402" // Failed to write history file
	ErrHistoryLockFailed  = "E403" // Failed to lock history file

	// General errors (9xx)
	ErrInvalidArgument = "E901" // Invalid argument passed
	ErrOperationFailed = "E999" // Generic operation failed
)

// Error is an application error carrying one of the codes above.
type Error struct {
	Code        string
	Description string
	Err         error
}

// NewError returns a coded error wrapping err (which may be nil).
func NewError(code string, description string, err error) *Error {
	return &Error{Code: code, Description: description, Err: err}
}

func (e *Error) Error() string {
	return FormatError(e.Code, e.Description, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the outermost coded error in err's chain, or "".
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return GetErrorCode(err.Error())
}

// FormatError formats an error with a consistent structure including the error code
func FormatError(code string, description string, err error) string {
	if err != nil {
		return fmt.Sprintf("[%s] %s: %v", code, description, err)
	}
	return fmt.Sprintf("[%s] %s", code, description)
}

// GetErrorCode extracts the error code from a formatted error message
func GetErrorCode(errorMsg string) string {
	if strings.HasPrefix(errorMsg, "[E") && len(errorMsg) >= 6 {
		return errorMsg[1:5]
	}
	return ""
}
