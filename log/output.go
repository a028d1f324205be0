package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"
)

var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{Prefix: "git-subtree"})

// stdout receives the ">>>" command echo.
var (
	mu     sync.Mutex
	stdout io.Writer = os.Stdout
)

// Logger returns the shared leveled logger.
func Logger() *charmlog.Logger {
	return logger
}

// SetVerbose switches the logger between info and debug level.
func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(charmlog.DebugLevel)
		return
	}
	logger.SetLevel(charmlog.InfoLevel)
}

// SetOutput redirects command echo (out) and log records (errOut).
// Either may be nil to leave it unchanged.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		logger.SetOutput(errOut)
	}
}

// FormatSuccess formats a success message with a consistent structure
func FormatSuccess(message string) string {
	return fmt.Sprintf("[SUCCESS] %s", message)
}

// FormatOperation formats an operation message with a consistent structure
func FormatOperation(message string) string {
	return fmt.Sprintf("[OPERATION] %s...", message)
}

// FormatCommand renders argv as a single shell-quoted line prefixed with ">>>".
func FormatCommand(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, word := range append([]string{name}, args...) {
		quoted, err := syntax.Quote(word, syntax.LangBash)
		if err != nil {
			quoted = fmt.Sprintf("%q", word)
		}
		parts = append(parts, quoted)
	}
	return ">>> " + strings.Join(parts, " ")
}

// PrintCommand echoes a command to stdout before it runs.
func PrintCommand(name string, args ...string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(stdout, FormatCommand(name, args...))
}

// PrintWarning logs a warning message
func PrintWarning(message string) {
	logger.Warn(message)
}

// PrintSuccess logs a success message
func PrintSuccess(message string) {
	logger.Info(FormatSuccess(message))
}

// PrintInfo logs an info message
func PrintInfo(message string) {
	logger.Info(message)
}

// PrintOperation logs a message about an operation being performed
func PrintOperation(operation string) {
	logger.Info(FormatOperation(operation))
}
