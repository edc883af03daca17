package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/Makepad-fr/tada/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError carries an exit code through cobra's error return.
type ExitError struct {
	Code    int
	Message string
	Hint    string // printed muted under the error
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: ExitUsage, Message: fmt.Sprintf(format, args...)}
}

func failure(message string, err error) *ExitError {
	return &ExitError{Code: ExitFailure, Message: message, Err: err}
}

// GetExitCode returns the code for err; plain errors map to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// PrintError writes err the way the CLI reports failures.
func PrintError(w io.Writer, err error) {
	ui.Fprintln(w, ui.Failure(err.Error()))
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Hint != "" {
		ui.Fprintln(w, ui.C(ui.Current().Muted, exitErr.Hint))
	}
}

func ok(w io.Writer, msg string) {
	ui.Fprintln(w, ui.Success(msg))
}
