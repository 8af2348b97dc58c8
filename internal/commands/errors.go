package commands

import (
	"errors"
	"fmt"
	"io"

	"taskview/internal/exitcode"
	"taskview/internal/search"
	"taskview/internal/service"
)

// reportError prints err in the CLI's error format and returns the exit
// code for it. ref names the task the command was operating on, if any.
func reportError(errOut io.Writer, err error, ref string) int {
	var verr *search.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(errOut, "error: %v\n", verr)
		return exitcode.UserError
	case errors.Is(err, service.ErrConflict):
		fmt.Fprintln(errOut, "error: a task with this title already exists")
		return exitcode.UserError
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: task not found: %s\n", ref)
		return exitcode.UserError
	case errors.Is(err, service.ErrUnsupported):
		fmt.Fprintf(errOut, "error: not supported by this backend: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, service.ErrAuth):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}
