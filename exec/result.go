package exec

import (
	"errors"
	"time"

	"github.com/jonwraymond/toolcall/backend"
	"github.com/jonwraymond/toolcall/event"
)

// Process exit codes returned by Main.
const (
	ExitOK              = 0
	ExitToolFailed      = 1
	ExitBackendError    = 2
	ExitRequiredMissing = 3
)

// Errors returned by Run.
var (
	// ErrRequiredToolMissing indicates that a catalogued tool requires a
	// tool the catalogue cannot resolve.
	ErrRequiredToolMissing = errors.New("exec: required tool missing")

	// ErrCatalogue indicates that the catalogue could not be assembled.
	ErrCatalogue = errors.New("exec: catalogue unavailable")
)

// Result is the outcome of one Run.
type Result struct {
	// Calls is the number of top-level calls parsed from the arguments.
	Calls int

	// Runs holds the tool runs recorded during this Run, nested ones
	// included, in completion order.
	Runs []event.ToolRun

	// Missing lists required tools the catalogue cannot resolve.
	Missing []string

	// DryRun is true when execution was skipped.
	DryRun bool

	// Duration is the wall time of the Run.
	Duration time.Duration

	// Error is non-nil if the Run failed.
	Error error
}

// OK returns true if the run has no error.
func (r Result) OK() bool {
	return r.Error == nil
}

// ExitCode maps err onto a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrRequiredToolMissing):
		return ExitRequiredMissing
	case errors.Is(err, ErrCatalogue),
		errors.Is(err, backend.ErrBackendNotFound),
		errors.Is(err, backend.ErrBackendUnavailable),
		errors.Is(err, backend.ErrBackendExists):
		return ExitBackendError
	default:
		return ExitToolFailed
	}
}
