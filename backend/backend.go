package backend

import (
	"context"
	"errors"

	"github.com/jonwraymond/toolcall/tool"
)

// Common errors for backend operations.
var (
	ErrBackendNotFound    = errors.New("backend not found")
	ErrBackendDisabled    = errors.New("backend disabled")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Backend defines a source of tools.
// Backends can be in-process providers, executables on disk, a project
// manifest or project-local scripts.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Finder must honor cancellation/deadlines.
// - Errors: use ErrBackendUnavailable when the source cannot be read.
type Backend interface {
	// Kind returns the backend type (e.g., "local", "process", "script").
	Kind() string

	// Name returns the unique instance name for this backend.
	Name() string

	// Enabled returns whether this backend is currently enabled.
	Enabled() bool

	// Finder returns the tools currently available from this backend.
	Finder(ctx context.Context) (tool.Finder, error)
}

// Info contains metadata about a backend.
type Info struct {
	Kind    string
	Name    string
	Enabled bool
}

// InfoOf returns the metadata of b.
func InfoOf(b Backend) Info {
	return Info{Kind: b.Kind(), Name: b.Name(), Enabled: b.Enabled()}
}
