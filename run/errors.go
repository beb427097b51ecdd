package run

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by Runner.
var (
	ErrToolNotFound   = errors.New("tool not found")
	ErrToolFailed     = errors.New("tool failed")
	ErrRecursionLimit = errors.New("tool recursion limit exceeded")
)

// NotFoundError reports a lookup miss together with the catalogue.
type NotFoundError struct {
	// ID is the identifier that was requested.
	ID string
	// Known lists every catalogued tool as namespace/name, sorted.
	Known []string
}

func (e *NotFoundError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("tool not found: %s (catalogue is empty)", e.ID)
	}
	return fmt.Sprintf("tool not found: %s (known: %s)", e.ID, strings.Join(e.Known, ", "))
}

// Is reports whether target is ErrToolNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrToolNotFound
}

// ToolError reports a nonzero exit code.
type ToolError struct {
	Tool string
	Code int
	// Err is the failure of a nested call, for tasks and operators.
	Err error
}

func (e *ToolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tool %s failed with exit code %d: %v", e.Tool, e.Code, e.Err)
	}
	return fmt.Sprintf("tool %s failed with exit code %d", e.Tool, e.Code)
}

// Unwrap returns the nested failure, if any.
func (e *ToolError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrToolFailed.
func (e *ToolError) Is(target error) bool {
	return target == ErrToolFailed
}
