package call

import (
	"errors"
	"fmt"
)

// Sentinel errors for error classification.
var (
	// ErrInvalidArgument indicates a blank tool name or a malformed command.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrFileSystem indicates a traversal or pattern failure during file
	// expansion.
	ErrFileSystem = errors.New("file system error")
)

// FileSystemError describes a failed file expansion.
type FileSystemError struct {
	// Dir is the start directory of the traversal.
	Dir string

	// Pattern is the glob pattern that was matched.
	Pattern string

	// Err is the underlying error.
	Err error
}

// Error returns the error message.
func (e *FileSystemError) Error() string {
	return fmt.Sprintf("find files %q in %s: %v", e.Pattern, e.Dir, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *FileSystemError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
// FileSystemError matches ErrFileSystem to allow sentinel-style checking.
func (e *FileSystemError) Is(target error) bool {
	return target == ErrFileSystem
}
