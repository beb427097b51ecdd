// Package process provides a backend for executables run as child processes.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"slices"
	"strings"
	"sync"

	"github.com/jonwraymond/toolcall/tool"
)

// ExitNotFound is the exit code reported when the executable cannot be
// started because it does not exist.
const ExitNotFound = 127

// Executable describes one external program.
type Executable struct {
	// Name is the tool name, optionally with an "@version" suffix.
	Name string
	// Path of the program. Empty resolves Name without its suffix on PATH
	// at run time.
	Path string
	// Args are prepended to every invocation.
	Args []string
	// Dir is the working directory; empty uses the current one.
	Dir string
	// Env entries are appended to the inherited environment.
	Env []string

	Description string
}

// Backend implements the backend.Backend interface for executables.
type Backend struct {
	name    string
	enabled bool
	exes    []Executable
	mu      sync.RWMutex
}

// New creates a process backend exposing exes in the given order.
func New(name string, exes ...Executable) *Backend {
	return &Backend{
		name:    name,
		enabled: true,
		exes:    slices.Clone(exes),
	}
}

// FromMap creates a backend from a name to path mapping, ordered by name.
func FromMap(name string, paths map[string]string) *Backend {
	names := make([]string, 0, len(paths))
	for n := range paths {
		names = append(names, n)
	}
	slices.Sort(names)

	b := New(name)
	for _, n := range names {
		b.Add(Executable{Name: n, Path: paths[n]})
	}
	return b
}

// Kind returns the backend kind.
func (b *Backend) Kind() string {
	return "process"
}

// Name returns the backend instance name.
func (b *Backend) Name() string {
	return b.name
}

// Enabled returns whether the backend is enabled.
func (b *Backend) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

// SetEnabled enables or disables the backend.
func (b *Backend) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

// Add appends an executable.
func (b *Backend) Add(e Executable) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.exes = append(b.exes, e)
}

// Finder returns one provider tool per executable.
func (b *Backend) Finder(_ context.Context) (tool.Finder, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	tools := make([]tool.Tool, 0, len(b.exes))
	for _, e := range b.exes {
		t, err := tool.NewProvider(b.name, &Provider{exe: e})
		if err != nil {
			return nil, fmt.Errorf("executable %q: %w", e.Path, err)
		}
		tools = append(tools, t)
	}
	return tool.Of(tools...), nil
}

// Provider runs one executable.
type Provider struct {
	exe Executable
}

// NewProvider creates a provider for e.
func NewProvider(e Executable) *Provider {
	return &Provider{exe: e}
}

func (p *Provider) Name() string { return p.exe.Name }

func (p *Provider) Description() string {
	if p.exe.Description != "" {
		return p.exe.Description
	}
	return "Runs " + p.program()
}

func (p *Provider) program() string {
	if p.exe.Path != "" {
		return p.exe.Path
	}
	name, _, _ := strings.Cut(p.exe.Name, "@")
	return name
}

// Run executes the program with the configured prefix arguments followed by
// argv. Output is streamed to stdout and stderr.
func (p *Provider) Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	args := append(slices.Clone(p.exe.Args), argv...)
	cmd := exec.CommandContext(ctx, p.program(), args...)
	cmd.Dir = p.exe.Dir
	if len(p.exe.Env) > 0 {
		cmd.Env = append(cmd.Environ(), p.exe.Env...)
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
		fmt.Fprintf(stderr, "%s: %v\n", p.exe.Name, err)
		return 1
	}

	fmt.Fprintf(stderr, "%s: %v\n", p.exe.Name, err)
	var execErr *exec.Error
	if errors.As(err, &execErr) || errors.Is(err, fs.ErrNotExist) {
		return ExitNotFound
	}
	return 1
}
