// Package manifest provides a backend reading tools and tasks from a
// project TOML file.
//
// A manifest holds [[tool]] tables for executables and [[task]] tables for
// command sequences:
//
//	[[tool]]
//	name = "jar@21"
//	path = "/opt/jdk-21/bin/jar"
//
//	[[task]]
//	name = "build"
//	args = ["javac", "-d", "out", "Main.java", "+", "jar", "--create"]
//
// Other top-level keys are ignored so the manifest can share a file with
// the process settings.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/jonwraymond/toolcall/backend"
	"github.com/jonwraymond/toolcall/backend/process"
	"github.com/jonwraymond/toolcall/tool"
)

// ErrInvalidManifest is returned for manifests that decode but describe
// unusable entries.
var ErrInvalidManifest = errors.New("invalid manifest")

// File is the decoded manifest.
type File struct {
	Tools []ToolEntry `toml:"tool"`
	Tasks []TaskEntry `toml:"task"`
}

// ToolEntry is one [[tool]] table.
type ToolEntry struct {
	Namespace   string   `toml:"namespace"`
	Name        string   `toml:"name"`
	Path        string   `toml:"path"`
	Args        []string `toml:"args"`
	Dir         string   `toml:"dir"`
	Env         []string `toml:"env"`
	Description string   `toml:"description"`
}

// TaskEntry is one [[task]] table.
type TaskEntry struct {
	Namespace string   `toml:"namespace"`
	Name      string   `toml:"name"`
	Delimiter string   `toml:"delimiter"`
	Args      []string `toml:"args"`
}

// Parse decodes manifest text. Unknown keys inside [[tool]] or [[task]]
// tables are rejected.
func Parse(data string) (File, error) {
	var f File
	meta, err := toml.Decode(data, &f)
	if err != nil {
		return File{}, err
	}
	for _, key := range meta.Undecoded() {
		if len(key) > 0 && (key[0] == "tool" || key[0] == "task") {
			return File{}, fmt.Errorf("%w: unknown key %s", ErrInvalidManifest, key)
		}
	}
	return f, nil
}

// Catalogue converts the manifest into catalogue entries. Entries without an
// explicit namespace use defaultNamespace. Tools precede tasks.
func (f File) Catalogue(defaultNamespace string) ([]tool.Tool, error) {
	out := make([]tool.Tool, 0, len(f.Tools)+len(f.Tasks))
	for i, e := range f.Tools {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("%w: tool %d has no name", ErrInvalidManifest, i+1)
		}
		t, err := tool.NewProvider(namespaceOr(e.Namespace, defaultNamespace), process.NewProvider(process.Executable{
			Name:        strings.TrimSpace(e.Name),
			Path:        strings.TrimSpace(e.Path),
			Args:        e.Args,
			Dir:         e.Dir,
			Env:         e.Env,
			Description: e.Description,
		}))
		if err != nil {
			return nil, fmt.Errorf("%w: tool %d: %w", ErrInvalidManifest, i+1, err)
		}
		out = append(out, t)
	}
	for i, e := range f.Tasks {
		t, err := tool.ParseTask(namespaceOr(e.Namespace, defaultNamespace), e.Name, e.Delimiter, e.Args)
		if err != nil {
			return nil, fmt.Errorf("%w: task %d: %w", ErrInvalidManifest, i+1, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func namespaceOr(ns, fallback string) string {
	if ns = strings.TrimSpace(ns); ns != "" {
		return ns
	}
	return fallback
}

// Backend implements the backend.Backend interface for a manifest file.
// The file is read on every Finder call; a missing file yields no tools.
type Backend struct {
	name    string
	path    string
	enabled bool
	mu      sync.RWMutex
}

// New creates a manifest backend reading path.
func New(name, path string) *Backend {
	return &Backend{name: name, path: path, enabled: true}
}

// Kind returns the backend kind.
func (b *Backend) Kind() string {
	return "manifest"
}

// Name returns the backend instance name.
func (b *Backend) Name() string {
	return b.name
}

// Path returns the manifest location.
func (b *Backend) Path() string {
	return b.path
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

// Finder reads and converts the manifest.
func (b *Backend) Finder(_ context.Context) (tool.Finder, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return tool.Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrBackendUnavailable, err)
	}
	f, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", backend.ErrBackendUnavailable, b.path, err)
	}
	tools, err := f.Catalogue(b.name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.path, err)
	}
	return tool.Of(tools...), nil
}
