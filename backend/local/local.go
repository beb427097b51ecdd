// Package local provides a backend for in-process tools.
package local

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/jonwraymond/toolcall/call"
	"github.com/jonwraymond/toolcall/tool"
	"github.com/jonwraymond/toolfoundation/model"
)

// ToolDef defines a local tool with its body.
type ToolDef struct {
	Name        string
	Description string
	Tags        []string
	// Requires names tools that must also be catalogued.
	Requires []string

	// Run is the provider body.
	Run tool.RunFunc
	// Operate, when set, takes precedence over Run and receives the runner.
	Operate tool.OperatorFunc
}

// Backend implements the backend.Backend interface for local tools.
// Tools are listed in registration order under the backend name as
// namespace.
type Backend struct {
	name    string
	enabled bool
	order   []string
	tools   map[string]tool.Tool
	mu      sync.RWMutex
}

// New creates a new local backend.
func New(name string) *Backend {
	return &Backend{
		name:    name,
		enabled: true,
		tools:   make(map[string]tool.Tool),
	}
}

// Kind returns the backend kind.
func (b *Backend) Kind() string {
	return "local"
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

// RegisterHandler registers a tool body under name.
func (b *Backend) RegisterHandler(name string, def ToolDef) error {
	if def.Name == "" {
		def.Name = name
	}
	if def.Run == nil && def.Operate == nil {
		return fmt.Errorf("%w: tool %s has no body", call.ErrInvalidArgument, def.Name)
	}
	def.Tags = model.NormalizeTags(def.Tags)

	var p tool.Provider = defProvider{def}
	if def.Operate != nil {
		p = defOperator{defProvider{def}}
	}
	return b.RegisterProvider(p)
}

// RegisterProvider registers an existing provider.
func (b *Backend) RegisterProvider(p tool.Provider) error {
	t, err := tool.NewProvider(b.name, p)
	if err != nil {
		return err
	}
	b.add(t)
	return nil
}

// RegisterTask registers a task running calls in order.
func (b *Backend) RegisterTask(name string, calls ...call.Call) error {
	t, err := tool.NewTask(b.name, name, calls...)
	if err != nil {
		return err
	}
	b.add(t)
	return nil
}

func (b *Backend) add(t tool.Tool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.tools[t.Name()]; !exists {
		b.order = append(b.order, t.Name())
	}
	b.tools[t.Name()] = t
}

// UnregisterHandler removes a tool.
func (b *Backend) UnregisterHandler(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.tools, name)
	b.order = slices.DeleteFunc(b.order, func(n string) bool { return n == name })
}

// Finder returns the registered tools.
func (b *Backend) Finder(_ context.Context) (tool.Finder, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]tool.Tool, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.tools[name])
	}
	return tool.Of(out...), nil
}

type defProvider struct {
	def ToolDef
}

func (p defProvider) Name() string        { return p.def.Name }
func (p defProvider) Description() string { return p.def.Description }
func (p defProvider) Tags() []string      { return p.def.Tags }
func (p defProvider) Requires() []string  { return p.def.Requires }

func (p defProvider) Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	if p.def.Run == nil {
		fmt.Fprintf(stderr, "%s requires a runner\n", p.def.Name)
		return 1
	}
	return p.def.Run(ctx, argv, stdout, stderr)
}

type defOperator struct {
	defProvider
}

func (o defOperator) RunWith(ctx context.Context, runner tool.Runner, argv []string, stdout, stderr io.Writer) int {
	return o.def.Operate(ctx, runner, argv, stdout, stderr)
}
