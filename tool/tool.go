package tool

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jonwraymond/toolcall/call"
)

// Kind discriminates the two tool variants.
type Kind int

const (
	// KindProvider tools delegate to a single Provider.
	KindProvider Kind = iota + 1
	// KindTask tools run an ordered list of calls.
	KindTask
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindProvider:
		return "provider"
	case KindTask:
		return "task"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Provider is an opaque executable capability.
//
// Contract:
// - Name must be stable and non-blank.
// - Run returns the process-style exit code; 0 means success.
// - Run must not retain argv, stdout or stderr after returning.
type Provider interface {
	Name() string
	Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int
}

// Runner is the view of the execution engine handed to operators.
type Runner interface {
	// Run resolves and runs a call through the runner's finder.
	Run(ctx context.Context, c call.Call) error

	// RunTool runs t directly with the arguments of c, bypassing lookup.
	RunTool(ctx context.Context, t Tool, c call.Call) error

	// Finder returns the catalogue the runner resolves against.
	Finder() Finder
}

// Operator is a Provider that needs the runner, usually to invoke
// other tools. The runner always prefers RunWith over Run.
type Operator interface {
	Provider
	RunWith(ctx context.Context, runner Runner, argv []string, stdout, stderr io.Writer) int
}

// Requirer is implemented by providers that depend on other tools being
// present in the catalogue.
type Requirer interface {
	Requires() []string
}

// Describer is implemented by providers that carry a one-line summary.
type Describer interface {
	Description() string
}

// Tagger is implemented by providers that carry search tags.
type Tagger interface {
	Tags() []string
}

// RunFunc is the signature of a provider body.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// OperatorFunc is the signature of an operator body.
type OperatorFunc func(ctx context.Context, runner Runner, argv []string, stdout, stderr io.Writer) int

// ProviderOf adapts a function into a named Provider.
func ProviderOf(name string, fn RunFunc) Provider {
	return funcProvider{name: name, fn: fn}
}

// OperatorOf adapts a function into a named Operator.
func OperatorOf(name string, fn OperatorFunc) Operator {
	return funcOperator{name: name, fn: fn}
}

type funcProvider struct {
	name string
	fn   RunFunc
}

func (p funcProvider) Name() string { return p.name }

func (p funcProvider) Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	return p.fn(ctx, argv, stdout, stderr)
}

type funcOperator struct {
	name string
	fn   OperatorFunc
}

func (o funcOperator) Name() string { return o.name }

func (o funcOperator) Run(_ context.Context, _ []string, _, stderr io.Writer) int {
	fmt.Fprintf(stderr, "%s requires a runner\n", o.name)
	return 1
}

func (o funcOperator) RunWith(ctx context.Context, runner Runner, argv []string, stdout, stderr io.Writer) int {
	return o.fn(ctx, runner, argv, stdout, stderr)
}

// Tool is a catalogue entry. Values are immutable and safe to share.
//
// A Tool is also a one-element Finder.
type Tool struct {
	namespace string
	name      string
	kind      Kind
	provider  Provider
	calls     []call.Call
}

// NewProvider creates a provider tool named after p.
// Returns call.ErrInvalidArgument when p is nil or its name is blank.
func NewProvider(namespace string, p Provider) (Tool, error) {
	if p == nil {
		return Tool{}, fmt.Errorf("%w: provider is nil", call.ErrInvalidArgument)
	}
	name := strings.TrimSpace(p.Name())
	if name == "" {
		return Tool{}, fmt.Errorf("%w: provider name must not be blank", call.ErrInvalidArgument)
	}
	return Tool{
		namespace: strings.TrimSpace(namespace),
		name:      name,
		kind:      KindProvider,
		provider:  p,
	}, nil
}

// MustProvider is like NewProvider but panics on error.
func MustProvider(namespace string, p Provider) Tool {
	t, err := NewProvider(namespace, p)
	if err != nil {
		panic(err)
	}
	return t
}

// Namespace returns the tool namespace, possibly empty.
func (t Tool) Namespace() string { return t.namespace }

// Name returns the registered tool name, including any "@" suffix.
func (t Tool) Name() string { return t.name }

// Kind reports which variant this tool is.
func (t Tool) Kind() Kind { return t.kind }

// Provider returns the wrapped provider of a KindProvider tool.
func (t Tool) Provider() (Provider, bool) {
	if t.kind != KindProvider {
		return nil, false
	}
	return t.provider, true
}

// Operator returns the wrapped provider as an Operator when it is one.
func (t Tool) Operator() (Operator, bool) {
	op, ok := t.provider.(Operator)
	return op, ok && t.kind == KindProvider
}

// Calls returns a copy of the calls of a KindTask tool.
func (t Tool) Calls() []call.Call {
	return slices.Clone(t.calls)
}

// Requires lists the tool identifiers this tool depends on.
func (t Tool) Requires() []string {
	if r, ok := t.provider.(Requirer); ok {
		return r.Requires()
	}
	return nil
}

// Description returns the provider summary, or for tasks the command lines
// they run joined by " + ".
func (t Tool) Description() string {
	if t.kind == KindTask {
		lines := make([]string, 0, len(t.calls))
		for _, c := range t.calls {
			lines = append(lines, c.CommandLine())
		}
		return strings.Join(lines, " "+DefaultDelimiter+" ")
	}
	if d, ok := t.provider.(Describer); ok {
		return d.Description()
	}
	return ""
}

// Tags returns the provider tags, if any.
func (t Tool) Tags() []string {
	if tg, ok := t.provider.(Tagger); ok {
		return slices.Clone(tg.Tags())
	}
	return nil
}

// NamespaceAndName renders "namespace/name", or the bare name when the
// namespace is empty.
func (t Tool) NamespaceAndName() string {
	if t.namespace == "" {
		return t.name
	}
	return t.namespace + "/" + t.name
}

// String implements fmt.Stringer.
func (t Tool) String() string {
	return t.NamespaceAndName()
}

// Matches reports whether the identifier resolves to this tool.
func (t Tool) Matches(id string) bool {
	name := id
	if i := strings.LastIndex(id, "/"); i >= 0 {
		if id[:i] != t.namespace {
			return false
		}
		name = id[i+1:]
	}
	if name == "" {
		return false
	}
	return t.name == name || strings.HasPrefix(t.name, name+"@")
}

// Tools returns a listing holding only this tool.
func (t Tool) Tools() []Tool {
	return []Tool{t}
}

// Find returns this tool when it matches id.
func (t Tool) Find(id string) (Tool, bool) {
	if t.Matches(id) {
		return t, true
	}
	return Tool{}, false
}
