package run

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jonwraymond/toolcall/call"
	"github.com/jonwraymond/toolcall/event"
	"github.com/jonwraymond/toolcall/tool"
	"github.com/rs/zerolog"
)

// Runner resolves calls against a finder and executes them sequentially.
//
// Contract:
// - Every invocation appends exactly one event.ToolRun, also when it fails
//   or panics.
// - Nested calls made by tasks and operators share the runner and its log.
// - Not safe for concurrent runs sharing one Printer.
type Runner struct {
	env      Context
	logger   zerolog.Logger
	maxDepth int
}

// NewRunner creates a runner bound to finder.
func NewRunner(finder tool.Finder, opts ...ConfigOption) *Runner {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.applyDefaults()
	if finder == nil {
		finder = tool.Empty()
	}
	return &Runner{
		env: Context{
			Finder:   finder,
			Log:      cfg.Log,
			Printer:  cfg.Printer,
			Settings: cfg.Settings,
		},
		logger:   *cfg.Logger,
		maxDepth: cfg.MaxDepth,
	}
}

// Context returns the execution environment.
func (r *Runner) Context() Context { return r.env }

// Finder returns the catalogue the runner resolves against.
func (r *Runner) Finder() tool.Finder { return r.env.Finder }

// Log returns the event log.
func (r *Runner) Log() *event.Log { return r.env.Log }

// Printer returns the output sink.
func (r *Runner) Printer() Printer { return r.env.Printer }

// WithFinder returns a runner sharing this runner's log, printer and
// settings but resolving against f.
func (r *Runner) WithFinder(f tool.Finder) *Runner {
	next := *r
	next.env = r.env.WithFinder(f)
	return &next
}

// RunArgs builds a call from name and args and runs it.
func (r *Runner) RunArgs(ctx context.Context, name string, args ...any) error {
	c, err := call.Of(name, args...)
	if err != nil {
		return err
	}
	return r.Run(ctx, c)
}

// RunToolArgs runs t with args.
func (r *Runner) RunToolArgs(ctx context.Context, t tool.Tool, args ...any) error {
	c, err := call.Of(t.Name(), args...)
	if err != nil {
		return err
	}
	return r.RunTool(ctx, t, c)
}

// Run resolves c.Tool() and runs the first matching tool.
// A miss yields a *NotFoundError.
func (r *Runner) Run(ctx context.Context, c call.Call) error {
	t, ok := r.env.Finder.Find(c.Tool())
	if !ok {
		err := &NotFoundError{ID: c.Tool(), Known: r.known()}
		r.logger.Warn().Str("tool", c.Tool()).Msg("tool not found")
		r.env.Log.Addf(zerolog.WarnLevel, "tool not found: %s", c.Tool())
		return err
	}
	return r.RunTool(ctx, t, c)
}

// RunTool executes t with the arguments of c. The tool name of c is not
// consulted.
func (r *Runner) RunTool(ctx context.Context, t tool.Tool, c call.Call) error {
	depth := Depth(ctx) + 1
	if depth > r.maxDepth {
		return fmt.Errorf("%w: %s at depth %d", ErrRecursionLimit, t, depth)
	}
	scoped := context.WithValue(ctx, scopeKey{}, scope{tool: t, depth: depth})

	name := t.NamespaceAndName()
	argv := c.Argv()
	record := event.ToolRun{
		Name:  name,
		Args:  strings.Join(argv, " "),
		Code:  -1,
		Start: time.Now(),
	}
	var out, errOut bytes.Buffer
	stdout := io.MultiWriter(r.env.Printer.Out, &out)
	stderr := io.MultiWriter(r.env.Printer.Err, &errOut)

	r.logger.Debug().Int("depth", depth).Msgf("+ %s", strings.TrimSpace(name+" "+record.Args))
	defer func() {
		record.Duration = time.Since(record.Start)
		record.Out = strings.TrimRightFunc(out.String(), unicode.IsSpace)
		record.Err = strings.TrimRightFunc(errOut.String(), unicode.IsSpace)
		r.env.Log.Add(record)
	}()

	code, nested := r.dispatch(scoped, t, argv, stdout, stderr)
	record.Code = code
	if code == 0 && nested == nil {
		return nil
	}
	if code == 0 {
		code = 1
		record.Code = code
	}
	r.logger.Warn().Str("tool", name).Int("code", code).Msg("tool failed")
	r.env.Log.Addf(zerolog.WarnLevel, "%s failed with exit code %d", name, code)
	return &ToolError{Tool: name, Code: code, Err: nested}
}

func (r *Runner) dispatch(ctx context.Context, t tool.Tool, argv []string, stdout, stderr io.Writer) (int, error) {
	switch t.Kind() {
	case tool.KindTask:
		for _, c := range t.Calls() {
			if err := r.Run(ctx, c); err != nil {
				return 1, err
			}
		}
		return 0, nil
	case tool.KindProvider:
		if op, ok := t.Operator(); ok {
			return op.RunWith(ctx, r, argv, stdout, stderr), nil
		}
		p, _ := t.Provider()
		return p.Run(ctx, argv, stdout, stderr), nil
	default:
		return 1, fmt.Errorf("%w: tool %s has no runnable kind", call.ErrInvalidArgument, t)
	}
}

// Missing returns the identifiers required by catalogued tools that the
// finder cannot resolve, sorted.
func (r *Runner) Missing() []string {
	missing := mapset.NewThreadUnsafeSet[string]()
	for _, t := range r.env.Finder.Tools() {
		for _, id := range t.Requires() {
			if _, ok := r.env.Finder.Find(id); !ok {
				missing.Add(id)
			}
		}
	}
	return sorted(missing)
}

func (r *Runner) known() []string {
	known := mapset.NewThreadUnsafeSet[string]()
	for _, t := range r.env.Finder.Tools() {
		known.Add(t.NamespaceAndName())
	}
	return sorted(known)
}

func sorted(s mapset.Set[string]) []string {
	out := s.ToSlice()
	slices.Sort(out)
	return out
}
