package exec

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonwraymond/toolcall/backend"
	"github.com/jonwraymond/toolcall/backend/manifest"
	"github.com/jonwraymond/toolcall/backend/process"
	"github.com/jonwraymond/toolcall/backend/script"
	"github.com/jonwraymond/toolcall/builtin"
	"github.com/jonwraymond/toolcall/gateway"
	"github.com/jonwraymond/toolcall/run"
	"github.com/jonwraymond/toolcall/search"
	"github.com/jonwraymond/toolcall/tool"
)

// Standard backend names.
const (
	ManifestBackend    = "project"
	ScriptBackend      = "scripts"
	ExecutablesBackend = "executables"
)

// Exec is the front door: it assembles the catalogue from the registered
// backends and the built-in tools and runs command lines against it.
type Exec struct {
	registry   *backend.Registry
	aggregator *backend.Aggregator
	opts       Options
}

// New creates a new Exec instance with the given options.
func New(opts Options) (*Exec, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	reg := backend.NewRegistry()
	if !opts.SkipStandardBackends {
		for _, b := range standardBackends(opts) {
			if err := reg.Register(b); err != nil {
				return nil, err
			}
		}
	}
	for _, b := range opts.Backends {
		if err := reg.Register(b); err != nil {
			return nil, err
		}
	}

	return &Exec{
		registry:   reg,
		aggregator: backend.NewAggregator(reg),
		opts:       opts,
	}, nil
}

func standardBackends(opts Options) []backend.Backend {
	s := opts.Settings
	var out []backend.Backend
	if s.Manifest != "" {
		out = append(out, manifest.New(ManifestBackend, s.Manifest))
	}
	if s.Scripts != "" {
		out = append(out, script.New(ScriptBackend, s.Scripts))
	}
	if len(s.Executables) > 0 {
		out = append(out, process.FromMap(ExecutablesBackend, s.Executables))
	}
	return out
}

// Registry returns the backend registry.
// Backends registered after New are picked up by the next catalogue build.
func (e *Exec) Registry() *backend.Registry {
	return e.registry
}

// Finder assembles the catalogue: the enabled backends in registration
// order followed by the built-in menu and search tools.
func (e *Exec) Finder(ctx context.Context) (tool.Finder, error) {
	f, err := e.aggregator.Compose(ctx, e.opts.Log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogue, err)
	}
	return tool.Compose(
		f,
		builtin.Finder(e.opts.Browser),
		tool.Of(tool.MustProvider(builtin.Namespace, search.Provider())),
	), nil
}

// Runner assembles the catalogue and returns a runner over it.
func (e *Exec) Runner(ctx context.Context) (*run.Runner, error) {
	f, err := e.Finder(ctx)
	if err != nil {
		return nil, err
	}
	return e.newRunner(f), nil
}

func (e *Exec) newRunner(f tool.Finder) *run.Runner {
	return run.NewRunner(f,
		run.WithLog(e.opts.Log),
		run.WithLogger(*e.opts.Logger),
		run.WithPrinter(e.opts.Printer),
		run.WithSettings(*e.opts.Settings),
	)
}

// Search indexes the catalogue and returns up to limit matches for query.
func (e *Exec) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	f, err := e.Finder(ctx)
	if err != nil {
		return nil, err
	}
	return search.NewIndex(f).Search(query, limit)
}

// Gateway returns an MCP gateway over the current catalogue.
func (e *Exec) Gateway(ctx context.Context, version string) (*gateway.Gateway, error) {
	f, err := e.Finder(ctx)
	if err != nil {
		return nil, err
	}
	return gateway.New(f, gateway.Options{
		Name:     e.opts.Name,
		Version:  version,
		Log:      e.opts.Log,
		Logger:   e.opts.Logger,
		Settings: *e.opts.Settings,
	}), nil
}

// Run parses args into calls separated by the configured delimiter and
// runs them in order, stopping at the first failure. Without args it
// prints the usage and the tool listing.
func (e *Exec) Run(ctx context.Context, args []string) (Result, error) {
	start := time.Now()
	before := len(e.opts.Log.ToolRuns())
	settings := e.opts.Settings
	p := e.opts.Printer
	logger := e.opts.Logger

	finish := func(r Result, err error) (Result, error) {
		r.Duration = time.Since(start)
		r.Runs = e.opts.Log.ToolRuns()[before:]
		r.Error = err
		return r, err
	}

	f, err := e.Finder(ctx)
	if err != nil {
		return finish(Result{}, err)
	}
	runner := e.newRunner(f)
	tools := f.Tools()
	logger.Debug().Int("tools", len(tools)).Msg("catalogue assembled")
	if settings.Verbose {
		p.Println(ToolsMessage(tools))
	}

	if missing := runner.Missing(); len(missing) > 0 {
		err := fmt.Errorf("%w: %s", ErrRequiredToolMissing, strings.Join(missing, ", "))
		return finish(Result{Missing: missing}, err)
	}

	if len(args) == 0 {
		p.Println(e.Usage())
		if !settings.Verbose {
			p.Println()
			p.Println(ToolsMessage(tools))
		}
		return finish(Result{}, nil)
	}

	task, err := tool.ParseTask(DefaultNamespace, MainTask, settings.Delimiter, args)
	if err != nil {
		return finish(Result{}, err)
	}
	calls := task.Calls()
	result := Result{Calls: len(calls)}
	if settings.Verbose {
		p.Printf("Run %s...\n", plural(len(calls), "main tool call"))
	}
	if settings.DryRun {
		logger.Debug().Msg("dry-run: no tool is run")
		result.DryRun = true
		return finish(result, nil)
	}

	for _, c := range calls {
		if err := runner.Run(ctx, c); err != nil {
			return finish(result, err)
		}
	}

	result, err = finish(result, nil)
	if settings.Verbose {
		p.Printf("Finished %s in %s\n", plural(len(result.Runs), "tool run"), e.opts.Log.Uptime().Round(time.Millisecond))
	}
	return result, err
}

// Main runs args and returns the process exit code. Errors are printed to
// the error stream.
func (e *Exec) Main(ctx context.Context, args []string) int {
	_, err := e.Run(ctx, args)
	if err != nil {
		e.opts.Printer.Errorf("%s: %v\n", e.opts.Name, err)
	}
	return ExitCode(err)
}

// Usage returns the usage text.
func (e *Exec) Usage() string {
	d := e.opts.Settings.Delimiter
	return fmt.Sprintf("Usage: %[1]s [flags] <tool> [args...] [%[2]s <tool> [args...]]...", e.opts.Name, d)
}

// ToolsMessage renders the diagnostic tool listing: a "Tools" header, one
// namespace/name line per tool and a trailing count line.
func ToolsMessage(tools []tool.Tool) string {
	var b strings.Builder
	b.WriteString("Tools\n")
	for _, t := range tools {
		b.WriteString(t.NamespaceAndName())
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "    %s", plural(len(tools), "tool"))
	return b.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
