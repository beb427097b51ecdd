// Package script provides a backend for project-local JavaScript tools.
//
// Every *.js file in the scripts directory is one tool named after the file.
// Scripts run in an embedded goja runtime with these globals:
//
//	args            the argument list as an array of strings
//	print(...v)     writes a line to standard output
//	eprint(...v)    writes a line to standard error
//	run(tool, ...a) runs another catalogued tool; throws when it fails
//
// The completion value of the script is its exit code: undefined, null and
// true map to 0, false maps to 1 and numbers are used as is. An uncaught
// exception exits with 1. A leading "//" comment line becomes the tool
// description.
package script

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"github.com/jonwraymond/toolcall/backend"
	"github.com/jonwraymond/toolcall/call"
	"github.com/jonwraymond/toolcall/tool"
)

// Extension marks script files.
const Extension = ".js"

var errNoRunner = errors.New("run() is not available without a runner")

// Backend implements the backend.Backend interface for a scripts directory.
// The directory is rescanned on every Finder call.
type Backend struct {
	name    string
	dir     string
	enabled bool
	mu      sync.RWMutex
}

// New creates a script backend over dir.
func New(name, dir string) *Backend {
	return &Backend{name: name, dir: dir, enabled: true}
}

// Kind returns the backend kind.
func (b *Backend) Kind() string {
	return "script"
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

// Finder lists the scripts in name order. A missing directory yields no
// tools.
func (b *Backend) Finder(_ context.Context) (tool.Finder, error) {
	entries, err := os.ReadDir(b.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return tool.Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrBackendUnavailable, err)
	}

	var tools []tool.Tool
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Extension {
			continue
		}
		s := &Script{
			name: strings.TrimSuffix(e.Name(), Extension),
			path: filepath.Join(b.dir, e.Name()),
		}
		s.description = readDescription(s.path)
		t, err := tool.NewProvider(b.name, s)
		if err != nil {
			continue
		}
		tools = append(tools, t)
	}
	slices.SortFunc(tools, func(a, b tool.Tool) int { return strings.Compare(a.Name(), b.Name()) })
	return tool.Of(tools...), nil
}

func readDescription(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return ""
	}
	line := strings.TrimSpace(sc.Text())
	if rest, ok := strings.CutPrefix(line, "//"); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}

// Script is one JavaScript tool.
type Script struct {
	name        string
	path        string
	description string
}

// NewScript creates a tool body for the file at path.
func NewScript(name, path string) *Script {
	return &Script{name: name, path: path, description: readDescription(path)}
}

func (s *Script) Name() string        { return s.name }
func (s *Script) Description() string { return s.description }

// Run executes the script without access to other tools.
func (s *Script) Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	return s.RunWith(ctx, nil, argv, stdout, stderr)
}

// RunWith executes the script; run() resolves through runner.
func (s *Script) RunWith(ctx context.Context, runner tool.Runner, argv []string, stdout, stderr io.Writer) int {
	src, err := os.ReadFile(s.path)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", s.name, err)
		return 1
	}
	return Eval(ctx, runner, s.path, string(src), argv, stdout, stderr)
}

// Eval runs source as a tool body. name is used in stack traces.
func Eval(ctx context.Context, runner tool.Runner, name, source string, argv []string, stdout, stderr io.Writer) int {
	vm := goja.New()

	bind := func(key string, value any) bool {
		if err := vm.Set(key, value); err != nil {
			fmt.Fprintf(stderr, "%s: bind %s: %v\n", name, key, err)
			return false
		}
		return true
	}

	ok := bind("args", slices.Clone(argv)) &&
		bind("print", printer(stdout)) &&
		bind("eprint", printer(stderr)) &&
		bind("run", func(fc goja.FunctionCall) goja.Value {
			if runner == nil {
				panic(vm.NewGoError(errNoRunner))
			}
			if len(fc.Arguments) == 0 {
				panic(vm.NewGoError(fmt.Errorf("%w: run() needs a tool name", call.ErrInvalidArgument)))
			}
			args := make([]any, 0, len(fc.Arguments)-1)
			for _, a := range fc.Arguments[1:] {
				args = append(args, a.String())
			}
			c, err := call.Of(fc.Arguments[0].String(), args...)
			if err == nil {
				err = runner.Run(ctx, c)
			}
			if err != nil {
				panic(vm.NewGoError(err))
			}
			return goja.Undefined()
		})
	if !ok {
		return 1
	}

	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	v, err := vm.RunScript(name, source)
	if err != nil {
		var ex *goja.Exception
		if errors.As(err, &ex) {
			fmt.Fprintln(stderr, ex.Error())
		} else {
			fmt.Fprintf(stderr, "%s: %v\n", name, err)
		}
		return 1
	}
	return exitCode(v)
}

func printer(w io.Writer) func(goja.FunctionCall) goja.Value {
	return func(fc goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(fc.Arguments))
		for _, a := range fc.Arguments {
			parts = append(parts, a.String())
		}
		fmt.Fprintln(w, strings.Join(parts, " "))
		return goja.Undefined()
	}
}

func exitCode(v goja.Value) int {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 0
	}
	switch x := v.Export().(type) {
	case bool:
		if x {
			return 0
		}
		return 1
	case int64:
		return int(x)
	case float64:
		return int(x)
	default:
		return 0
	}
}
