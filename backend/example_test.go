package backend_test

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jonwraymond/toolcall/backend"
	"github.com/jonwraymond/toolcall/backend/local"
	"github.com/jonwraymond/toolcall/call"
	"github.com/jonwraymond/toolcall/event"
	"github.com/jonwraymond/toolcall/run"
)

func ExampleRegistry() {
	// Create a registry
	reg := backend.NewRegistry()

	// Create and register a local backend
	localBackend := local.New("demo")
	_ = localBackend.RegisterHandler("greet", local.ToolDef{
		Description: "Greets a user",
		Run: func(_ context.Context, argv []string, stdout, _ io.Writer) int {
			fmt.Fprintf(stdout, "Hello, %s!\n", strings.Join(argv, " "))
			return 0
		},
	})

	_ = reg.Register(localBackend)

	// List registered backends
	backends := reg.List()
	fmt.Printf("Registered backends: %d\n", len(backends))

	// Get a specific backend
	b, ok := reg.Get("demo")
	fmt.Printf("Found 'demo': %v\n", ok)
	fmt.Printf("Backend kind: %s\n", b.Kind())
	// Output:
	// Registered backends: 1
	// Found 'demo': true
	// Backend kind: local
}

func ExampleAggregator() {
	// Create registry and backends
	reg := backend.NewRegistry()

	math := local.New("math")
	_ = math.RegisterHandler("add", local.ToolDef{
		Description: "Adds two numbers",
		Run: func(_ context.Context, argv []string, stdout, _ io.Writer) int {
			var a, b int
			fmt.Sscan(argv[0], &a)
			fmt.Sscan(argv[1], &b)
			fmt.Fprintln(stdout, a+b)
			return 0
		},
	})

	text := local.New("text")
	_ = text.RegisterHandler("upper", local.ToolDef{
		Description: "Converts to uppercase",
		Run: func(_ context.Context, argv []string, stdout, _ io.Writer) int {
			fmt.Fprintln(stdout, strings.ToUpper(strings.Join(argv, " ")))
			return 0
		},
	})
	_ = text.RegisterTask("shout", call.MustOf("upper", "hello"))

	_ = reg.Register(math)
	_ = reg.Register(text)

	// Compose the catalogue
	ctx := context.Background()
	log := event.NewLog()
	finder, _ := backend.NewAggregator(reg).Compose(ctx, log)
	fmt.Printf("Total tools: %d\n", len(finder.Tools()))

	// Run through the composed catalogue
	runner := run.NewRunner(finder, run.WithLog(log), run.WithPrinter(run.Printer{Out: printOut{}}))
	_ = runner.RunArgs(ctx, "math/add", 5, 3)
	_ = runner.RunArgs(ctx, "shout")
	// Output:
	// Total tools: 3
	// 8
	// HELLO
}

type printOut struct{}

func (printOut) Write(p []byte) (int, error) {
	fmt.Print(string(p))
	return len(p), nil
}

func ExampleInfo() {
	b := local.New("my-backend")

	info := backend.InfoOf(b)

	fmt.Printf("Kind: %s\n", info.Kind)
	fmt.Printf("Name: %s\n", info.Name)
	fmt.Printf("Enabled: %v\n", info.Enabled)
	// Output:
	// Kind: local
	// Name: my-backend
	// Enabled: true
}

// Verify interface compliance
var _ backend.Backend = (*local.Backend)(nil)
