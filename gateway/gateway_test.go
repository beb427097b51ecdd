package gateway

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/toolcall/call"
	"github.com/jonwraymond/toolcall/internal/testutil/testlog"
	"github.com/jonwraymond/toolcall/tool"
)

func echo(_ context.Context, argv []string, stdout, _ io.Writer) int {
	fmt.Fprintln(stdout, strings.Join(argv, " "))
	return 0
}

func fail(_ context.Context, _ []string, _, stderr io.Writer) int {
	fmt.Fprintln(stderr, "broken")
	return 2
}

func testFinder(t *testing.T) tool.Finder {
	t.Helper()
	greet, err := tool.NewTask("demo", "greet", call.MustOf("echo", "hello"))
	if err != nil {
		t.Fatal(err)
	}
	return tool.Of(
		tool.MustProvider("demo", tool.ProviderOf("echo", echo)),
		tool.MustProvider("demo", tool.ProviderOf("fail", fail)),
		tool.MustProvider("", tool.ProviderOf("jar@21", echo)),
		tool.MustProvider("demo", tool.ProviderOf("echo", fail)),
		greet,
	)
}

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	logger := testlog.Start(t)
	return New(testFinder(t), Options{Logger: &logger})
}

// connect returns a client session talking to g over in-memory transports.
func connect(t *testing.T, g *Gateway) *mcp.ClientSession {
	t.Helper()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(context.Background())
	serverSession, err := g.Server().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "test"}, nil)
	session, err := client.Connect(context.Background(), clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Close()
		cancel()
	})
	return session
}

func firstText(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if text, ok := c.(*mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

func TestToolName(t *testing.T) {
	tests := []struct {
		tool tool.Tool
		want string
	}{
		{tool.MustProvider("demo", tool.ProviderOf("echo", echo)), "demo.echo"},
		{tool.MustProvider("", tool.ProviderOf("jar@21", echo)), "jar_21"},
		{tool.MustProvider("run/duke", tool.ProviderOf("x", echo)), "run_duke.x"},
	}
	for _, tt := range tests {
		if got := ToolName(tt.tool); got != tt.want {
			t.Errorf("ToolName(%s) = %q, want %q", tt.tool, got, tt.want)
		}
	}
}

func TestGateway_Names(t *testing.T) {
	g := newTestGateway(t)
	want := []string{"demo.echo", "demo.fail", "jar_21", "demo.greet"}
	if got := g.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestGateway_ListTools(t *testing.T) {
	session := connect(t, newTestGateway(t))
	var names []string
	for tl, err := range session.Tools(context.Background(), nil) {
		if err != nil {
			t.Fatalf("Tools() error = %v", err)
		}
		names = append(names, tl.Name)
	}
	slices.Sort(names)
	want := []string{"demo.echo", "demo.fail", "demo.greet", "jar_21"}
	if !slices.Equal(names, want) {
		t.Errorf("tools = %v, want %v", names, want)
	}
}

func TestGateway_CallTool(t *testing.T) {
	g := newTestGateway(t)
	session := connect(t, g)
	ctx := context.Background()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "demo.echo",
		Arguments: map[string]any{"args": []string{"a", "b"}},
	})
	if err != nil {
		t.Fatalf("CallTool() error = %v", err)
	}
	if res.IsError || firstText(res) != "a b\n" {
		t.Errorf("CallTool(demo.echo) = %q (error %v)", firstText(res), res.IsError)
	}

	res, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "demo.fail"})
	if err != nil {
		t.Fatalf("CallTool() error = %v", err)
	}
	if !res.IsError || !strings.Contains(firstText(res), "broken") {
		t.Errorf("CallTool(demo.fail) = %q (error %v)", firstText(res), res.IsError)
	}

	res, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "demo.greet"})
	if err != nil {
		t.Fatalf("CallTool() error = %v", err)
	}
	if res.IsError || firstText(res) != "hello\n" {
		t.Errorf("CallTool(demo.greet) = %q (error %v)", firstText(res), res.IsError)
	}

	runs := g.Log().ToolRuns()
	if len(runs) != 4 {
		t.Errorf("ToolRuns() = %d, want 4", len(runs))
	}
}

func TestGateway_Call(t *testing.T) {
	g := newTestGateway(t)
	echoTool, _ := testFinder(t).Find("demo/echo")
	out, errOut, err := g.Call(context.Background(), echoTool, []string{"x"})
	if err != nil || out != "x\n" || errOut != "" {
		t.Errorf("Call() = %q, %q, %v", out, errOut, err)
	}
}
