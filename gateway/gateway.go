// Package gateway serves a tool catalogue as Model Context Protocol tools.
//
// Every catalogue entry becomes one MCP tool taking an "args" string array.
// Calls run through a runner sharing the gateway's event log, one at a
// time; the tool's standard output is returned as text content and a
// failing tool yields an error result carrying its standard error.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonwraymond/toolcall/call"
	"github.com/jonwraymond/toolcall/event"
	"github.com/jonwraymond/toolcall/internal/config"
	"github.com/jonwraymond/toolcall/run"
	"github.com/jonwraymond/toolcall/search"
	"github.com/jonwraymond/toolcall/tool"
)

// Default implementation identity.
const (
	DefaultName    = "toolcall"
	DefaultVersion = "dev"
)

// Options configures a Gateway.
type Options struct {
	// Name and Version identify the server to clients.
	Name    string
	Version string

	// Log receives the events of every call. Defaults to a new log.
	Log *event.Log

	// Logger defaults to the global zerolog logger.
	Logger *zerolog.Logger

	// Settings are handed to the runner.
	Settings config.Settings
}

func (o *Options) applyDefaults() {
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.Version == "" {
		o.Version = DefaultVersion
	}
	if o.Log == nil {
		o.Log = event.NewLog()
	}
	if o.Logger == nil {
		l := log.Logger
		o.Logger = &l
	}
}

// Gateway exposes a finder's tools over MCP.
type Gateway struct {
	finder tool.Finder
	opts   Options
	server *mcp.Server
	names  []string
	mu     sync.Mutex
}

// New builds a gateway over the tools of finder. The tool set is fixed at
// construction; entries whose MCP name collides with an earlier entry are
// left out.
func New(finder tool.Finder, opts Options) *Gateway {
	opts.applyDefaults()
	if finder == nil {
		finder = tool.Empty()
	}
	g := &Gateway{
		finder: finder,
		opts:   opts,
		server: mcp.NewServer(&mcp.Implementation{Name: opts.Name, Version: opts.Version}, nil),
	}

	seen := make(map[string]bool)
	for _, t := range finder.Tools() {
		name := ToolName(t)
		if seen[name] {
			opts.Logger.Debug().Str("tool", t.NamespaceAndName()).Msg("gateway: duplicate tool name skipped")
			continue
		}
		seen[name] = true
		g.names = append(g.names, name)
		g.server.AddTool(&mcp.Tool{
			Name:        name,
			Description: describe(t),
			InputSchema: inputSchema,
		}, g.handler(t))
	}
	return g
}

var inputSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"args": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Command line arguments",
		},
	},
}

// ToolName returns the MCP name of t: the normalized namespace and name
// joined by '.', or the bare name without a namespace.
func ToolName(t tool.Tool) string {
	name := search.Normalize(t.Name())
	if t.Namespace() == "" {
		return name
	}
	return search.Normalize(t.Namespace()) + "." + name
}

func describe(t tool.Tool) string {
	if d := strings.TrimSpace(t.Description()); d != "" {
		return d
	}
	return fmt.Sprintf("Runs %s", t.NamespaceAndName())
}

// Server returns the underlying MCP server.
func (g *Gateway) Server() *mcp.Server { return g.server }

// Names returns the MCP tool names in catalogue order.
func (g *Gateway) Names() []string { return append([]string(nil), g.names...) }

// Log returns the event log shared by all calls.
func (g *Gateway) Log() *event.Log { return g.opts.Log }

// Serve runs the server on transport until the client disconnects or ctx
// is done.
func (g *Gateway) Serve(ctx context.Context, transport mcp.Transport) error {
	g.opts.Logger.Info().Int("tools", len(g.names)).Msg("gateway: serving")
	return g.server.Run(ctx, transport)
}

type arguments struct {
	Args []string `json:"args"`
}

func (g *Gateway) handler(t tool.Tool) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var in arguments
		if req.Params != nil && len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &in); err != nil {
				return nil, fmt.Errorf("%w: %w", call.ErrInvalidArgument, err)
			}
		}
		out, errOut, err := g.Call(ctx, t, in.Args)
		if err != nil {
			text := strings.TrimSpace(strings.Join([]string{errOut, err.Error()}, "\n"))
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: text}},
				IsError: true,
			}, nil
		}
		return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: out}}}, nil
	}
}

// Call runs t with args and returns its captured output. Calls are
// serialized.
func (g *Gateway) Call(ctx context.Context, t tool.Tool, args []string) (stdout, stderr string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec := &run.Recorder{}
	r := run.NewRunner(g.finder,
		run.WithLog(g.opts.Log),
		run.WithLogger(*g.opts.Logger),
		run.WithPrinter(rec.Printer()),
		run.WithSettings(g.opts.Settings),
	)
	c, err := call.OfCommand(append([]string{t.Name()}, args...))
	if err != nil {
		return "", "", err
	}
	g.opts.Logger.Debug().Str("tool", t.NamespaceAndName()).Strs("args", args).Msg("gateway: call")
	err = r.RunTool(ctx, t, c)
	return rec.Out(), rec.Err(), err
}
