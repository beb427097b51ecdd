package run

import (
	"context"

	"github.com/jonwraymond/toolcall/event"
	"github.com/jonwraymond/toolcall/internal/config"
	"github.com/jonwraymond/toolcall/tool"
)

// Context is the execution environment shared by every invocation of one
// runner. Only the Log is mutated during a run.
type Context struct {
	Finder   tool.Finder
	Log      *event.Log
	Printer  Printer
	Settings config.Settings
}

// WithFinder returns a copy of c resolving against f.
func (c Context) WithFinder(f tool.Finder) Context {
	c.Finder = f
	return c
}

type scopeKey struct{}

// scope is the per-invocation state carried in a context.Context.
type scope struct {
	tool  tool.Tool
	depth int
}

func scopeOf(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

// ActiveTool returns the tool whose invocation ctx belongs to.
func ActiveTool(ctx context.Context) (tool.Tool, bool) {
	s := scopeOf(ctx)
	return s.tool, s.depth > 0
}

// Depth returns how many tool invocations enclose ctx.
func Depth(ctx context.Context) int {
	return scopeOf(ctx).depth
}
