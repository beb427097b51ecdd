package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/toolcall/event"
	"github.com/jonwraymond/toolcall/tool"
	"golang.org/x/sync/errgroup"
)

// Aggregator combines tools from multiple backends into one catalogue.
type Aggregator struct {
	registry *Registry
}

// NewAggregator creates a new tool aggregator.
func NewAggregator(registry *Registry) *Aggregator {
	return &Aggregator{registry: registry}
}

// Compose lists every enabled backend in parallel and composes the
// resulting finders in registration order. One ToolConfiguration event per
// listed tool is added to log when log is non-nil.
func (a *Aggregator) Compose(ctx context.Context, log *event.Log) (tool.Finder, error) {
	backends := a.registry.ListEnabled()
	finders := make([]tool.Finder, len(backends))

	g, gctx := errgroup.WithContext(ctx)
	for i, b := range backends {
		g.Go(func() error {
			f, err := b.Finder(gctx)
			if err != nil {
				return fmt.Errorf("backend %s (%s): %w", b.Name(), b.Kind(), err)
			}
			finders[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if log != nil {
		now := time.Now()
		for i, f := range finders {
			if f == nil {
				continue
			}
			for _, t := range f.Tools() {
				log.Add(event.ToolConfiguration{
					Namespace: t.Namespace(),
					Name:      t.Name(),
					Source:    backends[i].Name(),
					At:        now,
				})
			}
		}
	}
	return tool.Compose(finders...), nil
}

// ListAllTools returns the tools of all enabled backends in catalogue order.
func (a *Aggregator) ListAllTools(ctx context.Context) ([]tool.Tool, error) {
	f, err := a.Compose(ctx, nil)
	if err != nil {
		return nil, err
	}
	return f.Tools(), nil
}
