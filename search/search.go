// Package search indexes a tool catalogue for full-text lookup.
//
// Catalogue entries are registered as tooldiscovery model tools in a BM25
// index, with their descriptions stored as documentation. Results map back
// to the catalogue entries they were built from.
package search

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jonwraymond/tooldiscovery/index"
	bm25 "github.com/jonwraymond/tooldiscovery/search"
	"github.com/jonwraymond/tooldiscovery/tooldoc"
	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/text/cases"

	"github.com/jonwraymond/toolcall/tool"
)

// DefaultLimit is the result limit of the search tool.
const DefaultLimit = 10

// Result is one search hit.
type Result struct {
	Tool    tool.Tool
	Summary string
	Tags    []string
}

// Index is a searchable snapshot of a catalogue. It is not updated when
// the catalogue changes; build a new one instead.
type Index struct {
	idx     index.Index
	docs    tooldoc.Store
	tools   map[string]tool.Tool
	skipped []string
}

// NewIndex indexes the tools of f. Entries whose identity collides with an
// earlier entry after normalization are unreachable in the catalogue and
// skipped, as are entries the index rejects.
func NewIndex(f tool.Finder) *Index {
	idx := index.NewInMemoryIndex(index.IndexOptions{
		Searcher: bm25.NewBM25Searcher(bm25.BM25Config{}),
	})
	docs := tooldoc.NewInMemoryStore(tooldoc.StoreOptions{Index: idx})
	x := &Index{idx: idx, docs: docs, tools: make(map[string]tool.Tool)}
	if f == nil {
		return x
	}

	fold := cases.Fold()
	for _, t := range f.Tools() {
		ns, name := Normalize(t.Namespace()), Normalize(t.Name())
		key := keyOf(ns, name)
		if _, dup := x.tools[key]; dup {
			x.skipped = append(x.skipped, t.NamespaceAndName())
			continue
		}

		tags := []string{t.Kind().String()}
		for _, tag := range t.Tags() {
			tags = append(tags, fold.String(tag))
		}
		mt := model.Tool{
			Tool: mcp.Tool{
				Name:        name,
				Description: describe(t),
				InputSchema: map[string]any{"type": "object"},
			},
			Namespace: ns,
			Tags:      model.NormalizeTags(tags),
		}
		if err := idx.RegisterTool(mt, model.NewLocalBackend(t.NamespaceAndName())); err != nil {
			x.skipped = append(x.skipped, t.NamespaceAndName())
			continue
		}
		x.tools[key] = t
		_ = docs.RegisterDoc(key, tooldoc.DocEntry{
			Summary: describe(t),
			Notes:   notes(t),
		})
	}
	return x
}

// Len returns the number of indexed tools.
func (x *Index) Len() int { return len(x.tools) }

// Skipped returns the identities of tools that were not indexed.
func (x *Index) Skipped() []string { return x.skipped }

// Search returns up to limit tools matching query, best match first.
func (x *Index) Search(query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	summaries, err := x.idx.Search(cases.Fold().String(strings.TrimSpace(query)), limit)
	if err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(summaries))
	for _, s := range summaries {
		t, ok := x.tools[keyOf(s.Namespace, s.Name)]
		if !ok {
			continue
		}
		out = append(out, Result{Tool: t, Summary: s.ShortDescription, Tags: s.Tags})
	}
	return out, nil
}

// Describe returns the documentation of the catalogue entry identified by
// "namespace/name".
func (x *Index) Describe(id string) (tooldoc.ToolDoc, error) {
	ns, name := "", id
	if i := strings.LastIndex(id, "/"); i >= 0 {
		ns, name = id[:i], id[i+1:]
	}
	return x.docs.DescribeTool(keyOf(Normalize(ns), Normalize(name)), tooldoc.DetailFull)
}

// Normalize maps a catalogue namespace or name onto the identifier
// alphabet of the index: ASCII letters, digits, '_', '-' and '.'. Other
// characters become '_'.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}

func keyOf(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + ":" + name
}

func describe(t tool.Tool) string {
	if d := strings.TrimSpace(t.Description()); d != "" {
		return d
	}
	return t.NamespaceAndName()
}

func notes(t tool.Tool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", t.Kind(), t.NamespaceAndName())
	if req := t.Requires(); len(req) > 0 {
		fmt.Fprintf(&b, ", requires %s", strings.Join(req, ", "))
	}
	return b.String()
}

// Tool is the body of the "search <query> [limit]" tool. It indexes the
// runner's catalogue and prints one "namespace/name - summary" line per
// hit.
func Tool(_ context.Context, runner tool.Runner, argv []string, stdout, stderr io.Writer) int {
	if len(argv) == 0 {
		fmt.Fprintln(stderr, "Usage: search <query> [limit]")
		return 1
	}
	limit := DefaultLimit
	if len(argv) > 1 {
		n, err := strconv.Atoi(argv[1])
		if err != nil || n <= 0 {
			fmt.Fprintf(stderr, "invalid limit: %s\n", argv[1])
			return 1
		}
		limit = n
	}
	results, err := NewIndex(runner.Finder()).Search(argv[0], limit)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if len(results) == 0 {
		fmt.Fprintln(stdout, "No tools found")
		return 0
	}
	for _, r := range results {
		fmt.Fprintf(stdout, "%s - %s\n", r.Tool.NamespaceAndName(), r.Summary)
	}
	return 0
}

// Provider returns the search tool as an operator named "search".
func Provider() tool.Operator {
	return tool.OperatorOf("search", Tool)
}
