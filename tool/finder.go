package tool

import (
	"slices"
)

// Finder is a read-only collection of tools with name resolution.
//
// Contract:
// - Tools lists entries in catalogue order; duplicates are allowed.
// - Find returns the first tool in Tools order that matches id.
// - Implementations must be safe for concurrent use.
type Finder interface {
	Tools() []Tool
	Find(id string) (Tool, bool)
}

// Find returns the first tool in tools that matches id.
func Find(tools []Tool, id string) (Tool, bool) {
	for _, t := range tools {
		if t.Matches(id) {
			return t, true
		}
	}
	return Tool{}, false
}

// Of returns a Finder over a fixed list of tools.
func Of(tools ...Tool) Finder {
	if len(tools) == 0 {
		return Empty()
	}
	return listFinder(slices.Clone(tools))
}

// Empty returns a Finder that lists nothing and never matches.
func Empty() Finder {
	return emptyFinder{}
}

// Compose concatenates finders in order. Composing zero finders yields
// Empty and composing a single finder returns it unchanged.
// Nil finders are skipped.
func Compose(finders ...Finder) Finder {
	parts := make([]Finder, 0, len(finders))
	for _, f := range finders {
		if f != nil {
			parts = append(parts, f)
		}
	}
	switch len(parts) {
	case 0:
		return Empty()
	case 1:
		return parts[0]
	default:
		return composite(parts)
	}
}

// FinderFunc lists tools on demand, for sources whose contents may change
// between calls.
type FinderFunc func() []Tool

// Tools calls f.
func (f FinderFunc) Tools() []Tool {
	return f()
}

// Find resolves id against a fresh listing.
func (f FinderFunc) Find(id string) (Tool, bool) {
	return Find(f(), id)
}

type emptyFinder struct{}

func (emptyFinder) Tools() []Tool { return nil }

func (emptyFinder) Find(string) (Tool, bool) { return Tool{}, false }

type listFinder []Tool

func (l listFinder) Tools() []Tool { return slices.Clone(l) }

func (l listFinder) Find(id string) (Tool, bool) { return Find(l, id) }

// composite re-lists its children on every call.
type composite []Finder

func (c composite) Tools() []Tool {
	var all []Tool
	for _, f := range c {
		all = append(all, f.Tools()...)
	}
	return all
}

func (c composite) Find(id string) (Tool, bool) {
	for _, f := range c {
		if t, ok := f.Find(id); ok {
			return t, true
		}
	}
	return Tool{}, false
}
