package tool

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonwraymond/toolcall/call"
)

// DefaultDelimiter separates calls in a flat token stream.
const DefaultDelimiter = "+"

// NewTask creates a task tool running calls in order.
// Returns call.ErrInvalidArgument when name is blank.
func NewTask(namespace, name string, calls ...call.Call) (Tool, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return Tool{}, fmt.Errorf("%w: task name must not be blank", call.ErrInvalidArgument)
	}
	for i, c := range calls {
		if c.Tool() == "" {
			return Tool{}, fmt.Errorf("%w: task %s: call %d has no tool", call.ErrInvalidArgument, n, i)
		}
	}
	return Tool{
		namespace: strings.TrimSpace(namespace),
		name:      n,
		kind:      KindTask,
		calls:     slices.Clone(calls),
	}, nil
}

// ParseTask splits tokens on delimiter into calls and wraps them in a task.
// An empty delimiter selects DefaultDelimiter.
func ParseTask(namespace, name, delimiter string, tokens []string) (Tool, error) {
	calls, err := SplitCalls(delimiter, tokens)
	if err != nil {
		return Tool{}, fmt.Errorf("task %s: %w", name, err)
	}
	return NewTask(namespace, name, calls...)
}

// SplitCalls scans tokens left to right and closes a call at every
// delimiter token and at the end of input. The first token of each group
// names the tool. Empty input yields no calls; an empty group yields
// call.ErrInvalidArgument.
func SplitCalls(delimiter string, tokens []string) ([]call.Call, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	var calls []call.Call
	start := 0
	for i := 0; i <= len(tokens); i++ {
		if i < len(tokens) && tokens[i] != delimiter {
			continue
		}
		c, err := call.OfCommand(tokens[start:i])
		if err != nil {
			return nil, fmt.Errorf("call %d at token %d: %w", len(calls)+1, start, err)
		}
		calls = append(calls, c)
		start = i + 1
	}
	return calls, nil
}
