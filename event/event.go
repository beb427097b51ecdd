// Package event records what happened during a run.
//
// A [Log] is an append-only, in-memory sequence of typed events. Tool
// invocations are recorded as [ToolRun], diagnostics as [Message] and
// catalogue assembly as [ToolConfiguration]. Reads are filtered by [Kind]
// and never block writers for longer than a snapshot copy.
package event

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Kind identifies an event variant.
type Kind int

const (
	KindToolRun Kind = iota + 1
	KindMessage
	KindToolConfiguration
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindToolRun:
		return "tool-run"
	case KindMessage:
		return "message"
	case KindToolConfiguration:
		return "tool-configuration"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is implemented by every variant stored in a Log.
type Event interface {
	Kind() Kind
	Time() time.Time
}

// ToolRun records one tool invocation.
type ToolRun struct {
	// Name is the namespaced tool name.
	Name string
	// Args are the arguments joined by single spaces.
	Args string
	// Code is the exit code; -1 when the invocation panicked.
	Code int
	// Out and Err hold captured output, trailing whitespace removed.
	Out string
	Err string

	Start    time.Time
	Duration time.Duration
}

func (ToolRun) Kind() Kind { return KindToolRun }

func (e ToolRun) Time() time.Time { return e.Start }

// Succeeded reports whether the run exited with code 0.
func (e ToolRun) Succeeded() bool { return e.Code == 0 }

// Message is a free-form diagnostic line.
type Message struct {
	Level zerolog.Level
	Text  string
	At    time.Time
}

func (Message) Kind() Kind { return KindMessage }

func (e Message) Time() time.Time { return e.At }

// ToolConfiguration records that a tool entered the catalogue.
type ToolConfiguration struct {
	Namespace string
	Name      string
	// Source names the backend that contributed the tool.
	Source string
	At     time.Time
}

func (ToolConfiguration) Kind() Kind { return KindToolConfiguration }

func (e ToolConfiguration) Time() time.Time { return e.At }
