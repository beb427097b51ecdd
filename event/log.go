package event

import (
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Log is an append-only event sequence. It is safe for concurrent use.
type Log struct {
	id      uuid.UUID
	created time.Time

	mu     sync.Mutex
	events []Event
}

// NewLog creates an empty log stamped with a fresh run ID.
func NewLog() *Log {
	return &Log{
		id:      uuid.New(),
		created: time.Now(),
	}
}

// ID returns the run identifier of this log.
func (l *Log) ID() uuid.UUID { return l.id }

// Created returns when the log was created.
func (l *Log) Created() time.Time { return l.created }

// Uptime returns the time elapsed since the log was created.
func (l *Log) Uptime() time.Duration { return time.Since(l.created) }

// Add appends events in order. Nil events are ignored.
func (l *Log) Add(events ...Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range events {
		if e != nil {
			l.events = append(l.events, e)
		}
	}
}

// Addf appends a formatted Message.
func (l *Log) Addf(level zerolog.Level, format string, args ...any) {
	l.Add(Message{Level: level, Text: fmt.Sprintf(format, args...), At: time.Now()})
}

// Len returns the number of recorded events.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

func (l *Log) snapshot() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}

// All yields every event in insertion order. The sequence iterates over a
// snapshot taken when iteration starts.
func (l *Log) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for _, e := range l.snapshot() {
			if !yield(e) {
				return
			}
		}
	}
}

// Events yields the events of the given kind in insertion order.
func (l *Log) Events(kind Kind) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for e := range l.All() {
			if e.Kind() == kind && !yield(e) {
				return
			}
		}
	}
}

// ToolRuns returns the recorded tool invocations in order.
func (l *Log) ToolRuns() []ToolRun {
	return collect[ToolRun](l, KindToolRun)
}

// Messages returns the recorded diagnostics in order.
func (l *Log) Messages() []Message {
	return collect[Message](l, KindMessage)
}

// Configurations returns the recorded catalogue entries in order.
func (l *Log) Configurations() []ToolConfiguration {
	return collect[ToolConfiguration](l, KindToolConfiguration)
}

func collect[T Event](l *Log, kind Kind) []T {
	var out []T
	for e := range l.Events(kind) {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
