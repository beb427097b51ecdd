package run

import (
	"github.com/jonwraymond/toolcall/event"
	"github.com/jonwraymond/toolcall/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultMaxDepth bounds nested tool invocations.
const DefaultMaxDepth = 64

// Config controls recording, output and nesting behavior.
type Config struct {
	// Recording

	// Log receives one event per invocation.
	// Defaults to a fresh event.NewLog().
	Log *event.Log

	// Logger receives human readable diagnostics.
	// Defaults to the global zerolog logger.
	Logger *zerolog.Logger

	// Output

	// Printer receives tool output as it is produced.
	// Defaults to the process stdout and stderr.
	Printer Printer

	// Environment

	// Settings are handed read-only to tools through the Context.
	Settings config.Settings

	// MaxDepth limits how deeply tools may invoke other tools.
	// Defaults to DefaultMaxDepth.
	MaxDepth int
}

// applyDefaults sets default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.Log == nil {
		c.Log = event.NewLog()
	}
	if c.Logger == nil {
		l := log.Logger
		c.Logger = &l
	}
	c.Printer = c.Printer.orDefault()
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
}

// ConfigOption is a functional option for configuring a Runner.
type ConfigOption func(*Config)

// WithLog sets the event log.
func WithLog(l *event.Log) ConfigOption {
	return func(c *Config) {
		c.Log = l
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) ConfigOption {
	return func(c *Config) {
		c.Logger = &l
	}
}

// WithPrinter sets the output sink.
func WithPrinter(p Printer) ConfigOption {
	return func(c *Config) {
		c.Printer = p
	}
}

// WithSettings sets the settings exposed to tools.
func WithSettings(s config.Settings) ConfigOption {
	return func(c *Config) {
		c.Settings = s
	}
}

// WithMaxDepth sets the nesting limit.
func WithMaxDepth(n int) ConfigOption {
	return func(c *Config) {
		c.MaxDepth = n
	}
}
