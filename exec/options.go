package exec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonwraymond/toolcall/backend"
	"github.com/jonwraymond/toolcall/builtin"
	"github.com/jonwraymond/toolcall/event"
	"github.com/jonwraymond/toolcall/internal/config"
	"github.com/jonwraymond/toolcall/run"
)

// Default configuration values.
const (
	DefaultName      = "toolcall"
	DefaultNamespace = "toolcall"
	MainTask         = "<main>"
)

// Errors returned by Options validation.
var (
	ErrNilBackend     = errors.New("exec: backend is nil")
	ErrBlankDelimiter = errors.New("exec: delimiter must not be blank")
)

// Options configures an Exec instance.
type Options struct {
	// Settings provides folders, flags and the delimiter.
	// Default: config.Default(".")
	Settings *config.Settings

	// Backends are registered after the standard backends derived from
	// Settings (manifest, scripts, executables) and before the built-in
	// tools.
	Backends []backend.Backend

	// SkipStandardBackends disables the backends derived from Settings.
	SkipStandardBackends bool

	// Printer receives tool output and messages.
	// Default: run.SystemPrinter()
	Printer run.Printer

	// Log records every tool run of this instance.
	// Default: event.NewLog()
	Log *event.Log

	// Logger receives diagnostics.
	// Default: the global zerolog logger
	Logger *zerolog.Logger

	// Browser serves the network built-ins.
	// Default: builtin.NewBrowser(nil)
	Browser *builtin.Browser

	// Name is the program name shown in the usage line.
	// Default: "toolcall"
	Name string
}

// validate checks the fields that cannot be defaulted.
func (o *Options) validate() error {
	for i, b := range o.Backends {
		if b == nil {
			return fmt.Errorf("%w: index %d", ErrNilBackend, i)
		}
	}
	if o.Settings != nil && strings.TrimSpace(o.Settings.Delimiter) == "" {
		return ErrBlankDelimiter
	}
	return nil
}

// applyDefaults sets default values for unset optional fields.
func (o *Options) applyDefaults() {
	if o.Settings == nil {
		s := config.Default(".")
		o.Settings = &s
	}
	if o.Printer.Out == nil || o.Printer.Err == nil {
		sys := run.SystemPrinter()
		if o.Printer.Out == nil {
			o.Printer.Out = sys.Out
		}
		if o.Printer.Err == nil {
			o.Printer.Err = sys.Err
		}
	}
	if o.Log == nil {
		o.Log = event.NewLog()
	}
	if o.Logger == nil {
		l := log.Logger
		o.Logger = &l
	}
	if o.Browser == nil {
		o.Browser = builtin.NewBrowser(nil)
	}
	if o.Name == "" {
		o.Name = DefaultName
	}
}
