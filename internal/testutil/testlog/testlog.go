// Package testlog wires test runs into the shared logging setup.
package testlog

import (
	"testing"

	"github.com/jonwraymond/toolcall/internal/logging"
	"github.com/rs/zerolog"
)

// Start configures test logging and returns a logger that writes through
// t.Log so output is attached to the running test.
func Start(t testing.TB) zerolog.Logger {
	t.Helper()
	logging.ConfigureTests()
	logger := logging.New(zerolog.NewTestWriter(t), "test")
	logger.Debug().Str("test", t.Name()).Msg("start")
	return logger
}
