package run

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
)

// Printer is the output sink of a run.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// SystemPrinter writes to the process stdout and stderr.
func SystemPrinter() Printer {
	return Printer{Out: os.Stdout, Err: os.Stderr}
}

// DiscardPrinter drops all output.
func DiscardPrinter() Printer {
	return Printer{Out: io.Discard, Err: io.Discard}
}

// Println writes a line to Out.
func (p Printer) Println(a ...any) {
	fmt.Fprintln(p.Out, a...)
}

// Printf writes formatted text to Out.
func (p Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.Out, format, a...)
}

// Errorf writes formatted text to Err.
func (p Printer) Errorf(format string, a ...any) {
	fmt.Fprintf(p.Err, format, a...)
}

func (p Printer) orDefault() Printer {
	if p.Out == nil && p.Err == nil {
		return SystemPrinter()
	}
	if p.Out == nil {
		p.Out = io.Discard
	}
	if p.Err == nil {
		p.Err = io.Discard
	}
	return p
}

// Recorder captures everything printed through its Printer.
type Recorder struct {
	mu       sync.Mutex
	out, err bytes.Buffer
}

// Printer returns a Printer writing into the recorder.
func (r *Recorder) Printer() Printer {
	return Printer{Out: lockedWriter{&r.mu, &r.out}, Err: lockedWriter{&r.mu, &r.err}}
}

// Out returns everything written to standard output so far.
func (r *Recorder) Out() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.out.String()
}

// Err returns everything written to standard error so far.
func (r *Recorder) Err() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err.String()
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
