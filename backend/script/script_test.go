package script

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonwraymond/toolcall/backend"
	"github.com/jonwraymond/toolcall/call"
	"github.com/jonwraymond/toolcall/tool"
)

// mockRunner records calls and fails for tools named "fail".
type mockRunner struct {
	calls []string
}

func (m *mockRunner) Run(_ context.Context, c call.Call) error {
	m.calls = append(m.calls, c.CommandLine())
	if c.Tool() == "fail" {
		return io.ErrUnexpectedEOF
	}
	return nil
}

func (m *mockRunner) RunTool(ctx context.Context, _ tool.Tool, c call.Call) error {
	return m.Run(ctx, c)
}

func (m *mockRunner) Finder() tool.Finder { return tool.Empty() }

func TestScriptBackend_Interface(t *testing.T) {
	t.Helper()
	var _ backend.Backend = (*Backend)(nil)
	var _ tool.Operator = (*Script)(nil)
}

func TestEval(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		argv     []string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{"undefined is success", `print("hello", args.length)`, []string{"a", "b"}, 0, "hello 2\n", ""},
		{"number", `7`, nil, 7, "", ""},
		{"false", `false`, nil, 1, "", ""},
		{"true", `true`, nil, 0, "", ""},
		{"string ignored", `"done"`, nil, 0, "", ""},
		{"args", `print(args.join(","))`, []string{"x", "y"}, 0, "x,y\n", ""},
		{"eprint", `eprint("warn"); 0`, nil, 0, "", "warn\n"},
		{"throw", `throw new Error("broken")`, nil, 1, "", "broken"},
		{"syntax error", `function (`, nil, 1, "", "test.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut strings.Builder
			code := Eval(context.Background(), nil, "test.js", tt.source, tt.argv, &out, &errOut)
			if code != tt.wantCode {
				t.Errorf("Eval() = %d, want %d (stderr %q)", code, tt.wantCode, errOut.String())
			}
			if out.String() != tt.wantOut {
				t.Errorf("stdout = %q, want %q", out.String(), tt.wantOut)
			}
			if !strings.Contains(errOut.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want to contain %q", errOut.String(), tt.wantErr)
			}
		})
	}
}

func TestEval_RunDelegates(t *testing.T) {
	r := &mockRunner{}
	var errOut strings.Builder
	code := Eval(context.Background(), r, "t.js", `run("jar", "--version"); run("javac")`, nil, io.Discard, &errOut)
	if code != 0 {
		t.Fatalf("Eval() = %d, stderr %q", code, errOut.String())
	}
	if got := strings.Join(r.calls, ";"); got != "jar --version;javac" {
		t.Errorf("calls = %q", got)
	}

	code = Eval(context.Background(), r, "t.js", `run("fail"); run("never")`, nil, io.Discard, &errOut)
	if code != 1 {
		t.Errorf("Eval() with failing run = %d, want 1", code)
	}
	if r.calls[len(r.calls)-1] != "fail" {
		t.Errorf("calls after failure = %v", r.calls)
	}

	code = Eval(context.Background(), r, "t.js", `try { run("fail") } catch (e) { 4 }`, nil, io.Discard, io.Discard)
	if code != 4 {
		t.Errorf("Eval() with caught failure = %d, want 4", code)
	}
}

func TestEval_NoRunner(t *testing.T) {
	var errOut strings.Builder
	code := Eval(context.Background(), nil, "t.js", `run("jar")`, nil, io.Discard, &errOut)
	if code != 1 || !strings.Contains(errOut.String(), "runner") {
		t.Errorf("Eval() = %d, stderr %q", code, errOut.String())
	}
}

func TestEval_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code := Eval(ctx, nil, "loop.js", `for (;;) {}`, nil, io.Discard, io.Discard)
	if code != 1 {
		t.Errorf("Eval() = %d, want 1 after cancellation", code)
	}
}

func TestBackend_Finder(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"hello.js":   "// Says hello\nprint('hello ' + args[0])\n",
		"build.js":   "run('javac')\n",
		"notes.txt":  "ignored",
		"nested.js/": "",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	b := New("scripts", dir)
	if b.Kind() != "script" || b.Name() != "scripts" || !b.Enabled() {
		t.Errorf("Kind()/Name()/Enabled() = %s/%s/%v", b.Kind(), b.Name(), b.Enabled())
	}

	f, err := b.Finder(context.Background())
	if err != nil {
		t.Fatalf("Finder() error = %v", err)
	}
	tools := f.Tools()
	if len(tools) != 2 || tools[0].Name() != "build" || tools[1].Name() != "hello" {
		t.Fatalf("Tools() = %v, want [scripts/build scripts/hello]", tools)
	}
	if tools[1].Description() != "Says hello" {
		t.Errorf("Description() = %q", tools[1].Description())
	}

	op, ok := tools[1].Operator()
	if !ok {
		t.Fatal("script tool is not an Operator")
	}
	var out strings.Builder
	if code := op.RunWith(context.Background(), &mockRunner{}, []string{"duke"}, &out, io.Discard); code != 0 {
		t.Errorf("RunWith() = %d", code)
	}
	if out.String() != "hello duke\n" {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestBackend_MissingDir(t *testing.T) {
	f, err := New("scripts", filepath.Join(t.TempDir(), "absent")).Finder(context.Background())
	if err != nil {
		t.Fatalf("Finder() error = %v", err)
	}
	if len(f.Tools()) != 0 {
		t.Errorf("Tools() = %v, want none", f.Tools())
	}
}

func TestScript_MissingFile(t *testing.T) {
	s := NewScript("gone", filepath.Join(t.TempDir(), "gone.js"))
	var errOut strings.Builder
	if code := s.Run(context.Background(), nil, io.Discard, &errOut); code != 1 {
		t.Errorf("Run() = %d, want 1", code)
	}
	if errOut.Len() == 0 {
		t.Error("Run() wrote no diagnostic")
	}
}
