package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonwraymond/toolcall/backend"
	"github.com/jonwraymond/toolcall/call"
	"github.com/jonwraymond/toolcall/tool"
)

const sample = `
verbose = true

[[tool]]
name = "jar@21"
path = "/opt/jdk-21/bin/jar"
description = "Java archiver"

[[tool]]
namespace = "sys"
name = "git"

[[task]]
name = "build"
args = ["javac", "-d", "out", "Main.java", "+", "jar", "--create"]

[[task]]
namespace = ""
name = "chain"
delimiter = "then"
args = ["a", "then", "b", "+"]
`

func TestParse(t *testing.T) {
	f, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(f.Tools) != 2 || len(f.Tasks) != 2 {
		t.Fatalf("Parse() = %d tools, %d tasks", len(f.Tools), len(f.Tasks))
	}

	tools, err := f.Catalogue("project")
	if err != nil {
		t.Fatalf("Catalogue() error = %v", err)
	}
	var ids []string
	for _, tl := range tools {
		ids = append(ids, tl.NamespaceAndName())
	}
	want := []string{"project/jar@21", "sys/git", "project/build", "project/chain"}
	if len(ids) != len(want) {
		t.Fatalf("Tools() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Tools()[%d] = %s, want %s", i, ids[i], want[i])
		}
	}

	if tools[0].Description() != "Java archiver" {
		t.Errorf("Description() = %q", tools[0].Description())
	}
	build := tools[2]
	if build.Kind() != tool.KindTask || len(build.Calls()) != 2 {
		t.Errorf("build = %v with %d calls", build.Kind(), len(build.Calls()))
	}
	chain := tools[3].Calls()
	if len(chain) != 2 || chain[1].CommandLine() != "b +" {
		t.Errorf("chain calls = %v", chain)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"unknown key", "[[tool]]\nname = \"x\"\ncolour = \"red\"\n", ErrInvalidManifest},
		{"malformed", "[[tool]\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTools_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"tool without name", "[[tool]]\npath = \"/bin/true\"\n"},
		{"task without name", "[[task]]\nargs = [\"a\"]\n"},
		{"task leading delimiter", "[[task]]\nname = \"t\"\nargs = [\"+\", \"a\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.data)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if _, err := f.Catalogue(""); !errors.Is(err, ErrInvalidManifest) {
				t.Errorf("Catalogue() error = %v, want ErrInvalidManifest", err)
			}
		})
	}

	f, _ := Parse("[[task]]\nname = \"t\"\nargs = [\"a\", \"+\", \"+\"]\n")
	if _, err := f.Catalogue(""); !errors.Is(err, call.ErrInvalidArgument) {
		t.Errorf("Catalogue() error = %v, want ErrInvalidArgument in chain", err)
	}
}

func TestBackend_Finder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toolcall.toml")
	b := New("project", path)

	if b.Kind() != "manifest" || b.Name() != "project" || b.Path() != path {
		t.Errorf("Kind()/Name()/Path() = %s/%s/%s", b.Kind(), b.Name(), b.Path())
	}

	f, err := b.Finder(context.Background())
	if err != nil {
		t.Fatalf("Finder() on missing file error = %v", err)
	}
	if len(f.Tools()) != 0 {
		t.Errorf("Tools() = %v, want none", f.Tools())
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err = b.Finder(context.Background())
	if err != nil {
		t.Fatalf("Finder() error = %v", err)
	}
	if _, ok := f.Find("build"); !ok {
		t.Error("Find(build) ok = false")
	}

	if err := os.WriteFile(path, []byte("[[tool]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Finder(context.Background()); !errors.Is(err, backend.ErrBackendUnavailable) {
		t.Errorf("Finder() error = %v, want ErrBackendUnavailable", err)
	}
}
