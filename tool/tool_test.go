package tool

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jonwraymond/toolcall/call"
)

type namedProvider string

func (p namedProvider) Name() string { return string(p) }

func (p namedProvider) Run(context.Context, []string, io.Writer, io.Writer) int { return 0 }

func mustTool(t *testing.T, namespace, name string) Tool {
	t.Helper()
	tl, err := NewProvider(namespace, namedProvider(name))
	if err != nil {
		t.Fatalf("NewProvider(%q, %q) error = %v", namespace, name, err)
	}
	return tl
}

func TestNewProvider(t *testing.T) {
	tl := mustTool(t, "jdk", "jar")
	if tl.Kind() != KindProvider {
		t.Errorf("Kind() = %v, want %v", tl.Kind(), KindProvider)
	}
	if tl.Namespace() != "jdk" || tl.Name() != "jar" {
		t.Errorf("identity = %s/%s, want jdk/jar", tl.Namespace(), tl.Name())
	}
	if p, ok := tl.Provider(); !ok || p.Name() != "jar" {
		t.Errorf("Provider() = %v, %v", p, ok)
	}
	if _, ok := tl.Operator(); ok {
		t.Error("Operator() ok = true for a plain provider")
	}
	if len(tl.Calls()) != 0 {
		t.Errorf("Calls() = %v, want none", tl.Calls())
	}
}

func TestNewProvider_Invalid(t *testing.T) {
	if _, err := NewProvider("ns", nil); !errors.Is(err, call.ErrInvalidArgument) {
		t.Errorf("NewProvider(nil) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewProvider("ns", namedProvider("  ")); !errors.Is(err, call.ErrInvalidArgument) {
		t.Errorf("NewProvider(blank) error = %v, want ErrInvalidArgument", err)
	}
}

func TestOperatorOf(t *testing.T) {
	op := OperatorOf("dispatch", func(context.Context, Runner, []string, io.Writer, io.Writer) int { return 7 })
	tl := MustProvider("ns", op)
	got, ok := tl.Operator()
	if !ok {
		t.Fatal("Operator() ok = false, want true")
	}
	if code := got.RunWith(context.Background(), nil, nil, io.Discard, io.Discard); code != 7 {
		t.Errorf("RunWith() = %d, want 7", code)
	}
	if code := got.Run(context.Background(), nil, io.Discard, io.Discard); code != 1 {
		t.Errorf("Run() without runner = %d, want 1", code)
	}
}

func TestNamespaceAndName(t *testing.T) {
	tests := []struct {
		namespace, name, want string
	}{
		{"", "jar", "jar"},
		{"jdk", "jar", "jdk/jar"},
		{"run.duke", "file", "run.duke/file"},
	}
	for _, tt := range tests {
		if got := mustTool(t, tt.namespace, tt.name).NamespaceAndName(); got != tt.want {
			t.Errorf("NamespaceAndName() = %q, want %q", got, tt.want)
		}
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		toolName  string
		id        string
		want      bool
	}{
		{"exact", "jdk", "jar", "jar", true},
		{"suffix registered", "jdk", "jar@21", "jar", true},
		{"suffix requested only", "jdk", "jar", "jar@21", false},
		{"suffix both", "jdk", "jar@21", "jar@21", true},
		{"prefix is not enough", "jdk", "jarsigner", "jar", false},
		{"namespace exact", "run.duke", "file", "run.duke/file", true},
		{"namespace longer", "run.duke.extra", "file", "run.duke/file", false},
		{"namespace shorter", "run", "file", "run.duke/file", false},
		{"namespace ignored without slash", "anything", "file", "file", true},
		{"explicit empty namespace", "", "jar", "/jar", true},
		{"explicit empty namespace mismatch", "jdk", "jar", "/jar", false},
		{"nested namespace", "a/b", "c", "a/b/c", true},
		{"namespaced suffix", "jdk", "javac@17", "jdk/javac", true},
		{"empty id", "jdk", "jar", "", false},
		{"trailing slash", "jdk", "jar", "jdk/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := mustTool(t, tt.namespace, tt.toolName)
			if got := tl.Matches(tt.id); got != tt.want {
				t.Errorf("%s.Matches(%q) = %v, want %v", tl, tt.id, got, tt.want)
			}
		})
	}
}

func TestTool_IsFinder(t *testing.T) {
	tl := mustTool(t, "jdk", "jar")
	var f Finder = tl
	if got := f.Tools(); len(got) != 1 || got[0].Name() != "jar" {
		t.Errorf("Tools() = %v, want [jar]", got)
	}
	if _, ok := f.Find("jdk/jar"); !ok {
		t.Error("Find(jdk/jar) ok = false")
	}
	if _, ok := f.Find("javac"); ok {
		t.Error("Find(javac) ok = true")
	}
}

func TestKind_String(t *testing.T) {
	if KindProvider.String() != "provider" || KindTask.String() != "task" {
		t.Errorf("Kind strings = %s, %s", KindProvider, KindTask)
	}
	if got := Kind(9).String(); got != "Kind(9)" {
		t.Errorf("Kind(9).String() = %q", got)
	}
}

type requiringProvider struct {
	namedProvider
	requires []string
}

func (p requiringProvider) Requires() []string { return p.requires }

func TestRequires(t *testing.T) {
	tl := MustProvider("", requiringProvider{namedProvider: "build", requires: []string{"javac", "jar"}})
	if got := tl.Requires(); len(got) != 2 || got[0] != "javac" {
		t.Errorf("Requires() = %v", got)
	}
	if got := mustTool(t, "", "plain").Requires(); got != nil {
		t.Errorf("Requires() = %v, want nil", got)
	}
}

type describedProvider struct {
	namedProvider
}

func (describedProvider) Description() string { return "Creates archives" }

func (describedProvider) Tags() []string { return []string{"archive", "jdk"} }

func TestDescriptionAndTags(t *testing.T) {
	tl := MustProvider("jdk", describedProvider{namedProvider: "jar"})
	if got := tl.Description(); got != "Creates archives" {
		t.Errorf("Description() = %q", got)
	}
	if got := tl.Tags(); len(got) != 2 || got[0] != "archive" {
		t.Errorf("Tags() = %v", got)
	}

	task, err := NewTask("", "build", call.MustOf("javac", "Main.java"), call.MustOf("jar", "--create"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := task.Description(), "javac Main.java + jar --create"; got != want {
		t.Errorf("task Description() = %q, want %q", got, want)
	}
	if task.Tags() != nil || mustTool(t, "", "x").Description() != "" {
		t.Error("plain tools should have no description or tags")
	}
}
