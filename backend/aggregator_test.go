package backend

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/jonwraymond/toolcall/event"
	"github.com/jonwraymond/toolcall/tool"
)

func TestAggregator_Compose(t *testing.T) {
	registry := NewRegistry()

	_ = registry.Register(&mockBackend{
		kind:    "local",
		name:    "local1",
		enabled: true,
		tools:   []tool.Tool{provider("local1", "tool_a"), provider("local1", "tool_b")},
	})

	_ = registry.Register(&mockBackend{
		kind:    "process",
		name:    "jdk",
		enabled: true,
		tools:   []tool.Tool{provider("jdk", "jar@21"), provider("jdk", "tool_a")},
	})

	_ = registry.Register(&mockBackend{
		kind:    "local",
		name:    "disabled",
		enabled: false,
		tools:   []tool.Tool{provider("disabled", "should_not_appear")},
	})

	agg := NewAggregator(registry)
	log := event.NewLog()

	finder, err := agg.Compose(context.Background(), log)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	var got []string
	for _, tl := range finder.Tools() {
		got = append(got, tl.NamespaceAndName())
	}
	want := []string{"local1/tool_a", "local1/tool_b", "jdk/jar@21", "jdk/tool_a"}
	if !slices.Equal(got, want) {
		t.Errorf("Tools() = %v, want %v", got, want)
	}

	if tl, ok := finder.Find("tool_a"); !ok || tl.Namespace() != "local1" {
		t.Errorf("Find(tool_a) = %v, want first backend to win", tl)
	}
	if _, ok := finder.Find("should_not_appear"); ok {
		t.Error("disabled backend contributed tools")
	}

	configs := log.Configurations()
	if len(configs) != 4 {
		t.Fatalf("len(Configurations()) = %d, want 4", len(configs))
	}
	if configs[2].Source != "jdk" || configs[2].Name != "jar@21" {
		t.Errorf("Configurations()[2] = %+v", configs[2])
	}
}

func TestAggregator_ComposeError(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register(&mockBackend{kind: "local", name: "ok", enabled: true})
	_ = registry.Register(&mockBackend{kind: "script", name: "broken", enabled: true, err: ErrBackendUnavailable})

	_, err := NewAggregator(registry).Compose(context.Background(), nil)
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("Compose() error = %v, want ErrBackendUnavailable", err)
	}
}

func TestAggregator_Empty(t *testing.T) {
	tools, err := NewAggregator(NewRegistry()).ListAllTools(context.Background())
	if err != nil {
		t.Fatalf("ListAllTools() error = %v", err)
	}
	if len(tools) != 0 {
		t.Errorf("ListAllTools() returned %d tools, want 0", len(tools))
	}
}
