package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
)

type panicky struct{}

func (panicky) Name() Kind                 { return "boom" }
func (panicky) Description() string        { return "panics" }
func (panicky) Schema() *jsonschema.Schema { return nil }
func (panicky) Invoke(context.Context, json.RawMessage) string {
	panic("unexpected")
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r, _ := NewRegistry(nil)
	if err := r.Register(panicky{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(panicky{}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	r, _ := NewRegistry(nil)
	got := r.Call(context.Background(), "nope", nil)
	if !strings.HasPrefix(got, "Error: unknown tool") {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestRegistryRecoversPanics(t *testing.T) {
	r, _ := NewRegistry(nil, panicky{})
	got := r.Call(context.Background(), "boom", nil)
	if !strings.Contains(got, "failed unexpectedly") {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestSpecsExposeSchemas(t *testing.T) {
	f := newFixture(t)

	specs := f.registry.Specs()
	if len(specs) != 4 {
		t.Fatalf("expected 4 specs, got %d", len(specs))
	}
	names := []string{"search_jobs", "search_and_save", "summarize_recent", "email_summary"}
	for i, s := range specs {
		if s.Name != names[i] {
			t.Errorf("spec %d = %q, want %q", i, s.Name, names[i])
		}
		if s.Parameters == nil || s.Parameters.Type != "object" {
			t.Errorf("spec %s has no object schema", s.Name)
		}
	}
	if _, ok := specs[0].Parameters.Properties["query"]; !ok {
		t.Errorf("search_jobs schema lacks query property")
	}
}

func TestInvalidArgumentsAreReported(t *testing.T) {
	f := newFixture(t)
	got := f.registry.Call(context.Background(), "summarize_recent", json.RawMessage(`{"limit":"ten"}`))
	if !strings.HasPrefix(got, "Error generating summary: invalid arguments") {
		t.Fatalf("unexpected output: %q", got)
	}
}
