package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
)

func TestRunUsage(t *testing.T) {
	var stderr bytes.Buffer
	err := run(context.Background(), nil, &bytes.Buffer{}, &stderr)
	if !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(stderr.String(), "export-sheets") {
		t.Fatalf("usage should list commands, got %q", stderr.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var stderr bytes.Buffer
	err := run(context.Background(), []string{"purge"}, &bytes.Buffer{}, &stderr)
	if !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(stderr.String(), `unknown command "purge"`) {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}
}

func TestCountWithMemoryStore(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")

	var out bytes.Buffer
	if err := run(context.Background(), []string{"count"}, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("count: %v", err)
	}
	if strings.TrimSpace(out.String()) != "0" {
		t.Fatalf("expected 0, got %q", out.String())
	}
}

func TestFetchRequiresAPIKey(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("RAPIDAPI_KEY", "")

	err := run(context.Background(), []string{"fetch", "-query", "data engineer"}, &bytes.Buffer{}, &bytes.Buffer{})
	var cfgErr *domain.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Missing[0] != "RAPIDAPI_KEY" {
		t.Fatalf("expected missing RAPIDAPI_KEY, got %v", err)
	}
}

func TestSplitFields(t *testing.T) {
	got := splitFields(" job_id, job_title ,,employer_name")
	want := []string{"job_id", "job_title", "employer_name"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if splitFields("") != nil {
		t.Fatalf("empty input should yield nil")
	}
}
