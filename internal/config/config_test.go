package config

import (
	"errors"
	"testing"
	"time"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
)

var allVars = []string{
	"LOG_LEVEL", "LOG_FORMAT", "HTTP_HOST", "PORT",
	"LLM_PROVIDER", "LLM_MODEL", "LLM_TEMPERATURE", "LLM_TIMEOUT", "OPENAI_API_KEY", "GEMINI_API_KEY",
	"RAPIDAPI_KEY", "JSEARCH_BASE_URL", "JSEARCH_HOST", "SEARCH_TIMEOUT",
	"STORE_BACKEND", "STORE_TIMEOUT", "MONGODB_URI", "MONGODB_DATABASE", "MONGODB_COLLECTION",
	"NEO4J_URI", "NEO4J_USERNAME", "NEO4J_PASSWORD",
	"EMAIL_FROM", "EMAIL_PASSWORD", "SMTP_HOST", "SMTP_PORT", "MAIL_TIMEOUT", "MAIL_SUBJECT",
	"SESSION_BACKEND", "REDIS_URL", "AGENT_MAX_STEPS", "SUMMARY_MODE",
	"DIGEST_CRON", "DIGEST_RECIPIENT", "DIGEST_QUERY", "DIGEST_LOCATION", "DIGEST_LIMIT",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEETS_ID",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allVars {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Host != "0.0.0.0" {
		t.Fatalf("unexpected listen address %s:%s", cfg.Host, cfg.Port)
	}
	if cfg.Store.Backend != StoreMongo || cfg.Store.Mongo.Database != "empleos_ia" || cfg.Store.Mongo.Collection != "ofertas" {
		t.Fatalf("unexpected store defaults %+v", cfg.Store)
	}
	if cfg.Mail.Host != "smtp.gmail.com" || cfg.Mail.Port != 587 {
		t.Fatalf("unexpected mail defaults %+v", cfg.Mail)
	}
	if cfg.Agent.MaxSteps != 10 {
		t.Fatalf("expected 10 max steps, got %d", cfg.Agent.MaxSteps)
	}
	if cfg.Search.Timeout != 30*time.Second {
		t.Fatalf("unexpected search timeout %s", cfg.Search.Timeout)
	}
}

func TestLoadReportsAllMissingVariables(t *testing.T) {
	clearEnv(t)

	_, err := Load(NeedSearch, NeedStore, NeedMail)
	var cfgErr *domain.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}

	want := []string{"RAPIDAPI_KEY", "MONGODB_URI", "EMAIL_FROM", "EMAIL_PASSWORD"}
	if len(cfgErr.Missing) != len(want) {
		t.Fatalf("got %v, want %v", cfgErr.Missing, want)
	}
	for i := range want {
		if cfgErr.Missing[i] != want[i] {
			t.Fatalf("got %v, want %v", cfgErr.Missing, want)
		}
	}
}

func TestLoadStoreBackendRequirements(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "neo4j")
	t.Setenv("NEO4J_URI", "neo4j://localhost:7687")

	_, err := Load(NeedStore)
	var cfgErr *domain.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if len(cfgErr.Missing) != 2 {
		t.Fatalf("expected neo4j credentials missing, got %v", cfgErr.Missing)
	}

	t.Setenv("STORE_BACKEND", "memory")
	if _, err := Load(NeedStore); err != nil {
		t.Fatalf("memory store needs nothing, got %v", err)
	}
}

func TestLoadLLMProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	_, err := Load(NeedLLM)
	var cfgErr *domain.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Missing[0] != "GEMINI_API_KEY" {
		t.Fatalf("expected GEMINI_API_KEY missing, got %v", err)
	}

	t.Setenv("LLM_PROVIDER", "")
	if _, err := Load(NeedLLM); err != nil {
		t.Fatalf("inferred provider should load, got %v", err)
	}
}

func TestLoadParsesNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("AGENT_MAX_STEPS", "4")
	t.Setenv("LLM_TEMPERATURE", "0.3")
	t.Setenv("STORE_TIMEOUT", "2s")
	t.Setenv("DIGEST_LIMIT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mail.Port != 465 || cfg.Agent.MaxSteps != 4 {
		t.Fatalf("unexpected ints %d %d", cfg.Mail.Port, cfg.Agent.MaxSteps)
	}
	if cfg.LLM.Temperature < 0.29 || cfg.LLM.Temperature > 0.31 {
		t.Fatalf("unexpected temperature %v", cfg.LLM.Temperature)
	}
	if cfg.Store.Timeout != 2*time.Second {
		t.Fatalf("unexpected store timeout %s", cfg.Store.Timeout)
	}
	if cfg.Digest.Limit != 10 {
		t.Fatalf("invalid number should fall back to default, got %d", cfg.Digest.Limit)
	}
}
