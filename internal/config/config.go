package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
)

// Need names a group of settings a binary cannot start without
type Need int

const (
	NeedLLM Need = iota + 1
	NeedSearch
	NeedStore
	NeedMail
	NeedSessions
	NeedDigest
	NeedSheets
)

const (
	StoreMongo  = "mongo"
	StoreNeo4j  = "neo4j"
	StoreMemory = "memory"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Config contains runtime settings for every binary
type Config struct {
	LogLevel  string
	LogFormat string // json or console
	Host      string // default 0.0.0.0
	Port      string // default PORT env or 8080

	LLM struct {
		Provider     string // openai or gemini, inferred from keys when empty
		Model        string
		Temperature  float32
		Timeout      time.Duration
		OpenAIAPIKey string
		GeminiAPIKey string
	}

	Search struct {
		APIKey  string
		BaseURL string
		Host    string
		Timeout time.Duration
	} // JSearch over RapidAPI

	Store struct {
		Backend string
		Timeout time.Duration
		Mongo   struct {
			URI        string
			Database   string
			Collection string
		}
		Neo4j struct {
			URI      string
			Username string
			Password string
			Database string
		}
	}

	Mail struct {
		From     string
		Password string
		Host     string
		Port     int
		Timeout  time.Duration
		Subject  string
	}

	Sessions struct {
		Backend  string
		RedisURL string
	}

	Agent struct {
		MaxSteps    int
		SummaryMode string
	}

	Digest struct {
		Cron      string
		Recipient string
		Query     string
		Location  string
		Limit     int
	}

	Sheets struct {
		CredentialsPath string
		SpreadsheetID   string
	}
}

// Load populates config from the environment, after loading .env when present.
// Variables required by the requested needs are checked together.
func Load(needs ...Need) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		Host:      getEnv("HTTP_HOST", "0.0.0.0"),
		Port:      getEnv("PORT", "8080"),
	}

	cfg.LLM.Provider = strings.ToLower(os.Getenv("LLM_PROVIDER"))
	cfg.LLM.Model = os.Getenv("LLM_MODEL")
	cfg.LLM.Temperature = float32(getFloat("LLM_TEMPERATURE", 0))
	cfg.LLM.Timeout = getDuration("LLM_TIMEOUT", 60*time.Second)
	cfg.LLM.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.LLM.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	cfg.Search.APIKey = os.Getenv("RAPIDAPI_KEY")
	cfg.Search.BaseURL = os.Getenv("JSEARCH_BASE_URL")
	cfg.Search.Host = os.Getenv("JSEARCH_HOST")
	cfg.Search.Timeout = getDuration("SEARCH_TIMEOUT", 30*time.Second)

	cfg.Store.Backend = strings.ToLower(getEnv("STORE_BACKEND", StoreMongo))
	cfg.Store.Timeout = getDuration("STORE_TIMEOUT", 10*time.Second)
	cfg.Store.Mongo.URI = os.Getenv("MONGODB_URI")
	cfg.Store.Mongo.Database = getEnv("MONGODB_DATABASE", "empleos_ia")
	cfg.Store.Mongo.Collection = getEnv("MONGODB_COLLECTION", "ofertas")
	cfg.Store.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Store.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Store.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
	cfg.Store.Neo4j.Database = os.Getenv("NEO4J_DATABASE")

	cfg.Mail.From = os.Getenv("EMAIL_FROM")
	cfg.Mail.Password = os.Getenv("EMAIL_PASSWORD")
	cfg.Mail.Host = getEnv("SMTP_HOST", "smtp.gmail.com")
	cfg.Mail.Port = getInt("SMTP_PORT", 587)
	cfg.Mail.Timeout = getDuration("MAIL_TIMEOUT", 30*time.Second)
	cfg.Mail.Subject = os.Getenv("MAIL_SUBJECT")

	cfg.Sessions.Backend = strings.ToLower(getEnv("SESSION_BACKEND", SessionMemory))
	cfg.Sessions.RedisURL = os.Getenv("REDIS_URL")

	cfg.Agent.MaxSteps = getInt("AGENT_MAX_STEPS", 10)
	cfg.Agent.SummaryMode = getEnv("SUMMARY_MODE", "detailed")

	cfg.Digest.Cron = os.Getenv("DIGEST_CRON")
	cfg.Digest.Recipient = os.Getenv("DIGEST_RECIPIENT")
	cfg.Digest.Query = getEnv("DIGEST_QUERY", "data science")
	cfg.Digest.Location = getEnv("DIGEST_LOCATION", "PE")
	cfg.Digest.Limit = getInt("DIGEST_LIMIT", 10)

	cfg.Sheets.CredentialsPath = os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")
	cfg.Sheets.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_ID")

	var missingVars []string
	for _, n := range needs {
		missingVars = append(missingVars, cfg.missing(n)...)
	}

	if len(missingVars) > 0 {
		return cfg, &domain.ConfigError{Missing: dedupe(missingVars)}
	}

	return cfg, nil
}

func (c Config) missing(n Need) []string {
	var out []string
	require := func(name, value string) {
		if value == "" {
			out = append(out, name)
		}
	}

	switch n {
	case NeedLLM:
		switch c.LLM.Provider {
		case "openai":
			require("OPENAI_API_KEY", c.LLM.OpenAIAPIKey)
		case "gemini":
			require("GEMINI_API_KEY", c.LLM.GeminiAPIKey)
		default:
			if c.LLM.OpenAIAPIKey == "" && c.LLM.GeminiAPIKey == "" {
				out = append(out, "OPENAI_API_KEY")
			}
		}
	case NeedSearch:
		require("RAPIDAPI_KEY", c.Search.APIKey)
	case NeedStore:
		switch c.Store.Backend {
		case StoreNeo4j:
			require("NEO4J_URI", c.Store.Neo4j.URI)
			require("NEO4J_USERNAME", c.Store.Neo4j.Username)
			require("NEO4J_PASSWORD", c.Store.Neo4j.Password)
		case StoreMemory:
		default:
			require("MONGODB_URI", c.Store.Mongo.URI)
		}
	case NeedMail:
		require("EMAIL_FROM", c.Mail.From)
		require("EMAIL_PASSWORD", c.Mail.Password)
	case NeedSessions:
		if c.Sessions.Backend == SessionRedis {
			require("REDIS_URL", c.Sessions.RedisURL)
		}
	case NeedDigest:
		require("DIGEST_CRON", c.Digest.Cron)
		require("DIGEST_RECIPIENT", c.Digest.Recipient)
	case NeedSheets:
		require("GOOGLE_SHEETS_CREDENTIALS_PATH", c.Sheets.CredentialsPath)
		require("GOOGLE_SHEETS_ID", c.Sheets.SpreadsheetID)
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 32); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
