package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/llm"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/llm/gemini"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/llm/openai"
)

type Type string

const (
	OpenAI Type = "openai"
	Gemini Type = "gemini"
)

// Config holds model provider configuration
type Config struct {
	Provider     Type
	Model        string
	Temperature  float32
	Timeout      time.Duration
	OpenAIAPIKey string
	GeminiAPIKey string
}

// New builds the configured model. An empty provider picks OpenAI when its
// key is present and falls back to Gemini otherwise.
func New(ctx context.Context, cfg Config) (llm.Model, error) {
	switch Type(strings.ToLower(string(cfg.Provider))) {
	case OpenAI:
		c, err := openai.NewClient(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case Gemini:
		c, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case "":
		if cfg.OpenAIAPIKey != "" {
			cfg.Provider = OpenAI
		} else {
			cfg.Provider = Gemini
		}
		return New(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
