// Package llm defines the model-facing contracts used by the agent and the summarizer.
package llm

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
)

// ToolSpec advertises one callable tool to the model
type ToolSpec struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
}

// Reply is one model step: either final text or a set of tool calls
type Reply struct {
	Text      string
	ToolCalls []domain.ToolCall
}

// ChatModel performs one reasoning step over a conversation
type ChatModel interface {
	Step(ctx context.Context, system string, history []domain.Message, tools []ToolSpec) (Reply, error)
}

// Completer produces a single completion for a system and user prompt
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Model is a provider that supports both modes
type Model interface {
	ChatModel
	Completer
	Close() error
}
