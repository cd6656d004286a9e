// Package session keeps per-thread conversation history.
package session

import (
	"context"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
)

// Store is an append-only history keyed by thread id
type Store interface {
	// Load returns the thread's messages in causal order; unknown threads are empty
	Load(ctx context.Context, threadID string) ([]domain.Message, error)
	// Append adds messages to the end of the thread atomically
	Append(ctx context.Context, threadID string, msgs ...domain.Message) error
	// Clear drops the thread
	Clear(ctx context.Context, threadID string) error
	// Threads lists known thread ids
	Threads(ctx context.Context) ([]string, error)
}
