package job

import (
	"context"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
)

// Provider represents an external job data source
type Provider interface {
	// e.g. "jsearch"
	Name() string

	// Search returns normalized records for a query
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.JobRecord, error)
}
