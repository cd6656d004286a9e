package job

import (
	"context"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
)

// Repository persists and loads job records
type Repository interface {
	// UpsertAll inserts or fully replaces records keyed by job_id and resets
	// their summarized flag
	UpsertAll(ctx context.Context, records []domain.JobRecord) (domain.UpsertResult, error)

	// MostRecent returns up to limit records, most recently inserted first
	MostRecent(ctx context.Context, limit int) ([]domain.JobRecord, error)

	// Pending returns up to limit unsummarized records, newest posting first
	Pending(ctx context.Context, limit int) ([]domain.JobRecord, error)

	// MarkSummarized flags the given job ids as summarized
	MarkSummarized(ctx context.Context, jobIDs []string) error

	Count(ctx context.Context) (int64, error)
}
