package job

import (
	"context"
	"fmt"
	"strings"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
)

const (
	DefaultQuery    = "data science"
	DefaultLocation = "PE"
	DefaultLimit    = 10
	MaxLimit        = 50
)

// Option configures Service
type Option func(*config)

type config struct {
	provider Provider
	repo     Repository
	logger   *logging.Logger
}

// WithProvider sets the job provider
func WithProvider(p Provider) Option {
	return func(c *config) {
		c.provider = p
	}
}

// WithRepository sets the repository
func WithRepository(repo Repository) Option {
	return func(c *config) {
		c.repo = repo
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (*Service, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.repo == nil {
		return nil, fmt.Errorf("job.Service: repository is required")
	}
	if cfg.provider == nil {
		return nil, fmt.Errorf("job.Service: provider is required")
	}
	if cfg.logger == nil {
		cfg.logger = logging.Nop()
	}

	return &Service{
		provider: cfg.provider,
		repo:     cfg.repo,
		logger:   cfg.logger,
	}, nil
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible)
func NewServiceWithDeps(repo Repository, provider Provider, logger *logging.Logger) (*Service, error) {
	return NewService(WithRepository(repo), WithProvider(provider), WithLogger(logger))
}

// Service coordinates the search provider and the job store
type Service struct {
	provider Provider
	repo     Repository
	logger   *logging.Logger
}

// Search queries the provider without persisting anything
func (s *Service) Search(ctx context.Context, q domain.SearchQuery) ([]domain.JobRecord, error) {
	q = normalizeQuery(q)

	records, err := s.provider.Search(ctx, q)
	if err != nil {
		s.logger.Error("job search failed", "provider", s.provider.Name(), "query", q.Query, "location", q.Location, "err", err)
		return nil, err
	}

	s.logger.Info("job search completed", "provider", s.provider.Name(), "query", q.Query, "location", q.Location, "count", len(records))
	return records, nil
}

// SearchAndSave queries the provider and upserts the results by job_id.
// Within one batch the last record for a given job_id wins.
func (s *Service) SearchAndSave(ctx context.Context, q domain.SearchQuery) (domain.UpsertResult, error) {
	records, err := s.Search(ctx, q)
	if err != nil {
		return domain.UpsertResult{}, err
	}

	batch := dedupe(records)
	if len(batch) == 0 {
		return domain.UpsertResult{}, nil
	}

	res, err := s.repo.UpsertAll(ctx, batch)
	if err != nil {
		s.logger.Error("job upsert failed", "count", len(batch), "err", err)
		return domain.UpsertResult{}, err
	}

	res.TotalReceived = len(records)
	s.logger.Info("jobs saved", "received", res.TotalReceived, "new", res.NewlyInserted)
	return res, nil
}

// Recent returns the most recently inserted records
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	return s.repo.MostRecent(ctx, ClampLimit(limit))
}

// Pending returns unsummarized records ordered by posting date
func (s *Service) Pending(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	return s.repo.Pending(ctx, ClampLimit(limit))
}

// MarkSummarized flags records as consumed by a digest
func (s *Service) MarkSummarized(ctx context.Context, jobIDs []string) error {
	if len(jobIDs) == 0 {
		return nil
	}
	return s.repo.MarkSummarized(ctx, jobIDs)
}

// Count returns the number of stored records
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// ClampLimit maps non-positive limits to DefaultLimit and caps at MaxLimit
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func normalizeQuery(q domain.SearchQuery) domain.SearchQuery {
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		q.Query = DefaultQuery
	}
	q.Location = strings.TrimSpace(q.Location)
	if q.Location == "" {
		q.Location = DefaultLocation
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Pages <= 0 {
		q.Pages = 1
	}
	return q
}

func dedupe(records []domain.JobRecord) []domain.JobRecord {
	index := make(map[string]int, len(records))
	out := make([]domain.JobRecord, 0, len(records))

	for _, r := range records {
		if r.JobID == "" {
			continue
		}
		r.Summarized = false
		if i, ok := index[r.JobID]; ok {
			out[i] = r
			continue
		}
		index[r.JobID] = len(out)
		out = append(out, r)
	}

	return out
}
