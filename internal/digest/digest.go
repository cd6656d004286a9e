// Package digest periodically fetches new postings and mails a brief summary
// of the ones no digest has covered yet.
package digest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/summary"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
)

const DefaultSubject = "New Data Science jobs"

// Jobs is the subset of job.Service the digest needs
type Jobs interface {
	SearchAndSave(ctx context.Context, q domain.SearchQuery) (domain.UpsertResult, error)
	Pending(ctx context.Context, limit int) ([]domain.JobRecord, error)
	MarkSummarized(ctx context.Context, jobIDs []string) error
}

type Summarizer interface {
	Summarize(ctx context.Context, records []domain.JobRecord, mode summary.Mode) (string, error)
}

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Config struct {
	Schedule  string // cron spec, e.g. "0 8 * * 1-5" or "@every 24h"
	Recipient string
	Subject   string
	Query     domain.SearchQuery
	Limit     int
}

// Result reports one digest run
type Result struct {
	Fetched domain.UpsertResult
	Sent    int // records covered by the mailed summary
}

// Scheduler wraps robfig/cron and runs the digest on a schedule
type Scheduler struct {
	cfg        Config
	jobs       Jobs
	summarizer Summarizer
	sender     Sender
	logger     *logging.Logger

	cron    *cron.Cron
	mu      sync.Mutex // one run at a time
	started bool
}

func New(cfg Config, jobs Jobs, summarizer Summarizer, sender Sender, logger *logging.Logger) (*Scheduler, error) {
	if jobs == nil || summarizer == nil || sender == nil {
		return nil, fmt.Errorf("digest: jobs, summarizer and sender are required")
	}
	if cfg.Recipient == "" {
		return nil, fmt.Errorf("digest: recipient is required")
	}
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &Scheduler{
		cfg:        cfg,
		jobs:       jobs,
		summarizer: summarizer,
		sender:     sender,
		logger:     logger.Named("digest"),
		cron:       cron.New(cron.WithLogger(cron.VerbosePrintfLogger(logger))),
	}, nil
}

// Start registers the digest job and starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.Schedule == "" {
		return fmt.Errorf("digest: schedule is required")
	}

	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("digest run failed", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.started = true
	s.logger.Info("digest scheduler started", "schedule", s.cfg.Schedule, "recipient", s.cfg.Recipient)
	return nil
}

// Shutdown stops the scheduler and waits for a running digest to finish
func (s *Scheduler) Shutdown(ctx context.Context) error {
	if !s.started {
		return nil
	}

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("digest scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce fetches and saves postings, summarizes the pending ones and mails
// the summary. Records are marked summarized only after a successful send.
func (s *Scheduler) RunOnce(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res Result

	fetched, err := s.jobs.SearchAndSave(ctx, s.cfg.Query)
	if err != nil {
		// a failed fetch still lets earlier pending records go out
		s.logger.Warn("digest fetch failed", "err", err)
	}
	res.Fetched = fetched

	pending, err := s.jobs.Pending(ctx, s.cfg.Limit)
	if err != nil {
		return res, fmt.Errorf("load pending jobs: %w", err)
	}

	body, err := s.summarizer.Summarize(ctx, pending, summary.ModeBrief)
	if errors.Is(err, domain.ErrNoRecords) {
		s.logger.Info("digest skipped, nothing pending")
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("summarize: %w", err)
	}

	if err := s.sender.Send(ctx, s.cfg.Recipient, s.cfg.Subject, body); err != nil {
		return res, err
	}

	ids := make([]string, 0, len(pending))
	for _, r := range pending {
		ids = append(ids, r.JobID)
	}
	if err := s.jobs.MarkSummarized(ctx, ids); err != nil {
		return res, fmt.Errorf("mark summarized: %w", err)
	}

	res.Sent = len(ids)
	s.logger.Info("digest sent", "recipient", s.cfg.Recipient, "jobs", res.Sent, "new", fetched.NewlyInserted)
	return res, nil
}
