package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain/job"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/summary"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
)

// SummarizeRecent summarizes the most recently saved postings
type SummarizeRecent struct {
	jobs       JobService
	summarizer Summarizer
	mode       summary.Mode
	logger     *logging.Logger
}

func NewSummarizeRecent(jobs JobService, summarizer Summarizer, mode summary.Mode, logger *logging.Logger) *SummarizeRecent {
	return &SummarizeRecent{jobs: jobs, summarizer: summarizer, mode: mode, logger: orNop(logger)}
}

func (t *SummarizeRecent) Name() Kind { return KindSummarizeRecent }

func (t *SummarizeRecent) Description() string {
	return "Summarize the most recently saved job postings from the database."
}

func (t *SummarizeRecent) Schema() *jsonschema.Schema { return schemaFor[SummarizeParams]() }

func (t *SummarizeRecent) Invoke(ctx context.Context, args json.RawMessage) string {
	p, err := decode[SummarizeParams](args)
	if err != nil {
		return "Error generating summary: " + err.Error()
	}

	text, err := t.Run(ctx, p.Limit)
	switch {
	case errors.Is(err, domain.ErrNoRecords):
		return "No recent records found in the database."
	case err != nil:
		return "Error generating summary: " + describe(err)
	}
	return text
}

// Run loads up to limit recent records and summarizes them.
// Non-positive limits mean the default; limits are capped.
func (t *SummarizeRecent) Run(ctx context.Context, limit int) (string, error) {
	records, err := t.jobs.Recent(ctx, job.ClampLimit(limit))
	if err != nil {
		t.logger.Error("load recent jobs failed", "err", err)
		return "", err
	}
	return t.summarizer.Summarize(ctx, records, t.mode)
}
