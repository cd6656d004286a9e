package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
)

// SearchJobs lists matching postings without touching the store
type SearchJobs struct {
	jobs   JobService
	logger *logging.Logger
}

func NewSearchJobs(jobs JobService, logger *logging.Logger) *SearchJobs {
	return &SearchJobs{jobs: jobs, logger: orNop(logger)}
}

func (t *SearchJobs) Name() Kind { return KindSearchJobs }

func (t *SearchJobs) Description() string {
	return "Search the job API for postings and list them as 'title at company'. Nothing is saved."
}

func (t *SearchJobs) Schema() *jsonschema.Schema { return schemaFor[SearchParams]() }

func (t *SearchJobs) Invoke(ctx context.Context, args json.RawMessage) string {
	p, err := decode[SearchParams](args)
	if err != nil {
		return "Error searching jobs: " + err.Error()
	}

	records, err := t.jobs.Search(ctx, domain.SearchQuery{Query: p.Query, Location: p.Location})
	if err != nil {
		t.logger.Error("search_jobs failed", "query", p.Query, "location", p.Location, "err", err)
		return "Error searching jobs: " + describe(err)
	}
	t.logger.Info("search_jobs completed", "query", p.Query, "location", p.Location, "count", len(records))
	if len(records) == 0 {
		return "No jobs found."
	}

	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, fmt.Sprintf("- %s at %s", r.Title, r.EmployerName))
	}
	return strings.Join(lines, "\n")
}

// SearchAndSave fetches postings and upserts them into the store
type SearchAndSave struct {
	jobs   JobService
	logger *logging.Logger
}

func NewSearchAndSave(jobs JobService, logger *logging.Logger) *SearchAndSave {
	return &SearchAndSave{jobs: jobs, logger: orNop(logger)}
}

func (t *SearchAndSave) Name() Kind { return KindSearchAndSave }

func (t *SearchAndSave) Description() string {
	return "Search the job API and save every posting to the database, updating postings that already exist."
}

func (t *SearchAndSave) Schema() *jsonschema.Schema { return schemaFor[SearchParams]() }

func (t *SearchAndSave) Invoke(ctx context.Context, args json.RawMessage) string {
	p, err := decode[SearchParams](args)
	if err != nil {
		return "Error saving jobs: " + err.Error()
	}

	res, err := t.jobs.SearchAndSave(ctx, domain.SearchQuery{Query: p.Query, Location: p.Location})
	if err != nil {
		t.logger.Error("search_and_save failed", "query", p.Query, "location", p.Location, "err", err)
		return "Error saving jobs: " + describe(err)
	}
	t.logger.Info("search_and_save completed", "query", p.Query, "location", p.Location,
		"received", res.TotalReceived, "new", res.NewlyInserted)
	if res.TotalReceived == 0 {
		return "No jobs found."
	}
	return fmt.Sprintf("Saved %d jobs to the database (%d new).", res.TotalReceived, res.NewlyInserted)
}

func orNop(l *logging.Logger) *logging.Logger {
	if l == nil {
		return logging.Nop()
	}
	return l
}
