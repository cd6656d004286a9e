// Package tools holds the closed set of model-callable operations.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/summary"
)

// Kind names a tool
type Kind string

const (
	KindSearchJobs      Kind = "search_jobs"
	KindSearchAndSave   Kind = "search_and_save"
	KindSummarizeRecent Kind = "summarize_recent"
	KindEmailSummary    Kind = "email_summary"
)

// Tool is one model-callable operation. Invoke never fails: every outcome,
// including errors, is rendered as text for the model.
type Tool interface {
	Name() Kind
	Description() string
	Schema() *jsonschema.Schema
	Invoke(ctx context.Context, args json.RawMessage) string
}

// JobService is the subset of job.Service used by the tools
type JobService interface {
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.JobRecord, error)
	SearchAndSave(ctx context.Context, q domain.SearchQuery) (domain.UpsertResult, error)
	Recent(ctx context.Context, limit int) ([]domain.JobRecord, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, records []domain.JobRecord, mode summary.Mode) (string, error)
}

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SearchParams are the arguments of search_jobs and search_and_save
type SearchParams struct {
	Query    string `json:"query,omitempty" jsonschema:"job search terms, defaults to data science"`
	Location string `json:"location,omitempty" jsonschema:"ISO country code, defaults to PE"`
}

// SummarizeParams are the arguments of summarize_recent
type SummarizeParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"number of most recently saved jobs to summarize, defaults to 10"`
}

// EmailParams are the arguments of email_summary
type EmailParams struct {
	Recipient string `json:"recipient,omitempty" jsonschema:"email address that receives the summary"`
}

func schemaFor[T any]() *jsonschema.Schema {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("tools: schema for %T: %v", *new(T), err))
	}
	return s
}

func decode[T any](args json.RawMessage) (T, error) {
	var v T
	if len(args) == 0 || string(args) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(args, &v); err != nil {
		return v, fmt.Errorf("invalid arguments: %w", err)
	}
	return v, nil
}

// describe renders an error for the model, keeping timeouts distinguishable
func describe(err error) string {
	if domain.IsTimeout(err) {
		return "the request timed out"
	}

	var searchErr *domain.SearchError
	if errors.As(err, &searchErr) {
		return fmt.Sprintf("the job search API returned status %d", searchErr.StatusCode)
	}
	return err.Error()
}
