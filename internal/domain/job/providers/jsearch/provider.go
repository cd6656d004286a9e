package jsearch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	jobdomain "github.com/Yoseph10/AgentAI-JobSearch/internal/domain/job"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/jsearch"
)

// searchClient describes the subset of the JSearch client used by the provider.
type searchClient interface {
	Search(ctx context.Context, params jsearch.SearchParams) ([]jsearch.Posting, error)
}

// Provider implements job.Provider using the JSearch API
type Provider struct {
	client searchClient
}

// NewProvider builds a JSearch provider
func NewProvider(client searchClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("jsearch provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return "jsearch"
}

// Search queries JSearch and returns normalized records. Postings without
// a job_id are dropped.
func (p *Provider) Search(ctx context.Context, q domain.SearchQuery) ([]domain.JobRecord, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("jsearch provider: client is nil")
	}

	postings, err := p.client.Search(ctx, jsearch.SearchParams{
		Query:    q.Query,
		Country:  q.Location,
		Page:     q.Page,
		NumPages: q.Pages,
		Fields:   q.Fields,
	})
	if err != nil {
		var statusErr *jsearch.StatusError
		if errors.As(err, &statusErr) {
			return nil, &domain.SearchError{StatusCode: statusErr.StatusCode, Body: statusErr.Body}
		}
		return nil, domain.WrapTimeout(err)
	}

	out := make([]domain.JobRecord, 0, len(postings))
	for _, posting := range postings {
		if strings.TrimSpace(posting.JobID) == "" {
			continue
		}
		out = append(out, mapPosting(posting))
	}

	return out, nil
}

func mapPosting(p jsearch.Posting) domain.JobRecord {
	return domain.JobRecord{
		JobID:        p.JobID,
		Title:        p.JobTitle,
		EmployerName: p.EmployerName,
		Description:  p.JobDescription,
		City:         p.JobCity,
		Country:      p.JobCountry,
		ApplyLink:    p.JobApplyLink,
		PostedAtUTC:  p.JobPostedAtDatetimeUTC,
	}
}

var _ jobdomain.Provider = (*Provider)(nil)
