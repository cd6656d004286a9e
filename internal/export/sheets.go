// Package export copies stored job postings into a spreadsheet.
package export

import (
	"context"
	"fmt"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
)

const DefaultTab = "Jobs"

var header = []any{"Job ID", "Title", "Company", "City", "Country", "Posted (UTC)", "Apply link", "Summarized"}

// Writer is satisfied by *sheets.Client
type Writer interface {
	ReplaceTab(ctx context.Context, spreadsheetID, tab string, values [][]any) error
}

type Recent interface {
	Recent(ctx context.Context, limit int) ([]domain.JobRecord, error)
}

type Exporter struct {
	jobs   Recent
	writer Writer
	logger *logging.Logger
}

func NewExporter(jobs Recent, writer Writer, logger *logging.Logger) (*Exporter, error) {
	if jobs == nil {
		return nil, fmt.Errorf("export: job service is required")
	}
	if writer == nil {
		return nil, fmt.Errorf("export: sheets writer is required")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Exporter{jobs: jobs, writer: writer, logger: logger}, nil
}

// ExportRecent replaces tab with a header row plus the most recent records.
// It returns the number of job rows written.
func (e *Exporter) ExportRecent(ctx context.Context, spreadsheetID, tab string, limit int) (int, error) {
	if spreadsheetID == "" {
		return 0, fmt.Errorf("export: spreadsheet id is required")
	}
	if tab == "" {
		tab = DefaultTab
	}

	records, err := e.jobs.Recent(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("load recent jobs: %w", err)
	}

	if err := e.writer.ReplaceTab(ctx, spreadsheetID, tab, Rows(records)); err != nil {
		return 0, err
	}

	e.logger.Info("jobs exported to sheet", "spreadsheet_id", spreadsheetID, "tab", tab, "rows", len(records))
	return len(records), nil
}

// Rows renders records as sheet values, header first
func Rows(records []domain.JobRecord) [][]any {
	values := make([][]any, 0, len(records)+1)
	values = append(values, header)
	for _, r := range records {
		values = append(values, []any{
			r.JobID,
			r.Title,
			r.EmployerName,
			r.City,
			r.Country,
			r.PostedAtUTC,
			r.ApplyLink,
			r.Summarized,
		})
	}
	return values
}
