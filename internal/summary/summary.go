// Package summary turns stored job records into a model-written digest.
package summary

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/llm"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
)

// Mode selects the summary style
type Mode string

const (
	ModeBrief    Mode = "brief"
	ModeDetailed Mode = "detailed"
)

const (
	briefDescriptionRunes    = 300
	detailedDescriptionRunes = 600
	blockSeparator           = "\n---\n"
	unspecifiedDate          = "Not specified"
)

const systemPrompt = "You are a labor-market analyst specialised in technology. " +
	"You write clear, accurate summaries of job postings for candidates. " +
	"Use only the information provided and never invent details."

// ParseMode maps a setting onto a Mode, defaulting to detailed
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeBrief)) {
		return ModeBrief
	}
	return ModeDetailed
}

// Summarizer builds the prompt and delegates the writing to a Completer
type Summarizer struct {
	model  llm.Completer
	logger *logging.Logger
}

func New(model llm.Completer, logger *logging.Logger) (*Summarizer, error) {
	if model == nil {
		return nil, fmt.Errorf("summary: model is required")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Summarizer{model: model, logger: logger}, nil
}

// Summarize returns the model's text verbatim. An empty batch fails with
// domain.ErrNoRecords and the model is not called.
func (s *Summarizer) Summarize(ctx context.Context, records []domain.JobRecord, mode Mode) (string, error) {
	if len(records) == 0 {
		return "", domain.ErrNoRecords
	}

	prompt := BuildPrompt(records, mode)
	text, err := s.model.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		s.logger.Error("summary generation failed", "records", len(records), "mode", mode, "err", err)
		return "", &domain.SummaryError{Kind: domain.SummaryModelFailure, Cause: err}
	}

	s.logger.Info("summary generated", "records", len(records), "mode", mode, "chars", len(text))
	return text, nil
}

// BuildPrompt renders the user instruction followed by one block per record
func BuildPrompt(records []domain.JobRecord, mode Mode) string {
	limit := detailedDescriptionRunes
	if mode == ModeBrief {
		limit = briefDescriptionRunes
	}

	blocks := make([]string, 0, len(records))
	for _, r := range records {
		blocks = append(blocks, renderBlock(r, limit))
	}

	var b strings.Builder
	b.WriteString(instruction(mode))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(blocks, blockSeparator))
	return b.String()
}

func instruction(mode Mode) string {
	if mode == ModeBrief {
		return "Write a short newsletter-style digest of the following job offers. " +
			"For each offer include: the job title, the company, the application link, " +
			"and the posting date if available. Keep each entry to one or two lines."
	}
	return "Summarize each of the following job offers. For each offer include: " +
		"the job title, the company, the application link, the key requirements or experience, " +
		"a short description of the role, and the posting date if available."
}

func renderBlock(r domain.JobRecord, limit int) string {
	posted := strings.TrimSpace(r.PostedAtUTC)
	if posted == "" {
		posted = unspecifiedDate
	}

	return fmt.Sprintf("Title: %s\nCompany: %s\nLink: %s\nPosted: %s\nDescription: %s",
		r.Title, r.EmployerName, r.ApplyLink, posted, Truncate(r.Description, limit))
}

// Truncate keeps the first n runes, replaces newlines with spaces and trims
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) > n {
		s = string([]rune(s)[:n])
	}
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return strings.TrimSpace(s)
}
