package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain/job"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
)

const DefaultEmailSubject = "Recent Data Science job summary"

// EmailSummary summarizes recent postings and emails the result
type EmailSummary struct {
	summarize *SummarizeRecent
	sender    Sender
	subject   string
	logger    *logging.Logger
}

func NewEmailSummary(summarize *SummarizeRecent, sender Sender, subject string, logger *logging.Logger) *EmailSummary {
	if subject == "" {
		subject = DefaultEmailSubject
	}
	return &EmailSummary{summarize: summarize, sender: sender, subject: subject, logger: orNop(logger)}
}

func (t *EmailSummary) Name() Kind { return KindEmailSummary }

func (t *EmailSummary) Description() string {
	return "Email a summary of the most recently saved job postings. Requires the recipient's email address; ask the user for it if unknown."
}

func (t *EmailSummary) Schema() *jsonschema.Schema { return schemaFor[EmailParams]() }

func (t *EmailSummary) Invoke(ctx context.Context, args json.RawMessage) string {
	p, err := decode[EmailParams](args)
	if err != nil {
		return "Error sending email: " + err.Error()
	}

	recipient := strings.TrimSpace(p.Recipient)
	if recipient == "" {
		return "Which email address should I send the summary to?"
	}

	body, err := t.summarize.Run(ctx, job.DefaultLimit)
	if err != nil || strings.TrimSpace(body) == "" {
		if err != nil {
			t.logger.Warn("summary for email failed", "err", err)
		}
		return "Could not generate the summary to send by email."
	}

	if err := t.sender.Send(ctx, recipient, t.subject, body); err != nil {
		t.logger.Error("email delivery failed", "recipient", recipient, "err", err)
		return "Error sending email: " + describe(err)
	}

	t.logger.Info("summary emailed", "recipient", recipient)
	return fmt.Sprintf("Summary sent successfully to %s.", recipient)
}
