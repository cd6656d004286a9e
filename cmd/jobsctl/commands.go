package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/app"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/config"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/digest"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain/job"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/export"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/sheets"
)

// command registers its flags and returns the action to run after parsing
type command func(fs *flag.FlagSet) func(ctx context.Context, out io.Writer) error

var commands = map[string]command{
	"fetch":         fetchCmd,
	"count":         countCmd,
	"list":          listCmd,
	"digest":        digestCmd,
	"export-sheets": exportSheetsCmd,
}

func setup(needs ...config.Need) (config.Config, *logging.Logger, error) {
	cfg, err := config.Load(needs...)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logging.NewWithFormat(cfg.LogLevel, "console"), nil
}

func fetchCmd(fs *flag.FlagSet) func(context.Context, io.Writer) error {
	query := fs.String("query", job.DefaultQuery, "search terms")
	location := fs.String("location", job.DefaultLocation, "ISO country code")
	page := fs.Int("page", 1, "first page to request")
	pages := fs.Int("pages", 1, "number of pages to merge")
	fields := fs.String("fields", "", "comma-separated response fields to request")
	dryRun := fs.Bool("dry-run", false, "print results without saving")

	return func(ctx context.Context, out io.Writer) error {
		cfg, logger, err := setup(config.NeedSearch, config.NeedStore)
		if err != nil {
			return err
		}
		svc, cleanup, err := app.InitializeJobService(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		q := domain.SearchQuery{
			Query:    *query,
			Location: *location,
			Page:     *page,
			Pages:    *pages,
			Fields:   splitFields(*fields),
		}

		if *dryRun {
			records, err := svc.Search(ctx, q)
			if err != nil {
				return err
			}
			printRecords(out, records)
			return nil
		}

		res, err := svc.SearchAndSave(ctx, q)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "received %d jobs, %d new\n", res.TotalReceived, res.NewlyInserted)
		return nil
	}
}

func countCmd(fs *flag.FlagSet) func(context.Context, io.Writer) error {
	return func(ctx context.Context, out io.Writer) error {
		cfg, logger, err := setup(config.NeedStore)
		if err != nil {
			return err
		}
		repo, cleanup, err := app.InitializeJobStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		n, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d\n", n)
		return nil
	}
}

func listCmd(fs *flag.FlagSet) func(context.Context, io.Writer) error {
	limit := fs.Int("n", job.DefaultLimit, "number of jobs to print")
	pending := fs.Bool("pending", false, "only jobs not yet covered by a digest")

	return func(ctx context.Context, out io.Writer) error {
		cfg, logger, err := setup(config.NeedStore)
		if err != nil {
			return err
		}
		repo, cleanup, err := app.InitializeJobStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		var records []domain.JobRecord
		if *pending {
			records, err = repo.Pending(ctx, job.ClampLimit(*limit))
		} else {
			records, err = repo.MostRecent(ctx, job.ClampLimit(*limit))
		}
		if err != nil {
			return err
		}
		printRecords(out, records)
		return nil
	}
}

func digestCmd(fs *flag.FlagSet) func(context.Context, io.Writer) error {
	to := fs.String("to", "", "recipient, defaults to DIGEST_RECIPIENT")

	return func(ctx context.Context, out io.Writer) error {
		cfg, logger, err := setup(config.NeedLLM, config.NeedSearch, config.NeedStore, config.NeedMail)
		if err != nil {
			return err
		}
		recipient := *to
		if recipient == "" {
			recipient = cfg.Digest.Recipient
		}
		if recipient == "" {
			return &domain.ConfigError{Missing: []string{"DIGEST_RECIPIENT"}}
		}

		a, cleanup, err := app.InitializeApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		d, err := digest.New(digest.Config{
			Recipient: recipient,
			Query:     domain.SearchQuery{Query: cfg.Digest.Query, Location: cfg.Digest.Location},
			Limit:     cfg.Digest.Limit,
		}, a.Jobs, a.Summarizer, a.Mailer, logger)
		if err != nil {
			return err
		}

		res, err := d.RunOnce(ctx)
		if err != nil {
			return err
		}
		if res.Sent == 0 {
			fmt.Fprintln(out, "nothing new to send")
			return nil
		}
		fmt.Fprintf(out, "digest with %d jobs sent to %s\n", res.Sent, recipient)
		return nil
	}
}

func exportSheetsCmd(fs *flag.FlagSet) func(context.Context, io.Writer) error {
	tab := fs.String("tab", export.DefaultTab, "sheet tab to replace")
	limit := fs.Int("n", job.MaxLimit, "number of recent jobs to export")

	return func(ctx context.Context, out io.Writer) error {
		cfg, logger, err := setup(config.NeedStore, config.NeedSearch, config.NeedSheets)
		if err != nil {
			return err
		}
		svc, cleanup, err := app.InitializeJobService(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		client, err := sheets.NewClient(ctx, sheets.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
		if err != nil {
			return err
		}
		exporter, err := export.NewExporter(svc, client, logger)
		if err != nil {
			return err
		}

		n, err := exporter.ExportRecent(ctx, cfg.Sheets.SpreadsheetID, *tab, *limit)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "exported %d jobs to tab %s\n", n, *tab)
		return nil
	}
}

func printRecords(out io.Writer, records []domain.JobRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "no jobs")
		return
	}
	for _, r := range records {
		posted := r.PostedAtUTC
		if posted == "" {
			posted = "-"
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", r.JobID, r.Title, r.EmployerName, posted)
	}
}

func splitFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
