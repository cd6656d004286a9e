package main

import (
	"context"
	"log"
	"os"
	"syscall"
	"time"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/app"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/config"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/digest"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/httpapi"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/mcp"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/shutdown"
)

func main() {
	cfg, err := config.Load(config.NeedLLM, config.NeedSearch, config.NeedStore, config.NeedMail, config.NeedSessions)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.NewWithFormat(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, cleanup, err := app.InitializeApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	mcpServer, err := mcp.NewServer(a.Tools, logger)
	if err != nil {
		logger.Error("failed to register MCP tools", "err", err)
		os.Exit(1)
	}

	engine := httpapi.NewEngine(httpapi.NewHandler(a.Agent, logger), mcp.Handler(mcpServer), logger)
	srv := httpapi.NewServer(httpapi.Config{Host: cfg.Host, Port: cfg.Port}, engine, logger)

	var scheduler *digest.Scheduler
	if cfg.Digest.Cron != "" {
		scheduler, err = digest.New(digest.Config{
			Schedule:  cfg.Digest.Cron,
			Recipient: cfg.Digest.Recipient,
			Query:     domain.SearchQuery{Query: cfg.Digest.Query, Location: cfg.Digest.Location},
			Limit:     cfg.Digest.Limit,
		}, a.Jobs, a.Summarizer, a.Mailer, logger)
		if err != nil {
			logger.Error("failed to configure digest", "err", err)
			os.Exit(1)
		}
		if err := scheduler.Start(ctx); err != nil {
			logger.Error("failed to start digest", "err", err)
			os.Exit(1)
		}
	}

	// the scheduler stops first: Run returns as soon as the listener closes
	var components []shutdown.Stoppable
	if scheduler != nil {
		components = append(components, scheduler)
	}
	components = append(components, srv)
	go shutdown.Graceful(
		[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
		10*time.Second,
		logger,
		components...,
	)

	if err := srv.Run(); err != nil {
		logger.Error("HTTP server exited with error", "err", err)
	} else {
		logger.Info("HTTP server stopped")
	}
}
