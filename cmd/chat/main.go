package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/app"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/config"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
)

func main() {
	thread := flag.String("thread", "", "conversation thread id (generated when empty)")
	flag.Parse()

	cfg, err := config.Load(config.NeedLLM, config.NeedSearch, config.NeedStore, config.NeedMail, config.NeedSessions)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if os.Getenv("LOG_FORMAT") == "" {
		cfg.LogFormat = "console"
	}

	logger := logging.NewWithFormat(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := app.InitializeApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	defer cleanup()

	threadID := *thread
	if threadID == "" {
		threadID = uuid.NewString()
	}

	if args := flag.Args(); len(args) > 0 {
		fmt.Println(a.Agent.Reply(ctx, threadID, strings.Join(args, " ")))
		return
	}

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("DATA SCIENCE JOB ASSISTANT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Thread: %s\n", threadID)
	fmt.Println("I can search Data Science jobs in Peru, save them, summarize them and email the summary.")
	fmt.Println("Type /reset to start over, 'quit' or 'exit' to end the session.")
	fmt.Println(strings.Repeat("=", 80))

	r := &repl{conv: a.Agent, threadID: threadID, in: os.Stdin, out: os.Stdout}
	if err := r.run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("chat session ended with error", "err", err)
	}
	fmt.Println("\nGoodbye.")
}
