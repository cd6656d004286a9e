// Package app assembles the job assistant from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/agent"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/config"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain/job"
	jsearchProvider "github.com/Yoseph10/AgentAI-JobSearch/internal/domain/job/providers/jsearch"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/llm"
	llmprovider "github.com/Yoseph10/AgentAI-JobSearch/internal/llm/provider"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/session"
	memstore "github.com/Yoseph10/AgentAI-JobSearch/internal/storage/memory"
	mongostore "github.com/Yoseph10/AgentAI-JobSearch/internal/storage/mongo"
	neo4jstore "github.com/Yoseph10/AgentAI-JobSearch/internal/storage/neo4j"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/summary"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/tools"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/jsearch"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/mailer"
	pkgmongo "github.com/Yoseph10/AgentAI-JobSearch/pkg/mongo"
	n4j "github.com/Yoseph10/AgentAI-JobSearch/pkg/neo4j"
)

// provideJobRepository opens the configured job store backend
func provideJobRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (job.Repository, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		logger.Warn("using in-memory job store, records are lost on exit")
		return memstore.NewJobRepository(), func() {}, nil

	case config.StoreNeo4j:
		client, err := n4j.NewClient(n4j.Config{
			URI:      cfg.Store.Neo4j.URI,
			Username: cfg.Store.Neo4j.Username,
			Password: cfg.Store.Neo4j.Password,
			Database: cfg.Store.Neo4j.Database,
			Timeout:  cfg.Store.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() { closeWith(logger, "neo4j", client.Close) }

		repo := neo4jstore.NewJobRepository(client)
		if err := repo.EnsureConstraints(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}
		logger.Info("Neo4j job store initialized", "uri", cfg.Store.Neo4j.URI)
		return repo, cleanup, nil

	case config.StoreMongo, "":
		client, err := pkgmongo.NewClient(pkgmongo.Config{
			URI:        cfg.Store.Mongo.URI,
			Database:   cfg.Store.Mongo.Database,
			Collection: cfg.Store.Mongo.Collection,
			Timeout:    cfg.Store.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() { closeWith(logger, "mongo", client.Close) }

		repo := mongostore.NewJobRepository(client)
		if err := repo.EnsureIndexes(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}
		logger.Info("MongoDB job store initialized", "database", cfg.Store.Mongo.Database, "collection", cfg.Store.Mongo.Collection)
		return repo, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}
}

func provideSearchClient(cfg config.Config) (*jsearch.Client, error) {
	return jsearch.NewClient(jsearch.Config{
		APIKey:  cfg.Search.APIKey,
		Host:    cfg.Search.Host,
		BaseURL: cfg.Search.BaseURL,
		Timeout: cfg.Search.Timeout,
	})
}

func provideJobProvider(client *jsearch.Client) (job.Provider, error) {
	p, err := jsearchProvider.NewProvider(client)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func provideModel(ctx context.Context, cfg config.Config, logger *logging.Logger) (llm.Model, func(), error) {
	model, err := llmprovider.New(ctx, llmprovider.Config{
		Provider:     llmprovider.Type(cfg.LLM.Provider),
		Model:        cfg.LLM.Model,
		Temperature:  cfg.LLM.Temperature,
		Timeout:      cfg.LLM.Timeout,
		OpenAIAPIKey: cfg.LLM.OpenAIAPIKey,
		GeminiAPIKey: cfg.LLM.GeminiAPIKey,
	})
	if err != nil {
		return nil, nil, err
	}
	return model, func() {
		if err := model.Close(); err != nil {
			logger.Warn("model client close failed", "err", err)
		}
	}, nil
}

func provideSummarizer(model llm.Model, logger *logging.Logger) (*summary.Summarizer, error) {
	return summary.New(model, logger.Named("summary"))
}

func provideMailer(cfg config.Config) (*mailer.Mailer, error) {
	return mailer.New(mailer.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		From:     cfg.Mail.From,
		Password: cfg.Mail.Password,
		Timeout:  cfg.Mail.Timeout,
	})
}

func provideTools(cfg config.Config, jobs *job.Service, summarizer *summary.Summarizer, sender *mailer.Mailer, logger *logging.Logger) (*tools.Registry, error) {
	return newRegistry(cfg, jobs, summarizer, sender, logger)
}

func newRegistry(cfg config.Config, jobs tools.JobService, summarizer tools.Summarizer, sender tools.Sender, logger *logging.Logger) (*tools.Registry, error) {
	log := logger.Named("tools")
	summarize := tools.NewSummarizeRecent(jobs, summarizer, summary.ParseMode(cfg.Agent.SummaryMode), log)

	return tools.NewRegistry(log,
		tools.NewSearchJobs(jobs, log),
		tools.NewSearchAndSave(jobs, log),
		summarize,
		tools.NewEmailSummary(summarize, sender, cfg.Mail.Subject, log),
	)
}

// provideSessionStore opens the configured conversation memory backend
func provideSessionStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (session.Store, func(), error) {
	switch cfg.Sessions.Backend {
	case config.SessionRedis:
		rdb, err := session.NewRedisClient(ctx, cfg.Sessions.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Redis session store initialized")
		return session.NewRedisStore(rdb), func() {
			if err := rdb.Close(); err != nil {
				logger.Warn("redis close failed", "err", err)
			}
		}, nil

	case config.SessionMemory, "":
		return session.NewMemoryStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.Sessions.Backend)
	}
}

func provideAgent(cfg config.Config, model llm.Model, registry *tools.Registry, store session.Store, logger *logging.Logger) (*agent.Agent, error) {
	return agent.New(model, registry, store, logger.Named("agent"), agent.WithMaxSteps(cfg.Agent.MaxSteps))
}

func closeWith(logger *logging.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultCloseTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		logger.Warn("close failed", "component", name, "err", err)
	}
}
