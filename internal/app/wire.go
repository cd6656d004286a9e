//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/config"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain/job"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
)

var jobSet = wire.NewSet(
	provideJobRepository,
	provideSearchClient,
	provideJobProvider,
	job.NewServiceWithDeps,
)

// InitializeApp wires the full assistant: store, search, model, mail, tools and agent
func InitializeApp(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, func(), error) {
	wire.Build(
		jobSet,
		provideModel,
		provideSummarizer,
		provideMailer,
		provideTools,
		provideSessionStore,
		provideAgent,
		newApp,
	)
	return nil, nil, nil
}

// InitializeJobService wires only the job store and search client
func InitializeJobService(ctx context.Context, cfg config.Config, logger *logging.Logger) (*job.Service, func(), error) {
	wire.Build(jobSet)
	return nil, nil, nil
}

// InitializeJobStore opens only the configured job store
func InitializeJobStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (job.Repository, func(), error) {
	wire.Build(provideJobRepository)
	return nil, nil, nil
}
