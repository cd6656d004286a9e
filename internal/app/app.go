package app

import (
	"time"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/agent"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain/job"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/summary"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/tools"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/mailer"
)

const defaultCloseTimeout = 5 * time.Second

// App holds the fully wired assistant
type App struct {
	Jobs       *job.Service
	Summarizer *summary.Summarizer
	Mailer     *mailer.Mailer
	Tools      *tools.Registry
	Agent      *agent.Agent
}

func newApp(jobs *job.Service, summarizer *summary.Summarizer, m *mailer.Mailer, registry *tools.Registry, a *agent.Agent) *App {
	return &App{
		Jobs:       jobs,
		Summarizer: summarizer,
		Mailer:     m,
		Tools:      registry,
		Agent:      a,
	}
}
