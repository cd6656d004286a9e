// Package agent runs the step-bounded reasoning loop for one conversation turn.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/llm"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/session"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
)

const DefaultMaxSteps = 10

// ToolCaller dispatches tool calls; satisfied by *tools.Registry
type ToolCaller interface {
	Specs() []llm.ToolSpec
	Call(ctx context.Context, name string, args json.RawMessage) string
}

// Option configures Agent
type Option func(*Agent)

// WithMaxSteps sets the model step ceiling per turn
func WithMaxSteps(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxSteps = n
		}
	}
}

// WithSystemPrompt overrides the default system instruction
func WithSystemPrompt(p string) Option {
	return func(a *Agent) {
		if strings.TrimSpace(p) != "" {
			a.system = p
		}
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(a *Agent) {
		a.clock = clock
	}
}

type Agent struct {
	model    llm.ChatModel
	tools    ToolCaller
	sessions session.Store
	logger   *logging.Logger
	locks    *threadLocks
	maxSteps int
	system   string
	clock    func() time.Time
}

func New(model llm.ChatModel, tools ToolCaller, sessions session.Store, logger *logging.Logger, opts ...Option) (*Agent, error) {
	if model == nil {
		return nil, fmt.Errorf("agent: model is required")
	}
	if tools == nil {
		return nil, fmt.Errorf("agent: tools are required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("agent: session store is required")
	}
	if logger == nil {
		logger = logging.Nop()
	}

	a := &Agent{
		model:    model,
		tools:    tools,
		sessions: sessions,
		logger:   logger,
		locks:    newThreadLocks(),
		maxSteps: DefaultMaxSteps,
		system:   DefaultSystemPrompt,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Turn appends the user message and runs the model until it produces a
// final answer or the step ceiling is reached. Messages produced during the
// turn are persisted even when it fails.
func (a *Agent) Turn(ctx context.Context, threadID, text string) (string, error) {
	unlock := a.locks.lock(threadID)
	defer unlock()

	return a.turn(ctx, threadID, text)
}

// Reply is the top-level turn handler. Failures become a visible assistant
// message, so every user message gets an answer.
func (a *Agent) Reply(ctx context.Context, threadID, text string) string {
	unlock := a.locks.lock(threadID)
	defer unlock()

	answer, err := a.turn(ctx, threadID, text)
	if err == nil {
		return answer
	}

	msg := a.errorMessage(err)
	if appendErr := a.sessions.Append(ctx, threadID, a.message(domain.RoleAssistant, msg)); appendErr != nil {
		a.logger.Error("persist error reply failed", "thread_id", threadID, "err", appendErr)
	}
	return msg
}

// History returns the thread's messages
func (a *Agent) History(ctx context.Context, threadID string) ([]domain.Message, error) {
	return a.sessions.Load(ctx, threadID)
}

// Reset clears the thread
func (a *Agent) Reset(ctx context.Context, threadID string) error {
	unlock := a.locks.lock(threadID)
	defer unlock()

	return a.sessions.Clear(ctx, threadID)
}

// Threads lists known thread ids
func (a *Agent) Threads(ctx context.Context) ([]string, error) {
	return a.sessions.Threads(ctx)
}

func (a *Agent) turn(ctx context.Context, threadID, text string) (string, error) {
	log := a.logger.With("thread_id", threadID)

	pending := []domain.Message{a.message(domain.RoleUser, text)}

	history, err := a.sessions.Load(ctx, threadID)
	if err != nil {
		// keep the user message; Reply appends the error answer after it
		if appendErr := a.sessions.Append(ctx, threadID, pending...); appendErr != nil {
			log.Error("persist user message failed", "err", appendErr)
		}
		return "", fmt.Errorf("load history: %w", err)
	}

	persist := func() {
		if err := a.sessions.Append(ctx, threadID, pending...); err != nil {
			log.Error("persist turn failed", "err", err)
		}
	}

	specs := a.tools.Specs()
	for step := 1; step <= a.maxSteps; step++ {
		reply, err := a.model.Step(ctx, a.system, concat(history, pending), specs)
		if err != nil {
			persist()
			log.Error("model step failed", "step", step, "err", err)
			return "", fmt.Errorf("model step %d: %w", step, err)
		}

		if len(reply.ToolCalls) == 0 {
			pending = append(pending, a.message(domain.RoleAssistant, reply.Text))
			persist()
			log.Info("turn completed", "steps", step)
			return reply.Text, nil
		}

		call := a.message(domain.RoleAssistant, reply.Text)
		call.ToolCalls = reply.ToolCalls
		pending = append(pending, call)

		for _, tc := range reply.ToolCalls {
			log.Info("tool call", "step", step, "tool", tc.Name)
			out := a.tools.Call(ctx, tc.Name, tc.Arguments)

			obs := a.message(domain.RoleTool, out)
			obs.ToolCallID = tc.ID
			obs.ToolName = tc.Name
			pending = append(pending, obs)
		}

		if err := ctx.Err(); err != nil {
			persist()
			return "", err
		}
	}

	persist()
	log.Warn("turn hit step ceiling", "max_steps", a.maxSteps)
	return "", fmt.Errorf("%w after %d steps", domain.ErrMaxSteps, a.maxSteps)
}

func (a *Agent) errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMaxSteps):
		return fmt.Sprintf("Error: I could not finish this request within %d steps. Please try a simpler request.", a.maxSteps)
	case domain.IsTimeout(err):
		return "Error: the request timed out. Please try again."
	default:
		return "Error: " + err.Error()
	}
}

func (a *Agent) message(role domain.Role, content string) domain.Message {
	return domain.Message{Role: role, Content: content, CreatedAt: a.clock().UTC()}
}

func concat(a, b []domain.Message) []domain.Message {
	out := make([]domain.Message, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
