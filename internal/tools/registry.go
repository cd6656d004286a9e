package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/llm"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
)

// Registry stores and dispatches tools by name
type Registry struct {
	tools  map[Kind]Tool
	order  []Kind
	logger *logging.Logger
}

// NewRegistry creates a registry holding the given tools
func NewRegistry(logger *logging.Logger, tools ...Tool) (*Registry, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	r := &Registry{tools: make(map[Kind]Tool), logger: logger}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool to the registry
func (r *Registry) Register(tool Tool) error {
	name := tool.Name()
	if _, ok := r.tools[name]; ok {
		return fmt.Errorf("tool %q already registered", name)
	}

	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the tool registered under name
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[Kind(name)]
	return t, ok
}

// Tools lists registered tools in registration order
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.tools[k])
	}
	return out
}

// Specs exposes tool descriptors to the model
func (r *Registry) Specs() []llm.ToolSpec {
	out := make([]llm.ToolSpec, 0, len(r.order))
	for _, t := range r.Tools() {
		out = append(out, llm.ToolSpec{
			Name:        string(t.Name()),
			Description: t.Description(),
			Parameters:  t.Schema(),
		})
	}
	return out
}

// Call executes a tool by name and returns its text observation
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (out string) {
	tool, ok := r.Lookup(name)
	if !ok {
		r.logger.Warn("unknown tool requested", "tool", name)
		return fmt.Sprintf("Error: unknown tool %q.", name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool panicked", "tool", name, "panic", rec)
			out = fmt.Sprintf("Error: tool %s failed unexpectedly.", name)
		}
	}()

	r.logger.Debug("tool invoked", "tool", name, "args", string(args))
	return tool.Invoke(ctx, args)
}
