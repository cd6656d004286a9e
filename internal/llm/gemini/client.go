package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/llm"
)

const (
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 60 * time.Second
)

var _ llm.Model = (*Client)(nil)

type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Client implements llm.Model on top of Gemini function calling
type Client struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
	}

	gc, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{client: gc, model: model, temperature: cfg.Temperature, timeout: timeout}, nil
}

func (c *Client) Step(ctx context.Context, system string, history []domain.Message, tools []llm.ToolSpec) (llm.Reply, error) {
	contents := toContents(history)
	if len(contents) == 0 {
		return llm.Reply{}, fmt.Errorf("gemini: empty conversation")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	m := c.newModel(system)
	if len(tools) > 0 {
		m.Tools = toTools(tools)
	}

	cs := m.StartChat()
	cs.History = contents[:len(contents)-1]
	last := contents[len(contents)-1]

	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return llm.Reply{}, fmt.Errorf("gemini API error: %w", domain.WrapTimeout(err))
	}

	return parseResponse(resp)
}

func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.newModel(system).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", domain.WrapTimeout(err))
	}

	reply, err := parseResponse(resp)
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) newModel(system string) *genai.GenerativeModel {
	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(c.temperature)
	if system != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	return m
}

func parseResponse(resp *genai.GenerateContentResponse) (llm.Reply, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return llm.Reply{}, fmt.Errorf("unexpected response format from Gemini")
	}

	var text strings.Builder
	var calls []domain.ToolCall
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text.WriteString(string(p))
		case genai.FunctionCall:
			args := p.Args
			if args == nil {
				args = map[string]any{}
			}
			raw, err := json.Marshal(args)
			if err != nil {
				return llm.Reply{}, fmt.Errorf("gemini: encode function args: %w", err)
			}
			calls = append(calls, domain.ToolCall{ID: uuid.NewString(), Name: p.Name, Arguments: raw})
		}
	}

	return llm.Reply{Text: text.String(), ToolCalls: calls}, nil
}

// toContents maps history onto Gemini roles. Tool observations travel as
// function responses in a user turn; adjacent turns of one role are merged.
func toContents(history []domain.Message) []*genai.Content {
	var out []*genai.Content
	push := func(role string, parts ...genai.Part) {
		if len(parts) == 0 {
			return
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Parts = append(out[n-1].Parts, parts...)
			return
		}
		out = append(out, &genai.Content{Role: role, Parts: parts})
	}

	for _, m := range history {
		switch m.Role {
		case domain.RoleUser:
			push("user", genai.Text(m.Content))
		case domain.RoleAssistant:
			var parts []genai.Part
			if m.Content != "" {
				parts = append(parts, genai.Text(m.Content))
			}
			for _, tc := range m.ToolCalls {
				args := map[string]any{}
				if len(tc.Arguments) > 0 {
					_ = json.Unmarshal(tc.Arguments, &args)
				}
				parts = append(parts, genai.FunctionCall{Name: tc.Name, Args: args})
			}
			push("model", parts...)
		case domain.RoleTool:
			push("user", genai.FunctionResponse{
				Name:     m.ToolName,
				Response: map[string]any{"result": m.Content},
			})
		}
	}

	return out
}

func toTools(specs []llm.ToolSpec) []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, s := range specs {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  toSchema(s.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func toSchema(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return &genai.Schema{Type: genai.TypeObject}
	}

	out := &genai.Schema{
		Type:        toType(s),
		Description: s.Description,
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toSchema(prop)
		}
	}
	if s.Items != nil {
		out.Items = toSchema(s.Items)
	}
	return out
}

func toType(s *jsonschema.Schema) genai.Type {
	t := s.Type
	if t == "" {
		for _, candidate := range s.Types {
			if candidate != "null" {
				t = candidate
				break
			}
		}
	}

	switch t {
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeObject
	}
}
