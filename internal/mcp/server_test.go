package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/tools"
)

type echoTool struct {
	kind tools.Kind
}

func (e echoTool) Name() tools.Kind           { return e.kind }
func (e echoTool) Description() string        { return "echo " + string(e.kind) }
func (e echoTool) Schema() *jsonschema.Schema { return &jsonschema.Schema{Type: "object"} }
func (e echoTool) Invoke(_ context.Context, args json.RawMessage) string {
	return string(e.kind) + " " + string(args)
}

func newRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	reg, err := tools.NewRegistry(nil,
		echoTool{tools.KindSearchJobs},
		echoTool{tools.KindSearchAndSave},
		echoTool{tools.KindSummarizeRecent},
		echoTool{tools.KindEmailSummary},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func connect(t *testing.T, s *sdkmcp.Server) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := s.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestServerListsJobTools(t *testing.T) {
	s, err := NewServer(newRegistry(t), nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	session := connect(t, s)

	res, err := session.ListTools(context.Background(), &sdkmcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}

	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []tools.Kind{tools.KindSearchJobs, tools.KindSearchAndSave, tools.KindSummarizeRecent, tools.KindEmailSummary} {
		if !names[string(want)] {
			t.Fatalf("tool %s missing from %v", want, names)
		}
	}
}

func TestServerForwardsArguments(t *testing.T) {
	s, err := NewServer(newRegistry(t), nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	session := connect(t, s)

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      string(tools.KindEmailSummary),
		Arguments: map[string]any{"recipient": "ana@example.com"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("expected one content block, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	if !strings.HasPrefix(text.Text, "email_summary ") || !strings.Contains(text.Text, "ana@example.com") {
		t.Fatalf("unexpected output %q", text.Text)
	}
}

func TestNewServerRequiresEveryTool(t *testing.T) {
	reg, err := tools.NewRegistry(nil, echoTool{tools.KindSearchJobs})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if _, err := NewServer(reg, nil); err == nil {
		t.Fatalf("expected error when a tool is missing")
	}
}
