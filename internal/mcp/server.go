// Package mcp exposes the job tools over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/tools"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
)

const (
	ServerName    = "agentai-jobsearch"
	ServerVersion = "0.1.0"
)

// Dispatcher runs a tool by name; satisfied by *tools.Registry
type Dispatcher interface {
	Lookup(name string) (tools.Tool, bool)
	Call(ctx context.Context, name string, args json.RawMessage) string
}

// NewServer builds an MCP server that forwards every registered job tool
// to the dispatcher
func NewServer(d Dispatcher, logger *logging.Logger) (*sdkmcp.Server, error) {
	if d == nil {
		return nil, fmt.Errorf("mcp: dispatcher is required")
	}
	if logger == nil {
		logger = logging.Nop()
	}

	s := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, nil)

	reg := &registrar{server: s, dispatch: d, logger: logger.Named("mcp")}
	if err := addTool[tools.SearchParams](reg, tools.KindSearchJobs); err != nil {
		return nil, err
	}
	if err := addTool[tools.SearchParams](reg, tools.KindSearchAndSave); err != nil {
		return nil, err
	}
	if err := addTool[tools.SummarizeParams](reg, tools.KindSummarizeRecent); err != nil {
		return nil, err
	}
	if err := addTool[tools.EmailParams](reg, tools.KindEmailSummary); err != nil {
		return nil, err
	}

	return s, nil
}

// Handler serves the server over streamable HTTP
func Handler(s *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return s
	}, nil)
}

type registrar struct {
	server   *sdkmcp.Server
	dispatch Dispatcher
	logger   *logging.Logger
}

func addTool[In any](r *registrar, kind tools.Kind) error {
	tool, ok := r.dispatch.Lookup(string(kind))
	if !ok {
		return fmt.Errorf("mcp: tool %q is not registered", kind)
	}

	sdkmcp.AddTool(r.server, &sdkmcp.Tool{
		Name:        string(kind),
		Description: tool.Description(),
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
		args, err := json.Marshal(in)
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s arguments: %w", kind, err)
		}

		r.logger.Debug("mcp tool call", "tool", kind)
		return textResult(r.dispatch.Call(ctx, string(kind), args)), nil, nil
	})
	return nil
}

// textResult returns a text-only ToolResult
func textResult(msg string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: msg},
		},
	}
}
