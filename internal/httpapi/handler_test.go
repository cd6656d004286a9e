package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
)

type fakeConversation struct {
	mu       sync.Mutex
	history  map[string][]domain.Message
	failList bool
}

func newFakeConversation() *fakeConversation {
	return &fakeConversation{history: map[string][]domain.Message{}}
}

func (f *fakeConversation) Reply(_ context.Context, threadID, text string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	reply := "echo: " + text
	f.history[threadID] = append(f.history[threadID],
		domain.Message{Role: domain.RoleUser, Content: text},
		domain.Message{Role: domain.RoleAssistant, Content: reply},
	)
	return reply
}

func (f *fakeConversation) History(_ context.Context, threadID string) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history[threadID], nil
}

func (f *fakeConversation) Reset(_ context.Context, threadID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.history, threadID)
	return nil
}

func (f *fakeConversation) Threads(context.Context) ([]string, error) {
	if f.failList {
		return nil, errors.New("redis down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.history))
	for id := range f.history {
		out = append(out, id)
	}
	return out, nil
}

func newTestEngine(conv Conversation) *gin.Engine {
	gin.SetMode(gin.TestMode)
	mcp := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	return NewEngine(NewHandler(conv, nil), mcp, logging.Nop())
}

func do(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestPostMessageReturnsReply(t *testing.T) {
	conv := newFakeConversation()
	engine := newTestEngine(conv)

	resp := do(engine, http.MethodPost, "/api/v1/threads/t1/messages", `{"message":"find data jobs"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out replyResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ThreadID != "t1" || out.Reply != "echo: find data jobs" {
		t.Fatalf("unexpected reply %+v", out)
	}
	if resp.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestPostMessageValidatesBody(t *testing.T) {
	engine := newTestEngine(newFakeConversation())

	resp := do(engine, http.MethodPost, "/api/v1/threads/t1/messages", `{"message":"   "}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	var out ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Error.Code != "validation_error" {
		t.Fatalf("unexpected error body %+v", out)
	}
}

func TestHistoryAndReset(t *testing.T) {
	conv := newFakeConversation()
	engine := newTestEngine(conv)

	do(engine, http.MethodPost, "/api/v1/threads/t1/messages", `{"message":"hi"}`)

	resp := do(engine, http.MethodGet, "/api/v1/threads/t1/messages", "")
	var hist historyResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(hist.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(hist.Messages))
	}

	resp = do(engine, http.MethodDelete, "/api/v1/threads/t1", "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	resp = do(engine, http.MethodGet, "/api/v1/threads/t1/messages", "")
	if err := json.Unmarshal(resp.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if hist.Messages == nil || len(hist.Messages) != 0 {
		t.Fatalf("expected empty message list, got %v", hist.Messages)
	}
}

func TestCreateThread(t *testing.T) {
	engine := newTestEngine(newFakeConversation())

	resp := do(engine, http.MethodPost, "/api/v1/threads", "")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var out map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["thread_id"] == "" {
		t.Fatalf("expected a thread id")
	}
}

func TestListThreadsError(t *testing.T) {
	conv := newFakeConversation()
	conv.failList = true
	engine := newTestEngine(conv)

	resp := do(engine, http.MethodGet, "/api/v1/threads", "")
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestHealthAndMCPMount(t *testing.T) {
	engine := newTestEngine(newFakeConversation())

	if resp := do(engine, http.MethodGet, "/healthz", ""); resp.Code != http.StatusOK || resp.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", resp.Code, resp.Body.String())
	}
	if resp := do(engine, http.MethodPost, "/mcp/stream", "{}"); resp.Code != http.StatusTeapot {
		t.Fatalf("expected MCP handler to be mounted, got %d", resp.Code)
	}
}

func TestRecoveryReturnsStandardError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID(), Recovery(logging.Nop()))
	engine.GET("/boom", func(*gin.Context) { panic("boom") })

	resp := do(engine, http.MethodGet, "/boom", "")
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var out ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Error.Code != "internal" {
		t.Fatalf("unexpected error body %+v", out)
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	engine := newTestEngine(newFakeConversation())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	if got := resp.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}
