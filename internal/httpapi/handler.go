package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
)

// Conversation is the agent surface the chat API drives; satisfied by *agent.Agent
type Conversation interface {
	Reply(ctx context.Context, threadID, text string) string
	History(ctx context.Context, threadID string) ([]domain.Message, error)
	Reset(ctx context.Context, threadID string) error
	Threads(ctx context.Context) ([]string, error)
}

// Handler wires chat HTTP handlers to the agent
type Handler struct {
	conv   Conversation
	logger *logging.Logger
}

func NewHandler(conv Conversation, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{conv: conv, logger: logger}
}

type messageRequest struct {
	Message string `json:"message" binding:"required"`
}

type replyResponse struct {
	ThreadID string `json:"thread_id"`
	Reply    string `json:"reply"`
}

type historyResponse struct {
	ThreadID string           `json:"thread_id"`
	Messages []domain.Message `json:"messages"`
}

// RegisterRoutes attaches thread routes to the router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/threads", h.listThreads)
	rg.POST("/threads", h.createThread)
	rg.POST("/threads/:id/messages", h.postMessage)
	rg.GET("/threads/:id/messages", h.getMessages)
	rg.DELETE("/threads/:id", h.deleteThread)
}

func (h *Handler) createThread(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"thread_id": uuid.NewString()})
}

func (h *Handler) listThreads(c *gin.Context) {
	threads, err := h.conv.Threads(c.Request.Context())
	if err != nil {
		h.logger.Error("list threads failed", "err", err)
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to list threads", nil)
		return
	}
	if threads == nil {
		threads = []string{}
	}
	respondOK(c, gin.H{"threads": threads})
}

func (h *Handler) postMessage(c *gin.Context) {
	threadID := strings.TrimSpace(c.Param("id"))
	if threadID == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "thread id is required", nil)
		return
	}

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "message is required", []map[string]string{
			{"field": "message", "issue": "required"},
		})
		return
	}

	reply := h.conv.Reply(c.Request.Context(), threadID, strings.TrimSpace(req.Message))
	respondOK(c, replyResponse{ThreadID: threadID, Reply: reply})
}

func (h *Handler) getMessages(c *gin.Context) {
	threadID := c.Param("id")

	msgs, err := h.conv.History(c.Request.Context(), threadID)
	if err != nil {
		h.logger.Error("load history failed", "thread_id", threadID, "err", err)
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to load messages", nil)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	respondOK(c, historyResponse{ThreadID: threadID, Messages: msgs})
}

func (h *Handler) deleteThread(c *gin.Context) {
	threadID := c.Param("id")

	if err := h.conv.Reset(c.Request.Context(), threadID); err != nil {
		h.logger.Error("reset thread failed", "thread_id", threadID, "err", err)
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to reset thread", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
