package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/chatform/internal/domain/conversation"
	"github.com/GriffinCanCode/chatform/internal/shared/types"
)

// Response bodies of POST /messages, kept as clients match on them.
const (
	errMessageRequired      = "Message content and conversation ID are required"
	errConversationNotFound = "Conversation not found"
	errCreateMessage        = "Error creating message"
)

// CreateMessage stores a user message
func (h *Handlers) CreateMessage(c *gin.Context) {
	var req types.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMessageRequired})
		return
	}

	msg, err := h.conversations.CreateMessage(c.Request.Context(), req)
	switch {
	case errors.Is(err, conversation.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": errMessageRequired})
	case errors.Is(err, conversation.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errConversationNotFound})
	case err != nil:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errCreateMessage})
	default:
		c.JSON(http.StatusCreated, msg)
	}
}

// CreateConversation starts a conversation. The body is optional.
func (h *Handlers) CreateConversation(c *gin.Context) {
	var req types.CreateConversationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	conv, err := h.conversations.CreateConversation(c.Request.Context(), req)
	switch {
	case errors.Is(err, conversation.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating conversation"})
	default:
		c.JSON(http.StatusCreated, conv)
	}
}

// GetConversation returns one conversation
func (h *Handlers) GetConversation(c *gin.Context) {
	conv, err := h.conversations.GetConversation(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, conversation.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errConversationNotFound})
	case err != nil:
		h.logger.Error("failed to get conversation", zap.String("conversation_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
	default:
		c.JSON(http.StatusOK, conv)
	}
}

// ListMessages returns the messages of a conversation in creation order
func (h *Handlers) ListMessages(c *gin.Context) {
	messages, err := h.conversations.ListMessages(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, conversation.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errConversationNotFound})
	case err != nil:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
	default:
		c.JSON(http.StatusOK, messages)
	}
}
