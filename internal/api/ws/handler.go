package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/chatform/internal/domain/conversation"
	"github.com/GriffinCanCode/chatform/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/chatform/internal/shared/types"
)

const (
	writeTimeout   = 10 * time.Second
	maxInboundSize = 4 << 10
)

// Inbound is a client frame
type Inbound struct {
	Type string `json:"type"`
}

// ConversationLookup checks a conversation exists
type ConversationLookup interface {
	GetConversation(ctx context.Context, id string) (types.Conversation, error)
}

// Handler manages websocket connections
type Handler struct {
	conversations ConversationLookup
	hub           *conversation.Hub
	metrics       *monitoring.Metrics
	logger        *zap.Logger
	upgrader      websocket.Upgrader
}

// NewHandler creates a websocket handler. metrics may be nil.
func NewHandler(conversations ConversationLookup, hub *conversation.Hub, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		conversations: conversations,
		hub:           hub,
		metrics:       metrics,
		logger:        logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection upgrades the request and streams the conversation
func (h *Handler) HandleConnection(c *gin.Context) {
	conversationID := c.Query("conversationId")
	if conversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId is required"})
		return
	}

	if _, err := h.conversations.GetConversation(c.Request.Context(), conversationID); err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		h.logger.Error("stream lookup failed", zap.String("conversation_id", conversationID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	events, cancel := h.hub.Subscribe(conversationID)
	defer cancel()

	s := &session{conn: conn, handler: h}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			if err := s.send(event); err != nil {
				return
			}
		}
	}()

	h.logger.Debug("stream opened", zap.String("conversation_id", conversationID))
	s.readLoop()

	cancel()
	<-done
	h.logger.Debug("stream closed", zap.String("conversation_id", conversationID))
}

// session serializes writes to one connection
type session struct {
	conn    *websocket.Conn
	handler *Handler
	mu      sync.Mutex
}

func (s *session) send(event types.StreamEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.conn.WriteJSON(event); err != nil {
		return err
	}
	if s.handler.metrics != nil {
		s.handler.metrics.RecordWSMessage("out", event.Type)
	}
	return nil
}

// inboundLabel keeps the metric label set closed whatever clients send
func inboundLabel(msgType string) string {
	switch msgType {
	case "ping":
		return msgType
	default:
		return "unknown"
	}
}

func (s *session) readLoop() {
	s.conn.SetReadLimit(maxInboundSize)

	for {
		var msg Inbound
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.handler.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		if s.handler.metrics != nil {
			s.handler.metrics.RecordWSMessage("in", inboundLabel(msg.Type))
		}

		var err error
		switch msg.Type {
		case "ping":
			err = s.send(types.StreamEvent{Type: "pong"})
		default:
			err = s.send(types.StreamEvent{Type: "error", Error: "unknown message type"})
		}
		if err != nil {
			return
		}
	}
}
