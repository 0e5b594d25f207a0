package client

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/chatform/internal/domain/wizard"
	"github.com/GriffinCanCode/chatform/internal/shared/types"
)

// MessageEmitter posts each completed wizard request as a message.
// Without a configured conversation it creates one on first use.
type MessageEmitter struct {
	client *Client
	labels wizard.Labels
	logger *zap.Logger

	mu             sync.Mutex
	conversationID string
	sent           []types.Message
}

// NewMessageEmitter creates an emitter posting to conversationID, which may
// be empty.
func NewMessageEmitter(client *Client, conversationID string, labels wizard.Labels, logger *zap.Logger) *MessageEmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageEmitter{
		client:         client,
		labels:         labels,
		logger:         logger,
		conversationID: conversationID,
	}
}

// Emit composes req and posts it
func (e *MessageEmitter) Emit(ctx context.Context, req types.Request) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conversationID == "" {
		conv, err := e.client.CreateConversation(ctx, "")
		if err != nil {
			return err
		}
		e.conversationID = conv.ID
		e.logger.Info("conversation created", zap.String("conversation_id", conv.ID))
	}

	msg, err := e.client.CreateMessage(ctx, e.conversationID, wizard.Compose(req, e.labels))
	if err != nil {
		return err
	}

	e.sent = append(e.sent, msg)
	e.logger.Info("message sent",
		zap.String("conversation_id", msg.ConversationID),
		zap.String("message_id", msg.ID))
	return nil
}

// ConversationID returns the conversation messages are posted to
func (e *MessageEmitter) ConversationID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conversationID
}

// Last returns the most recently sent message
func (e *MessageEmitter) Last() (types.Message, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.sent) == 0 {
		return types.Message{}, false
	}
	return e.sent[len(e.sent)-1], true
}
