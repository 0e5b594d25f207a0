package conversation

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/chatform/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/chatform/internal/infrastructure/store"
	"github.com/GriffinCanCode/chatform/internal/shared/id"
	"github.com/GriffinCanCode/chatform/internal/shared/types"
)

// MaxContentLength bounds message content in bytes.
const MaxContentLength = 16 << 10

var (
	// ErrInvalidInput is returned for missing or unusable message fields.
	ErrInvalidInput = errors.New("conversation: invalid input")
	// ErrConversationNotFound is returned when the conversation does not exist.
	ErrConversationNotFound = errors.New("conversation: not found")
)

// Store is the persistence conversations need
type Store interface {
	CreateConversation(ctx context.Context, c types.Conversation) error
	GetConversation(ctx context.Context, id string) (types.Conversation, error)
	CreateMessage(ctx context.Context, m types.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]types.Message, error)
}

// Service manages conversations and messages
type Service struct {
	store    Store
	hub      *Hub
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	validate *validator.Validate
	policy   *bluemonday.Policy
	now      func() time.Time
}

// NewService creates a conversation service. hub and metrics may be nil.
func NewService(st Store, hub *Hub, metrics *monitoring.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    st,
		hub:      hub,
		metrics:  metrics,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		policy:   bluemonday.StrictPolicy(),
		now:      time.Now,
	}
}

// CreateConversation starts a new conversation
func (s *Service) CreateConversation(ctx context.Context, req types.CreateConversationRequest) (types.Conversation, error) {
	title := strings.TrimSpace(s.sanitize(req.Title))
	if len(title) > MaxContentLength {
		return types.Conversation{}, fmt.Errorf("%w: title too long", ErrInvalidInput)
	}

	conv := types.Conversation{
		ID:        id.NewConversationID().String(),
		Title:     title,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateConversation(ctx, conv); err != nil {
		s.logger.Error("failed to create conversation", zap.Error(err))
		return types.Conversation{}, err
	}

	if s.metrics != nil {
		s.metrics.IncConversations()
	}
	s.logger.Info("conversation created", zap.String("conversation_id", conv.ID))
	return conv, nil
}

// GetConversation returns a conversation or ErrConversationNotFound
func (s *Service) GetConversation(ctx context.Context, conversationID string) (types.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if errors.Is(err, store.ErrNotFound) {
		return types.Conversation{}, ErrConversationNotFound
	}
	return conv, err
}

// ListMessages returns the messages of an existing conversation
func (s *Service) ListMessages(ctx context.Context, conversationID string) ([]types.Message, error) {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, conversationID)
}

// CreateMessage stores a user message and publishes it to subscribers
func (s *Service) CreateMessage(ctx context.Context, req types.CreateMessageRequest) (types.Message, error) {
	if err := s.validate.Struct(req); err != nil {
		s.record("invalid")
		return types.Message{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(req.Content) > MaxContentLength {
		s.record("invalid")
		return types.Message{}, fmt.Errorf("%w: content longer than %d bytes", ErrInvalidInput, MaxContentLength)
	}

	content := strings.TrimSpace(s.sanitize(req.Content))
	if content == "" {
		s.record("invalid")
		return types.Message{}, fmt.Errorf("%w: content is empty", ErrInvalidInput)
	}

	msg := types.Message{
		ID:             id.NewMessageID().String(),
		Content:        content,
		ConversationID: req.ConversationID,
		IsUserMessage:  true,
		CreatedAt:      s.now().UTC(),
	}

	if err := s.store.CreateMessage(ctx, msg); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.record("not_found")
			return types.Message{}, ErrConversationNotFound
		}
		s.record("error")
		s.logger.Error("failed to create message",
			zap.String("conversation_id", req.ConversationID),
			zap.Error(err))
		return types.Message{}, err
	}

	s.record("success")
	if s.hub != nil {
		s.hub.Publish(msg)
	}
	return msg, nil
}

// maxSanitizePasses bounds the decode/sanitize loop for nested encodings
const maxSanitizePasses = 8

// sanitize strips markup and returns plain text. Decoded output is only
// returned once sanitizing it again is a no-op, so entity-encoded tags
// cannot survive decoding. Input that never settles stays escaped.
func (s *Service) sanitize(content string) string {
	text := content
	for i := 0; i < maxSanitizePasses; i++ {
		clean := s.policy.Sanitize(text)
		decoded := html.UnescapeString(clean)
		if decoded == text {
			return decoded
		}
		text = decoded
	}
	return s.policy.Sanitize(text)
}

func (s *Service) record(status string) {
	if s.metrics != nil {
		s.metrics.RecordMessage(status)
	}
}
