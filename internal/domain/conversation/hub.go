package conversation

import (
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/chatform/internal/shared/types"
)

const subscriberBuffer = 16

// EventMessage is the stream event type for a new message.
const EventMessage = "message"

// Hub fans out new messages to the subscribers of their conversation
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	logger *zap.Logger
}

type subscriber struct {
	events chan types.StreamEvent
	once   sync.Once
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:   make(map[string]map[*subscriber]struct{}),
		logger: logger,
	}
}

// Subscribe registers for the events of a conversation. The returned cancel
// function unregisters and closes the channel; it is safe to call twice.
func (h *Hub) Subscribe(conversationID string) (<-chan types.StreamEvent, func()) {
	sub := &subscriber{events: make(chan types.StreamEvent, subscriberBuffer)}

	h.mu.Lock()
	if h.subs[conversationID] == nil {
		h.subs[conversationID] = make(map[*subscriber]struct{})
	}
	h.subs[conversationID][sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs[conversationID], sub)
		if len(h.subs[conversationID]) == 0 {
			delete(h.subs, conversationID)
		}
		h.mu.Unlock()
		sub.once.Do(func() { close(sub.events) })
	}
	return sub.events, cancel
}

// Publish delivers msg to every subscriber of its conversation. A
// subscriber whose buffer is full misses the event.
func (h *Hub) Publish(msg types.Message) {
	event := types.StreamEvent{Type: EventMessage, Message: &msg}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[msg.ConversationID] {
		select {
		case sub.events <- event:
		default:
			h.logger.Warn("dropping stream event for slow subscriber",
				zap.String("conversation_id", msg.ConversationID),
				zap.String("message_id", msg.ID))
		}
	}
}

// Subscribers returns the number of subscribers of a conversation
func (h *Hub) Subscribers(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[conversationID])
}
