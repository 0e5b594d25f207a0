package types

import "time"

// Conversation is a chat thread.
type Conversation struct {
	ID        string    `json:"id" yaml:"id" toml:"id"`
	Title     string    `json:"title" yaml:"title" toml:"title"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at" toml:"created_at"`
}

// Message is a single chat message attached to a conversation.
type Message struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	ConversationID string    `json:"conversationId"`
	IsUserMessage  bool      `json:"isUserMessage"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CreateMessageRequest is the body of POST /messages.
type CreateMessageRequest struct {
	Content        string `json:"content" validate:"required"`
	ConversationID string `json:"conversationId" validate:"required"`
}

// CreateConversationRequest is the body of POST /conversations.
type CreateConversationRequest struct {
	Title string `json:"title"`
}

// Request is what one pass through the wizard produces: the chosen option
// plus the items and locations selected for it, in selection order.
type Request struct {
	Option    *Option    `json:"option"`
	Items     []Item     `json:"items"`
	Locations []Location `json:"locations"`
}

// StreamEvent is pushed to websocket subscribers of a conversation.
type StreamEvent struct {
	Type    string   `json:"type"`
	Message *Message `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
}
