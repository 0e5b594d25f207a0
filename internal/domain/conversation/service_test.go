package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/chatform/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/chatform/internal/infrastructure/store"
	"github.com/GriffinCanCode/chatform/internal/shared/types"
)

func newService(t *testing.T) (*Service, *Hub, *monitoring.Metrics) {
	t.Helper()
	st, err := store.Open(context.Background(), ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	hub := NewHub(zap.NewNop())
	metrics := monitoring.NewMetrics()
	return NewService(st, hub, metrics, zap.NewNop()), hub, metrics
}

func TestCreateConversation(t *testing.T) {
	svc, _, metrics := newService(t)
	ctx := context.Background()

	conv, err := svc.CreateConversation(ctx, types.CreateConversationRequest{Title: "<b>Front</b> desk"})
	require.NoError(t, err)
	assert.Equal(t, "Front desk", conv.Title)
	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ConversationsCreated))

	got, err := svc.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)

	_, err = svc.GetConversation(ctx, "missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestCreateMessage(t *testing.T) {
	svc, _, metrics := newService(t)
	ctx := context.Background()
	conv, err := svc.CreateConversation(ctx, types.CreateConversationRequest{})
	require.NoError(t, err)

	msg, err := svc.CreateMessage(ctx, types.CreateMessageRequest{
		Content:        "How many towels & sheets?",
		ConversationID: conv.ID,
	})
	require.NoError(t, err)
	assert.True(t, msg.IsUserMessage)
	assert.Equal(t, "How many towels & sheets?", msg.Content)
	assert.Equal(t, conv.ID, msg.ConversationID)
	assert.True(t, strings.HasPrefix(msg.ID, "msg_"))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MessagesCreated.WithLabelValues("success")))

	messages, err := svc.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, msg.ID, messages[0].ID)
}

func TestCreateMessageInvalid(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	conv, err := svc.CreateConversation(ctx, types.CreateConversationRequest{})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  types.CreateMessageRequest
	}{
		{"missing content", types.CreateMessageRequest{ConversationID: conv.ID}},
		{"missing conversation", types.CreateMessageRequest{Content: "hello"}},
		{"markup only", types.CreateMessageRequest{Content: "<script></script>", ConversationID: conv.ID}},
		{"whitespace", types.CreateMessageRequest{Content: "   ", ConversationID: conv.ID}},
		{"too long", types.CreateMessageRequest{Content: strings.Repeat("a", MaxContentLength+1), ConversationID: conv.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateMessage(ctx, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateMessageStripsMarkup(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	conv, err := svc.CreateConversation(ctx, types.CreateConversationRequest{})
	require.NoError(t, err)

	msg, err := svc.CreateMessage(ctx, types.CreateMessageRequest{
		Content:        `<a href="javascript:alert(1)">Grand Hotel</a> opening?`,
		ConversationID: conv.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Grand Hotel opening?", msg.Content)
}

func TestEncodedMarkupIsStripped(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	conv, err := svc.CreateConversation(ctx, types.CreateConversationRequest{Title: "&lt;img src=x onerror=alert(1)&gt;"})
	require.NoError(t, err)
	assert.NotContains(t, conv.Title, "<")
	assert.NotContains(t, conv.Title, "onerror")

	conv, err = svc.CreateConversation(ctx, types.CreateConversationRequest{Title: "&lt;b&gt;Front&lt;/b&gt; desk"})
	require.NoError(t, err)
	assert.Equal(t, "Front desk", conv.Title)

	_, err = svc.CreateMessage(ctx, types.CreateMessageRequest{
		Content:        "&lt;script&gt;alert(1)&lt;/script&gt;",
		ConversationID: conv.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	msg, err := svc.CreateMessage(ctx, types.CreateMessageRequest{
		Content:        "&amp;lt;b&amp;gt;towels&amp;lt;/b&amp;gt; &lt;script&gt;alert(1)&lt;/script&gt;",
		ConversationID: conv.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "towels", msg.Content)

	msgs, err := svc.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	for _, m := range msgs {
		assert.NotContains(t, m.Content, "<")
	}
}

func TestCreateMessageUnknownConversation(t *testing.T) {
	svc, _, metrics := newService(t)

	_, err := svc.CreateMessage(context.Background(), types.CreateMessageRequest{
		Content:        "hello",
		ConversationID: "6f1c2a52-8d0e-4f57-9a39-0a4b7c2b5e11",
	})
	assert.ErrorIs(t, err, ErrConversationNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MessagesCreated.WithLabelValues("not_found")))

	_, err = svc.ListMessages(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

type failingStore struct {
	Store
}

func (failingStore) CreateMessage(context.Context, types.Message) error {
	return errors.New("disk full")
}

func TestCreateMessageStoreFailure(t *testing.T) {
	svc := NewService(failingStore{}, nil, nil, nil)

	_, err := svc.CreateMessage(context.Background(), types.CreateMessageRequest{Content: "hi", ConversationID: "c1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConversationNotFound)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestCreateMessagePublishes(t *testing.T) {
	svc, hub, _ := newService(t)
	ctx := context.Background()
	conv, err := svc.CreateConversation(ctx, types.CreateConversationRequest{})
	require.NoError(t, err)

	events, cancel := hub.Subscribe(conv.ID)
	defer cancel()

	msg, err := svc.CreateMessage(ctx, types.CreateMessageRequest{Content: "hello", ConversationID: conv.ID})
	require.NoError(t, err)

	select {
	case event := <-events:
		assert.Equal(t, EventMessage, event.Type)
		require.NotNil(t, event.Message)
		assert.Equal(t, msg.ID, event.Message.ID)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}
