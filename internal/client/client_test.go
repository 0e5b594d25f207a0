package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/chatform/internal/domain/wizard"
	"github.com/GriffinCanCode/chatform/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/chatform/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/chatform/internal/shared/id"
	"github.com/GriffinCanCode/chatform/internal/shared/types"
	"github.com/GriffinCanCode/chatform/internal/testutil"
)

func newTestClient(t *testing.T, router http.Handler) *Client {
	return newLoggedTestClient(t, router, nil)
}

func newLoggedTestClient(t *testing.T, router http.Handler, logger *zap.Logger) *Client {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.APIURL = srv.URL
	cfg.Timeout = 2 * time.Second
	cfg.RateLimit = 0
	return New(cfg, logger)
}

func catalogRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/options", func(c *gin.Context) { c.JSON(http.StatusOK, testutil.Options()) })
	r.GET("/items", func(c *gin.Context) {
		if c.Query("category") == "towel" && c.Query("search") == "blue" {
			c.JSON(http.StatusOK, []types.Item{testutil.ItemBlueTowel})
			return
		}
		c.JSON(http.StatusOK, testutil.Items())
	})
	r.GET("/locations", func(c *gin.Context) {
		if c.Query("type") == "laundry" {
			c.JSON(http.StatusOK, []types.Location{testutil.LocationLaundry})
			return
		}
		c.JSON(http.StatusOK, testutil.Locations())
	})
	r.GET("/items/filters", func(c *gin.Context) { c.JSON(http.StatusOK, []string{"sheet", "towel"}) })
	r.GET("/locations/filters", func(c *gin.Context) { c.JSON(http.StatusOK, []string{"hotel"}) })
	return r
}

func TestCatalogCalls(t *testing.T) {
	c := newTestClient(t, catalogRouter())
	ctx := context.Background()

	options, err := c.ListOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutil.Options(), options)

	items, err := c.ListItems(ctx, types.Query{Builtin: "towel", Search: "blue"})
	require.NoError(t, err)
	assert.Equal(t, []types.Item{testutil.ItemBlueTowel}, items)

	locations, err := c.ListLocations(ctx, types.Query{Builtin: "laundry"})
	require.NoError(t, err)
	assert.Equal(t, []types.Location{testutil.LocationLaundry}, locations)

	filters, err := c.ItemFilters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sheet", "towel"}, filters)

	filters, err = c.LocationFilters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"hotel"}, filters)
}

func TestTransportLogsEachAttempt(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := catalogRouter()
	router.GET("/broken", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})
	c := newLoggedTestClient(t, router, zap.New(core))
	ctx := context.Background()

	_, err := c.ListItems(ctx, types.Query{Builtin: "towel"})
	require.NoError(t, err)

	requests := logs.FilterMessage("api request").All()
	require.Len(t, requests, 1)
	fields := requests[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/items", fields["path"])
	assert.Equal(t, "category=towel", fields["query"])
	assert.Equal(t, int64(0), fields["attempt"])

	responses := logs.FilterMessage("api response").All()
	require.Len(t, responses, 1)
	assert.Equal(t, zapcore.DebugLevel, responses[0].Level)
	assert.Equal(t, int64(http.StatusOK), responses[0].ContextMap()["status"])

	var ignored []string
	err = c.get(ctx, "/broken", nil, &ignored)
	require.Error(t, err)
	assert.Len(t, logs.FilterMessage("api request").All(), 2)
	failed := logs.FilterMessage("api response").FilterField(zap.Int("status", http.StatusInternalServerError)).All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
}

func TestAPIErrorBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/messages", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
	})
	c := newTestClient(t, r)

	_, err := c.CreateMessage(context.Background(), "missing", "hi")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Conversation not found", apiErr.Message)
	assert.True(t, IsNotFound(err))
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/messages", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content and conversation ID are required"})
	})
	c := newTestClient(t, r)

	for i := 0; i < 10; i++ {
		_, err := c.CreateMessage(context.Background(), "", "")
		require.Error(t, err)
	}
	assert.Equal(t, resilience.StateClosed, c.BreakerState())
}

func TestServerErrorsTripBreakerWithoutRetry(t *testing.T) {
	var calls atomic.Int32
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/options", func(c *gin.Context) {
		calls.Add(1)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch options"})
	})
	c := newTestClient(t, r)

	for i := 0; i < 5; i++ {
		_, err := c.ListOptions(context.Background())
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Failed to fetch options", apiErr.Message)
	}
	assert.Equal(t, int32(5), calls.Load())
	assert.Equal(t, resilience.StateOpen, c.BreakerState())

	_, err := c.ListOptions(context.Background())
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(5), calls.Load())
}

func TestTraceHeadersPropagate(t *testing.T) {
	var gotTrace atomic.Value
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/options", func(c *gin.Context) {
		gotTrace.Store(c.GetHeader(tracing.TraceHeader))
		c.JSON(http.StatusOK, []types.Option{})
	})
	c := newTestClient(t, r)

	traceID := id.NewTraceID()
	ctx := tracing.WithRemoteParent(context.Background(), traceID, id.NewSpanID())
	_, err := c.ListOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, traceID.String(), gotTrace.Load())
}

func TestMessageEmitterCreatesConversation(t *testing.T) {
	var (
		conversations atomic.Int32
		lastBody      atomic.Value
	)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/conversations", func(c *gin.Context) {
		conversations.Add(1)
		c.JSON(http.StatusCreated, types.Conversation{ID: "conv-1"})
	})
	r.POST("/messages", func(c *gin.Context) {
		var req types.CreateMessageRequest
		if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		lastBody.Store(req)
		c.JSON(http.StatusCreated, types.Message{ID: "msg_1", Content: req.Content, ConversationID: req.ConversationID, IsUserMessage: true})
	})
	c := newTestClient(t, r)

	emitter := NewMessageEmitter(c, "", wizard.EnglishLabels(), nil)
	option := testutil.OptionTowelCount
	req := types.Request{Option: &option, Items: []types.Item{testutil.ItemBlueTowel}}

	require.NoError(t, emitter.Emit(context.Background(), req))
	require.NoError(t, emitter.Emit(context.Background(), req))

	assert.Equal(t, int32(1), conversations.Load())
	assert.Equal(t, "conv-1", emitter.ConversationID())

	sent := lastBody.Load().(types.CreateMessageRequest)
	assert.Equal(t, "conv-1", sent.ConversationID)
	assert.Equal(t, wizard.Compose(req, wizard.EnglishLabels()), sent.Content)

	last, ok := emitter.Last()
	require.True(t, ok)
	assert.True(t, last.IsUserMessage)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("CHATFORM_API_URL", "http://desk:9000")
	t.Setenv("CHATFORM_TIMEOUT", "3s")
	t.Setenv("CHATFORM_LANG", "fr")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://desk:9000", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "fr", cfg.Lang)
}
