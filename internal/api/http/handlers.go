package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/chatform/internal/shared/types"
	"github.com/GriffinCanCode/chatform/internal/shared/utils"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

const healthTimeout = 2 * time.Second

// Catalog answers catalog listings
type Catalog interface {
	ListOptions(ctx context.Context) ([]types.Option, error)
	ListItems(ctx context.Context, q types.Query) ([]types.Item, error)
	ListLocations(ctx context.Context, q types.Query) ([]types.Location, error)
	ItemFilters(ctx context.Context) ([]string, error)
	LocationFilters(ctx context.Context) ([]string, error)
}

// Conversations manages conversations and messages
type Conversations interface {
	CreateConversation(ctx context.Context, req types.CreateConversationRequest) (types.Conversation, error)
	GetConversation(ctx context.Context, id string) (types.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]types.Message, error)
	CreateMessage(ctx context.Context, req types.CreateMessageRequest) (types.Message, error)
}

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers contains the HTTP handlers
type Handlers struct {
	catalog       Catalog
	conversations Conversations
	store         Pinger
	hasher        *utils.Hasher
	logger        *zap.Logger
}

// NewHandlers creates handlers
func NewHandlers(catalog Catalog, conversations Conversations, store Pinger, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		catalog:       catalog,
		conversations: conversations,
		store:         store,
		hasher:        utils.DefaultHasher(),
		logger:        logger,
	}
}

// Register mounts every route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	r.GET("/options", h.ListOptions)
	r.GET("/items", h.ListItems)
	r.GET("/items/filters", h.ItemFilters)
	r.GET("/locations", h.ListLocations)
	r.GET("/locations/filters", h.LocationFilters)

	r.POST("/conversations", h.CreateConversation)
	r.GET("/conversations/:id", h.GetConversation)
	r.GET("/conversations/:id/messages", h.ListMessages)
	r.POST("/messages", h.CreateMessage)
}

// Root reports the service is up
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "chatform",
		"version": Version,
	})
}

// Health reports store reachability
func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("store unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"store":  gin.H{"connected": false},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"store":  gin.H{"connected": true},
	})
}
