package wizard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/chatform/internal/shared/types"
)

// FilterSource lists the distinct builtin values per kind.
type FilterSource interface {
	ItemFilters(ctx context.Context) ([]string, error)
	LocationFilters(ctx context.Context) ([]string, error)
}

// FilterCache holds the builtin filter values for items and locations. It
// is filled once, on first use, and never invalidated. A failed load leaves
// an empty list for that kind.
type FilterCache struct {
	once      sync.Once
	populated chan struct{}
	items     []string
	locations []string
	logger    *zap.Logger
}

// NewFilterCache creates an empty cache
func NewFilterCache(logger *zap.Logger) *FilterCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilterCache{
		populated: make(chan struct{}),
		logger:    logger,
	}
}

// Ensure loads both lists from src the first time it is called. Concurrent
// callers wait for that load or for ctx to end.
func (c *FilterCache) Ensure(ctx context.Context, src FilterSource) error {
	c.once.Do(func() {
		go c.load(context.WithoutCancel(ctx), src)
	})

	select {
	case <-c.populated:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *FilterCache) load(ctx context.Context, src FilterSource) {
	defer close(c.populated)

	items, err := src.ItemFilters(ctx)
	if err != nil {
		c.logger.Warn("failed to load item filters", zap.Error(err))
		items = nil
	}
	locations, err := src.LocationFilters(ctx)
	if err != nil {
		c.logger.Warn("failed to load location filters", zap.Error(err))
		locations = nil
	}

	c.items = items
	c.locations = locations
}

// Populated reports whether the load has finished
func (c *FilterCache) Populated() bool {
	select {
	case <-c.populated:
		return true
	default:
		return false
	}
}

// Values returns the cached values for kind, nil until populated
func (c *FilterCache) Values(kind types.Kind) []string {
	if !c.Populated() {
		return nil
	}
	switch kind {
	case types.KindItem:
		return c.items
	case types.KindLocation:
		return c.locations
	default:
		return nil
	}
}
