package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/chatform/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/chatform/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/chatform/internal/shared/types"
)

// MaxFilterLength bounds the builtin and search parameters in bytes.
const MaxFilterLength = 128

// ErrInvalidQuery is returned for filter values longer than MaxFilterLength.
var ErrInvalidQuery = errors.New("catalog: invalid query")

// Store is the persistence the catalog reads from
type Store interface {
	ListOptions(ctx context.Context) ([]types.Option, error)
	ListItems(ctx context.Context, q types.Query) ([]types.Item, error)
	ListLocations(ctx context.Context, q types.Query) ([]types.Location, error)
	ItemCategories(ctx context.Context) ([]string, error)
	LocationTypes(ctx context.Context) ([]string, error)
}

// Service answers catalog queries
type Service struct {
	store   Store
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer
	logger  *zap.Logger
}

// NewService creates a catalog service. metrics and tracer may be nil.
func NewService(store Store, metrics *monitoring.Metrics, tracer *tracing.Tracer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		metrics: metrics,
		tracer:  tracer,
		logger:  logger,
	}
}

// ListOptions returns every option
func (s *Service) ListOptions(ctx context.Context) ([]types.Option, error) {
	return observe(ctx, s, "options", types.Query{}, s.store.ListOptions)
}

// ListItems returns the items matching q
func (s *Service) ListItems(ctx context.Context, q types.Query) ([]types.Item, error) {
	if err := validate(q); err != nil {
		return nil, err
	}
	return observe(ctx, s, "items", q, func(ctx context.Context) ([]types.Item, error) {
		return s.store.ListItems(ctx, q)
	})
}

// ListLocations returns the locations matching q
func (s *Service) ListLocations(ctx context.Context, q types.Query) ([]types.Location, error) {
	if err := validate(q); err != nil {
		return nil, err
	}
	return observe(ctx, s, "locations", q, func(ctx context.Context) ([]types.Location, error) {
		return s.store.ListLocations(ctx, q)
	})
}

// ItemFilters returns the distinct item categories
func (s *Service) ItemFilters(ctx context.Context) ([]string, error) {
	return observe(ctx, s, "item_filters", types.Query{}, s.store.ItemCategories)
}

// LocationFilters returns the distinct location types
func (s *Service) LocationFilters(ctx context.Context) ([]string, error) {
	return observe(ctx, s, "location_filters", types.Query{}, s.store.LocationTypes)
}

func validate(q types.Query) error {
	if len(q.Builtin) > MaxFilterLength {
		return fmt.Errorf("%w: builtin filter longer than %d bytes", ErrInvalidQuery, MaxFilterLength)
	}
	if len(q.Search) > MaxFilterLength {
		return fmt.Errorf("%w: search longer than %d bytes", ErrInvalidQuery, MaxFilterLength)
	}
	return nil
}

func observe[T any](ctx context.Context, s *Service, kind string, q types.Query, fn func(context.Context) ([]T, error)) ([]T, error) {
	timer := monitoring.NewTimer(s.metrics, kind)

	var span *tracing.Span
	if s.tracer != nil {
		span, ctx = s.tracer.StartSpan(ctx, "catalog."+kind)
		if !q.IsZero() {
			span.SetTag("query", q.String())
		}
		defer func() {
			span.Finish()
			s.tracer.Submit(span)
		}()
	}

	values, err := fn(ctx)
	if err != nil {
		timer.Stop("error")
		if span != nil {
			span.SetError(err)
		}
		s.logger.Error("catalog query failed",
			zap.String("kind", kind),
			zap.Stringer("query", q),
			zap.Error(err))
		return nil, err
	}

	timer.Stop("success")
	if values == nil {
		values = []T{}
	}
	return values, nil
}
