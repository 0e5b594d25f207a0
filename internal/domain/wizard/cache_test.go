package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/chatform/internal/shared/types"
	"github.com/GriffinCanCode/chatform/internal/testutil"
)

func TestFilterCachePopulatesOnce(t *testing.T) {
	src := testutil.NewMockCatalog(t)
	cache := NewFilterCache(nil)

	assert.False(t, cache.Populated())
	assert.Nil(t, cache.Values(types.KindItem))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, cache.Ensure(context.Background(), src))
		}()
	}
	wg.Wait()

	assert.True(t, cache.Populated())
	assert.Equal(t, []string{"pillow_case", "sheet", "towel"}, cache.Values(types.KindItem))
	assert.Equal(t, []string{"hotel", "laundry"}, cache.Values(types.KindLocation))
	assert.Nil(t, cache.Values(types.KindOption))
	src.AssertNumberOfCalls(t, "ItemFilters", 1)
	src.AssertNumberOfCalls(t, "LocationFilters", 1)
}

func TestFilterCacheFailureIsFinal(t *testing.T) {
	src := new(testutil.MockCatalog)
	src.On("ItemFilters", mock.Anything).Return(nil, errors.New("boom")).Once()
	src.On("LocationFilters", mock.Anything).Return(nil, errors.New("boom")).Once()

	cache := NewFilterCache(nil)
	require.NoError(t, cache.Ensure(context.Background(), src))
	require.NoError(t, cache.Ensure(context.Background(), src))

	assert.True(t, cache.Populated())
	assert.Empty(t, cache.Values(types.KindItem))
	assert.Empty(t, cache.Values(types.KindLocation))
	src.AssertExpectations(t)
}

func TestFilterCacheEnsureHonorsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	src := new(testutil.MockCatalog)
	src.On("ItemFilters", mock.Anything).Run(func(mock.Arguments) { <-release }).Return([]string{"towel"}, nil)
	src.On("LocationFilters", mock.Anything).Return([]string{"hotel"}, nil)

	cache := NewFilterCache(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := cache.Ensure(ctx, src)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, cache.Populated())
}
