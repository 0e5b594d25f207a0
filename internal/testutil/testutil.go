// Package testutil provides mocks and fixtures shared by chatform tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/GriffinCanCode/chatform/internal/shared/types"
)

// Fixture catalog used across packages.
var (
	OptionTowelCount = types.Option{ID: 1, Name: "stock", Description: "How many of these items are in stock?", AskForItem: true, AskForLocation: false}
	OptionOpening    = types.Option{ID: 2, Name: "opening", Description: "When does this place open?", AskForItem: false, AskForLocation: true}
	OptionDelivery   = types.Option{ID: 3, Name: "delivery", Description: "When will these items reach this place?", AskForItem: true, AskForLocation: true}
	OptionStatus     = types.Option{ID: 4, Name: "status", Description: "Is the service running normally?", AskForItem: false, AskForLocation: false}

	ItemBlueTowel  = types.Item{ID: 10, Name: "Blue bath towel", Category: types.CategoryTowel}
	ItemWhiteTowel = types.Item{ID: 11, Name: "White hand towel", Category: types.CategoryTowel}
	ItemBlueSheet  = types.Item{ID: 12, Name: "Blue flat sheet", Category: types.CategorySheet}
	ItemPillowCase = types.Item{ID: 13, Name: "Cotton pillow case", Category: types.CategoryPillowCase}

	LocationGrand   = types.Location{ID: 20, Name: "Grand Hotel", Type: types.LocationHotel}
	LocationHarbor  = types.Location{ID: 21, Name: "Harbor Hotel", Type: types.LocationHotel}
	LocationLaundry = types.Location{ID: 22, Name: "North Laundry", Type: types.LocationLaundry}
)

// Options returns every fixture option
func Options() []types.Option {
	return []types.Option{OptionTowelCount, OptionOpening, OptionDelivery, OptionStatus}
}

// Items returns every fixture item
func Items() []types.Item {
	return []types.Item{ItemBlueTowel, ItemWhiteTowel, ItemBlueSheet, ItemPillowCase}
}

// Locations returns every fixture location
func Locations() []types.Location {
	return []types.Location{LocationGrand, LocationHarbor, LocationLaundry}
}

// MockCatalog is a mock implementation of the wizard catalog.
type MockCatalog struct {
	mock.Mock
}

// ListOptions mocks the ListOptions method.
func (m *MockCatalog) ListOptions(ctx context.Context) ([]types.Option, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Option), args.Error(1)
}

// ListItems mocks the ListItems method.
func (m *MockCatalog) ListItems(ctx context.Context, q types.Query) ([]types.Item, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Item), args.Error(1)
}

// ListLocations mocks the ListLocations method.
func (m *MockCatalog) ListLocations(ctx context.Context, q types.Query) ([]types.Location, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Location), args.Error(1)
}

// ItemFilters mocks the ItemFilters method.
func (m *MockCatalog) ItemFilters(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// LocationFilters mocks the LocationFilters method.
func (m *MockCatalog) LocationFilters(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// NewMockCatalog creates a catalog mock whose filter lookups succeed with
// the fixture enumerations. Listings must be set up by the test.
func NewMockCatalog(t *testing.T) *MockCatalog {
	t.Helper()
	m := new(MockCatalog)
	m.On("ItemFilters", mock.Anything).Return([]string{"pillow_case", "sheet", "towel"}, nil).Maybe()
	m.On("LocationFilters", mock.Anything).Return([]string{"hotel", "laundry"}, nil).Maybe()
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockEmitter records emitted requests.
type MockEmitter struct {
	mock.Mock
}

// Emit mocks the Emit method.
func (m *MockEmitter) Emit(ctx context.Context, req types.Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
