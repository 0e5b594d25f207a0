package types

import "fmt"

// Kind names one of the three catalog entity kinds.
type Kind string

const (
	KindOption   Kind = "option"
	KindItem     Kind = "item"
	KindLocation Kind = "location"
)

// String returns the kind name
func (k Kind) String() string { return string(k) }

// ItemCategory is the builtin category of an Item.
type ItemCategory string

const (
	CategoryTowel      ItemCategory = "towel"
	CategorySheet      ItemCategory = "sheet"
	CategoryPillowCase ItemCategory = "pillow_case"
)

// ItemCategories lists every valid ItemCategory in declaration order.
var ItemCategories = []ItemCategory{CategoryTowel, CategorySheet, CategoryPillowCase}

// Valid reports whether c is a known category
func (c ItemCategory) Valid() bool {
	for _, known := range ItemCategories {
		if c == known {
			return true
		}
	}
	return false
}

// LocationType is the builtin type of a Location.
type LocationType string

const (
	LocationHotel   LocationType = "hotel"
	LocationLaundry LocationType = "laundry"
)

// LocationTypes lists every valid LocationType in declaration order.
var LocationTypes = []LocationType{LocationHotel, LocationLaundry}

// Valid reports whether t is a known location type
func (t LocationType) Valid() bool {
	for _, known := range LocationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Option is a request type the user picks first.
type Option struct {
	ID             int    `json:"id" yaml:"id" toml:"id"`
	Name           string `json:"name" yaml:"name" toml:"name"`
	Description    string `json:"description" yaml:"description" toml:"description"`
	AskForItem     bool   `json:"ask_for_item" yaml:"ask_for_item" toml:"ask_for_item"`
	AskForLocation bool   `json:"ask_for_location" yaml:"ask_for_location" toml:"ask_for_location"`
}

// Item is an object that can be attached to a request.
type Item struct {
	ID       int          `json:"id" yaml:"id" toml:"id"`
	Name     string       `json:"name" yaml:"name" toml:"name"`
	Category ItemCategory `json:"category" yaml:"category" toml:"category"`
}

// Location is a place that can be attached to a request.
type Location struct {
	ID   int          `json:"id" yaml:"id" toml:"id"`
	Name string       `json:"name" yaml:"name" toml:"name"`
	Type LocationType `json:"type" yaml:"type" toml:"type"`
}

// Query scopes an item or location listing. Empty fields are not applied.
type Query struct {
	Builtin string `json:"builtin,omitempty"`
	Search  string `json:"search,omitempty"`
}

// IsZero reports whether no filter is set
func (q Query) IsZero() bool {
	return q.Builtin == "" && q.Search == ""
}

// String renders the query for logs and cache keys
func (q Query) String() string {
	return fmt.Sprintf("builtin=%q search=%q", q.Builtin, q.Search)
}
