package wizard

import "github.com/GriffinCanCode/chatform/internal/shared/types"

// NoFilter is the dropdown entry that clears the builtin filter.
const NoFilter = "none"

// Filter is the builtin filter and search text applied to the listing of
// the current step, plus whether the filter panel is expanded.
type Filter struct {
	builtin   string
	search    string
	panelOpen bool
}

// SetBuiltin applies a builtin filter value. NoFilter or "" clears it;
// any other value sets it and collapses the panel. It reports whether the
// query changed.
func (f *Filter) SetBuiltin(value string) bool {
	if value == NoFilter {
		value = ""
	}
	if value != "" {
		f.panelOpen = false
	}
	if value == f.builtin {
		return false
	}
	f.builtin = value
	return true
}

// SetSearch applies the free-text search. An empty string means no search.
// It reports whether the query changed.
func (f *Filter) SetSearch(text string) bool {
	if text == f.search {
		return false
	}
	f.search = text
	return true
}

// TogglePanel expands or collapses the filter panel
func (f *Filter) TogglePanel() {
	f.panelOpen = !f.panelOpen
}

// Reset clears both filters and collapses the panel
func (f *Filter) Reset() {
	*f = Filter{}
}

// Builtin returns the active builtin filter, "" when none
func (f Filter) Builtin() string { return f.builtin }

// Search returns the active search text
func (f Filter) Search() string { return f.search }

// PanelOpen reports whether the filter panel is expanded
func (f Filter) PanelOpen() bool { return f.panelOpen }

// Query returns the catalog query for the current filters
func (f Filter) Query() types.Query {
	return types.Query{Builtin: f.builtin, Search: f.search}
}
