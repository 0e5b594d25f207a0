// Package catalog serves the read-only request catalog: options, items,
// locations and the distinct builtin filter values of items and locations.
//
// Every query is timed into the catalog metrics and traced as a child span of
// the request. Listing filters are bounded in length; longer values fail with
// ErrInvalidQuery before reaching the store.
package catalog
