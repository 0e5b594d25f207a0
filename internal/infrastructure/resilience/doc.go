/*
Package resilience provides a circuit breaker for calls to the chatform API.

# Overview

The breaker has three states (Closed, Open, Half-Open). While open, calls fail
fast with ErrCircuitOpen. After Timeout a limited number of probes are let
through; success closes the breaker again.

# Usage

	breaker := resilience.New("catalog", resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	items, err := resilience.Call(breaker, func() ([]types.Item, error) {
		return fetchItems(ctx)
	})
*/
package resilience
