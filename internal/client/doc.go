// Package client is the HTTP client of the chatform API used by the
// terminal wizard.
//
// It implements wizard.Catalog over the catalog endpoints and posts composed
// requests as messages. Calls go through a rate limiter and a circuit
// breaker; client errors (4xx) do not count against the breaker. There are
// no automatic retries.
package client
