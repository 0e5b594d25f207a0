// Package middleware provides the gin middleware of the chatform API:
// CORS, per-client rate limiting, request ids, gzip compression, request
// logging and panic recovery.
package middleware
