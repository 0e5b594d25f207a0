// Package main is the entry point for the chatform HTTP server.
//
// The server answers the guided chat form: catalog listings (options,
// items, locations and their distinct filters), conversations and the
// messages posted into them. New messages are fanned out to websocket
// subscribers on /stream.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -store chatform.db -seed seed
//
//	# Development mode (console logs, debug level)
//	./server -dev -log-level debug -store :memory:
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
