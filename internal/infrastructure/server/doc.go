// Package server assembles the chatform HTTP server: it opens and seeds the
// store, builds the catalog and conversation services, installs the
// middleware chain and mounts the REST, websocket and metrics routes.
package server
