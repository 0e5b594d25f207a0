// Package http provides the REST handlers of the chatform API.
//
// Catalog:
//   - GET /options
//   - GET /items?category=&search=
//   - GET /items/filters
//   - GET /locations?type=&search=
//   - GET /locations/filters
//
// Conversations:
//   - POST /conversations
//   - GET /conversations/:id
//   - GET /conversations/:id/messages
//   - POST /messages
//
// Failures respond with {"error": "..."}.
package http
