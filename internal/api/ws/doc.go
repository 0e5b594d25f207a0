// Package ws streams new messages of a conversation over a websocket.
//
// Clients connect to GET /stream?conversationId=<id>. The conversation must
// exist; otherwise the request fails with 404 before the upgrade.
//
// Server → client:
//   - message: a message was created in the conversation
//   - pong: reply to ping
//   - error: the client sent something the server does not understand
//
// Client → server:
//   - ping: keep-alive
package ws
