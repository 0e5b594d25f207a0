// Package types provides the data structures shared by the chatform server,
// its HTTP client and the selection wizard.
//
// Catalog Types:
//   - Option: a request type, with flags deciding which selection steps apply
//   - Item: a selectable object with a builtin category
//   - Location: a selectable place with a builtin type
//   - Query: builtin filter and free-text search applied to a listing
//
// Conversation Types:
//   - Conversation: a chat thread messages are attached to
//   - Message: one chat message
//   - Request: the composed result of one pass through the wizard
//
// Example Usage:
//
//	items, err := catalog.ListItems(ctx, types.Query{Builtin: "towel", Search: "blue"})
package types
