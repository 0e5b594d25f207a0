// Package store persists the chatform catalog and conversations in SQLite.
//
// The catalog (options, items, locations) is read-only at runtime and is
// loaded from seed files at startup. Conversations and messages are written
// by the API. Messages reference their conversation through a foreign key;
// inserting a message for an unknown conversation fails with ErrNotFound.
//
// The pure-Go glebarez/go-sqlite driver is used so the server builds without
// cgo.
package store
