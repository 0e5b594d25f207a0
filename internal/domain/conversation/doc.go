// Package conversation creates conversations and the messages posted to them.
//
// Message content is sanitized with a strict HTML policy before it is
// stored. Every stored message is published on the Hub so websocket
// subscribers of the same conversation receive it.
package conversation
