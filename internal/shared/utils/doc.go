// Package utils holds small helpers shared by the HTTP layer: content
// hashing and the entity tags derived from it.
package utils
