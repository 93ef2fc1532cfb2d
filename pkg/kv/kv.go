package kv

import (
	"encoding/json"
	"errors"
)

var (
	// ErrNotFound is returned when an operation targets a key that is
	// not present in the store.
	ErrNotFound = errors.New("kv: key not found")

	// ErrKeyExists is returned by Create when the key is already present.
	ErrKeyExists = errors.New("kv: key already exists")
)

// Store defines the interface for a JSON key-value store.
// Values are opaque JSON documents; the store never inspects them.
// Implementations of this interface can be swapped out, allowing for
// different storage backends (e.g., in-memory, bbolt-backed).
//
// Create, Replace and Delete must perform their existence check and
// the mutation atomically: two concurrent Creates for the same key
// must not both succeed.
type Store interface {
	// Create inserts a new entry. It never overwrites: if the key is
	// already present it returns ErrKeyExists and leaves the stored
	// value untouched.
	Create(key string, value json.RawMessage) error

	// Get retrieves the value stored under key.
	// Returns ErrNotFound if the key is not present.
	Get(key string) (json.RawMessage, error)

	// Replace overwrites the value of an existing entry wholesale.
	// There are no merge semantics. Returns ErrNotFound if the key is
	// not present.
	Replace(key string, value json.RawMessage) error

	// Delete removes an entry.
	// Returns ErrNotFound if the key is not present.
	Delete(key string) error

	// Count reports the number of entries currently stored.
	Count() (int, error)
}
