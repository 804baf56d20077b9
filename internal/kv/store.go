// Package kv provides the local key-value storage the client keeps its
// session cache in. Multi-key writes and deletes are atomic.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is a string-keyed local store.
type Store interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Put writes every entry or none of them.
	Put(ctx context.Context, entries map[string]string) error
	// Delete removes every key or none of them. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
