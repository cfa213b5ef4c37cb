// Package storage persists named JSON documents. Two implementations
// exist: a local SQLite-backed store for guest sessions and an HTTP
// client for the authenticated remote file API. The Reconciler picks
// between them and owns the write debounce.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound signals that no document exists under the name.
	ErrNotFound = errors.New("blob not found")
	// ErrUnauthorized signals a missing or expired session on the
	// remote store. Callers treat it as retryable after login.
	ErrUnauthorized = errors.New("unauthorized")
)

// BlobStore is the persistence boundary the core works against: read
// and write one JSON document by name (e.g. "diary.json", "pain.json").
type BlobStore interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, doc []byte) error
}
