// Package snapshot is a small key-value handoff store for generated
// study material, keyed by user and kind. It lets the upload flow park a
// payload that a later request (quiz start, flashcard review) picks up
// without re-reading the database.
package snapshot

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no snapshot exists for the given key.
var ErrNotFound = errors.New("snapshot not found")

// Store persists one payload per (user, kind) pair. Put overwrites any
// previous payload for the same pair.
type Store interface {
	Put(ctx context.Context, userID int64, kind string, data []byte) error
	Get(ctx context.Context, userID int64, kind string) ([]byte, error)
	Delete(ctx context.Context, userID int64, kind string) error
}
