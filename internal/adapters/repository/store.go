// Package repository persists shared ranking configurations.
package repository

import (
	"context"
	"time"
)

// Share is a named configuration string published by a user.
type Share struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Params    string    `json:"params"`
	Upvotes   int       `json:"upvotes"`
	CreatedAt time.Time `json:"created_at"`
}

// Store provides read/write access to shares.
type Store interface {
	// Create assigns an id and creation time to a new share and stores it.
	Create(ctx context.Context, name, params string) (Share, error)

	// List returns at most limit shares, newest first.
	List(ctx context.Context, limit int) ([]Share, error)

	// Get returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (Share, error)

	// Delete returns ErrNotFound if the id is unknown.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored shares.
	Count(ctx context.Context) (int, error)

	Close() error
}
