// Package cache stores fetched page HTML keyed by a hash of the page URL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Store is a key-value store for raw page HTML.
type Store interface {
	// Get returns the cached HTML for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores html under key, replacing any previous value.
	Set(ctx context.Context, key, html string) error
}

// Counter is implemented by stores that can report their size.
type Counter interface {
	Len(ctx context.Context) (int, error)
}

// Key derives the cache key for a page URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "page:" + hex.EncodeToString(sum[:])
}
