// Package localstore persists the client's local documents (collections,
// history, homework) as JSON values under string keys.
//
// Every write replaces the whole document. Readers that mutate must hold
// their own lock across load and save; there is no cross-process locking, so
// two processes sharing a store resolve conflicts last-writer-wins.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys of the persisted documents.
const (
	KeyCollections = "userCollections"
	KeyHistory     = "termHistory"
	KeyHomework    = "homework"

	// Presentation preferences. Reserved; nothing in this module reads them.
	KeyTheme         = "theme"
	KeyFont          = "font"
	KeyFontSize      = "fontSize"
	KeyTickerStopped = "tickerStopped"
)

// ErrCorrupt is returned when a stored value is not valid JSON for the
// requested type.
var ErrCorrupt = errors.New("localstore: corrupt value")

// Store is a key-value store of raw JSON documents.
type Store interface {
	// Get returns the stored bytes and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Load decodes the document stored under key, returning def when absent.
func Load[T any](ctx context.Context, s Store, key string, def T) (T, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return def, fmt.Errorf("localstore: get %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return def, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return v, nil
}

// Save encodes v and stores it under key.
func Save[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("localstore: encode %s: %w", key, err)
	}
	if err := s.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("localstore: put %s: %w", key, err)
	}
	return nil
}
