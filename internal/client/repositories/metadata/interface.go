// Package metadata is the device key-value store that keeps state across
// restarts: the serialized session, the chosen locale, the theme and the
// first-run flag. Two backends exist, SQLite and bbolt.
package metadata

import (
	"context"
)

// Repository is a flat key-value store.
//
// Get returns (nil, nil) for an absent key. Delete of an absent key is not
// an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
