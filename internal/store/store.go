// Package store is the persisted key-value store shared by every open tab.
//
// Keys and values are text. Implementations make no transactional promise:
// two tabs writing at once both succeed and the last write to a key wins.
// Keys enumerates in the store's native order, which for both implementations
// here is first-insertion order.
package store

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyKey is returned for blank keys.
var ErrEmptyKey = errors.New("store: key is required")

// Store is the storage port used by tab records and level progress.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}
