package cache

import (
	"errors"
	"fmt"
)

// Sentinel errors for caching operations.
var (
	// ErrCacheMiss is returned by helpers that require a hit.
	ErrCacheMiss = errors.New("cache miss")

	// ErrBackend marks failures of the storage backend itself
	// (unreachable Redis, unwritable cache directory).
	ErrBackend = errors.New("cache backend error")
)

// backendError wraps err so that errors.Is(err, ErrBackend) holds.
func backendError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
}
