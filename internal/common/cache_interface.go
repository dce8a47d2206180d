package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// CacheInterface defines the contract for cache implementations
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Get retrieves a value from cache by key
	// Returns the value and true if found, nil and false otherwise
	Get(key string) (interface{}, bool)

	// GetOrSet retrieves a value from cache, or loads it using the loader function if not found
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error

	// Backend names the implementation for health output
	Backend() string

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// CacheGetAs reads key and converts it to T. The in-memory backend hands back
// the stored value as is, Redis hands back decoded JSON, so both shapes are
// accepted.
func CacheGetAs[T any](c CacheInterface, key string) (T, bool) {
	val, found := c.Get(key)
	if !found {
		var zero T
		return zero, false
	}
	return cachedAs[T](val)
}

// CacheGetOrSetAs is GetOrSet with the result converted to T.
func CacheGetOrSetAs[T any](c CacheInterface, key string, duration time.Duration, loader func() (T, error)) (T, error) {
	val, err := c.GetOrSet(key, duration, func() (any, error) {
		return loader()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	out, ok := cachedAs[T](val)
	if !ok {
		return out, fmt.Errorf("cached value for %s is not a %T", key, out)
	}
	return out, nil
}

func cachedAs[T any](val any) (T, bool) {
	var zero T
	switch v := val.(type) {
	case T:
		return v, true
	case *T:
		if v != nil {
			return *v, true
		}
		return zero, false
	}

	raw, err := json.Marshal(val)
	if err != nil {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, false
	}
	return out, true
}
