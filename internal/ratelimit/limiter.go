// Package ratelimit provides a pluggable per-key limiter. The in-memory
// implementation is correct for a single instance; the postgres one holds
// across replicas because the window counter lives in the shared store.
package ratelimit

import "context"

type Limiter interface {
	// Allow reports whether the caller identified by key may proceed.
	Allow(ctx context.Context, key string) (bool, error)
}
