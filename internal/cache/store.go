package cache

import (
	"context"
	"strings"
	"time"
)

// ComputeFn produces the serialized payload for a cache miss.
type ComputeFn func(ctx context.Context) ([]byte, error)

// Store is the tag-aware cache-aside contract used by read handlers.
// GetOrCompute returns the cached payload for key, computing and storing it
// on a miss. A payload is registered under every tag it is stored with;
// Invalidate drops all payloads registered under the given tags.
//
// Keys must embed the authenticated user identifier (and page number for
// paginated reads) so that two principals can never share an entry.
type Store interface {
	GetOrCompute(ctx context.Context, key string, ttl time.Duration, tags []string, compute ComputeFn) ([]byte, error)
	Invalidate(ctx context.Context, tags ...string) error
}

// Entity tags shared by handlers and write-path invalidation.
const (
	TagUser   = "user"
	TagClient = "client"
	TagMobile = "mobile"
)

// Key joins the given parts into a cache key.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
