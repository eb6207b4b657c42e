package typecache

import (
	"context"
	"time"
)

// KeyPrefix namespaces product-type mappings in the shared cache.
const KeyPrefix = "product-type:"

// Cache is a best-effort key/value store for confirmed product-type ids.
// Neither operation ever fails: a backend error degrades TryGet to a miss
// and turns TryPut into a logged no-op. Correctness never depends on the
// cache; it only ever holds ids the catalog itself confirmed.
type Cache interface {
	TryGet(ctx context.Context, key string) (string, bool)
	TryPut(ctx context.Context, key, value string, ttl time.Duration)
}

// Key builds the cache key for a product-type slug.
func Key(slug string) string {
	return KeyPrefix + slug
}
