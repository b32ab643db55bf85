package cache

import (
	"time"
)

// Options selects and configures a cache backend.
type Options struct {
	// RedisURL selects the Redis backend when non-empty.
	RedisURL string

	// Prefix is the Redis key prefix. Ignored by the memory backend.
	Prefix string

	// DefaultTTL applies when Set is called with a zero TTL.
	DefaultTTL time.Duration

	// MaxItems caps the memory backend (0 = unlimited).
	MaxItems int
}

// New creates a cache backend from the given options: Redis when a URL is
// configured, an in-memory cache otherwise.
func New(opts Options) (Cacher, error) {
	if opts.RedisURL != "" {
		return NewRedisCacheFromURL(opts.RedisURL, opts.Prefix, opts.DefaultTTL)
	}

	return NewMemoryCache(MemoryOptions{
		DefaultTTL:      opts.DefaultTTL,
		MaxItems:        opts.MaxItems,
		CleanupInterval: time.Minute,
	}), nil
}
