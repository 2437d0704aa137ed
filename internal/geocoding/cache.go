package geocoding

import (
	"context"
	"log/slog"
	"strings"
)

// Cache stores geocode results by normalized query
type Cache interface {
	Get(ctx context.Context, query string) (*Result, bool, error)
	Put(ctx context.Context, query string, result *Result) error
}

// Cached consults a Cache before the wrapped geocoder and stores its answers.
// Cache failures are logged and otherwise ignored.
type Cached struct {
	next   Geocoder
	cache  Cache
	logger *slog.Logger
}

// NewCached wraps next with cache
func NewCached(next Geocoder, cache Cache, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cached{next: next, cache: cache, logger: logger}
}

// Geocode returns the cached result for query or asks the wrapped geocoder
func (c *Cached) Geocode(ctx context.Context, query string) (*Result, error) {
	key := strings.ToLower(normalizeQuery(query))

	if key != "" {
		cached, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("geocode cache read failed", "query", key, "error", err)
		} else if ok {
			return cached, nil
		}
	}

	result, err := c.next.Geocode(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Put(ctx, key, result); err != nil {
		c.logger.Warn("geocode cache write failed", "query", key, "error", err)
	}
	return result, nil
}
