// Package querycache is a small in-process cache for query results. Cached entries carry tags so
// that mutations can invalidate related queries in bulk, identical in-flight requests are
// deduplicated, and every entry is stamped with the session epoch so that no result from a
// previous session or tenant scope is ever served again.
package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/armorview/go-console-framework/pkg/configuration"
)

// ErrStaleEpoch is returned when the session epoch advanced while a fetch was in flight. The
// result belongs to the previous scope and must not be shown; callers re-issue the query.
var ErrStaleEpoch = errors.New("session scope changed while the request was in flight")

// Tag labels a cached query result for bulk invalidation. A tag without an Id addresses every
// entry of its type, a tag with an Id only the entries that provided exactly that Id.
type Tag struct {
	Type string
	Id   string
}

func (t Tag) String() string {
	if t.Id == "" {
		return t.Type
	}
	return t.Type + ":" + t.Id
}

// matches reports whether an invalidation tag addresses a provided tag.
func (t Tag) matches(provided Tag) bool {
	if t.Type != provided.Type {
		return false
	}
	return t.Id == "" || t.Id == provided.Id
}

// EpochSource returns the current session epoch.
type EpochSource func() uint64

type entry struct {
	value any
	tags  []Tag
	epoch uint64
}

type Cache struct {
	store  *gocache.Cache
	group  singleflight.Group
	epoch  EpochSource
	logger *zerolog.Logger
	mu     sync.Mutex
}

// New creates a cache whose entry lifetime comes from the configuration. The epoch source is
// usually the session store.
func New(config configuration.Configuration, logger *zerolog.Logger, epoch EpochSource) *Cache {
	ttl := time.Duration(config.GetInt(configuration.CACHE_TTL_SECONDS)) * time.Second
	if ttl <= 0 {
		ttl = configuration.DefaultCacheTtlSeconds * time.Second
	}

	if epoch == nil {
		epoch = func() uint64 { return 0 }
	}

	return &Cache{
		store:  gocache.New(ttl, 2*ttl),
		epoch:  epoch,
		logger: logger,
	}
}

// Key derives a cache key from a resource namespace and the serialized query arguments.
func Key(namespace string, args any) string {
	if args == nil {
		return namespace
	}

	serialized, err := json.Marshal(args)
	if err != nil {
		// not cacheable in a meaningful way, fall back to a unique key
		return fmt.Sprintf("%s:%p", namespace, &args)
	}
	return namespace + ":" + string(serialized)
}

// GetOrFetch returns the cached value for key if it is fresh, otherwise runs fetch and caches the
// result under the given tags. Concurrent calls with the same key share a single fetch.
func (c *Cache) GetOrFetch(ctx context.Context, key string, tags []Tag, fetch func(ctx context.Context) (any, error)) (any, error) {
	currentEpoch := c.epoch()

	if cached, found := c.store.Get(key); found {
		e := cached.(entry)
		if e.epoch == currentEpoch {
			return e.value, nil
		}
		// entry belongs to a previous session scope
		c.store.Delete(key)
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		result, fetchErr := fetch(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}

		if c.epoch() != currentEpoch {
			// the session scope changed mid-flight, the result must not be cached or shown
			return nil, ErrStaleEpoch
		}

		c.store.SetDefault(key, entry{value: result, tags: tags, epoch: currentEpoch})
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Invalidate discards every cached entry addressed by one of the given tags.
func (c *Cache) Invalidate(tags ...Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, item := range c.store.Items() {
		e, ok := item.Object.(entry)
		if !ok {
			continue
		}
		if entryMatchesAny(e, tags) {
			c.store.Delete(key)
			if c.logger != nil {
				c.logger.Trace().Str("key", key).Msg("cache entry invalidated")
			}
		}
	}
}

// InvalidateKey discards a single cache entry.
func (c *Cache) InvalidateKey(key string) {
	c.store.Delete(key)
}

// Flush discards all cached entries.
func (c *Cache) Flush() {
	c.store.Flush()
}

func entryMatchesAny(e entry, tags []Tag) bool {
	for _, invalidated := range tags {
		for _, provided := range e.tags {
			if invalidated.matches(provided) {
				return true
			}
		}
	}
	return false
}

// GetOrFetchAs is a typed convenience wrapper around Cache.GetOrFetch.
func GetOrFetchAs[T any](ctx context.Context, c *Cache, key string, tags []Tag, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	value, err := c.GetOrFetch(ctx, key, tags, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, errors.Errorf("unexpected cached type %T for key %q", value, key)
	}
	return typed, nil
}
