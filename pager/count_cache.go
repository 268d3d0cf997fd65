package pager

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Clock is injected so tests control expiry.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type countEntry struct {
	result  CountResult
	created time.Time
	reads   int
}

// CountCache remembers row counts per statement for a TTL. Concurrent
// requests for the same statement collapse into one executor call.
type CountCache struct {
	ttl   time.Duration
	clock Clock

	storageLocker sync.Mutex
	storage       map[string]*countEntry

	flight singleflight.Group

	hits   int
	misses int
}

func NewCountCache(ttl time.Duration, clock Clock) *CountCache {
	if clock == nil {
		clock = systemClock{}
	}
	return &CountCache{
		ttl:     ttl,
		clock:   clock,
		storage: make(map[string]*countEntry),
	}
}

// Get returns the cached count for sql, or runs fetch and stores the result.
func (c *CountCache) Get(ctx context.Context, sql string, fetch func(ctx context.Context) (CountResult, error)) (CountResult, error) {

	c.storageLocker.Lock()
	entry, found := c.storage[sql]
	if found && c.clock.Now().Sub(entry.created) < c.ttl {
		entry.reads++
		c.hits++
		result := entry.result
		c.storageLocker.Unlock()
		return result, nil
	}
	c.misses++
	c.storageLocker.Unlock()

	fresh, err, _ := c.flight.Do(sql, func() (any, error) {
		result, err := fetch(ctx)
		if err != nil {
			return CountResult{}, err
		}

		c.storageLocker.Lock()
		c.storage[sql] = &countEntry{result: result, created: c.clock.Now()}
		c.storageLocker.Unlock()

		return result, nil
	})
	if err != nil {
		return CountResult{}, err
	}
	return fresh.(CountResult), nil
}

func (c *CountCache) Invalidate(sql string) {
	c.storageLocker.Lock()
	defer c.storageLocker.Unlock()

	delete(c.storage, sql)
}

func (c *CountCache) Clear() {
	c.storageLocker.Lock()
	defer c.storageLocker.Unlock()

	clear(c.storage)
}

func (c *CountCache) Stats() CountCacheStats {
	c.storageLocker.Lock()
	defer c.storageLocker.Unlock()

	return CountCacheStats{
		Entries: len(c.storage),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
