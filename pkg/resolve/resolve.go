// Package resolve memoizes catalog lookups for a single session's viewing
// lifetime. The cache is seeded from the precomputed session artifact when
// one exists, and otherwise fills in lazily through batched lookups.
package resolve

import (
	"context"
	"sync"
	"time"

	"github.com/wrenhall/realmlog/pkg/catalog"
)

const (
	// DefaultBatchSize bounds both the batch length and the per-batch
	// lookup parallelism during warm-up.
	DefaultBatchSize = 5

	// DefaultBatchDelay is the pause between successive warm-up batches,
	// a soft rate limit on the backing lookup path.
	DefaultBatchDelay = 50 * time.Millisecond

	// primedFloor: a seeded cache holding more entries than this is
	// considered usable and skips warm-up.
	primedFloor = 3
)

// Lookup finds a single catalog record by exact name. A legitimate miss is
// (nil, false, nil), never an error.
type Lookup interface {
	Find(ctx context.Context, name string) (*catalog.ItemRecord, bool, error)
}

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Warnf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Cache is the per-session runtime resolution cache. Entries are never
// evicted; growth is bounded by the session's distinct item count.
type Cache struct {
	mu      sync.RWMutex
	records map[string]*catalog.ItemRecord

	lookup     Lookup
	batchSize  int
	batchDelay time.Duration
	log        Logger
}

// Option tweaks a Cache at construction time.
type Option func(*Cache)

// WithBatchSize overrides the warm-up batch size (and parallelism).
func WithBatchSize(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithBatchDelay overrides the pause between warm-up batches.
func WithBatchDelay(d time.Duration) Option {
	return func(c *Cache) {
		if d >= 0 {
			c.batchDelay = d
		}
	}
}

// WithLogger sets the cache's logger. Nil means no logging.
func WithLogger(l Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// NewCache builds an empty cache backed by the given lookup.
func NewCache(lookup Lookup, opts ...Option) *Cache {
	c := &Cache{
		records:    make(map[string]*catalog.ItemRecord),
		lookup:     lookup,
		batchSize:  DefaultBatchSize,
		batchDelay: DefaultBatchDelay,
		log:        nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Seed bulk-merges precomputed entries into the cache. On collision the
// seeded record wins; records for a name are immutable once published by the
// catalog, so this is safe in either direction.
func (c *Cache) Seed(items map[string]*catalog.ItemRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, rec := range items {
		c.records[name] = rec
	}
}

// Len returns the number of resolved entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Primed reports whether the cache holds enough entries to skip warm-up.
func (c *Cache) Primed() bool {
	return c.Len() > primedFloor
}

// Resolve returns the record for name, consulting the backing lookup on a
// cache miss. A successful lookup is memoized. A miss or lookup error is NOT
// negative-cached: a later call for the same name retries, since lookups are
// cheap and the catalog may have been reloaded in between.
func (c *Cache) Resolve(ctx context.Context, name string) (*catalog.ItemRecord, bool) {
	c.mu.RLock()
	rec, ok := c.records[name]
	c.mu.RUnlock()
	if ok {
		return rec, true
	}

	rec, found, err := c.lookup.Find(ctx, name)
	if err != nil {
		c.log.Warnf("lookup failed for %q: %v", name, err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	c.mu.Lock()
	c.records[name] = rec
	c.mu.Unlock()
	return rec, true
}

// WarmUp resolves names in fixed-size batches: each batch's lookups run
// concurrently (parallelism = batch size), each independently awaited so one
// slow or failing lookup never blocks its siblings, and successive batches
// are separated by a fixed delay. Already-cached names are skipped without a
// lookup. Cancelling ctx abandons the remaining batches; partial population
// is valid. Returns the names that stayed unresolved.
func (c *Cache) WarmUp(ctx context.Context, names []string) []string {
	var pending []string
	c.mu.RLock()
	for _, name := range names {
		if _, ok := c.records[name]; !ok {
			pending = append(pending, name)
		}
	}
	c.mu.RUnlock()
	if len(pending) == 0 {
		return nil
	}

	c.log.Debugf("warming up %d names in batches of %d", len(pending), c.batchSize)

	var unresolved []string
	var unresolvedMu sync.Mutex
	for start := 0; start < len(pending); start += c.batchSize {
		if ctx.Err() != nil {
			unresolved = append(unresolved, pending[start:]...)
			break
		}
		end := start + c.batchSize
		if end > len(pending) {
			end = len(pending)
		}

		var wg sync.WaitGroup
		for _, name := range pending[start:end] {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				if _, ok := c.Resolve(ctx, name); !ok {
					unresolvedMu.Lock()
					unresolved = append(unresolved, name)
					unresolvedMu.Unlock()
				}
			}(name)
		}
		wg.Wait()

		if end < len(pending) {
			time.Sleep(c.batchDelay)
		}
	}
	return unresolved
}
