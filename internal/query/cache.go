package query

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultStaleTime is how long settled data is served without refetching.
	DefaultStaleTime = 30 * time.Second
	// DefaultGCTime is how long an unobserved entry survives after last use.
	DefaultGCTime = 5 * time.Minute

	subscriberBuffer = 16
)

// FetchFunc produces the value stored under a key.
type FetchFunc func(ctx context.Context) (any, error)

// failer is implemented by payloads that carry their own failure flag
// (api.Envelope). Such payloads are stored as data but count as failures.
type failer interface {
	Failed() bool
}

// Options configure a Cache.
type Options struct {
	StaleTime time.Duration
	GCTime    time.Duration
	Logger    *slog.Logger
	Clock     func() time.Time
}

// Snapshot is an untyped view of one cache entry.
type Snapshot struct {
	Key                 string
	Data                any
	HasData             bool
	IsFetching          bool
	Err                 error
	UpdatedAt           time.Time
	ConsecutiveFailures int
}

// Stats reports cache activity counters.
type Stats struct {
	Entries  int
	Hits     int64
	Misses   int64
	Fetches  int64
	Failures int64
}

// RefetchReport summarises one RefetchActive pass.
type RefetchReport struct {
	Refetched int
	Failed    int
}

type entry struct {
	snapshot   Snapshot
	fn         FetchFunc
	invalid    bool
	lastAccess time.Time
	observers  int
	subs       map[string]chan Snapshot
}

// Cache is a keyed result cache with in-flight request coalescing and
// change notification. It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	watchers map[string]chan Snapshot
	group    singleflight.Group

	staleTime time.Duration
	gcTime    time.Duration
	logger    *slog.Logger
	now       func() time.Time

	hits, misses, fetches, failures int64
}

// New builds a Cache, applying defaults for zero options.
func New(opts Options) *Cache {
	staleTime := opts.StaleTime
	if staleTime <= 0 {
		staleTime = DefaultStaleTime
	}
	gcTime := opts.GCTime
	if gcTime <= 0 {
		gcTime = DefaultGCTime
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries:   make(map[string]*entry),
		watchers:  make(map[string]chan Snapshot),
		staleTime: staleTime,
		gcTime:    gcTime,
		logger:    logger,
		now:       now,
	}
}

// Fetch returns the entry for key, running fn when there is no fresh data.
// Concurrent fetches of the same key share one fn call. fn runs detached from
// ctx cancellation so an abandoned request still settles the entry; ctx only
// bounds how long the caller waits.
func (c *Cache) Fetch(ctx context.Context, key Key, fn FetchFunc) Snapshot {
	k := key.String()

	c.mu.Lock()
	e := c.entryLocked(k)
	e.fn = fn
	e.lastAccess = c.now()
	if c.freshLocked(e) {
		c.hits++
		snap := e.snapshot
		c.mu.Unlock()
		return snap
	}
	c.misses++
	c.mu.Unlock()

	ch := c.group.DoChan(k, func() (any, error) {
		c.run(context.WithoutCancel(ctx), k, fn)
		return nil, nil
	})
	select {
	case <-ch:
	case <-ctx.Done():
	}
	return c.Peek(key)
}

// Peek returns the current entry for key without fetching.
func (c *Cache) Peek(key Key) Snapshot {
	k := key.String()
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		return Snapshot{Key: k}
	}
	e.lastAccess = c.now()
	return e.snapshot
}

// Invalidate marks key stale so the next Fetch runs its function again.
// Cached data is kept and still served by Peek.
func (c *Cache) Invalidate(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return false
	}
	e.invalid = true
	return true
}

// InvalidateAll marks every entry stale and returns how many were marked.
func (c *Cache) InvalidateAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		e.invalid = true
	}
	return len(c.entries)
}

// Observe marks key as in use until the returned release func is called.
// RefetchActive only refreshes observed entries.
func (c *Cache) Observe(key Key) func() {
	k := key.String()
	c.mu.Lock()
	e := c.entryLocked(k)
	e.observers++
	e.lastAccess = c.now()
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if e, ok := c.entries[k]; ok && e.observers > 0 {
				e.observers--
				e.lastAccess = c.now()
			}
		})
	}
}

// Subscribe streams snapshots of key whenever its entry changes. The entry
// counts as observed until unsubscribe is called, which also closes the channel.
// Slow subscribers miss updates rather than block the cache.
func (c *Cache) Subscribe(key Key) (<-chan Snapshot, func()) {
	k := key.String()
	id := uuid.NewString()
	ch := make(chan Snapshot, subscriberBuffer)

	c.mu.Lock()
	e := c.entryLocked(k)
	e.subs[id] = ch
	e.observers++
	e.lastAccess = c.now()
	c.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if e, ok := c.entries[k]; ok {
				if sub, exists := e.subs[id]; exists {
					close(sub)
					delete(e.subs, id)
				}
				if e.observers > 0 {
					e.observers--
				}
			}
		})
	}
	return ch, unsubscribe
}

// Watch streams snapshots of every entry change in the cache.
func (c *Cache) Watch() (<-chan Snapshot, func()) {
	id := uuid.NewString()
	ch := make(chan Snapshot, subscriberBuffer)

	c.mu.Lock()
	c.watchers[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if w, ok := c.watchers[id]; ok {
				close(w)
				delete(c.watchers, id)
			}
		})
	}
}

// RefetchActive reruns the function of every observed entry that is stale or
// invalidated, waiting for all of them to settle.
func (c *Cache) RefetchActive(ctx context.Context) RefetchReport {
	type target struct {
		key string
		fn  FetchFunc
	}
	c.mu.Lock()
	var targets []target
	for k, e := range c.entries {
		if e.observers == 0 || e.fn == nil || c.freshLocked(e) {
			continue
		}
		targets = append(targets, target{key: k, fn: e.fn})
	}
	c.mu.Unlock()

	var report RefetchReport
	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, t := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := c.group.DoChan(t.key, func() (any, error) {
				c.run(context.WithoutCancel(ctx), t.key, t.fn)
				return nil, nil
			})
			select {
			case <-ch:
			case <-ctx.Done():
				return
			}
			c.mu.Lock()
			failed := false
			if e, ok := c.entries[t.key]; ok {
				failed = e.snapshot.ConsecutiveFailures > 0
			}
			c.mu.Unlock()

			mu.Lock()
			report.Refetched++
			if failed {
				report.Failed++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	return report
}

// GC drops entries that are unobserved, idle and not fetching, and returns
// how many were removed.
func (c *Cache) GC() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if e.observers > 0 || e.snapshot.IsFetching || len(e.subs) > 0 {
			continue
		}
		if now.Sub(e.lastAccess) < c.gcTime {
			continue
		}
		delete(c.entries, k)
		removed++
	}
	if removed > 0 {
		c.logger.Debug("query cache collected", "removed", removed)
	}
	return removed
}

// Keys returns the cached keys in sorted order.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stats returns a copy of the activity counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Entries:  len(c.entries),
		Hits:     c.hits,
		Misses:   c.misses,
		Fetches:  c.fetches,
		Failures: c.failures,
	}
}

func (c *Cache) run(ctx context.Context, k string, fn FetchFunc) {
	c.setFetching(k)
	started := c.now()
	data, err := call(ctx, fn)
	c.settle(k, data, err, c.now().Sub(started))
}

func call(ctx context.Context, fn FetchFunc) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("query function panicked: %v", r)
		}
	}()
	return fn(ctx)
}

func (c *Cache) setFetching(k string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(k)
	e.snapshot.IsFetching = true
	c.fetches++
	c.publishLocked(e)
}

// settle records the outcome of a fetch. When err is non-nil the previous
// data is kept but the error is recorded for visibility.
func (c *Cache) settle(k string, data any, err error, took time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(k)
	e.snapshot.IsFetching = false
	e.snapshot.UpdatedAt = c.now()
	e.invalid = false

	if err != nil {
		e.snapshot.Err = err
		e.snapshot.ConsecutiveFailures++
		c.failures++
		c.logger.Warn("query failed", "key", k, "error", err, "took", took)
		c.publishLocked(e)
		return
	}

	e.snapshot.Data = data
	e.snapshot.HasData = true
	e.snapshot.Err = nil
	if f, ok := data.(failer); ok && f.Failed() {
		e.snapshot.ConsecutiveFailures++
		c.failures++
	} else {
		e.snapshot.ConsecutiveFailures = 0
	}
	c.logger.Debug("query settled", "key", k, "took", took, "failures", e.snapshot.ConsecutiveFailures)
	c.publishLocked(e)
}

func (c *Cache) freshLocked(e *entry) bool {
	if !e.snapshot.HasData || e.invalid {
		return false
	}
	return c.now().Sub(e.snapshot.UpdatedAt) < c.staleTime
}

func (c *Cache) entryLocked(k string) *entry {
	e, ok := c.entries[k]
	if !ok {
		e = &entry{
			snapshot: Snapshot{Key: k},
			subs:     make(map[string]chan Snapshot),
		}
		c.entries[k] = e
	}
	return e
}

func (c *Cache) publishLocked(e *entry) {
	snap := e.snapshot
	for _, ch := range e.subs {
		select {
		case ch <- snap:
		default:
		}
	}
	for _, ch := range c.watchers {
		select {
		case ch <- snap:
		default:
		}
	}
}
