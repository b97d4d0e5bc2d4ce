package query

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Result is the state of a query as seen by the presentation layer.
type Result[T any] struct {
	Data       *T
	IsPending  bool // no data has settled yet
	IsFetching bool
	Err        error // query function failure; payload-level errors live in Data
	UpdatedAt  time.Time
}

// Query binds a fetch function to a cache key. A disabled query never runs
// its function and always reports pending.
type Query[T any] struct {
	cache   *Cache
	key     Key
	fn      func(ctx context.Context) (T, error)
	enabled bool
}

// NewQuery builds a Query. enabled=false models a query whose parameters are
// not known yet.
func NewQuery[T any](cache *Cache, key Key, fn func(ctx context.Context) (T, error), enabled bool) Query[T] {
	return Query[T]{cache: cache, key: key, fn: fn, enabled: enabled && cache != nil && fn != nil}
}

// Key returns the query's cache key.
func (q Query[T]) Key() Key {
	return q.key
}

// Enabled reports whether the query may run.
func (q Query[T]) Enabled() bool {
	return q.enabled
}

// Fetch returns cached data when fresh and otherwise runs the query,
// sharing the call with any concurrent Fetch of the same key.
func (q Query[T]) Fetch(ctx context.Context) Result[T] {
	if !q.enabled {
		return Result[T]{IsPending: true}
	}
	return resultFrom[T](q.cache.Fetch(ctx, q.key, q.erased()))
}

// Peek returns the cached state without fetching.
func (q Query[T]) Peek() Result[T] {
	if !q.enabled {
		return Result[T]{IsPending: true}
	}
	return resultFrom[T](q.cache.Peek(q.key))
}

// Invalidate marks the query stale.
func (q Query[T]) Invalidate() {
	if q.enabled {
		q.cache.Invalidate(q.key)
	}
}

// Observe marks the query as in use so background refreshes include it.
func (q Query[T]) Observe() func() {
	if !q.enabled {
		return func() {}
	}
	return q.cache.Observe(q.key)
}

// Subscribe streams typed results whenever the entry changes.
func (q Query[T]) Subscribe() (<-chan Result[T], func()) {
	out := make(chan Result[T], subscriberBuffer)
	if !q.enabled {
		var once sync.Once
		return out, func() { once.Do(func() { close(out) }) }
	}

	src, unsubscribe := q.cache.Subscribe(q.key)
	go func() {
		defer close(out)
		for snap := range src {
			select {
			case out <- resultFrom[T](snap):
			default:
			}
		}
	}()
	return out, unsubscribe
}

func (q Query[T]) erased() FetchFunc {
	fn := q.fn
	return func(ctx context.Context) (any, error) {
		return fn(ctx)
	}
}

func resultFrom[T any](snap Snapshot) Result[T] {
	res := Result[T]{
		IsPending:  !snap.HasData,
		IsFetching: snap.IsFetching,
		Err:        snap.Err,
		UpdatedAt:  snap.UpdatedAt,
	}
	if !snap.HasData {
		return res
	}
	data, ok := snap.Data.(T)
	if !ok {
		var want T
		res.Err = fmt.Errorf("query %s: cached %T, want %T", snap.Key, snap.Data, want)
		return res
	}
	res.Data = &data
	return res
}
