package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/kitchen-nadal/kitchen/internal/logging"
	"github.com/kitchen-nadal/kitchen/internal/query"
)

const (
	defaultRefreshInterval = 60 * time.Second
	maxBackoff             = 5 * time.Minute
	// minTriggerGap throttles manual refreshes.
	minTriggerGap = 2 * time.Second
)

// Refresher periodically refetches the queries the UI is observing and
// collects idle cache entries. Consecutive failed passes stretch the interval.
type Refresher struct {
	cache    *query.Cache
	interval time.Duration
	limiter  *rate.Limiter
	trigger  chan struct{}
	logger   *slog.Logger

	mu       sync.Mutex
	failures int
}

// NewRefresher builds a Refresher. A non-positive interval uses the default.
func NewRefresher(cache *query.Cache, interval time.Duration, logger *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Refresher{
		cache:    cache,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(minTriggerGap), 1),
		trigger:  make(chan struct{}, 1),
		logger:   logger,
	}
}

// Interval returns the base refresh interval.
func (r *Refresher) Interval() time.Duration {
	return r.interval
}

// Failures returns the number of consecutive passes with failed queries.
func (r *Refresher) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures
}

// NextDelay is the wait before the next scheduled pass.
func (r *Refresher) NextDelay() time.Duration {
	return calculateBackoff(r.Failures(), r.interval)
}

// Trigger asks for an immediate refresh of every observed query. It returns
// false when the request was throttled.
func (r *Refresher) Trigger() bool {
	if !r.limiter.Allow() {
		return false
	}
	r.cache.InvalidateAll()
	select {
	case r.trigger <- struct{}{}:
	default:
	}
	return true
}

// Run refreshes until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	timer := time.NewTimer(r.NextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-r.trigger:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}
		r.refresh(ctx)
		timer.Reset(r.NextDelay())
	}
}

func (r *Refresher) refresh(ctx context.Context) query.RefetchReport {
	report := r.cache.RefetchActive(ctx)
	removed := r.cache.GC()

	r.mu.Lock()
	if report.Failed > 0 {
		r.failures++
	} else if report.Refetched > 0 {
		r.failures = 0
	}
	failures := r.failures
	r.mu.Unlock()

	if report.Failed > 0 {
		r.logger.Warn("refresh pass failed",
			"refetched", report.Refetched,
			"failed", report.Failed,
			"next", calculateBackoff(failures, r.interval))
	} else if report.Refetched > 0 || removed > 0 {
		r.logger.Debug("refresh pass", "refetched", report.Refetched, "collected", removed)
	}
	return report
}

// calculateBackoff doubles base per consecutive failure, capped at maxBackoff.
// A base already past the cap is never shortened.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
