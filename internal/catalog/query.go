// Package catalog wraps the skip list request in a keyed, deduplicated and
// optionally cached query with a three-state result.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skip-selector/internal/metrics"
	"skip-selector/pkg/api"
	"skip-selector/pkg/redis"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CacheKey identifies the skip list query.
const CacheKey = "skips"

// sharedFetchTimeout bounds a shared request once it no longer follows the
// context of the caller that started it.
const sharedFetchTimeout = 2 * time.Minute

type Status int

const (
	StatusPending Status = iota
	StatusFailed
	StatusSucceeded
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFailed:
		return "failed"
	case StatusSucceeded:
		return "succeeded"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is what consumers render from. Skips is only meaningful when
// Status is StatusSucceeded, Err only when it is StatusFailed.
type Result struct {
	Status Status
	Skips  []api.Skip
	Err    error
}

func Pending() Result { return Result{Status: StatusPending} }

func Succeeded(skips []api.Skip) Result {
	return Result{Status: StatusSucceeded, Skips: skips}
}

func Failed(err error) Result {
	return Result{Status: StatusFailed, Err: err}
}

type Fetcher interface {
	GetSkips(ctx context.Context) ([]api.Skip, error)
}

type Cache interface {
	GetJSON(ctx context.Context, key string, v any) error
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

var _ Cache = (*redis.Client)(nil)

type Query struct {
	fetcher  Fetcher
	cache    Cache
	cacheTTL time.Duration
	metrics  *metrics.Collector
	logger   *zap.Logger
	group    singleflight.Group
}

type Option func(*Query)

// WithCache reuses a successful result for ttl. A zero ttl disables reuse.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(q *Query) {
		q.cache = cache
		q.cacheTTL = ttl
	}
}

func WithMetrics(m *metrics.Collector) Option {
	return func(q *Query) { q.metrics = m }
}

func NewQuery(fetcher Fetcher, logger *zap.Logger, opts ...Option) *Query {
	q := &Query{
		fetcher: fetcher,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Fetch resolves the query to StatusSucceeded or StatusFailed. Concurrent
// calls share one in-flight request. A caller whose ctx ends gets
// StatusFailed with ctx.Err() while the shared request carries on for the
// others.
func (q *Query) Fetch(ctx context.Context) Result {
	if skips, ok := q.cached(ctx); ok {
		q.metrics.RecordFetch(metrics.OutcomeCacheHit, 0)
		return Succeeded(skips)
	}

	ch := q.group.DoChan(CacheKey, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()

		start := time.Now()
		skips, err := q.fetcher.GetSkips(fetchCtx)
		if err != nil {
			q.metrics.RecordFetch(metrics.OutcomeFailure, time.Since(start))
			return nil, err
		}
		q.metrics.RecordFetch(metrics.OutcomeSuccess, time.Since(start))
		q.store(fetchCtx, skips)
		return skips, nil
	})

	select {
	case <-ctx.Done():
		return Failed(ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			q.logger.Error("Failed to fetch skips",
				zap.Bool("shared", r.Shared),
				zap.Error(r.Err))
			return Failed(r.Err)
		}
		return Succeeded(r.Val.([]api.Skip))
	}
}

func (q *Query) cached(ctx context.Context) ([]api.Skip, bool) {
	if q.cache == nil || q.cacheTTL <= 0 {
		return nil, false
	}

	var skips []api.Skip
	err := q.cache.GetJSON(ctx, cacheKey(), &skips)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		q.logger.Warn("Skips cache read failed", zap.Error(err))
		return nil, false
	}
	return skips, true
}

func (q *Query) store(ctx context.Context, skips []api.Skip) {
	if q.cache == nil || q.cacheTTL <= 0 {
		return
	}
	if err := q.cache.SetJSON(ctx, cacheKey(), skips, q.cacheTTL); err != nil {
		q.logger.Warn("Skips cache write failed", zap.Error(err))
	}
}

func cacheKey() string {
	return "query:" + CacheKey
}
