package rag

import (
	"container/list"
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/kiranshivaraju/yaktalk/internal/cache"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

// DefaultCacheCapacity is the number of answers a QueryCache keeps.
const DefaultCacheCapacity = 100

// CacheStats is a snapshot of QueryCache counters.
type CacheStats struct {
	TotalQueries  int     `json:"total_queries"  yaml:"total_queries"`
	CacheHits     int     `json:"cache_hits"     yaml:"cache_hits"`
	CacheMisses   int     `json:"cache_misses"   yaml:"cache_misses"`
	HitRate       float64 `json:"hit_rate"       yaml:"hit_rate"`
	CachedQueries int     `json:"cached_queries" yaml:"cached_queries"`
}

type entry struct {
	key    string
	result models.AnswerResult
}

// QueryCache memoizes answers by normalized question with strict FIFO eviction.
// It is safe for concurrent use.
type QueryCache struct {
	capacity int

	mu     sync.Mutex
	items  map[string]*list.Element
	order  *list.List // front = oldest insert
	total  int
	hits   int
	misses int

	group singleflight.Group
}

// NewQueryCache creates a QueryCache holding at most capacity answers.
// A non-positive capacity uses DefaultCacheCapacity.
func NewQueryCache(capacity int) *QueryCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &QueryCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// GetOrCompute returns the cached answer for question, or runs compute and
// stores its result. Errors from compute are returned and not stored.
// Concurrent misses on one key share a single compute call. The shared call
// is detached from the caller's cancellation; each caller stops waiting when
// its own ctx is done.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	question string,
	compute func(ctx context.Context) (models.AnswerResult, error),
) (models.AnswerResult, bool, error) {
	key := cache.QuestionKey(question)

	c.mu.Lock()
	c.total++
	if el, ok := c.items[key]; ok {
		c.hits++
		res := cloneResult(el.Value.(*entry).result)
		c.mu.Unlock()
		return res, true, nil
	}
	c.misses++
	c.mu.Unlock()

	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// a flight that finished between the lookup above and DoChan has already stored
		if res, ok := c.peekKey(key); ok {
			return res, nil
		}
		res, err := compute(flightCtx)
		if err != nil {
			return models.AnswerResult{}, err
		}
		c.store(key, res)
		return res, nil
	})

	select {
	case <-ctx.Done():
		return models.AnswerResult{}, false, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return models.AnswerResult{}, false, r.Err
		}
		return cloneResult(r.Val.(models.AnswerResult)), false, nil
	}
}

// store inserts a copy of res under key unless another caller already did.
func (c *QueryCache) store(key string, res models.AnswerResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; ok {
		return
	}
	if c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).key)
	}
	c.items[key] = c.order.PushBack(&entry{key: key, result: cloneResult(res)})
}

// cloneResult copies the document slice so callers never share the cached backing array.
func cloneResult(res models.AnswerResult) models.AnswerResult {
	if res.SourceDocuments != nil {
		docs := make([]models.Document, len(res.SourceDocuments))
		copy(docs, res.SourceDocuments)
		res.SourceDocuments = docs
	}
	return res
}

// Peek reports whether question has a cached answer without touching counters.
func (c *QueryCache) Peek(question string) (models.AnswerResult, bool) {
	return c.peekKey(cache.QuestionKey(question))
}

func (c *QueryCache) peekKey(key string) (models.AnswerResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return models.AnswerResult{}, false
	}
	return cloneResult(el.Value.(*entry).result), true
}

func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear drops every entry and zeroes the counters.
func (c *QueryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
	c.total, c.hits, c.misses = 0, 0, 0
}

// HitRate is hits / total * 100, or 0 before any lookup.
func (c *QueryCache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hitRateLocked()
}

func (c *QueryCache) hitRateLocked() float64 {
	if c.total == 0 {
		return 0.0
	}
	return float64(c.hits) / float64(c.total) * 100
}

func (c *QueryCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		TotalQueries:  c.total,
		CacheHits:     c.hits,
		CacheMisses:   c.misses,
		HitRate:       c.hitRateLocked(),
		CachedQueries: c.order.Len(),
	}
}
