package handler

import (
	"fmt"
	"net/http"

	"github.com/kiranshivaraju/yaktalk/internal/api/response"
	"github.com/kiranshivaraju/yaktalk/internal/rag"
)

// CacheAdmin exposes the answer cache to operators.
type CacheAdmin interface {
	Stats() rag.CacheStats
	ClearCache()
}

type cacheStatsResponse struct {
	TotalQueries  int    `json:"total_queries"`
	CacheHits     int    `json:"cache_hits"`
	CacheMisses   int    `json:"cache_misses"`
	CacheHitRate  string `json:"cache_hit_rate"`
	CachedQueries int    `json:"cached_queries"`
}

// NewCacheStatsHandler returns an http.HandlerFunc for GET /api/v1/cache/stats.
func NewCacheStatsHandler(c CacheAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := c.Stats()
		response.JSON(w, cacheStatsResponse{
			TotalQueries:  s.TotalQueries,
			CacheHits:     s.CacheHits,
			CacheMisses:   s.CacheMisses,
			CacheHitRate:  fmt.Sprintf("%.1f%%", s.HitRate),
			CachedQueries: s.CachedQueries,
		})
	}
}

// NewCacheClearHandler returns an http.HandlerFunc for DELETE /api/v1/cache.
func NewCacheClearHandler(c CacheAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.ClearCache()
		response.NoContent(w)
	}
}
