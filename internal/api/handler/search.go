package handler

import (
	"context"
	"net/http"

	"github.com/kiranshivaraju/yaktalk/internal/api/response"
	"github.com/kiranshivaraju/yaktalk/internal/consultation"
)

// Searcher defines the interface the search handler depends on.
type Searcher interface {
	Search(ctx context.Context, query string) (consultation.SearchResult, error)
}

// NewSearchHandler returns an http.HandlerFunc for GET /api/v1/search?q=.
// It runs analysis and retrieval only; no answer is generated.
func NewSearchHandler(svc Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeConsultationError(w, err, "")
			return
		}
		response.JSON(w, result)
	}
}
