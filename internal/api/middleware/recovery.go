package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/kiranshivaraju/yaktalk/internal/api/response"
)

// Recovery turns a handler panic into a 500 envelope. http.ErrAbortHandler is
// re-raised so net/http can abort the connection as usual.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger := slog.With("request_id", GetRequestID(r), "method", r.Method, "path", r.URL.Path)
			logger.Error("handler panicked", "panic", rec, "stack", string(debug.Stack()))

			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "요청을 처리하는 중 예기치 않은 오류가 발생했습니다.", nil)
		}()
		next.ServeHTTP(w, r)
	})
}
