package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/yaktalk/internal/api/response"
	"golang.org/x/crypto/bcrypt"
)

const clientKeyPrefixLen = 8

// Auth checks the Bearer token against a single bcrypt hash.
type Auth struct {
	hash []byte
}

// NewAuth creates a new Auth middleware. An empty hash disables
// authentication; every request is then attributed to its remote address.
func NewAuth(apiKeyHash string) *Auth {
	return &Auth{hash: []byte(apiKeyHash)}
}

// Enabled reports whether a key hash is configured.
func (a *Auth) Enabled() bool {
	return len(a.hash) > 0
}

// Authenticate validates the Bearer token and stores the client identity
// used by rate limiting in the request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			r = r.WithContext(setClientID(r.Context(), clientIP(r)))
			next.ServeHTTP(w, r)
			return
		}

		rawKey := extractBearerToken(r)
		if rawKey == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
			return
		}

		if len(rawKey) < clientKeyPrefixLen {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid API key format", nil)
			return
		}

		if bcrypt.CompareHashAndPassword(a.hash, []byte(rawKey)) != nil {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid API key", nil)
			return
		}

		// all clients share one key, so the address keeps their limits apart
		r = r.WithContext(setClientID(r.Context(), rawKey[:clientKeyPrefixLen]+"@"+clientIP(r)))
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// clientIP expects chi's RealIP middleware to have resolved proxies.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
