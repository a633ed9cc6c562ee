package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/oakhaus/furnish/internal/domain/auth"
)

// userIDKey is the context key for the authenticated user id.
type userIDKey struct{}

// UserID extracts the authenticated user id from the context. It returns an
// empty string only for requests that bypassed the security middleware.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}
	return ""
}

// Security authenticates requests via HMAC-SHA256 hashed API keys presented
// in the api_key header, resolving the key to a user id stored in the request
// context. The pepper keeps stored hashes useless without the server config.
type Security struct {
	keys   auth.Repository
	pepper []byte
}

// NewSecurity creates a Security middleware with the given API key
// repository and HMAC pepper.
func NewSecurity(keys auth.Repository, pepper []byte) *Security {
	return &Security{keys: keys, pepper: pepper}
}

// Middleware rejects requests without a valid API key and injects the
// resolved user id into the context for downstream handlers.
func (s *Security) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("api_key")
			if key == "" {
				key = r.Header.Get("Authorization")
			}
			if key == "" {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Code: 401, Message: "missing api key"})
				return
			}

			mac := hmac.New(sha256.New, s.pepper)
			mac.Write([]byte(key))
			hash := mac.Sum(nil)

			info, err := s.keys.FindByHash(hex.EncodeToString(hash))
			if err != nil {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Code: 401, Message: "unauthorized"})
				return
			}

			// Constant-time comparison guards against timing side-channels even
			// though the lookup already succeeded.
			stored, err := hex.DecodeString(info.KeyHash)
			if err != nil || subtle.ConstantTimeCompare(hash, stored) != 1 {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Code: 401, Message: "unauthorized"})
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, info.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
