package auth

import "github.com/go-faster/errors"

// ErrKeyNotFound is returned when no API key matches the presented hash.
var ErrKeyNotFound = errors.New("api key not found")

// APIKeyInfo holds the identity data for a validated API key. UserID is the
// authenticated user every cart, checkout, and order operation runs as.
type APIKeyInfo struct {
	KeyHash string `json:"key_hash"`
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Active  bool   `json:"active"`
}

// Repository provides lookup of API keys by their HMAC hash.
type Repository interface {
	FindByHash(hash string) (*APIKeyInfo, error)
}
