package jsonfile

import (
	"path/filepath"
	"sync"

	"github.com/oakhaus/furnish/internal/domain/auth"
)

var _ auth.Repository = (*APIKeyFile)(nil)

// APIKeyFile implements auth.Repository backed by apikeys.json. Keys are
// loaded once at startup; the file is managed out of band (operator-seeded),
// so there are no write operations.
type APIKeyFile struct {
	mu     sync.RWMutex
	byHash map[string]*auth.APIKeyInfo
}

// OpenAPIKeyFile loads apikeys.json from dataDir. A missing file yields an
// empty repository, which rejects every request.
func OpenAPIKeyFile(dataDir string) (*APIKeyFile, error) {
	var keys []*auth.APIKeyInfo
	if err := readFile(filepath.Join(dataDir, "apikeys.json"), &keys); err != nil {
		return nil, err
	}

	f := &APIKeyFile{byHash: make(map[string]*auth.APIKeyInfo, len(keys))}
	for _, k := range keys {
		if k.Active {
			f.byHash[k.KeyHash] = k
		}
	}
	return f, nil
}

// FindByHash looks up an active API key by its HMAC-SHA256 hash.
func (f *APIKeyFile) FindByHash(hash string) (*auth.APIKeyInfo, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	k, ok := f.byHash[hash]
	if !ok {
		return nil, auth.ErrKeyNotFound
	}
	cp := *k
	return &cp, nil
}
