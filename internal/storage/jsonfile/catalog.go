package jsonfile

import (
	"path/filepath"
	"sync"

	"github.com/oakhaus/furnish/internal/domain/catalog"
)

// CatalogFile persists the furniture catalog to catalog.json in the data
// directory. A mutex serializes writers so concurrent flushes cannot
// interleave their temp-file renames.
type CatalogFile struct {
	mu   sync.Mutex
	path string
}

// NewCatalogFile creates a CatalogFile rooted at dataDir.
func NewCatalogFile(dataDir string) *CatalogFile {
	return &CatalogFile{path: filepath.Join(dataDir, "catalog.json")}
}

// LoadAll reads every furniture item from the file. A missing file yields an
// empty catalog.
func (f *CatalogFile) LoadAll() ([]catalog.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var items []catalog.Item
	if err := readFile(f.path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SaveAll atomically replaces the file contents with the given items.
func (f *CatalogFile) SaveAll(items []catalog.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return writeFile(f.path, items)
}
