package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/talumis/shortlister/internal/enrich"
)

// FileCache is a durable enrich.Cache backed by a JSON file, so repeated
// runs skip enrichment for profiles that have not changed since the last
// successful call. Every Set flushes, keeping the file authoritative even if
// a later applicant in the batch fails.
type FileCache struct {
	mu      sync.Mutex
	path    string
	records map[string]*enrich.Record
}

// OpenFileCache loads the cache file, starting empty when it does not exist
// yet. A corrupt cache file is an error rather than silently discarded
// state: dropping it would re-trigger paid calls for the whole batch.
func OpenFileCache(path string) (*FileCache, error) {
	cache := &FileCache{
		path:    path,
		records: make(map[string]*enrich.Record),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading enrichment cache: %w", err)
	}

	if err := json.Unmarshal(data, &cache.records); err != nil {
		return nil, fmt.Errorf("parsing enrichment cache %q: %w", path, err)
	}

	return cache, nil
}

// Get returns the cached record for the applicant.
func (c *FileCache) Get(applicantID string) (*enrich.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	record, ok := c.records[applicantID]
	return record, ok
}

// Set replaces the cached record and flushes the file. Flush failures are
// swallowed by contract (Cache.Set has no error return); the in-memory state
// stays correct for the rest of the run.
func (c *FileCache) Set(applicantID string, record *enrich.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records[applicantID] = record

	data, err := json.MarshalIndent(c.records, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(c.path, data, 0o644)
}
