package enrich

import "sync"

// Cache stores the last successful enrichment per applicant. The record's
// SourceHash tells whether the cached entry still matches the profile; the
// cache itself only keys by applicant identity. Implementations may persist
// entries; the in-process default keeps them for the process lifetime with
// no eviction.
type Cache interface {
	Get(applicantID string) (*Record, bool)
	Set(applicantID string, record *Record)
}

// MemoryCache is the in-process Cache. Processing is sequential per
// applicant, but the mutex keeps the cache safe should callers ever overlap.
type MemoryCache struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryCache returns an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{records: make(map[string]*Record)}
}

// Get returns the cached record for the applicant.
func (c *MemoryCache) Get(applicantID string) (*Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	record, ok := c.records[applicantID]
	return record, ok
}

// Set replaces the cached record for the applicant.
func (c *MemoryCache) Set(applicantID string, record *Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records[applicantID] = record
}
