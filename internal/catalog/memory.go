package catalog

import (
	"sort"
	"sync"
	"time"

	"github.com/edgecatalog/edged/internal/model"
)

// MemoryStore implements Store in memory. It backs tests and one-shot
// CLI runs that have no data directory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]model.EdgeRecord
}

// NewMemoryStore creates an empty in-memory catalog.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]model.EdgeRecord)}
}

func (ms *MemoryStore) Put(rec *model.EdgeRecord) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if rec.EdgeID == "" {
		return ErrInvalidID
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	ms.records[rec.EdgeID] = *rec
	return nil
}

func (ms *MemoryStore) Query(edgeID string) ([]model.EdgeRecord, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if rec, ok := ms.records[edgeID]; ok {
		return []model.EdgeRecord{rec}, nil
	}
	return nil, nil
}

func (ms *MemoryStore) Scan(startAfter string, limit int) ([]model.EdgeRecord, string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultScanPageSize
	}

	ids := make([]string, 0, len(ms.records))
	for id := range ms.records {
		if id > startAfter {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	next := ""
	if len(ids) > limit {
		ids = ids[:limit]
		next = ids[len(ids)-1]
	} else if len(ids) == limit && limit > 0 {
		next = ids[len(ids)-1]
	}

	records := make([]model.EdgeRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, ms.records[id])
	}
	return records, next, nil
}

func (ms *MemoryStore) Close() error { return nil }
