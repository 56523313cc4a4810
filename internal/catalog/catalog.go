// Package catalog persists discovered edge locations keyed by edge id.
package catalog

import (
	"errors"

	"github.com/edgecatalog/edged/internal/log"
	"github.com/edgecatalog/edged/internal/model"
)

var (
	ErrRecordNotFound = errors.New("edge record not found")
	ErrInvalidID      = errors.New("invalid edge ID")
)

// Store is the narrow put/query/scan surface over the catalog. Writes
// are independent upserts with last-write-wins semantics per edge id.
type Store interface {
	// Put inserts or overwrites the record stored under rec.EdgeID.
	Put(rec *model.EdgeRecord) error
	// Query returns the records stored under the exact edge id. With a
	// healthy catalog the slice has zero or one element; callers use the
	// first element when more are somehow present.
	Query(edgeID string) ([]model.EdgeRecord, error)
	// Scan returns a page of records ordered by edge id, starting after
	// the given continuation token ("" for the first page), plus the
	// token for the next page ("" when exhausted).
	Scan(startAfter string, limit int) ([]model.EdgeRecord, string, error)
	Close() error
}

// DefaultScanPageSize bounds a single Scan page when callers pass no limit.
const DefaultScanPageSize = 100

// ScanAll drains the store page by page, following continuation tokens
// until exhausted.
func ScanAll(store Store) ([]model.EdgeRecord, error) {
	var all []model.EdgeRecord
	token := ""
	for {
		page, next, err := store.Scan(token, DefaultScanPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if next == "" {
			return all, nil
		}
		token = next
	}
}

// Persist upserts each record independently, best effort: a failed
// write is logged and does not block the rest of the batch. The return
// value counts records submitted for write, not verified durability.
func Persist(store Store, records []model.EdgeRecord) int {
	submitted := 0
	for i := range records {
		if err := store.Put(&records[i]); err != nil {
			log.Error("Failed to persist edge record", "edge_id", records[i].EdgeID, "error", err)
			continue
		}
		submitted++
	}
	return submitted
}
