// Package lookup answers "which parent zone is this edge location
// anchored to" from the persisted catalog.
package lookup

import (
	"fmt"

	"github.com/edgecatalog/edged/internal/catalog"
	"github.com/edgecatalog/edged/internal/log"
	"github.com/edgecatalog/edged/internal/model"
)

// ParentZones resolves the recorded parent zone for each requested edge
// id. Ids without a catalog record come back as found=false with a nil
// parent rather than failing the batch; only a store error aborts.
func ParentZones(store catalog.Store, edgeIDs []string) (map[string]model.ParentZoneResult, error) {
	results := make(map[string]model.ParentZoneResult, len(edgeIDs))

	for _, id := range edgeIDs {
		records, err := store.Query(id)
		if err != nil {
			return nil, fmt.Errorf("querying catalog for %s: %w", id, err)
		}

		if len(records) == 0 {
			results[id] = model.ParentZoneResult{Found: false}
			continue
		}

		// Edge ids are unique; if the store somehow holds more than one
		// record the first row wins, deterministically.
		parent := records[0].ParentZoneID
		results[id] = model.ParentZoneResult{ParentAZ: &parent, Found: true}
	}

	log.Debug("Parent zone lookup completed", "requested", len(edgeIDs), "resolved", len(results))
	return results, nil
}
