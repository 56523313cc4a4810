// Package worker runs discovery cycles that refresh the catalog from
// the collectors, on demand or on a schedule.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/edgecatalog/edged/internal/catalog"
	"github.com/edgecatalog/edged/internal/collector"
	"github.com/edgecatalog/edged/internal/log"
	"github.com/edgecatalog/edged/internal/model"
)

// Runner collects both sources and persists their records. The two
// sources are independent: a failed collector only loses its own
// records, the sibling's output is still written.
type Runner struct {
	zones      collector.ZoneCollector
	extensions collector.ExtensionCollector
	store      catalog.Store
}

// NewRunner creates a discovery runner over the given collectors and store.
func NewRunner(zones collector.ZoneCollector, extensions collector.ExtensionCollector, store catalog.Store) *Runner {
	return &Runner{zones: zones, extensions: extensions, store: store}
}

// Run performs one collect-and-persist cycle for the region.
func (r *Runner) Run(ctx context.Context, region string) *model.DiscoveryRun {
	run := &model.DiscoveryRun{
		ID:        generateRunID(),
		Region:    region,
		StartedAt: time.Now(),
	}

	log.Info("Discovery run started", "run_id", run.ID, "region", region)

	zones, err := r.zones.Zones(ctx, region)
	if err != nil {
		run.Errors = append(run.Errors, fmt.Sprintf("zone collector: %s", err))
		log.Error("Zone collection failed", "run_id", run.ID, "error", err)
	} else {
		run.ZoneRecords = catalog.Persist(r.store, RecordsFromZones(zones))
	}

	extensions, err := r.extensions.Extensions(ctx, region)
	if err != nil {
		run.Errors = append(run.Errors, fmt.Sprintf("extension collector: %s", err))
		log.Error("Extension collection failed", "run_id", run.ID, "error", err)
	} else {
		run.ExtRecords = catalog.Persist(r.store, RecordsFromExtensions(extensions))
	}

	now := time.Now()
	run.CompletedAt = &now

	log.Info("Discovery run completed",
		"run_id", run.ID,
		"zone_records", run.ZoneRecords,
		"extension_records", run.ExtRecords,
		"errors", len(run.Errors))
	return run
}

// RecordsFromZones converts zone collector output into catalog records.
func RecordsFromZones(zones []model.Zone) []model.EdgeRecord {
	records := make([]model.EdgeRecord, 0, len(zones))
	for _, zone := range zones {
		records = append(records, model.EdgeRecord{
			EdgeID:        zone.ZoneID,
			EdgeType:      model.LocationTypePublicZone,
			ParentZoneID:  zone.ParentAZ,
			CapacityTypes: zone.CapacityTypes,
		})
	}
	return records
}

// RecordsFromExtensions converts extension collector output into
// catalog records, one per rack with the rack's assets flattened.
func RecordsFromExtensions(extensions []model.Extension) []model.EdgeRecord {
	records := make([]model.EdgeRecord, 0, len(extensions))
	for _, ext := range extensions {
		var capacityTypes []string
		for _, asset := range ext.Assets {
			capacityTypes = append(capacityTypes, asset.CapacityTypes...)
		}
		records = append(records, model.EdgeRecord{
			EdgeID:        ext.ExtensionID,
			EdgeType:      model.LocationTypeExtension,
			ParentZoneID:  ext.AZID,
			CapacityTypes: capacityTypes,
		})
	}
	return records
}

func generateRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
