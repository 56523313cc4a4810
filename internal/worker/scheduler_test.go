package worker

import (
	"testing"

	"github.com/edgecatalog/edged/internal/catalog"
	"github.com/edgecatalog/edged/internal/model"
)

func TestSchedulerInvalidSchedule(t *testing.T) {
	runner := NewRunner(&fakeZones{}, &fakeExtensions{}, catalog.NewMemoryStore())
	scheduler := NewScheduler(runner, "us-east-1")

	if err := scheduler.Start("not a cron expression"); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestSchedulerRefreshRecordsLastRun(t *testing.T) {
	store := catalog.NewMemoryStore()
	runner := NewRunner(
		&fakeZones{zones: []model.Zone{{ZoneID: "use1-atl-1a", ParentAZ: "use1-az1"}}},
		&fakeExtensions{},
		store,
	)
	scheduler := NewScheduler(runner, "us-east-1")

	if scheduler.LastRun() != nil {
		t.Fatal("LastRun should be nil before the first refresh")
	}

	scheduler.refresh()

	run := scheduler.LastRun()
	if run == nil {
		t.Fatal("LastRun is nil after refresh")
	}
	if run.ZoneRecords != 1 {
		t.Errorf("ZoneRecords = %d, want 1", run.ZoneRecords)
	}
	if recs, _ := store.Query("use1-atl-1a"); len(recs) != 1 {
		t.Error("refresh did not persist the zone record")
	}
}
