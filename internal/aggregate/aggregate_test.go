package aggregate

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/edgecatalog/edged/internal/collector"
	"github.com/edgecatalog/edged/internal/model"
)

type fakeZones struct {
	zones []model.Zone
	err   error
	calls int
}

func (f *fakeZones) Zones(ctx context.Context, region string) ([]model.Zone, error) {
	f.calls++
	return f.zones, f.err
}

type fakeExtensions struct {
	extensions []model.Extension
	err        error
	calls      int
}

func (f *fakeExtensions) Extensions(ctx context.Context, region string) ([]model.Extension, error) {
	f.calls++
	return f.extensions, f.err
}

func TestReportSuccess(t *testing.T) {
	zones := &fakeZones{zones: []model.Zone{
		{
			ZoneID:        "usw2-lax-1a",
			RegionName:    "us-west-2",
			ParentAZ:      "usw2-az1",
			CapacityTypes: []string{"r5.xlarge"},
		},
	}}
	exts := &fakeExtensions{}

	report, errs := New(zones, exts).Report(context.Background(), "us-west-2")
	if len(errs) != 0 {
		t.Fatalf("Report() errors = %v", errs)
	}
	if report == nil {
		t.Fatal("Report() returned nil report")
	}

	if len(report.PublicNearEdgeZones) != 1 {
		t.Fatalf("got %d zone entries, want 1", len(report.PublicNearEdgeZones))
	}
	entry := report.PublicNearEdgeZones[0]
	if entry.EdgeID != "usw2-lax-1a" || entry.ParentRegion != "us-west-2" || entry.ParentAZ != "usw2-az1" {
		t.Errorf("unexpected zone entry: %+v", entry)
	}
	if want := []string{"xlarge"}; !reflect.DeepEqual(entry.RFamily, want) {
		t.Errorf("RFamily = %v, want %v", entry.RFamily, want)
	}
	if len(entry.CFamily) != 0 || len(entry.MFamily) != 0 {
		t.Errorf("expected empty c/m families, got %+v", entry.FamilySets)
	}
	if report.Extensions != nil {
		t.Errorf("Extensions = %+v, want nil for empty extension list", report.Extensions)
	}
}

func TestReportZoneOrderPreserved(t *testing.T) {
	zones := &fakeZones{zones: []model.Zone{
		{ZoneID: "usw2-las-1a"},
		{ZoneID: "usw2-lax-1a"},
		{ZoneID: "usw2-den-1a"},
	}}

	report, errs := New(zones, &fakeExtensions{}).Report(context.Background(), "us-west-2")
	if len(errs) != 0 {
		t.Fatalf("Report() errors = %v", errs)
	}

	got := make([]string, 0, len(report.PublicNearEdgeZones))
	for _, entry := range report.PublicNearEdgeZones {
		got = append(got, entry.EdgeID)
	}
	want := []string{"usw2-las-1a", "usw2-lax-1a", "usw2-den-1a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("zone order = %v, want %v", got, want)
	}
}

func TestReportExtensionFailureIsIsolated(t *testing.T) {
	zones := &fakeZones{zones: []model.Zone{{ZoneID: "usw2-lax-1a"}}}
	exts := &fakeExtensions{err: &collector.RemoteError{Collector: "extension", Status: 502}}

	report, errs := New(zones, exts).Report(context.Background(), "us-west-2")
	if report != nil {
		t.Fatal("partial success must not produce a report")
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}

	var collErr *CollectorError
	if !errors.As(errs[0], &collErr) {
		t.Fatalf("error %v is not a *CollectorError", errs[0])
	}
	if collErr.Collector != "extension" || collErr.Kind != KindInvoke {
		t.Errorf("error tagged %s/%s, want extension/%s", collErr.Collector, collErr.Kind, KindInvoke)
	}
	if zones.calls != 1 || exts.calls != 1 {
		t.Errorf("collector calls = %d/%d, want both attempted once", zones.calls, exts.calls)
	}
}

func TestReportZoneFailureDoesNotAbortExtensions(t *testing.T) {
	zones := &fakeZones{err: errors.New("connection refused")}
	exts := &fakeExtensions{err: errors.New("decode failed")}

	report, errs := New(zones, exts).Report(context.Background(), "us-west-2")
	if report != nil {
		t.Fatal("expected no report")
	}
	if exts.calls != 1 {
		t.Error("extension collector was not attempted after zone failure")
	}
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2", len(errs))
	}

	// Errors are appended in invocation order: zones first
	var first *CollectorError
	if !errors.As(errs[0], &first) || first.Collector != "zone" {
		t.Errorf("first error = %v, want zone collector error", errs[0])
	}
	if first.Kind != KindUnexpected {
		t.Errorf("Kind = %s, want %s for a transport failure", first.Kind, KindUnexpected)
	}
}

func TestErrorStringsEmbedCause(t *testing.T) {
	zones := &fakeZones{err: errors.New("dial tcp: connection refused")}
	_, errs := New(zones, &fakeExtensions{}).Report(context.Background(), "us-west-2")

	strs := ErrorStrings(errs)
	if len(strs) != 1 {
		t.Fatalf("got %d strings, want 1", len(strs))
	}
	if !strings.Contains(strs[0], "dial tcp: connection refused") {
		t.Errorf("error string %q does not embed the cause", strs[0])
	}
	if !strings.Contains(strs[0], "zone collector") {
		t.Errorf("error string %q does not name the collector", strs[0])
	}
}

func TestReportFirstExtensionCarriesIdentity(t *testing.T) {
	exts := &fakeExtensions{extensions: []model.Extension{
		{
			ExtensionID: "op-1111",
			AZ:          "us-west-2a",
			Assets: []model.ExtensionAsset{
				{AssetID: "a1", CapacityTypes: []string{"c6i.4xlarge", "m5.large"}},
				{AssetID: "a2", CapacityTypes: []string{"c6i.2xlarge"}},
			},
		},
		{
			ExtensionID: "op-2222",
			AZ:          "us-west-2b",
			Assets: []model.ExtensionAsset{
				{AssetID: "b1", CapacityTypes: []string{"r5.xlarge"}},
			},
		},
	}}

	report, errs := New(&fakeZones{}, exts).Report(context.Background(), "us-west-2")
	if len(errs) != 0 {
		t.Fatalf("Report() errors = %v", errs)
	}
	if report.Extensions == nil {
		t.Fatal("Extensions is nil")
	}

	// Identity from the first rack, capacity pooled from every rack
	if report.Extensions.EdgeID != "op-1111" || report.Extensions.ParentAZ != "us-west-2a" {
		t.Errorf("extension identity = %s/%s, want op-1111/us-west-2a", report.Extensions.EdgeID, report.Extensions.ParentAZ)
	}
	if report.Extensions.ParentRegion != "us-west-2" {
		t.Errorf("ParentRegion = %s, want us-west-2", report.Extensions.ParentRegion)
	}
	if want := []string{"2xlarge", "4xlarge"}; !reflect.DeepEqual(report.Extensions.CFamily, want) {
		t.Errorf("CFamily = %v, want %v", report.Extensions.CFamily, want)
	}
	if want := []string{"xlarge"}; !reflect.DeepEqual(report.Extensions.RFamily, want) {
		t.Errorf("RFamily = %v, want %v", report.Extensions.RFamily, want)
	}
}
