// Package aggregate composes the zone and extension collectors into the
// unified edge report.
package aggregate

import (
	"context"
	"errors"
	"fmt"

	"github.com/edgecatalog/edged/internal/classify"
	"github.com/edgecatalog/edged/internal/collector"
	"github.com/edgecatalog/edged/internal/log"
	"github.com/edgecatalog/edged/internal/model"
)

// Error kinds recorded against a failed collector call.
const (
	KindInvoke     = "invoke"
	KindUnexpected = "unexpected"
)

// CollectorError tags a collector failure with which collector produced
// it and whether it was a recognised remote-invocation failure.
type CollectorError struct {
	Collector string
	Kind      string
	Err       error
}

func (e *CollectorError) Error() string {
	if e.Kind == KindUnexpected {
		return fmt.Sprintf("Unexpected error calling %s collector: %s", e.Collector, e.Err)
	}
	return fmt.Sprintf("Error calling %s collector: %s", e.Collector, e.Err)
}

func (e *CollectorError) Unwrap() error { return e.Err }

// Aggregator fans out to both collectors and normalises their raw
// output into an EdgeReport.
type Aggregator struct {
	zones      collector.ZoneCollector
	extensions collector.ExtensionCollector
}

// New creates an aggregator over the given collectors.
func New(zones collector.ZoneCollector, extensions collector.ExtensionCollector) *Aggregator {
	return &Aggregator{zones: zones, extensions: extensions}
}

// Report invokes the zone collector and then the extension collector,
// always attempting both. Failures are accumulated in invocation order;
// if either call failed the report is nil and the error slice holds one
// tagged entry per failed collector. The report is only produced when
// both collectors succeeded.
func (a *Aggregator) Report(ctx context.Context, region string) (*model.EdgeReport, []error) {
	var errs []error

	zones, err := a.zones.Zones(ctx, region)
	if err != nil {
		errs = append(errs, tagError("zone", err))
		log.Warn("Zone collector failed", "region", region, "error", err)
	}

	extensions, err := a.extensions.Extensions(ctx, region)
	if err != nil {
		errs = append(errs, tagError("extension", err))
		log.Warn("Extension collector failed", "region", region, "error", err)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	report := &model.EdgeReport{
		PublicNearEdgeZones: normalizeZones(zones),
		Extensions:          normalizeExtensions(region, extensions),
	}
	log.Info("Edge report assembled",
		"region", region,
		"zones", len(report.PublicNearEdgeZones),
		"has_extensions", report.Extensions != nil)
	return report, nil
}

// ErrorStrings renders accumulated collector errors for the response
// envelope. Underlying failure text is embedded verbatim.
func ErrorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

func tagError(name string, err error) error {
	kind := KindUnexpected
	var remoteErr *collector.RemoteError
	if errors.As(err, &remoteErr) {
		kind = KindInvoke
	}
	return &CollectorError{Collector: name, Kind: kind, Err: err}
}

// normalizeZones emits one entry per zone, preserving collector order.
// Only the size sets inside each entry are sorted.
func normalizeZones(zones []model.Zone) []model.ZoneEntry {
	entries := make([]model.ZoneEntry, 0, len(zones))
	for _, zone := range zones {
		entries = append(entries, model.ZoneEntry{
			EdgeID:       zone.ZoneID,
			ParentRegion: zone.RegionName,
			ParentAZ:     zone.ParentAZ,
			FamilySets:   classify.Buckets(zone.CapacityTypes),
		})
	}
	return entries
}

// normalizeExtensions pools capacity types across every asset of every
// rack, then reports them under the first rack's identity. Regions with
// more than one rack are assumed not to occur; additional racks only
// contribute capacity types.
func normalizeExtensions(region string, extensions []model.Extension) *model.ExtensionEntry {
	if len(extensions) == 0 {
		return nil
	}

	var capacityTypes []string
	for _, ext := range extensions {
		for _, asset := range ext.Assets {
			capacityTypes = append(capacityTypes, asset.CapacityTypes...)
		}
	}

	first := extensions[0]
	return &model.ExtensionEntry{
		EdgeID:       first.ExtensionID,
		ParentRegion: region,
		ParentAZ:     first.AZ,
		FamilySets:   classify.Buckets(capacityTypes),
	}
}
