// Package collector talks to the provider metadata service that knows
// about near-edge zones and on-premises extension racks.
package collector

import (
	"context"
	"fmt"

	"github.com/edgecatalog/edged/internal/model"
)

// ZoneCollector lists the near-edge zones of a region together with the
// capacity types offered in each zone. Zone order is significant and is
// preserved by downstream consumers.
type ZoneCollector interface {
	Zones(ctx context.Context, region string) ([]model.Zone, error)
}

// ExtensionCollector lists the active extension racks of a region and
// the capacity assets installed on each rack.
type ExtensionCollector interface {
	Extensions(ctx context.Context, region string) ([]model.Extension, error)
}

// RemoteError reports a non-success status from the metadata service.
// Anything else that goes wrong during a collector call (transport
// failures, bad payloads) surfaces as an ordinary error.
type RemoteError struct {
	Collector string
	Status    int
	Body      string
}

func (e *RemoteError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s collector returned status %d: %s", e.Collector, e.Status, e.Body)
	}
	return fmt.Sprintf("%s collector returned status %d", e.Collector, e.Status)
}
