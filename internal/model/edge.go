package model

import (
	"time"
)

// Location types stored in the catalog.
const (
	LocationTypePublicZone = "PublicZone"
	LocationTypeExtension  = "Extension"
)

// EdgeRecord is the unit persisted in the catalog, keyed by EdgeID.
// A write with an existing EdgeID overwrites the prior record.
type EdgeRecord struct {
	EdgeID        string    `json:"edge_id"`
	EdgeType      string    `json:"edge_type"`
	ParentZoneID  string    `json:"parent_az,omitempty"`
	CapacityTypes []string  `json:"available_families"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Zone is a near-edge zone as reported by the zone collector.
type Zone struct {
	ZoneID             string   `json:"zone_id"`
	ZoneName           string   `json:"zone_name"`
	RegionName         string   `json:"region_name"`
	ParentAZ           string   `json:"parent_az"`
	GroupName          string   `json:"group_name"`
	NetworkBorderGroup string   `json:"network_border_group"`
	OptInStatus        string   `json:"opt_in_status"`
	CapacityTypes      []string `json:"capacity_types"`
}

// Extension is an on-premises extension rack as reported by the
// extension collector.
type Extension struct {
	ExtensionID  string           `json:"extension_id"`
	ARN          string           `json:"arn"`
	Name         string           `json:"name"`
	AZ           string           `json:"az"`
	AZID         string           `json:"az_id"`
	HardwareType string           `json:"hardware_type"`
	Assets       []ExtensionAsset `json:"assets"`
}

// ExtensionAsset is a physical compute asset hosted on an extension rack.
type ExtensionAsset struct {
	AssetID       string   `json:"asset_id"`
	AssetType     string   `json:"asset_type"`
	Status        string   `json:"status"`
	HostFamily    []string `json:"host_family"`
	CapacityTypes []string `json:"capacity_types"`
}

// FamilySets holds the size variants offered per coarse instance family.
// Each slice is sorted and duplicate free; the sort is plain string
// order, so "16xlarge" comes before "2xlarge".
type FamilySets struct {
	CFamily []string `json:"c_family"`
	MFamily []string `json:"m_family"`
	RFamily []string `json:"r_family"`
}

// ZoneEntry is one near-edge zone in the unified answer.
type ZoneEntry struct {
	EdgeID       string `json:"edge_id"`
	ParentRegion string `json:"parent_region"`
	ParentAZ     string `json:"parent_az"`
	FamilySets
}

// ExtensionEntry carries the first extension rack's identity with the
// capacity types pooled across every asset of every rack.
type ExtensionEntry struct {
	EdgeID       string `json:"edge_id"`
	ParentRegion string `json:"parent_region"`
	ParentAZ     string `json:"parent_az"`
	FamilySets
}

// EdgeReport is the unified answer document. It is computed per request
// from live collector output and never persisted. Zones keep collector
// order; Extensions is nil when the region has no extension racks.
type EdgeReport struct {
	PublicNearEdgeZones []ZoneEntry     `json:"public_near_edge_zones"`
	Extensions          *ExtensionEntry `json:"extensions,omitempty"`
}

// ParentZoneResult is the answer for one id in a parent-zone lookup.
type ParentZoneResult struct {
	ParentAZ *string `json:"parent_az"`
	Found    bool    `json:"found"`
}

// DiscoveryRun summarises one collect-and-persist cycle.
type DiscoveryRun struct {
	ID          string     `json:"id"`
	Region      string     `json:"region"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ZoneRecords int        `json:"zone_records"`
	ExtRecords  int        `json:"extension_records"`
	Errors      []string   `json:"errors,omitempty"`
}
