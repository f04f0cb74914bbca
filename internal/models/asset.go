package models

import (
	"time"

	"github.com/crucial707/pwasset/internal/ledgertime"
)

// TagOnsite is the lifecycle tag every new asset starts with.
const TagOnsite = "onsite"

// SyncOriginAPI marks assets created through this service.
const SyncOriginAPI = "A"

// Asset is the live state of one physical item.
type Asset struct {
	ID           string
	When         time.Time
	OldAssetCode string
	SerialNumber string
	Operator     string
	Details      string
	Tag          string
	Location     string
	AreaCode     string
	SyncOrigin   string
}

// Snapshot is the field map used in audit entries (identity excluded).
func (a *Asset) Snapshot() Snapshot {
	return Snapshot{
		"when":         ledgertime.Format(a.When),
		"oldAssetCode": a.OldAssetCode,
		"serialNumber": a.SerialNumber,
		"operator":     a.Operator,
		"details":      a.Details,
		"tag":          a.Tag,
		"location":     a.Location,
		"areaCode":     a.AreaCode,
	}
}

// View is the wire form: the snapshot plus the stringified identity.
func (a *Asset) View() Snapshot {
	return a.Snapshot().WithID(a.ID)
}
