package models

import (
	"time"

	"github.com/crucial707/pwasset/internal/ledgertime"
)

// DefaultTransferReason applies when a transfer is added without a reason.
const DefaultTransferReason = "Operation"

// Transfer records one location change. Location duplicates To for
// location-scoped queries.
type Transfer struct {
	ID           string
	OldAssetCode string
	By           string
	To           string
	Reason       string
	When         time.Time
	Operator     string
	Location     string
}

func (t *Transfer) Snapshot() Snapshot {
	return Snapshot{
		"oldAssetCode": t.OldAssetCode,
		"by":           t.By,
		"to":           t.To,
		"reason":       t.Reason,
		"when":         ledgertime.Format(t.When),
		"operator":     t.Operator,
		"location":     t.Location,
	}
}

func (t *Transfer) View() Snapshot {
	return t.Snapshot().WithID(t.ID)
}
