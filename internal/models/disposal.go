package models

import (
	"time"

	"github.com/crucial707/pwasset/internal/ledgertime"
)

// Disposal reason categories accepted on add.
const (
	ReasonScrapped    = "Scrapped"
	ReasonSoldToThird = "Sold to Third Party"
	ReasonTradeIn     = "Trade in"
)

// Disposal records one retirement. It leaves the asset record untouched.
type Disposal struct {
	ID           string
	Location     string
	OldAssetCode string
	SerialNumber string
	Details      string
	Reason       string
	When         time.Time
	Operator     string
}

func (d *Disposal) Snapshot() Snapshot {
	return Snapshot{
		"location":     d.Location,
		"oldAssetCode": d.OldAssetCode,
		"serialNumber": d.SerialNumber,
		"details":      d.Details,
		"reason":       d.Reason,
		"when":         ledgertime.Format(d.When),
		"operator":     d.Operator,
	}
}

func (d *Disposal) View() Snapshot {
	return d.Snapshot().WithID(d.ID)
}
