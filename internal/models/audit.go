package models

// Audit actions.
const (
	ActionAdd    = "add"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// Audit target types.
const (
	TargetAsset    = "asset"
	TargetTransfer = "transfer"
	TargetDisposal = "disposal"
)

// Snapshot is a flat field map of a record as it appeared at one moment.
type Snapshot map[string]any

// WithID returns a copy with the "id" key set.
func (s Snapshot) WithID(id string) Snapshot {
	out := make(Snapshot, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out["id"] = id
	return out
}

// AuditEntry is one append-only audit log row.
type AuditEntry struct {
	ID         string   `json:"id"`
	Action     string   `json:"action"`
	Operator   string   `json:"operator"`
	Before     Snapshot `json:"before"`
	After      Snapshot `json:"after"`
	Time       string   `json:"time"`
	TargetType string   `json:"targetType"`
	TargetID   string   `json:"targetId"`
}
