package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/crucial707/pwasset/internal/models"
)

// AuditRepo persists audit log entries. Entries are only ever inserted.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Log appends e to the logs table.
func (r *AuditRepo) Log(ctx context.Context, e *models.AuditEntry) error {
	before, err := marshalSnapshot(e.Before)
	if err != nil {
		return fmt.Errorf("encode before: %w", err)
	}
	after, err := marshalSnapshot(e.After)
	if err != nil {
		return fmt.Errorf("encode after: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO logs (id, action, operator, before, after, time, target_type, target_id) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Action, e.Operator, before, after, e.Time, e.TargetType, e.TargetID,
	)
	return err
}

// List returns recent audit entries, newest first by insertion order.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, action, operator, before, after, time, target_type, target_id FROM logs ORDER BY seq DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		var before, after []byte
		if err := rows.Scan(&e.ID, &e.Action, &e.Operator, &before, &after, &e.Time, &e.TargetType, &e.TargetID); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(before, &e.Before); err != nil {
			return nil, fmt.Errorf("decode before of %s: %w", e.ID, err)
		}
		if err := json.Unmarshal(after, &e.After); err != nil {
			return nil, fmt.Errorf("decode after of %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func marshalSnapshot(s models.Snapshot) ([]byte, error) {
	if s == nil {
		s = models.Snapshot{}
	}
	return json.Marshal(s)
}
