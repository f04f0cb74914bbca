package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/crucial707/pwasset/internal/ledgertime"
	"github.com/crucial707/pwasset/internal/models"
)

// DisposalRepo persists disposal records.
type DisposalRepo struct {
	DB *sql.DB
}

func NewDisposalRepo(db *sql.DB) *DisposalRepo {
	return &DisposalRepo{DB: db}
}

const disposalCols = `id, location, old_asset_code, serial_number, details, reason, "when", operator`

// DisposalFields are the disposal fields a partial update may set.
var DisposalFields = FieldSet{
	"location":     "location",
	"oldAssetCode": "old_asset_code",
	"serialNumber": "serial_number",
	"details":      "details",
	"reason":       "reason",
	"when":         `"when"`,
	"operator":     "operator",
}

func scanDisposal(row rowScanner) (*models.Disposal, error) {
	var d models.Disposal
	var when time.Time
	if err := row.Scan(&d.ID, &d.Location, &d.OldAssetCode, &d.SerialNumber, &d.Details, &d.Reason, &when, &d.Operator); err != nil {
		return nil, err
	}
	d.When = ledgertime.FromStore(when)
	return &d, nil
}

func (r *DisposalRepo) Create(ctx context.Context, d *models.Disposal) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO disposal_list (`+disposalCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.Location, d.OldAssetCode, d.SerialNumber, d.Details, d.Reason, ledgertime.ToStore(d.When), d.Operator,
	)
	return err
}

func (r *DisposalRepo) GetByID(ctx context.Context, id string) (*models.Disposal, error) {
	d, err := scanDisposal(r.DB.QueryRowContext(ctx,
		`SELECT `+disposalCols+` FROM disposal_list WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

// Update applies a partial update and returns the stored result.
func (r *DisposalRepo) Update(ctx context.Context, id string, assigns []Assignment) (*models.Disposal, error) {
	if len(assigns) == 0 {
		return r.GetByID(ctx, id)
	}
	query, args := buildUpdate("disposal_list", disposalCols, assigns, id)
	d, err := scanDisposal(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

func (r *DisposalRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM disposal_list WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns disposals at any of locations (all when empty), newest first.
func (r *DisposalRepo) List(ctx context.Context, locations []string) ([]models.Disposal, error) {
	query, args := listQuery("disposal_list", disposalCols, locations)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	disposals := []models.Disposal{}
	for rows.Next() {
		d, err := scanDisposal(rows)
		if err != nil {
			return nil, err
		}
		disposals = append(disposals, *d)
	}
	return disposals, rows.Err()
}
