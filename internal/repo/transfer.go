package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/crucial707/pwasset/internal/ledgertime"
	"github.com/crucial707/pwasset/internal/models"
)

// TransferRepo persists transfer records.
type TransferRepo struct {
	DB *sql.DB
}

func NewTransferRepo(db *sql.DB) *TransferRepo {
	return &TransferRepo{DB: db}
}

const transferCols = `id, old_asset_code, "by", "to", reason, "when", operator, location`

// TransferFields are the transfer fields a partial update may set.
var TransferFields = FieldSet{
	"oldAssetCode": "old_asset_code",
	"by":           `"by"`,
	"to":           `"to"`,
	"reason":       "reason",
	"when":         `"when"`,
	"operator":     "operator",
	"location":     "location",
}

func scanTransfer(row rowScanner) (*models.Transfer, error) {
	var t models.Transfer
	var when time.Time
	if err := row.Scan(&t.ID, &t.OldAssetCode, &t.By, &t.To, &t.Reason, &when, &t.Operator, &t.Location); err != nil {
		return nil, err
	}
	t.When = ledgertime.FromStore(when)
	return &t, nil
}

func (r *TransferRepo) Create(ctx context.Context, t *models.Transfer) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO transfer_list (`+transferCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.OldAssetCode, t.By, t.To, t.Reason, ledgertime.ToStore(t.When), t.Operator, t.Location,
	)
	return err
}

func (r *TransferRepo) GetByID(ctx context.Context, id string) (*models.Transfer, error) {
	t, err := scanTransfer(r.DB.QueryRowContext(ctx,
		`SELECT `+transferCols+` FROM transfer_list WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// Update applies a partial update and returns the stored result.
func (r *TransferRepo) Update(ctx context.Context, id string, assigns []Assignment) (*models.Transfer, error) {
	if len(assigns) == 0 {
		return r.GetByID(ctx, id)
	}
	query, args := buildUpdate("transfer_list", transferCols, assigns, id)
	t, err := scanTransfer(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (r *TransferRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM transfer_list WHERE id = $1`, id)
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

// List returns transfers into any of locations (all when empty), newest first.
func (r *TransferRepo) List(ctx context.Context, locations []string) ([]models.Transfer, error) {
	query, args := listQuery("transfer_list", transferCols, locations)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transfers := []models.Transfer{}
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, *t)
	}
	return transfers, rows.Err()
}
