package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/crucial707/pwasset/internal/ledgertime"
	"github.com/crucial707/pwasset/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type AssetRepo struct {
	DB *sql.DB
}

func NewAssetRepo(db *sql.DB) *AssetRepo {
	return &AssetRepo{DB: db}
}

const assetCols = `id, "when", old_asset_code, serial_number, operator, details, tag, location, area_code, sync_origin`

// AssetFields are the asset fields a partial update may set. tag is
// deliberately absent: the lifecycle tag is not editable this way.
var AssetFields = FieldSet{
	"when":         `"when"`,
	"oldAssetCode": "old_asset_code",
	"serialNumber": "serial_number",
	"operator":     "operator",
	"details":      "details",
	"location":     "location",
	"areaCode":     "area_code",
}

func scanAsset(row rowScanner) (*models.Asset, error) {
	var a models.Asset
	var when time.Time
	if err := row.Scan(&a.ID, &when, &a.OldAssetCode, &a.SerialNumber, &a.Operator,
		&a.Details, &a.Tag, &a.Location, &a.AreaCode, &a.SyncOrigin); err != nil {
		return nil, err
	}
	a.When = ledgertime.FromStore(when)
	return &a, nil
}

// ========================
// CREATE ASSET
// ========================

func (r *AssetRepo) Create(ctx context.Context, a *models.Asset) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO asset_list (`+assetCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, ledgertime.ToStore(a.When), a.OldAssetCode, a.SerialNumber, a.Operator,
		a.Details, a.Tag, a.Location, a.AreaCode, a.SyncOrigin,
	)
	return err
}

// ========================
// GET ASSET BY ID
// ========================

func (r *AssetRepo) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	a, err := scanAsset(r.DB.QueryRowContext(ctx,
		`SELECT `+assetCols+` FROM asset_list WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// ========================
// UPDATE ASSET BY ID
// ========================

// Update applies a partial update and returns the stored result.
func (r *AssetRepo) Update(ctx context.Context, id string, assigns []Assignment) (*models.Asset, error) {
	if len(assigns) == 0 {
		return r.GetByID(ctx, id)
	}
	query, args := buildUpdate("asset_list", assetCols, assigns, id)
	a, err := scanAsset(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// ========================
// APPLY TRANSFER
// ========================

// ApplyTransfer moves the asset carrying oldAssetCode to location. When
// several assets share the code the most recently touched one moves.
// It reports whether an asset was found.
func (r *AssetRepo) ApplyTransfer(ctx context.Context, oldAssetCode, location string, when time.Time, operator string) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE asset_list
		 SET location = $1, "when" = $2, operator = $3
		 WHERE id = (
		     SELECT id FROM asset_list WHERE old_asset_code = $4 ORDER BY "when" DESC LIMIT 1
		 )`,
		location, ledgertime.ToStore(when), operator, oldAssetCode,
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ========================
// DELETE ASSET BY ID
// ========================

func (r *AssetRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM asset_list WHERE id = $1`, id)
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

// ========================
// LIST ASSETS
// ========================

// List returns assets at any of locations (all when empty), newest first.
func (r *AssetRepo) List(ctx context.Context, locations []string) ([]models.Asset, error) {
	query, args := listQuery("asset_list", assetCols, locations)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *a)
	}
	return assets, rows.Err()
}
