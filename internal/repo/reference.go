package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/pwasset/internal/models"
	"github.com/lib/pq"
)

// AreaRepo reads areas.
type AreaRepo struct {
	DB *sql.DB
}

func NewAreaRepo(db *sql.DB) *AreaRepo {
	return &AreaRepo{DB: db}
}

// List returns all areas ordered by code.
func (r *AreaRepo) List(ctx context.Context) ([]models.Area, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT area_id, code, name FROM areas ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	areas := []models.Area{}
	for rows.Next() {
		var a models.Area
		if err := rows.Scan(&a.AreaID, &a.Code, &a.Name); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

// ParkRepo reads parks.
type ParkRepo struct {
	DB *sql.DB
}

func NewParkRepo(db *sql.DB) *ParkRepo {
	return &ParkRepo{DB: db}
}

const parkCols = `park_id, area_code, name`

// List returns all parks ordered by id.
func (r *ParkRepo) List(ctx context.Context) ([]models.Park, error) {
	return r.query(ctx, `SELECT `+parkCols+` FROM parks ORDER BY park_id`)
}

// ListByIDs returns the parks whose ids are in ids.
func (r *ParkRepo) ListByIDs(ctx context.Context, ids []string) ([]models.Park, error) {
	if len(ids) == 0 {
		return []models.Park{}, nil
	}
	return r.query(ctx, `SELECT `+parkCols+` FROM parks WHERE park_id = ANY($1) ORDER BY park_id`, pq.Array(ids))
}

// GetByID returns one park.
func (r *ParkRepo) GetByID(ctx context.Context, id string) (*models.Park, error) {
	var p models.Park
	err := r.DB.QueryRowContext(ctx, `SELECT `+parkCols+` FROM parks WHERE park_id = $1`, id).
		Scan(&p.ParkID, &p.AreaCode, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ParkRepo) query(ctx context.Context, query string, args ...any) ([]models.Park, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parks := []models.Park{}
	for rows.Next() {
		var p models.Park
		if err := rows.Scan(&p.ParkID, &p.AreaCode, &p.Name); err != nil {
			return nil, err
		}
		parks = append(parks, p)
	}
	return parks, rows.Err()
}
