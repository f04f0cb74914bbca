package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/pwasset/internal/models"
	"github.com/lib/pq"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Get By UserID
// ==========================
func (r *UserRepo) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT user_id, password, user_name, user_group, park_ids
		FROM users
		WHERE user_id = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, userID).
		Scan(&user.UserID, &user.Password, &user.UserName, &user.UserGroup, pq.Array(&user.ParkIDs))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Update Password Hash
// ==========================

// UpdatePassword replaces the stored hash. Used to upgrade legacy hashes.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID, hash string) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE users SET password = $1 WHERE user_id = $2`, hash, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
