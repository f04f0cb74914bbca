package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func TestAreaRepo_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT area_id, code, name FROM areas ORDER BY code`).
		WillReturnRows(sqlmock.NewRows([]string{"area_id", "code", "name"}).
			AddRow("000", "000", "Test Area"))

	areas, err := NewAreaRepo(db).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(areas) != 1 || areas[0].Name != "Test Area" {
		t.Errorf("unexpected areas: %+v", areas)
	}
}

func TestParkRepo_ListByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM parks WHERE park_id = ANY\(\$1\)`).
		WithArgs(pq.Array([]string{"NP360"})).
		WillReturnRows(sqlmock.NewRows([]string{"park_id", "area_code", "name"}).
			AddRow("NP360", "A01", "North Park"))

	repo := NewParkRepo(db)
	parks, err := repo.ListByIDs(context.Background(), []string{"NP360"})
	if err != nil {
		t.Fatalf("ListByIDs: %v", err)
	}
	if len(parks) != 1 || parks[0].AreaCode != "A01" {
		t.Errorf("unexpected parks: %+v", parks)
	}

	// No ids means no query.
	empty, err := repo.ListByIDs(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("ListByIDs(nil): %v %v", empty, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestParkRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM parks WHERE park_id = \$1`).
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"park_id", "area_code", "name"}))

	if _, err := NewParkRepo(db).GetByID(context.Background(), "NOPE"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
