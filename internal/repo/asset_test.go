package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/pwasset/internal/ledgertime"
	"github.com/crucial707/pwasset/internal/models"
	"github.com/lib/pq"
)

var assetColumns = []string{"id", "when", "old_asset_code", "serial_number", "operator", "details", "tag", "location", "area_code", "sync_origin"}

func TestAssetRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	when := time.Date(2024, 5, 1, 8, 0, 0, 0, ledgertime.Zone)
	mock.ExpectExec(`INSERT INTO asset_list \(id, "when", old_asset_code`).
		WithArgs("a-1", sqlmock.AnyArg(), "OLD-1", "SN1", "Alice", "laptop", "onsite", "NP360", "A01", "A").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewAssetRepo(db)
	err = repo.Create(context.Background(), &models.Asset{
		ID: "a-1", When: when, OldAssetCode: "OLD-1", SerialNumber: "SN1", Operator: "Alice",
		Details: "laptop", Tag: "onsite", Location: "NP360", AreaCode: "A01", SyncOrigin: "A",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAssetRepo_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	stored := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, "when", .* FROM asset_list WHERE id = \$1`).
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows(assetColumns).
			AddRow("a-1", stored, "OLD-1", "SN1", "Alice", "laptop", "onsite", "NP360", "A01", "A"))

	repo := NewAssetRepo(db)
	a, err := repo.GetByID(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if a.OldAssetCode != "OLD-1" || a.Location != "NP360" || a.Tag != "onsite" {
		t.Errorf("unexpected asset: %+v", a)
	}
	if got := ledgertime.Format(a.When); got != "2024-05-01T08:00:00" {
		t.Errorf("When: got %q, want stored wall clock", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAssetRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM asset_list WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(assetColumns))

	repo := NewAssetRepo(db)
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID: got %v, want ErrNotFound", err)
	}
}

func TestAssetRepo_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	stored := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`UPDATE asset_list SET details = \$1, operator = \$2 WHERE id = \$3 RETURNING id, "when"`).
		WithArgs("new details", "Bob", "a-1").
		WillReturnRows(sqlmock.NewRows(assetColumns).
			AddRow("a-1", stored, "OLD-1", "SN1", "Bob", "new details", "onsite", "NP360", "A01", "A"))

	repo := NewAssetRepo(db)
	a, err := repo.Update(context.Background(), "a-1", []Assignment{
		{Column: "operator", Value: "Bob"},
		{Column: "details", Value: "new details"},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if a.Details != "new details" || a.Operator != "Bob" {
		t.Errorf("unexpected asset: %+v", a)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAssetRepo_ApplyTransfer(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE asset_list\s+SET location = \$1, "when" = \$2, operator = \$3\s+WHERE id = \(\s+SELECT id FROM asset_list WHERE old_asset_code = \$4`).
		WithArgs("TEST", sqlmock.AnyArg(), "Alice", "OLD-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE asset_list`).
		WithArgs("TEST", sqlmock.AnyArg(), "Alice", "NOPE").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewAssetRepo(db)
	found, err := repo.ApplyTransfer(context.Background(), "OLD-1", "TEST", time.Now(), "Alice")
	if err != nil || !found {
		t.Errorf("ApplyTransfer existing: found=%v err=%v", found, err)
	}
	found, err = repo.ApplyTransfer(context.Background(), "NOPE", "TEST", time.Now(), "Alice")
	if err != nil || found {
		t.Errorf("ApplyTransfer missing: found=%v err=%v", found, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAssetRepo_DeleteByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM asset_list WHERE id = \$1`).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewAssetRepo(db)
	if err := repo.DeleteByID(context.Background(), "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteByID: got %v, want ErrNotFound", err)
	}
}

func TestAssetRepo_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	newer := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	older := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM asset_list ORDER BY "when" DESC`).
		WillReturnRows(sqlmock.NewRows(assetColumns).
			AddRow("a-2", newer, "", "", "", "d2", "onsite", "B", "", "A").
			AddRow("a-1", older, "", "", "", "d1", "onsite", "A", "", "A"))
	mock.ExpectQuery(`SELECT .* FROM asset_list WHERE location = ANY\(\$1\) ORDER BY "when" DESC`).
		WithArgs(pq.Array([]string{"A", "B"})).
		WillReturnRows(sqlmock.NewRows(assetColumns).
			AddRow("a-1", older, "", "", "", "d1", "onsite", "A", "", "A"))

	repo := NewAssetRepo(db)
	all, err := repo.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 || all[0].ID != "a-2" {
		t.Errorf("unexpected list: %+v", all)
	}
	filtered, err := repo.List(context.Background(), []string{"A", "B"})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Location != "A" {
		t.Errorf("unexpected filtered list: %+v", filtered)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestBuildUpdate_StableOrder(t *testing.T) {
	q, args := buildUpdate("t", "id", []Assignment{
		{Column: "zeta", Value: 1},
		{Column: "alpha", Value: 2},
	}, "x")
	want := "UPDATE t SET alpha = $1, zeta = $2 WHERE id = $3 RETURNING id"
	if q != want {
		t.Errorf("query: got %q, want %q", q, want)
	}
	if len(args) != 3 || args[0] != 2 || args[1] != 1 || args[2] != "x" {
		t.Errorf("args: %v", args)
	}
}
