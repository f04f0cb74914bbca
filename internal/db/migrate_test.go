package db

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrations_CreateEveryCollection(t *testing.T) {
	b, err := fs.ReadFile(Migrations(), "000001_init.up.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	sql := string(b)
	for _, table := range []string{"users", "areas", "parks", "asset_list", "transfer_list", "disposal_list", "logs"} {
		if !strings.Contains(sql, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Errorf("migration does not create %s", table)
		}
	}
}

func TestMigrations_HaveDownPair(t *testing.T) {
	ups, err := fs.Glob(Migrations(), "*.up.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(ups) == 0 {
		t.Fatal("no up migrations embedded")
	}
	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		if _, err := fs.Stat(Migrations(), down); err != nil {
			t.Errorf("%s has no matching %s", up, down)
		}
	}
}

func TestMigrations_AuditLogHasInsertionOrder(t *testing.T) {
	b, err := fs.ReadFile(Migrations(), "000002_logs_seq.up.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if !strings.Contains(string(b), "ADD COLUMN IF NOT EXISTS seq BIGSERIAL") {
		t.Errorf("logs.seq not added: %s", b)
	}
}
