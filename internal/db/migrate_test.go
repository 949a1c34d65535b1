package db_test

import (
	"context"
	"testing"
	"testing/fstest"

	dbfs "github.com/PhamNghia11/career-web/db"
	"github.com/PhamNghia11/career-web/internal/db"
)

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()

	d, err := db.New(ctx, tempDSN(t), nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer d.Close()

	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	var count int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("scan schema_migrations count: %v", err)
	}
	if count < 1 {
		t.Fatalf("expected at least 1 migration recorded, got %d", count)
	}

	for _, table := range []string{"accounts", "jobs", "notifications"} {
		var name string
		if err := d.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name); err != nil {
			t.Fatalf("expected %s table exists: %v", table, err)
		}
	}
}

func TestMigrate_NotificationTargetCheck(t *testing.T) {
	ctx := context.Background()
	d, err := db.New(ctx, tempDSN(t), nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer d.Close()
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	// both routing keys set violates the table constraint
	_, err = d.Exec(ctx, `INSERT INTO notifications (id, target_user_id, target_role, kind, title, created) VALUES ('n1', 'u1', 'admin', 'job', 't', 1)`)
	if err == nil {
		t.Fatalf("expected constraint violation when both targets set")
	}
	_, err = d.Exec(ctx, `INSERT INTO notifications (id, kind, title, created) VALUES ('n2', 'job', 't', 1)`)
	if err == nil {
		t.Fatalf("expected constraint violation when no target set")
	}
}

func TestMigrate_BrokenMigration(t *testing.T) {
	ctx := context.Background()
	d, err := db.New(ctx, tempDSN(t), nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer d.Close()

	fsys := fstest.MapFS{
		"migrations/0001_ok.sql":     {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
		"migrations/0002_broken.sql": {Data: []byte(`CREATE TABLE (;`)},
	}
	if err := db.Migrate(ctx, d, fsys); err == nil {
		t.Fatalf("expected error from broken migration")
	}

	var count int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = '0002_broken'`).Scan(&count); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if count != 0 {
		t.Fatalf("broken migration must not be recorded")
	}
}
