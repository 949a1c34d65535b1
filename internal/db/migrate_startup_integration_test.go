package db_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	dbfs "github.com/PhamNghia11/career-web/db"
	"github.com/PhamNghia11/career-web/internal/config"
	"github.com/PhamNghia11/career-web/internal/db"
)

// TestMigrateOnStart_TempWorkdir runs the startup path of the server against
// a config file and database that live in a temporary directory.
func TestMigrateOnStart_TempWorkdir(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "portal.db")

	cfgY := "addr: \":0\"\n" +
		"migrate_on_start: true\n" +
		"storage:\n" +
		"  driver: sqlite\n" +
		"  database_path: '" + dbPath + "'\n"

	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfgY), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// allow insecure default JWTSecret for this test
	t.Setenv("PORTAL_ENV", "development")
	t.Setenv("PORTAL_JWT_SECRET", "")

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}
	if !cfg.MigrateOnStart || cfg.Storage.DatabasePath != dbPath {
		t.Fatalf("unexpected config: %+v", cfg.Storage)
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, cfg.APITimeout)
	defer dbCancel()

	d, err := db.New(dbCtx, cfg.Storage.DatabasePath, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer d.Close()

	if err := db.Migrate(dbCtx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var count int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count == 0 {
		t.Fatalf("no migrations recorded")
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database file not created: %v", err)
	}
}
