package sqlitemigrate

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "migrate.db")
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestApplyMigrationsRunsOncePerFile(t *testing.T) {
	t.Parallel()

	migrationFS := fstest.MapFS{
		"0001_init.sql": &fstest.MapFile{Data: []byte(`
-- +migrate Up
CREATE TABLE entries (id TEXT PRIMARY KEY);
-- +migrate Down
DROP TABLE entries;
`)},
		"0002_seed.sql": &fstest.MapFile{Data: []byte(`
-- +migrate Up
INSERT INTO entries (id) VALUES ('seed-1');
-- +migrate Down
DELETE FROM entries WHERE id = 'seed-1';
`)},
	}

	sqlDB := openTestDB(t)
	if err := ApplyMigrations(sqlDB, migrationFS, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	// Reapplying must not duplicate the seeded row.
	if err := ApplyMigrations(sqlDB, migrationFS, ""); err != nil {
		t.Fatalf("reapply migrations: %v", err)
	}

	var count int
	if err := sqlDB.QueryRow("SELECT COUNT(1) FROM entries").Scan(&count); err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one seeded entry, got %d", count)
	}
}

func TestApplyMigrationsRequiresDB(t *testing.T) {
	t.Parallel()

	if err := ApplyMigrations(nil, fstest.MapFS{}, ""); err == nil {
		t.Fatal("expected nil db error")
	}
}

func TestExtractUpMigration(t *testing.T) {
	t.Parallel()

	content := `
-- +migrate Up
CREATE TABLE a (id TEXT);
-- +migrate Down
DROP TABLE a;
`
	up := ExtractUpMigration(content)
	if want := "CREATE TABLE a (id TEXT);"; !strings.Contains(up, want) {
		t.Fatalf("expected up section to contain %q, got %q", want, up)
	}
	if strings.Contains(up, "DROP TABLE") {
		t.Fatalf("expected down section excluded, got %q", up)
	}
}

func TestExtractUpMigrationWithoutMarkers(t *testing.T) {
	t.Parallel()

	content := "CREATE TABLE b (id TEXT);"
	if got := ExtractUpMigration(content); got != content {
		t.Fatalf("expected unmarked content returned verbatim, got %q", got)
	}
}
