package db

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gorm.io/gorm"
)

func openMigrationTestDatabase(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { closeMigrationTestDatabase(database) })
	return database
}

func closeMigrationTestDatabase(database *gorm.DB) {
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func TestOpenSQLiteCreatesSchemaOnCleanDatabase(t *testing.T) {
	database := openMigrationTestDatabase(t, filepath.Join(t.TempDir(), "clean.db"))

	for _, table := range []string{"users", "friend_requests", "friendships", "log_entries"} {
		if !database.Migrator().HasTable(table) {
			t.Fatalf("expected table %s after migrations", table)
		}
	}
	for _, column := range []string{"username", "password_hash", "must_change_password", "created_at"} {
		if !database.Migrator().HasColumn("users", column) {
			t.Fatalf("expected users.%s", column)
		}
	}
	assertUniqueIndex(t, database, "uidx_friend_request_pair", "pair_low,pair_high")
	assertUniqueIndex(t, database, "uidx_friendship_pair", "user_low_id,user_high_id")
	assertUniqueIndex(t, database, "uidx_log_user_date", "user_id,date")

	embedded, err := embeddedMigrations()
	if err != nil {
		t.Fatalf("embeddedMigrations returned error: %v", err)
	}
	rows := make([]ledgerRow, 0)
	if err := database.Raw(`SELECT version, name, checksum FROM schema_migrations ORDER BY version`).Scan(&rows).Error; err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if len(rows) != len(embedded) {
		t.Fatalf("expected %d ledger rows, got %d", len(embedded), len(rows))
	}
	for index, row := range rows {
		if row.Version != embedded[index].Version || row.Checksum != embedded[index].Checksum {
			t.Fatalf("ledger row %d = %+v, want version %d checksum %s", index, row, embedded[index].Version, embedded[index].Checksum)
		}
	}
}

func TestOpenSQLiteReopenAppliesNothing(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "reopen.db")

	first, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	closeMigrationTestDatabase(first)

	second := openMigrationTestDatabase(t, databasePath)
	pending, err := pendingMigrations(second)
	if err != nil {
		t.Fatalf("pendingMigrations returned error: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected nothing pending after reopen, got %d", len(pending))
	}
}

func TestOpenSQLiteRejectsEditedMigration(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "edited.db")

	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := database.Exec(`UPDATE schema_migrations SET checksum = 'stale' WHERE version = 1`).Error; err != nil {
		t.Fatalf("rewrite checksum: %v", err)
	}
	closeMigrationTestDatabase(database)

	reopened, err := OpenSQLite(databasePath)
	if err == nil {
		closeMigrationTestDatabase(reopened)
		t.Fatal("expected reopen to fail")
	}
	if !errors.Is(err, errMigrationEdited) {
		t.Fatalf("expected edited migration error, got %v", err)
	}
}

func TestOpenSQLiteRejectsNewerDatabase(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "newer.db")

	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := database.Exec(
		`INSERT INTO schema_migrations(version, name, checksum) VALUES (?, ?, ?)`,
		9999, "9999_future.sql", "future",
	).Error; err != nil {
		t.Fatalf("insert future ledger row: %v", err)
	}
	closeMigrationTestDatabase(database)

	reopened, err := OpenSQLite(databasePath)
	if err == nil {
		closeMigrationTestDatabase(reopened)
		t.Fatal("expected reopen to fail")
	}
	if !errors.Is(err, errMigrationUnknown) {
		t.Fatalf("expected unknown migration error, got %v", err)
	}
}

func TestEmbeddedMigrationsAreOrderedFromOne(t *testing.T) {
	migrations, err := embeddedMigrations()
	if err != nil {
		t.Fatalf("embeddedMigrations returned error: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected at least one embedded migration")
	}
	for index, migration := range migrations {
		if migration.Version != index+1 {
			t.Fatalf("expected version %d at position %d, got %d (%s)", index+1, index, migration.Version, migration.Name)
		}
		if len(migration.Checksum) != 64 {
			t.Fatalf("expected sha256 hex checksum for %s, got %q", migration.Name, migration.Checksum)
		}
	}
}

func TestSplitSQLStatementsDropsCommentsAndEmptyParts(t *testing.T) {
	script := "-- users\nCREATE TABLE a (id INTEGER);\n\n  -- index\n ; CREATE INDEX b ON a(id);  "
	statements := splitSQLStatements(script)
	expected := []string{"CREATE TABLE a (id INTEGER)", "CREATE INDEX b ON a(id)"}
	if !reflect.DeepEqual(statements, expected) {
		t.Fatalf("splitSQLStatements = %#v, want %#v", statements, expected)
	}
}

func assertUniqueIndex(t *testing.T, database *gorm.DB, indexName string, columns string) {
	t.Helper()

	var row struct {
		SQL string `gorm:"column:sql"`
	}
	if err := database.Raw(`SELECT sql FROM sqlite_master WHERE type = 'index' AND name = ?`, indexName).Scan(&row).Error; err != nil {
		t.Fatalf("load index %s: %v", indexName, err)
	}
	definition := strings.ToLower(strings.Join(strings.Fields(row.SQL), ""))
	if !strings.HasPrefix(definition, "createuniqueindex") {
		t.Fatalf("expected %s to be unique, got %q", indexName, row.SQL)
	}
	if !strings.Contains(definition, "("+columns+")") {
		t.Fatalf("expected %s on (%s), got %q", indexName, columns, row.SQL)
	}
}
