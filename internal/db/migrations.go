package db

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	embeddedmigrations "github.com/terraincognita07/circlecare/migrations"
	"gorm.io/gorm"
)

var (
	errMigrationEdited  = errors.New("applied migration was edited")
	errMigrationUnknown = errors.New("database has a migration this build does not know")
)

type schemaMigration struct {
	Version    int
	Name       string
	Checksum   string
	Statements []string
}

type ledgerRow struct {
	Version  int    `gorm:"column:version"`
	Name     string `gorm:"column:name"`
	Checksum string `gorm:"column:checksum"`
}

// runMigrations brings the schema up to the newest embedded migration. An
// applied file whose checksum changed, or a ledger version with no embedded
// file, is an error.
func runMigrations(database *gorm.DB) error {
	const ledgerSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  checksum TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`
	if err := database.Exec(ledgerSQL).Error; err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	pending, err := pendingMigrations(database)
	if err != nil {
		return err
	}
	for _, migration := range pending {
		if err := database.Transaction(func(tx *gorm.DB) error {
			return applyMigration(tx, migration)
		}); err != nil {
			return err
		}
		log.Info().Int("version", migration.Version).Str("migration", migration.Name).Msg("applied schema migration")
	}
	return nil
}

// pendingMigrations checks the ledger against the embedded files and returns
// the ones still to run, oldest first.
func pendingMigrations(database *gorm.DB) ([]schemaMigration, error) {
	embedded, err := embeddedMigrations()
	if err != nil {
		return nil, err
	}

	rows := make([]ledgerRow, 0)
	if err := database.Raw(`SELECT version, name, checksum FROM schema_migrations`).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}

	byVersion := make(map[int]schemaMigration, len(embedded))
	for _, migration := range embedded {
		byVersion[migration.Version] = migration
	}

	applied := make(map[int]struct{}, len(rows))
	for _, row := range rows {
		migration, known := byVersion[row.Version]
		if !known {
			return nil, fmt.Errorf("%w: version %d (%s)", errMigrationUnknown, row.Version, row.Name)
		}
		if migration.Checksum != row.Checksum {
			return nil, fmt.Errorf("%w: %s", errMigrationEdited, migration.Name)
		}
		applied[row.Version] = struct{}{}
	}

	pending := make([]schemaMigration, 0, len(embedded))
	for _, migration := range embedded {
		if _, done := applied[migration.Version]; !done {
			pending = append(pending, migration)
		}
	}
	return pending, nil
}

func embeddedMigrations() ([]schemaMigration, error) {
	names, err := fs.Glob(embeddedmigrations.Files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	migrations := make([]schemaMigration, 0, len(names))
	seen := make(map[int]string, len(names))
	for _, name := range names {
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: name must look like 0001_description.sql", name)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: invalid version %q", name, prefix)
		}
		if previous, duplicate := seen[version]; duplicate {
			return nil, fmt.Errorf("migrations %s and %s share version %d", previous, name, version)
		}
		seen[version] = name

		raw, err := fs.ReadFile(embeddedmigrations.Files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		statements := splitSQLStatements(string(raw))
		if len(statements) == 0 {
			return nil, fmt.Errorf("migration %s has no statements", name)
		}

		sum := sha256.Sum256(raw)
		migrations = append(migrations, schemaMigration{
			Version:    version,
			Name:       name,
			Checksum:   hex.EncodeToString(sum[:]),
			Statements: statements,
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

func applyMigration(tx *gorm.DB, migration schemaMigration) error {
	for index, statement := range migration.Statements {
		if err := tx.Exec(statement).Error; err != nil {
			return fmt.Errorf("migration %s statement %d: %w", migration.Name, index+1, err)
		}
	}
	if err := tx.Exec(
		`INSERT INTO schema_migrations(version, name, checksum) VALUES (?, ?, ?)`,
		migration.Version,
		migration.Name,
		migration.Checksum,
	).Error; err != nil {
		return fmt.Errorf("record migration %s: %w", migration.Name, err)
	}
	return nil
}

// splitSQLStatements cuts a script on semicolons. Full-line "--" comments are
// dropped first; migrations must not put semicolons inside string literals.
func splitSQLStatements(script string) []string {
	lines := strings.Split(script, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}

	statements := make([]string, 0)
	for _, part := range strings.Split(strings.Join(kept, "\n"), ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}
