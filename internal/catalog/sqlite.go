package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS packages (
	ecosystem    TEXT    NOT NULL,
	name         TEXT    NOT NULL,
	version      TEXT    NOT NULL DEFAULT '',
	description  TEXT    NOT NULL DEFAULT '',
	downloads    INTEGER NOT NULL DEFAULT 0,
	stars        INTEGER NOT NULL DEFAULT 0,
	updated_unix INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (ecosystem, name)
)`

// sqlOrderColumns maps sort fields that SQLite can order natively. Version
// ordering needs semver and is done in Go.
//
//nolint:gochecknoglobals // Read-only lookup table.
var sqlOrderColumns = map[string]string{
	SortDownloads: "downloads",
	SortStars:     "stars",
	SortName:      "lower(name)",
	SortUpdated:   "updated_unix",
}

// SQLiteSource queries a read-only SQLite catalog.
type SQLiteSource struct {
	db   *sql.DB
	path string
}

// NewSQLiteSource opens the database at path for reading.
func NewSQLiteSource(path string) (*SQLiteSource, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot open database %s: %w", path, err)
	}

	return &SQLiteSource{db: db, path: path}, nil
}

// Close implements Source.
func (s *SQLiteSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Query implements Source. Results from SQLite are always complete.
func (s *SQLiteSource) Query(ctx context.Context, filter Filter, limit int) (Snapshot, error) {
	sortSpec := filter.Sort.effective()

	var where []string
	var args []any

	if eco := strings.TrimSpace(filter.Ecosystem); eco != "" {
		where = append(where, "ecosystem = ? COLLATE NOCASE")
		args = append(args, eco)
	}
	if text := strings.ToLower(strings.TrimSpace(filter.Text)); text != "" {
		where = append(where, "(instr(lower(name), ?) > 0 OR instr(lower(description), ?) > 0)")
		args = append(args, text, text)
	}

	query := "SELECT ecosystem, name, version, description, downloads, stars, updated_unix FROM packages"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	column, native := sqlOrderColumns[sortSpec.Field]
	if native {
		dir := "DESC"
		if sortSpec.Order == SortOrderAsc {
			dir = "ASC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s, lower(ecosystem) ASC, name ASC", column, dir)
		if limit > 0 {
			query += " LIMIT ?"
			args = append(args, limit)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var pkgs []Package
	for rows.Next() {
		var p Package
		var updated int64
		if err := rows.Scan(&p.Ecosystem, &p.Name, &p.Version, &p.Description, &p.Downloads, &p.Stars, &updated); err != nil {
			return Snapshot{}, fmt.Errorf("scanning package: %w", err)
		}
		if updated > 0 {
			p.UpdatedAt = time.Unix(updated, 0).UTC()
		}
		pkgs = append(pkgs, p)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("reading packages: %w", err)
	}

	if !native {
		pkgs = SortPackages(pkgs, sortSpec)
		if limit > 0 && len(pkgs) > limit {
			pkgs = pkgs[:limit]
		}
	}

	return Snapshot{Items: pkgs, Complete: true}, nil
}

// ImportSQLite writes pkgs into the SQLite catalog at path, creating it if
// needed. Existing rows with the same key are replaced.
func ImportSQLite(ctx context.Context, path string, pkgs []Package) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO packages
		(ecosystem, name, version, description, downloads, stars, updated_unix)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing import: %w", err)
	}
	defer stmt.Close()

	for _, p := range pkgs {
		var updated int64
		if !p.UpdatedAt.IsZero() {
			updated = p.UpdatedAt.Unix()
		}
		if _, err := stmt.ExecContext(ctx, p.Ecosystem, p.Name, p.Version, p.Description, p.Downloads, p.Stars, updated); err != nil {
			return fmt.Errorf("importing %s: %w", Key(p), err)
		}
	}

	return tx.Commit()
}
