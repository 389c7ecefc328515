package db

import (
	"database/sql"
	"fmt"
)

// Base schema. IDs are snowflakes, so no AUTOINCREMENT. Every code a link
// answers to (generated or custom) owns a row in link_codes, which makes the
// two namespaces mutually exclusive under a single primary key.
const baseSchema = `
CREATE TABLE IF NOT EXISTS links (
  id INTEGER PRIMARY KEY,
  original_url TEXT NOT NULL,
  short_code TEXT NOT NULL UNIQUE,
  custom_code TEXT UNIQUE,
  owner_id TEXT,
  expires_at TEXT,
  created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_links_owner_id ON links(owner_id);

CREATE TABLE IF NOT EXISTS link_codes (
  code TEXT PRIMARY KEY,
  link_id INTEGER NOT NULL,
  FOREIGN KEY (link_id) REFERENCES links(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS clicks (
  id INTEGER PRIMARY KEY,
  link_id INTEGER NOT NULL,
  clicked_at TEXT NOT NULL,
  ip_address TEXT NOT NULL,
  user_agent TEXT NOT NULL DEFAULT '',
  referer TEXT NOT NULL DEFAULT '',
  country TEXT,
  city TEXT,
  region TEXT,
  FOREIGN KEY (link_id) REFERENCES links(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_clicks_link_id ON clicks(link_id, clicked_at);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(baseSchema); err != nil {
		return fmt.Errorf("migrate base schema: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func runMigrations(db *sql.DB) error {
	// Migration 1: visitor hash for unique-visitor counts.
	if err := addColumnIfMissing(db, "clicks", "visitor_hash", `TEXT NOT NULL DEFAULT ''`); err != nil {
		return err
	}

	// Migration 2: remember which geo provider attributed the click.
	if err := addColumnIfMissing(db, "clicks", "geo_source", `TEXT`); err != nil {
		return err
	}

	// Migration 3: backfill link_codes for links written before the table existed.
	if _, err := db.Exec(`
		INSERT OR IGNORE INTO link_codes (code, link_id) SELECT short_code, id FROM links
	`); err != nil {
		return fmt.Errorf("backfill short codes: %w", err)
	}
	if _, err := db.Exec(`
		INSERT OR IGNORE INTO link_codes (code, link_id) SELECT custom_code, id FROM links WHERE custom_code IS NOT NULL
	`); err != nil {
		return fmt.Errorf("backfill custom codes: %w", err)
	}

	return nil
}

func addColumnIfMissing(db *sql.DB, table, column, definition string) error {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("check %s.%s column: %w", table, column, err)
	}
	if count > 0 {
		return nil
	}
	if _, err := db.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition)); err != nil {
		return fmt.Errorf("add %s.%s column: %w", table, column, err)
	}
	return nil
}
