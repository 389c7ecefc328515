package db_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"shortlink/backend/internal/db"
)

func TestMigrate_UpgradesLegacySchema(t *testing.T) {
	database, err := sql.Open("sqlite", "file:legacy_upgrade?mode=memory&cache=shared&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`
		CREATE TABLE links (
			id INTEGER PRIMARY KEY,
			original_url TEXT NOT NULL,
			short_code TEXT NOT NULL UNIQUE,
			custom_code TEXT UNIQUE,
			owner_id TEXT,
			expires_at TEXT,
			created_at TEXT NOT NULL
		);
		CREATE TABLE clicks (
			id INTEGER PRIMARY KEY,
			link_id INTEGER NOT NULL,
			clicked_at TEXT NOT NULL,
			ip_address TEXT NOT NULL,
			user_agent TEXT NOT NULL DEFAULT '',
			referer TEXT NOT NULL DEFAULT '',
			country TEXT,
			city TEXT,
			region TEXT
		);
		INSERT INTO links (id, original_url, short_code, custom_code, created_at)
		VALUES (1, 'https://example.com', 'Ab3dE6gH', 'promo', '2024-01-01T00:00:00Z');
	`)
	require.NoError(t, err)

	require.NoError(t, db.Migrate(database))
	require.NoError(t, db.Migrate(database), "migrations must be idempotent")

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM link_codes WHERE link_id = 1`).Scan(&count))
	require.Equal(t, 2, count)

	require.NoError(t, database.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info('clicks') WHERE name IN ('visitor_hash', 'geo_source')`,
	).Scan(&count))
	require.Equal(t, 2, count)
}
