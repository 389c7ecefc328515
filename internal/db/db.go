package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Open connects to the link store and applies migrations. Local paths use the
// embedded SQLite driver; libsql:// and wss:// URLs go to a remote libsql server.
func Open(dsn string) (*sql.DB, error) {
	driver, source := DriverFor(dsn)
	if driver == "sqlite" {
		if dir := filepath.Dir(dsn); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
	}

	database, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver == "sqlite" {
		// A single writer avoids SQLITE_BUSY under WAL.
		database.SetMaxOpenConns(1)
	}
	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}
	if err := Migrate(database); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// DriverFor picks the database/sql driver and data source for dsn.
func DriverFor(dsn string) (driver, source string) {
	if strings.HasPrefix(dsn, "libsql://") || strings.HasPrefix(dsn, "wss://") ||
		strings.HasPrefix(dsn, "https://") || strings.HasPrefix(dsn, "http://") {
		return "libsql", dsn
	}
	return "sqlite", BuildDSN(dsn)
}

// BuildDSN turns a file path into a modernc sqlite DSN with WAL and foreign keys enabled.
func BuildDSN(path string) string {
	params := url.Values{}
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "foreign_keys(ON)")
	params.Add("_pragma", "busy_timeout(5000)")
	return "file:" + path + "?" + params.Encode()
}
