package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"shortlink/backend/internal/db"
	"shortlink/backend/internal/model"
	"shortlink/backend/pkg/snowflake"

	_ "modernc.org/sqlite"
)

var snowflakeOnce sync.Once

// NewTestDB opens a private in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	snowflakeOnce.Do(func() {
		if err := snowflake.Init(0); err != nil {
			panic("failed to initialize snowflake: " + err.Error())
		}
	})

	// Shared cache keeps every pooled connection on the same in-memory database;
	// the unique name keeps parallel tests apart.
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, time.Now().UnixNano())
	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(database); err != nil {
		database.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database
}

func ptrVal[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func timeVal(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// SeedLink inserts a link and its code reservations, returning the link id.
func SeedLink(t *testing.T, database *sql.DB, link model.ShortLink) int64 {
	t.Helper()

	if link.ID == 0 {
		link.ID = snowflake.NextID()
	}
	if link.OriginalURL == "" {
		link.OriginalURL = "https://example.com/" + link.ShortCode
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}

	ctx := context.Background()
	_, err := database.ExecContext(ctx,
		`INSERT INTO links (id, original_url, short_code, custom_code, owner_id, expires_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		link.ID, link.OriginalURL, link.ShortCode, ptrVal(link.CustomCode), ptrVal(link.OwnerID),
		timeVal(link.ExpiresAt), link.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		t.Fatalf("failed to seed link: %v", err)
	}

	codes := []string{link.ShortCode}
	if link.CustomCode != nil {
		codes = append(codes, *link.CustomCode)
	}
	for _, code := range codes {
		if _, err := database.ExecContext(ctx, `INSERT INTO link_codes (code, link_id) VALUES (?, ?)`, code, link.ID); err != nil {
			t.Fatalf("failed to seed link code %q: %v", code, err)
		}
	}

	return link.ID
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, database *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := database.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
