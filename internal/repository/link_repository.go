//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shortlink/backend/internal/model"
	"shortlink/backend/pkg/snowflake"
)

// LinkRepository stores short links. Codes are unique across the generated
// and custom namespaces.
type LinkRepository interface {
	// Create inserts link and reserves its codes atomically. A collision is
	// reported as *DuplicateCodeError and leaves no rows behind.
	Create(ctx context.Context, link *model.ShortLink) error
	// FindByCode returns the link answering to code, or nil when none does.
	FindByCode(ctx context.Context, code string) (*model.ShortLink, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]model.ShortLink, error)
}

type linkRepository struct {
	db *sql.DB
}

func NewLinkRepository(db *sql.DB) LinkRepository {
	return &linkRepository{db: db}
}

const linkColumns = `l.id, l.original_url, l.short_code, l.custom_code, l.owner_id, l.expires_at, l.created_at`

func (r *linkRepository) Create(ctx context.Context, link *model.ShortLink) error {
	if link.ID == 0 {
		link.ID = snowflake.NextID()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create link: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO links (id, original_url, short_code, custom_code, owner_id, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, link.ID, link.OriginalURL, link.ShortCode, nullableString(link.CustomCode), nullableString(link.OwnerID),
		nullableTime(link.ExpiresAt), formatTime(link.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			if link.CustomCode != nil && strings.Contains(err.Error(), "custom_code") {
				return &DuplicateCodeError{Code: *link.CustomCode, Custom: true}
			}
			return &DuplicateCodeError{Code: link.ShortCode}
		}
		return fmt.Errorf("insert link: %w", err)
	}

	if err := reserveCode(ctx, tx, link.ShortCode, link.ID); err != nil {
		if errors.Is(err, ErrDuplicateCode) {
			return &DuplicateCodeError{Code: link.ShortCode}
		}
		return err
	}
	if link.CustomCode != nil {
		if err := reserveCode(ctx, tx, *link.CustomCode, link.ID); err != nil {
			if errors.Is(err, ErrDuplicateCode) {
				return &DuplicateCodeError{Code: *link.CustomCode, Custom: true}
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return &DuplicateCodeError{Code: link.ShortCode}
		}
		return fmt.Errorf("commit create link: %w", err)
	}
	return nil
}

func reserveCode(ctx context.Context, tx dbtx, code string, linkID int64) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO link_codes (code, link_id) VALUES (?, ?)`, code, linkID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("reserve code: %w", err)
	}
	return nil
}

func (r *linkRepository) FindByCode(ctx context.Context, code string) (*model.ShortLink, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+linkColumns+`
		FROM link_codes c JOIN links l ON l.id = c.link_id
		WHERE c.code = ?
	`, code)
	return scanLinkRow(row)
}

func (r *linkRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]model.ShortLink, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+linkColumns+` FROM links l WHERE l.owner_id = ? ORDER BY l.id DESC LIMIT ?
	`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []model.ShortLink
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLinkRow(row *sql.Row) (*model.ShortLink, error) {
	link, err := scanLink(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

func scanLink(row rowScanner) (model.ShortLink, error) {
	var (
		link      model.ShortLink
		custom    sql.NullString
		owner     sql.NullString
		expiresAt sql.NullString
		createdAt string
	)
	if err := row.Scan(&link.ID, &link.OriginalURL, &link.ShortCode, &custom, &owner, &expiresAt, &createdAt); err != nil {
		return model.ShortLink{}, err
	}
	link.CustomCode = stringPtr(custom)
	link.OwnerID = stringPtr(owner)

	var err error
	if link.ExpiresAt, err = parseNullableTime(expiresAt); err != nil {
		return model.ShortLink{}, fmt.Errorf("parse expires_at: %w", err)
	}
	if link.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.ShortLink{}, fmt.Errorf("parse created_at: %w", err)
	}
	return link, nil
}
