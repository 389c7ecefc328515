//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"shortlink/backend/internal/model"
	"shortlink/backend/pkg/snowflake"
)

// ClickStats summarises the recorded clicks of a link.
type ClickStats struct {
	Total          int
	UniqueVisitors int
}

type ClickRepository interface {
	Create(ctx context.Context, click *model.ClickEvent) error
	// UpdateGeo attaches a location to a click that has none yet. It reports
	// false when the click was already attributed or does not exist.
	UpdateGeo(ctx context.Context, id int64, loc model.Location) (bool, error)
	ListByLink(ctx context.Context, linkID int64, limit int) ([]model.ClickEvent, error)
	StatsByLink(ctx context.Context, linkID int64) (ClickStats, error)
}

type clickRepository struct {
	db *sql.DB
}

func NewClickRepository(db *sql.DB) ClickRepository {
	return &clickRepository{db: db}
}

func (r *clickRepository) Create(ctx context.Context, click *model.ClickEvent) error {
	if click.ID == 0 {
		click.ID = snowflake.NextID()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clicks (id, link_id, clicked_at, ip_address, visitor_hash, user_agent, referer, country, city, region, geo_source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, click.ID, click.LinkID, formatTime(click.Timestamp), click.IPAddress, click.VisitorHash, click.UserAgent, click.Referer,
		nullableString(click.Country), nullableString(click.City), nullableString(click.Region), nullableString(click.GeoSource))
	if err != nil {
		return fmt.Errorf("insert click: %w", err)
	}
	return nil
}

func (r *clickRepository) UpdateGeo(ctx context.Context, id int64, loc model.Location) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE clicks SET country = ?, city = ?, region = ?, geo_source = ?
		WHERE id = ? AND geo_source IS NULL
	`, emptyToNil(loc.Country), emptyToNil(loc.City), emptyToNil(loc.Region), emptyToNil(loc.Source), id)
	if err != nil {
		return false, fmt.Errorf("update click geo: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *clickRepository) ListByLink(ctx context.Context, linkID int64, limit int) ([]model.ClickEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, link_id, clicked_at, ip_address, visitor_hash, user_agent, referer, country, city, region, geo_source
		FROM clicks WHERE link_id = ? ORDER BY clicked_at DESC, id DESC LIMIT ?
	`, linkID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clicks []model.ClickEvent
	for rows.Next() {
		var (
			c                                model.ClickEvent
			clickedAt                        string
			country, city, region, geoSource sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.LinkID, &clickedAt, &c.IPAddress, &c.VisitorHash, &c.UserAgent, &c.Referer,
			&country, &city, &region, &geoSource); err != nil {
			return nil, err
		}
		if c.Timestamp, err = parseTime(clickedAt); err != nil {
			return nil, fmt.Errorf("parse clicked_at: %w", err)
		}
		c.Country = stringPtr(country)
		c.City = stringPtr(city)
		c.Region = stringPtr(region)
		c.GeoSource = stringPtr(geoSource)
		clicks = append(clicks, c)
	}
	return clicks, rows.Err()
}

func (r *clickRepository) StatsByLink(ctx context.Context, linkID int64) (ClickStats, error) {
	var stats ClickStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT NULLIF(visitor_hash, '')) FROM clicks WHERE link_id = ?
	`, linkID).Scan(&stats.Total, &stats.UniqueVisitors)
	if err != nil {
		return ClickStats{}, fmt.Errorf("click stats: %w", err)
	}
	return stats, nil
}

func emptyToNil(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
