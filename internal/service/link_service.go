//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"fmt"
	"time"

	"shortlink/backend/internal/clock"
	"shortlink/backend/internal/model"
	"shortlink/backend/internal/repository"
	"shortlink/backend/internal/urlutil"
	"shortlink/backend/pkg/logger"
)

const MaxExpirationDays = 3650

type CreateLinkInput struct {
	OriginalURL    string
	CustomCode     *string
	ExpirationDays *int
	// OwnerID is empty for anonymous callers.
	OwnerID string
}

// LinkAnalytics is the recorded activity of one link.
type LinkAnalytics struct {
	Link   model.ShortLink
	Stats  repository.ClickStats
	Recent []model.ClickEvent
}

type LinkService interface {
	Create(ctx context.Context, input CreateLinkInput) (model.ShortLink, error)
	ShortURL(link model.ShortLink) string
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]model.ShortLink, error)
	// Analytics returns clicks of the link behind code; only its owner may read them.
	Analytics(ctx context.Context, ownerID, code string, limit int) (LinkAnalytics, error)
}

type linkService struct {
	links     repository.LinkRepository
	clicks    repository.ClickRepository
	allocator CodeAllocator
	clock     clock.Clock
	baseURL   string
}

func NewLinkService(links repository.LinkRepository, clicks repository.ClickRepository, allocator CodeAllocator, clk clock.Clock, baseURL string) LinkService {
	if clk == nil {
		clk = clock.New()
	}
	return &linkService{links: links, clicks: clicks, allocator: allocator, clock: clk, baseURL: baseURL}
}

func (s *linkService) Create(ctx context.Context, input CreateLinkInput) (model.ShortLink, error) {
	originalURL, err := urlutil.NormalizeHTTPURL(input.OriginalURL)
	if err != nil {
		return model.ShortLink{}, &ValidationError{Field: "originalUrl", Reason: err.Error()}
	}
	if input.CustomCode != nil {
		if err := ValidateCustomCode(*input.CustomCode); err != nil {
			return model.ShortLink{}, err
		}
	}

	now := s.clock.Now()
	draft := model.ShortLink{
		OriginalURL: originalURL,
		CustomCode:  input.CustomCode,
		CreatedAt:   now,
	}
	if input.ExpirationDays != nil {
		days := *input.ExpirationDays
		if days <= 0 || days > MaxExpirationDays {
			return model.ShortLink{}, &ValidationError{Field: "expirationDays", Reason: fmt.Sprintf("must be between 1 and %d", MaxExpirationDays)}
		}
		expiresAt := now.Add(time.Duration(days) * 24 * time.Hour)
		draft.ExpiresAt = &expiresAt
	}
	if input.OwnerID != "" {
		owner := input.OwnerID
		draft.OwnerID = &owner
	}

	link, err := s.allocator.Allocate(ctx, draft)
	if err != nil {
		return model.ShortLink{}, err
	}
	logger.Info("link created", "module", "service", "action", "create", "resource", "link", "result", "ok",
		"link_id", link.ID, "code", link.ResolvedCode(), "owner_id", input.OwnerID)
	return link, nil
}

func (s *linkService) ShortURL(link model.ShortLink) string {
	return s.baseURL + "/" + link.ResolvedCode()
}

func (s *linkService) ListByOwner(ctx context.Context, ownerID string, limit int) ([]model.ShortLink, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	links, err := s.links.ListByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

func (s *linkService) Analytics(ctx context.Context, ownerID, code string, limit int) (LinkAnalytics, error) {
	if ownerID == "" {
		return LinkAnalytics{}, ErrUnauthorized
	}
	link, err := s.links.FindByCode(ctx, code)
	if err != nil {
		return LinkAnalytics{}, fmt.Errorf("find link: %w", err)
	}
	if link == nil {
		return LinkAnalytics{}, ErrNotFound
	}
	if !link.IsOwnedBy(ownerID) {
		return LinkAnalytics{}, ErrForbidden
	}

	stats, err := s.clicks.StatsByLink(ctx, link.ID)
	if err != nil {
		return LinkAnalytics{}, err
	}
	recent, err := s.clicks.ListByLink(ctx, link.ID, limit)
	if err != nil {
		return LinkAnalytics{}, fmt.Errorf("list clicks: %w", err)
	}
	return LinkAnalytics{Link: *link, Stats: stats, Recent: recent}, nil
}
