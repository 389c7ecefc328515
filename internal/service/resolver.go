//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"fmt"

	"shortlink/backend/internal/clock"
	"shortlink/backend/internal/hashutil"
	"shortlink/backend/internal/model"
	"shortlink/backend/internal/repository"
	"shortlink/backend/internal/service/geo"
	"shortlink/backend/internal/service/notify"
	"shortlink/backend/internal/worker"
	"shortlink/backend/pkg/logger"
	"shortlink/backend/pkg/sanitizer"
)

// ResolveRequest carries what the redirect path knows about the visitor.
type ResolveRequest struct {
	Code      string
	IP        string
	UserAgent string
	Referer   string
}

type Resolver interface {
	// Resolve returns the destination link for code, recording the click.
	// Unknown codes fail with ErrNotFound and expired links with ErrGone;
	// neither records a click.
	Resolve(ctx context.Context, req ResolveRequest) (model.ShortLink, error)
}

type resolver struct {
	links    repository.LinkRepository
	clicks   repository.ClickRepository
	enricher geo.Enricher
	notifier notify.Notifier
	tasks    worker.Submitter
	clock    clock.Clock
}

func NewResolver(
	links repository.LinkRepository,
	clicks repository.ClickRepository,
	enricher geo.Enricher,
	notifier notify.Notifier,
	tasks worker.Submitter,
	clk clock.Clock,
) Resolver {
	if clk == nil {
		clk = clock.New()
	}
	return &resolver{
		links:    links,
		clicks:   clicks,
		enricher: enricher,
		notifier: notifier,
		tasks:    tasks,
		clock:    clk,
	}
}

func (r *resolver) Resolve(ctx context.Context, req ResolveRequest) (model.ShortLink, error) {
	link, err := r.links.FindByCode(ctx, req.Code)
	if err != nil {
		return model.ShortLink{}, fmt.Errorf("find link: %w", err)
	}
	if link == nil {
		return model.ShortLink{}, ErrNotFound
	}

	now := r.clock.Now()
	if link.IsExpired(now) {
		return model.ShortLink{}, ErrGone
	}

	click := model.ClickEvent{
		LinkID:      link.ID,
		Timestamp:   now,
		IPAddress:   req.IP,
		VisitorHash: hashutil.VisitorHash(req.IP, req.UserAgent),
		UserAgent:   sanitizer.HeaderText(req.UserAgent),
		Referer:     sanitizer.HeaderText(req.Referer),
	}
	recorded := true
	if err := r.clicks.Create(ctx, &click); err != nil {
		recorded = false
		logger.Warn("record click failed", "module", "service", "action", "create", "resource", "click", "result", "failed",
			"link_id", link.ID, "code", req.Code, "error", err)
	}

	r.dispatchFollowUp(*link, click, recorded)
	return *link, nil
}

// dispatchFollowUp enriches the click and notifies the owner off the request
// path. Neither step can affect the redirect.
func (r *resolver) dispatchFollowUp(link model.ShortLink, click model.ClickEvent, recorded bool) {
	needsGeo := recorded && r.enricher != nil
	needsNotify := link.OwnerID != nil && r.notifier != nil
	if !needsGeo && !needsNotify {
		return
	}

	r.tasks.Submit("click.follow-up", func(ctx context.Context) error {
		var loc *model.Location
		if r.enricher != nil {
			loc = r.enricher.Enrich(ctx, click.IPAddress)
		}
		if needsGeo && loc != nil {
			if _, err := r.clicks.UpdateGeo(ctx, click.ID, *loc); err != nil {
				logger.Warn("update click geo failed", "module", "service", "action", "update", "resource", "click", "result", "failed",
					"click_id", click.ID, "error", err)
			}
		}
		if needsNotify {
			if !r.notifier.Send(ctx, *link.OwnerID, notify.ClickMessage(link, click, loc)) {
				logger.Debug("owner not notified", "module", "service", "action", "notify", "resource", "click", "result", "skipped",
					"owner_id", *link.OwnerID)
			}
		}
		return nil
	})
}
