package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"shortlink/backend/internal/clock"
	"shortlink/backend/internal/hashutil"
	"shortlink/backend/internal/model"
	"shortlink/backend/internal/repository"
	"shortlink/backend/internal/repository/mock"
	"shortlink/backend/internal/repository/testutil"
	"shortlink/backend/internal/service"
	"shortlink/backend/internal/service/geo"
	"shortlink/backend/internal/worker"
	"shortlink/backend/pkg/network"
)

func TestResolver_UnknownCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	links := mock.NewMockLinkRepository(ctrl)
	clicks := mock.NewMockClickRepository(ctrl)
	tasks := &inlineSubmitter{}
	r := service.NewResolver(links, clicks, nil, nil, tasks, clock.NewFake(testNow))

	links.EXPECT().FindByCode(gomock.Any(), "missing").Return(nil, nil)

	_, err := r.Resolve(context.Background(), service.ResolveRequest{Code: "missing", IP: "203.0.113.9"})
	require.ErrorIs(t, err, service.ErrNotFound)
	require.Empty(t, tasks.submitted())
}

func TestResolver_ExpiredLinkRecordsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	owner := "owner-1"
	expired := testNow.Add(-time.Second)
	links := mock.NewMockLinkRepository(ctrl)
	clicks := mock.NewMockClickRepository(ctrl)
	tasks := &inlineSubmitter{}
	notifier := newRecordingNotifier()
	r := service.NewResolver(links, clicks, &stubEnricher{}, notifier, tasks, clock.NewFake(testNow))

	links.EXPECT().FindByCode(gomock.Any(), "old").Return(&model.ShortLink{ID: 1, ShortCode: "old", OwnerID: &owner, ExpiresAt: &expired}, nil)

	_, err := r.Resolve(context.Background(), service.ResolveRequest{Code: "old"})
	require.ErrorIs(t, err, service.ErrGone)
	require.Empty(t, tasks.submitted())
	require.Empty(t, notifier.sent)
}

func TestResolver_ExpiryBoundaryIsGone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	at := testNow
	links := mock.NewMockLinkRepository(ctrl)
	r := service.NewResolver(links, mock.NewMockClickRepository(ctrl), nil, nil, &inlineSubmitter{}, clock.NewFake(testNow))

	links.EXPECT().FindByCode(gomock.Any(), "edge").Return(&model.ShortLink{ID: 1, ShortCode: "edge", ExpiresAt: &at}, nil)

	_, err := r.Resolve(context.Background(), service.ResolveRequest{Code: "edge"})
	require.ErrorIs(t, err, service.ErrGone)
}

func TestResolver_RecordsClickAndFollowsUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	owner := "owner-1"
	link := &model.ShortLink{ID: 5, OriginalURL: "https://example.com", ShortCode: "Ab3dE6gH", OwnerID: &owner}
	loc := &model.Location{Country: "DE", City: "Berlin", Region: "Berlin", Source: "ip-api.com"}

	links := mock.NewMockLinkRepository(ctrl)
	clicks := mock.NewMockClickRepository(ctrl)
	enricher := &stubEnricher{loc: loc}
	notifier := newRecordingNotifier()
	tasks := &inlineSubmitter{}
	r := service.NewResolver(links, clicks, enricher, notifier, tasks, clock.NewFake(testNow))

	links.EXPECT().FindByCode(gomock.Any(), "Ab3dE6gH").Return(link, nil)
	clicks.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *model.ClickEvent) error {
		require.Equal(t, int64(5), c.LinkID)
		require.Equal(t, testNow, c.Timestamp)
		require.Equal(t, "203.0.113.9", c.IPAddress)
		require.Equal(t, "curl/8", c.UserAgent)
		require.Equal(t, "https://news.example", c.Referer)
		require.Equal(t, hashutil.VisitorHash("203.0.113.9", "curl/8"), c.VisitorHash)
		c.ID = 77
		return nil
	})
	clicks.EXPECT().UpdateGeo(gomock.Any(), int64(77), *loc).Return(true, nil)

	got, err := r.Resolve(context.Background(), service.ResolveRequest{
		Code:      "Ab3dE6gH",
		IP:        "203.0.113.9",
		UserAgent: "curl/8",
		Referer:   "https://news.example",
	})
	require.NoError(t, err)
	require.Equal(t, "https://example.com", got.OriginalURL)

	require.Equal(t, []string{"click.follow-up"}, tasks.submitted())
	require.Equal(t, []string{"203.0.113.9"}, enricher.calls)
	require.Len(t, notifier.sent, 1)
	require.Equal(t, owner, notifier.sent[0].owner)
	require.Equal(t, model.NotificationLinkClick, notifier.sent[0].msg.Type)
	require.Equal(t, "DE", notifier.sent[0].msg.Payload["country"])
}

func TestResolver_ClickFailureStillRedirects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	owner := "owner-1"
	links := mock.NewMockLinkRepository(ctrl)
	clicks := mock.NewMockClickRepository(ctrl)
	notifier := newRecordingNotifier()
	r := service.NewResolver(links, clicks, &stubEnricher{}, notifier, &inlineSubmitter{}, clock.NewFake(testNow))

	links.EXPECT().FindByCode(gomock.Any(), "Ab3dE6gH").Return(&model.ShortLink{ID: 5, OriginalURL: "https://example.com", ShortCode: "Ab3dE6gH", OwnerID: &owner}, nil)
	clicks.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("database is locked"))

	got, err := r.Resolve(context.Background(), service.ResolveRequest{Code: "Ab3dE6gH", IP: "203.0.113.9"})
	require.NoError(t, err)
	require.Equal(t, "https://example.com", got.OriginalURL)
	require.Len(t, notifier.sent, 1)
}

func TestResolver_AnonymousLinkWithoutEnricherSkipsFollowUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	links := mock.NewMockLinkRepository(ctrl)
	clicks := mock.NewMockClickRepository(ctrl)
	tasks := &inlineSubmitter{}
	r := service.NewResolver(links, clicks, nil, newRecordingNotifier(), tasks, clock.NewFake(testNow))

	links.EXPECT().FindByCode(gomock.Any(), "Ab3dE6gH").Return(&model.ShortLink{ID: 5, ShortCode: "Ab3dE6gH"}, nil)
	clicks.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	_, err := r.Resolve(context.Background(), service.ResolveRequest{Code: "Ab3dE6gH"})
	require.NoError(t, err)
	require.Empty(t, tasks.submitted())
}

func TestResolver_StoreErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	links := mock.NewMockLinkRepository(ctrl)
	r := service.NewResolver(links, mock.NewMockClickRepository(ctrl), nil, nil, &inlineSubmitter{}, clock.NewFake(testNow))

	links.EXPECT().FindByCode(gomock.Any(), "x").Return(nil, errors.New("connection reset"))

	_, err := r.Resolve(context.Background(), service.ResolveRequest{Code: "x"})
	require.Error(t, err)
	require.NotErrorIs(t, err, service.ErrNotFound)
}

func TestResolver_CustomAndShortCodeAgainstStore(t *testing.T) {
	database := testutil.NewTestDB(t)
	testutil.SeedLink(t, database, model.ShortLink{ShortCode: "Ab3dE6gH", CustomCode: strPtr("promo"), OriginalURL: "https://example.com/sale"})

	links := repository.NewLinkRepository(database)
	clicks := repository.NewClickRepository(database)
	enricher := &stubEnricher{loc: &model.Location{Country: "FR", Source: "ip-api.com"}}
	r := service.NewResolver(links, clicks, enricher, nil, &inlineSubmitter{}, clock.NewFake(testNow))

	for _, code := range []string{"promo", "Ab3dE6gH"} {
		got, err := r.Resolve(context.Background(), service.ResolveRequest{Code: code, IP: "198.51.100.4", UserAgent: "ua"})
		require.NoError(t, err)
		require.Equal(t, "https://example.com/sale", got.OriginalURL)
	}
	require.Equal(t, 2, testutil.CountRows(t, database, "clicks"))

	var withGeo int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM clicks WHERE country = 'FR'`).Scan(&withGeo))
	require.Equal(t, 2, withGeo)
}

func TestResolver_SlowGeoProviderDoesNotDelayRedirect(t *testing.T) {
	release := make(chan struct{})
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer provider.Close()
	defer close(release)

	const geoTimeout = 200 * time.Millisecond

	database := testutil.NewTestDB(t)
	linkID := testutil.SeedLink(t, database, model.ShortLink{ShortCode: "Ab3dE6gH", OriginalURL: "https://example.com/slow"})

	links := repository.NewLinkRepository(database)
	clicks := repository.NewClickRepository(database)
	enricher := geo.NewHTTPEnricher(provider.URL+"/json/{ip}", network.NewClientFactory(nil), geoTimeout, 0)
	dispatcher := worker.NewDispatcher(2, 16, 5*time.Second)
	dispatcher.Start()

	r := service.NewResolver(links, clicks, enricher, nil, dispatcher, clock.NewFake(testNow))

	start := time.Now()
	got, err := r.Resolve(context.Background(), service.ResolveRequest{Code: "Ab3dE6gH", IP: "8.8.8.8", UserAgent: "curl/8"})
	elapsed := time.Since(start)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/slow", got.OriginalURL)
	require.Less(t, elapsed, geoTimeout/2)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, dispatcher.Stop(ctx))

	stored, err := clicks.ListByLink(context.Background(), linkID, 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Nil(t, stored[0].Country)
	require.Nil(t, stored[0].City)
	require.Nil(t, stored[0].GeoSource)
}
