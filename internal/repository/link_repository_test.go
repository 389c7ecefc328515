package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shortlink/backend/internal/model"
	"shortlink/backend/internal/repository"
	"shortlink/backend/internal/repository/testutil"
)

func strPtr(s string) *string { return &s }

func TestLinkRepository_CreateAndFind(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewLinkRepository(db)
	ctx := context.Background()

	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	link := &model.ShortLink{
		OriginalURL: "https://example.com/a",
		ShortCode:   "Ab3dE6gH",
		CustomCode:  strPtr("promo"),
		OwnerID:     strPtr("user-1"),
		ExpiresAt:   &expires,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, link))
	require.NotZero(t, link.ID)

	byShort, err := repo.FindByCode(ctx, "Ab3dE6gH")
	require.NoError(t, err)
	require.NotNil(t, byShort)
	require.Equal(t, link.ID, byShort.ID)
	require.Equal(t, "https://example.com/a", byShort.OriginalURL)
	require.Equal(t, "promo", *byShort.CustomCode)
	require.Equal(t, "user-1", *byShort.OwnerID)
	require.True(t, expires.Equal(*byShort.ExpiresAt))

	byCustom, err := repo.FindByCode(ctx, "promo")
	require.NoError(t, err)
	require.Equal(t, link.ID, byCustom.ID)
	require.Equal(t, "Ab3dE6gH", byCustom.ShortCode)
}

func TestLinkRepository_FindByCode_Missing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewLinkRepository(db)

	link, err := repo.FindByCode(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, link)
}

func TestLinkRepository_FindByCode_IsCaseSensitive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewLinkRepository(db)
	testutil.SeedLink(t, db, model.ShortLink{ShortCode: "AbCdEfGh"})

	link, err := repo.FindByCode(context.Background(), "abcdefgh")
	require.NoError(t, err)
	require.Nil(t, link)
}

func TestLinkRepository_Create_DuplicateCodes(t *testing.T) {
	tests := []struct {
		name       string
		newLink    model.ShortLink
		wantCode   string
		wantCustom bool
	}{
		{
			name:     "short code reused",
			newLink:  model.ShortLink{ShortCode: "Ab3dE6gH"},
			wantCode: "Ab3dE6gH",
		},
		{
			name:       "custom code reused",
			newLink:    model.ShortLink{ShortCode: "Zz9yX8wV", CustomCode: strPtr("promo")},
			wantCode:   "promo",
			wantCustom: true,
		},
		{
			name:       "custom code equals existing short code",
			newLink:    model.ShortLink{ShortCode: "Zz9yX8wV", CustomCode: strPtr("Ab3dE6gH")},
			wantCode:   "Ab3dE6gH",
			wantCustom: true,
		},
		{
			name:     "short code equals existing custom code",
			newLink:  model.ShortLink{ShortCode: "promo"},
			wantCode: "promo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewTestDB(t)
			repo := repository.NewLinkRepository(db)
			testutil.SeedLink(t, db, model.ShortLink{ShortCode: "Ab3dE6gH", CustomCode: strPtr("promo")})

			link := tt.newLink
			link.OriginalURL = "https://example.com/b"
			link.CreatedAt = time.Now().UTC()
			err := repo.Create(context.Background(), &link)
			require.ErrorIs(t, err, repository.ErrDuplicateCode)

			var dup *repository.DuplicateCodeError
			require.True(t, errors.As(err, &dup))
			require.Equal(t, tt.wantCode, dup.Code)
			require.Equal(t, tt.wantCustom, dup.Custom)

			require.Equal(t, 1, testutil.CountRows(t, db, "links"))
			require.Equal(t, 2, testutil.CountRows(t, db, "link_codes"))
		})
	}
}

func TestLinkRepository_Create_ConcurrentSameCustomCode(t *testing.T) {
	db := testutil.NewTestDB(t)
	// Matches production: one writer connection.
	db.SetMaxOpenConns(1)
	repo := repository.NewLinkRepository(db)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			link := &model.ShortLink{
				OriginalURL: "https://example.com",
				ShortCode:   "code000" + string(rune('a'+i)),
				CustomCode:  strPtr("launch"),
				CreatedAt:   time.Now().UTC(),
			}
			err := repo.Create(context.Background(), link)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, repository.ErrDuplicateCode):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, succeeded)
	require.Equal(t, attempts-1, conflicts)
}

func TestLinkRepository_ListByOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewLinkRepository(db)
	testutil.SeedLink(t, db, model.ShortLink{ShortCode: "aaaaaaaa", OwnerID: strPtr("user-1")})
	testutil.SeedLink(t, db, model.ShortLink{ShortCode: "bbbbbbbb", OwnerID: strPtr("user-1")})
	testutil.SeedLink(t, db, model.ShortLink{ShortCode: "cccccccc", OwnerID: strPtr("user-2")})

	links, err := repo.ListByOwner(context.Background(), "user-1", 10)
	require.NoError(t, err)
	require.Len(t, links, 2)
	require.Equal(t, "bbbbbbbb", links[0].ShortCode)

	links, err = repo.ListByOwner(context.Background(), "user-1", 1)
	require.NoError(t, err)
	require.Len(t, links, 1)
}
