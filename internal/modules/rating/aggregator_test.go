package rating

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xalqbahosi/internal/database"
	"xalqbahosi/internal/domain"
	"xalqbahosi/internal/state"
	"xalqbahosi/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGateway(t *testing.T, seed []domain.Location) *storage.Gateway {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	local, err := storage.NewLocalBackend(db, seed)
	require.NoError(t, err)
	return storage.NewGateway(nil, local, quietLogger(), nil)
}

func TestRecompute_SecondReviewAveragesWithFirst(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t, []domain.Location{{ID: "1", Name: "Maktab", Type: domain.TypeSchool, Rating: 4.5, ReviewCount: 1}})
	g.SaveReview(ctx, domain.Review{LocationID: "1", Rating: 4, Category: "staff", Text: "ok"})
	g.SaveReview(ctx, domain.Review{LocationID: "1", Rating: 5, Category: "cleanliness", Text: "Clean"})

	agg := NewAggregator(g, nil, quietLogger())
	loc, err := agg.Recompute(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "4.5", loc.Rating.String())
	assert.Equal(t, 2, loc.ReviewCount)

	stored, err := g.GetLocation(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, loc, stored)
}

func TestRecompute_SequentialReviewsOnUnratedLocation(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t, []domain.Location{{ID: "9", Name: "Suv", Type: domain.TypeWater}})
	agg := NewAggregator(g, nil, quietLogger())

	for _, stars := range []int{3, 5} {
		g.SaveReview(ctx, domain.Review{LocationID: "9", Rating: stars, Category: "staff", Text: "x"})
		_, err := agg.Recompute(ctx, "9")
		require.NoError(t, err)
	}

	stored, err := g.GetLocation(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, "4.0", stored.Rating.String())
	assert.Equal(t, 2, stored.ReviewCount)
}

func TestRecompute_UnknownLocationIsStaleButReviewKept(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t, domain.DemoLocations())
	saved := g.SaveReview(ctx, domain.Review{LocationID: "missing", Rating: 2, Category: "staff", Text: "x"})

	_, err := NewAggregator(g, nil, quietLogger()).Recompute(ctx, "missing")
	assert.ErrorIs(t, err, ErrAggregateStale)

	reviews, err := g.ListReviews(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, saved.ID, reviews[0].ID)
}

func TestRecompute_NoReviewsKeepsRatingAndZeroesCount(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t, domain.DemoLocations())

	loc, err := NewAggregator(g, nil, quietLogger()).Recompute(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "4.8", loc.Rating.String())
	assert.Equal(t, 0, loc.ReviewCount)
}

func TestRecompute_UpdatesStateCache(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t, domain.DemoLocations())
	st := state.New(time.Minute)
	locs, err := g.ListLocations(ctx)
	require.NoError(t, err)
	st.ReplaceLocations(locs)
	st.SelectLocation(42, locs[1])

	g.SaveReview(ctx, domain.Review{LocationID: "2", Rating: 1, Category: "wait_time", Text: "slow"})
	_, err = NewAggregator(g, st, quietLogger()).Recompute(ctx, "2")
	require.NoError(t, err)

	selected, ok := st.SelectedLocation(42)
	require.True(t, ok)
	assert.Equal(t, "1.0", selected.Rating.String())
	assert.Equal(t, 1, selected.ReviewCount)
}

func TestRecompute_ConcurrentSubmissionsDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t, []domain.Location{{ID: "c", Name: "Bogcha", Type: domain.TypeKindergarten}})
	agg := NewAggregator(g, nil, quietLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(stars int) {
			defer wg.Done()
			g.SaveReview(ctx, domain.Review{LocationID: "c", Rating: stars, Category: "staff", Text: "x"})
			_, _ = agg.Recompute(ctx, "c")
		}(i%5 + 1)
	}
	wg.Wait()

	stored, err := g.GetLocation(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 8, stored.ReviewCount)
	// 1+2+3+4+5+1+2+3 = 21 over 8
	assert.Equal(t, "2.6", stored.Rating.String())
}

type rejectingStore struct {
	reviews []domain.Review
}

func (r *rejectingStore) ListLocations(context.Context) ([]domain.Location, error) {
	return []domain.Location{{ID: "1", Name: "Maktab", Rating: 3.0, ReviewCount: 1}}, nil
}

func (r *rejectingStore) ListReviews(context.Context) ([]domain.Review, error) {
	return r.reviews, nil
}

func (r *rejectingStore) UpdateLocation(context.Context, string, domain.LocationPatch) bool {
	return false
}

func TestRecompute_FailedUpdateReturnsUnpatchedLocation(t *testing.T) {
	st := state.New(time.Minute)
	st.ReplaceLocations([]domain.Location{{ID: "1", Name: "Maktab", Rating: 3.0, ReviewCount: 1}})
	store := &rejectingStore{reviews: []domain.Review{
		{LocationID: "1", Rating: 3},
		{LocationID: "1", Rating: 5},
	}}

	loc, err := NewAggregator(store, st, quietLogger()).Recompute(context.Background(), "1")
	assert.ErrorIs(t, err, ErrAggregateStale)
	assert.Equal(t, "3.0", loc.Rating.String())
	assert.Equal(t, 1, loc.ReviewCount)

	cached, ok := st.Locations()
	require.True(t, ok)
	assert.Equal(t, 1, cached[0].ReviewCount)
}

type failingStore struct{ updated bool }

func (f *failingStore) ListLocations(context.Context) ([]domain.Location, error) {
	return domain.DemoLocations(), nil
}

func (f *failingStore) ListReviews(context.Context) ([]domain.Review, error) {
	return nil, errors.New("unreachable")
}

func (f *failingStore) UpdateLocation(context.Context, string, domain.LocationPatch) bool {
	f.updated = true
	return true
}

func TestRecompute_FetchFailureIsStaleWithoutWrite(t *testing.T) {
	store := &failingStore{}
	_, err := NewAggregator(store, nil, quietLogger()).Recompute(context.Background(), "1")
	assert.ErrorIs(t, err, ErrAggregateStale)
	assert.False(t, store.updated)
}

func TestCompute(t *testing.T) {
	empty := Compute(nil)
	assert.Nil(t, empty.Rating)
	require.NotNil(t, empty.ReviewCount)
	assert.Equal(t, 0, *empty.ReviewCount)

	p := Compute([]domain.Review{{Rating: 4}, {Rating: 4}, {Rating: 5}})
	require.NotNil(t, p.Rating)
	assert.Equal(t, "4.3", p.Rating.String())
	assert.Equal(t, 3, *p.ReviewCount)
}
