package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xalqbahosi/internal/domain"
	"xalqbahosi/internal/metrics"
)

func TestGateway_PrimaryServesWhenHealthy(t *testing.T) {
	ctx := context.Background()
	remote := newDocuments(t)
	local := newLocal(t)
	g := NewGateway(remote, local, quietLogger(), metrics.New())

	saved := g.SaveReview(ctx, domain.Review{LocationID: "1", Rating: 5, Category: "staff", Text: "a"})
	require.NotEmpty(t, saved.ID)

	remoteReviews, err := remote.ListReviews(ctx)
	require.NoError(t, err)
	assert.Len(t, remoteReviews, 1)

	localReviews, err := local.ListReviews(ctx)
	require.NoError(t, err)
	assert.Empty(t, localReviews)
}

func TestGateway_UnreachablePrimaryFallsBackEveryCall(t *testing.T) {
	ctx := context.Background()
	down := &downBackend{}
	g := NewGateway(down, newLocal(t), quietLogger(), nil)

	g.SaveReview(ctx, domain.Review{LocationID: "1", Rating: 4, Category: "staff", Text: "a"})

	locs, err := g.ListLocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DemoLocations(), locs)

	reviews, err := g.ListReviews(ctx)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	assert.Equal(t, 3, down.calls, "primary is retried on every call")
}

func TestGateway_NoPrimaryConfigured(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(nil, newLocal(t), quietLogger(), nil)

	first, err := g.ListLocations(ctx)
	require.NoError(t, err)
	second, err := g.ListLocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestGateway_WritesSucceedWhenEveryBackendIsDown(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(&downBackend{}, &downBackend{}, quietLogger(), metrics.New())

	r := g.SaveReview(ctx, domain.Review{LocationID: "1", Rating: 3, Category: "staff", Text: "x"})
	assert.NotEmpty(t, r.ID)
	assert.False(t, r.CreatedAt.IsZero())

	a := g.SaveAnnouncement(ctx, domain.Announcement{Title: "t", Content: "c", Type: "bogus"})
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, domain.AnnouncementInfo, a.Type)

	count := 1
	assert.False(t, g.UpdateLocation(ctx, "1", domain.LocationPatch{ReviewCount: &count}))

	_, err := g.ListReviews(ctx)
	assert.Error(t, err)

	assert.Equal(t, domain.DefaultCategories(), g.ListCategories(ctx))
}

func TestGateway_UnknownLocationOnPrimaryDoesNotFallBack(t *testing.T) {
	ctx := context.Background()
	local := newLocal(t)
	g := NewGateway(newDocuments(t), local, quietLogger(), nil)

	count := 9
	assert.False(t, g.UpdateLocation(ctx, "1", domain.LocationPatch{ReviewCount: &count}))

	locs, err := local.ListLocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 23, locs[0].ReviewCount, "local copy untouched")
}

func TestGateway_AnnouncementRoundTripNewestFirst(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(&downBackend{}, newLocal(t), quietLogger(), nil)

	g.SaveAnnouncement(ctx, domain.Announcement{Title: "older", Content: "c"})
	posted := g.SaveAnnouncement(ctx, domain.Announcement{Title: "latest", Content: "c", Type: domain.AnnouncementSuccess})

	items, err := g.ListAnnouncements(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Equal(t, posted.ID, items[0].ID)
	assert.Equal(t, "latest", items[0].Title)
}

func TestGateway_NearbyAndGet(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(nil, newLocal(t), quietLogger(), nil)

	near, err := g.NearbyLocations(ctx, 41.3111, 69.2797, 0.1)
	require.NoError(t, err)
	require.Len(t, near, 1)
	assert.Equal(t, "1", near[0].ID)

	all, err := g.NearbyLocations(ctx, 41.3111, 69.2797, 5)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "1", all[0].ID)

	_, err = g.GetLocation(ctx, "nope")
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestGateway_CategoriesFromRemote(t *testing.T) {
	ctx := context.Background()
	remote := newDocuments(t)
	require.NoError(t, remote.AddCategory(ctx, domain.Category{ID: "lighting", Name: "Yoritish", Icon: "💡"}))
	g := NewGateway(remote, newLocal(t), quietLogger(), nil)

	assert.True(t, g.IsKnownCategory(ctx, "lighting"))
	assert.False(t, g.IsKnownCategory(ctx, "cleanliness"))
	assert.False(t, g.IsKnownCategory(ctx, "  "))
}
