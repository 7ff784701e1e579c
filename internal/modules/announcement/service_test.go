package announcement

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xalqbahosi/internal/domain"
)

type fakeStore struct {
	items   []domain.Announcement
	listErr error
}

func (f *fakeStore) ListAnnouncements(context.Context) ([]domain.Announcement, error) {
	return f.items, f.listErr
}

func (f *fakeStore) SaveAnnouncement(_ context.Context, a domain.Announcement) domain.Announcement {
	a.ID = "a1"
	f.items = append([]domain.Announcement{a}, f.items...)
	return a
}

type recordingFeed struct {
	sent []any
}

func (r *recordingFeed) Broadcast(message any) int {
	r.sent = append(r.sent, message)
	return 1
}

func newTestService(store *fakeStore, feed Broadcaster) *Service {
	svc := NewService(store, feed, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestService_ListServesDemoWhenEmptyOrFailing(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)

	items := svc.List(context.Background())
	require.Len(t, items, 2)
	assert.True(t, items[0].Demo)

	store.listErr = errors.New("down")
	assert.Len(t, svc.List(context.Background()), 2)

	store.listErr = nil
	store.items = []domain.Announcement{{ID: "x", Title: "t"}}
	items = svc.List(context.Background())
	require.Len(t, items, 1)
	assert.False(t, items[0].Demo)
}

func TestService_PostValidatesAndBroadcasts(t *testing.T) {
	feed := &recordingFeed{}
	svc := newTestService(&fakeStore{}, feed)
	ctx := context.Background()

	_, err := svc.Post(ctx, CreateAnnouncementRequest{Title: " ", Content: "c"}, "")
	assert.ErrorIs(t, err, ErrFieldsRequired)
	assert.Empty(t, feed.sent)

	a, err := svc.Post(ctx, CreateAnnouncementRequest{Title: "Suv", Content: "Suv o'chiriladi", Type: "urgent"}, "")
	require.NoError(t, err)
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, domain.AnnouncementInfo, a.Type)
	assert.Equal(t, "Admin", a.AuthorName)

	require.Len(t, feed.sent, 1)
	ev, ok := feed.sent[0].(Event)
	require.True(t, ok)
	assert.Equal(t, EventCreated, ev.Type)
	assert.Equal(t, "a1", ev.Data.ID)
}

func TestService_PostAuthorPrecedence(t *testing.T) {
	svc := newTestService(&fakeStore{}, nil)
	ctx := context.Background()

	a, err := svc.Post(ctx, CreateAnnouncementRequest{Title: "t", Content: "c"}, "Dilshod")
	require.NoError(t, err)
	assert.Equal(t, "Dilshod", a.AuthorName)

	a, err = svc.Post(ctx, CreateAnnouncementRequest{Title: "t", Content: "c", AuthorName: "Hokimiyat"}, "Dilshod")
	require.NoError(t, err)
	assert.Equal(t, "Hokimiyat", a.AuthorName)
}
