package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"xalqbahosi/internal/database"
	"xalqbahosi/internal/domain"
)

var errUnreachable = errors.New("dial tcp: connection refused")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func memoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	return db
}

func newLocal(t *testing.T) *LocalBackend {
	t.Helper()
	b, err := NewLocalBackend(memoryDB(t), domain.DemoLocations())
	require.NoError(t, err)
	return b
}

// downBackend fails every call, like an unreachable remote store.
type downBackend struct{ calls int }

func (d *downBackend) Name() string { return "down" }

func (d *downBackend) ListReviews(context.Context) ([]domain.Review, error) {
	d.calls++
	return nil, errUnreachable
}

func (d *downBackend) CreateReview(context.Context, domain.Review) (domain.Review, error) {
	d.calls++
	return domain.Review{}, errUnreachable
}

func (d *downBackend) ListLocations(context.Context) ([]domain.Location, error) {
	d.calls++
	return nil, errUnreachable
}

func (d *downBackend) CreateLocation(context.Context, domain.Location) (domain.Location, error) {
	d.calls++
	return domain.Location{}, errUnreachable
}

func (d *downBackend) UpdateLocation(context.Context, string, domain.LocationPatch) (bool, error) {
	d.calls++
	return false, errUnreachable
}

func (d *downBackend) ListAnnouncements(context.Context) ([]domain.Announcement, error) {
	d.calls++
	return nil, errUnreachable
}

func (d *downBackend) CreateAnnouncement(context.Context, domain.Announcement) (domain.Announcement, error) {
	d.calls++
	return domain.Announcement{}, errUnreachable
}

func (d *downBackend) ListCategories(context.Context) ([]domain.Category, error) {
	d.calls++
	return nil, errUnreachable
}
