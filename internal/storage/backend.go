package storage

import (
	"context"
	"errors"

	"xalqbahosi/internal/domain"
)

// Logical record names shared by every backend.
const (
	CollectionReviews       = "reviews"
	CollectionLocations     = "locations"
	CollectionAnnouncements = "announcements"
	CollectionCategories    = "categories"
)

var (
	ErrPrimaryUnavailable = errors.New("primary backend unavailable")
	ErrLocationNotFound   = errors.New("location not found")
)

// Backend is one storage system able to serve the gateway contract.
// UpdateLocation reports false with a nil error when no location has the id.
type Backend interface {
	Name() string

	ListReviews(ctx context.Context) ([]domain.Review, error)
	CreateReview(ctx context.Context, r domain.Review) (domain.Review, error)

	ListLocations(ctx context.Context) ([]domain.Location, error)
	CreateLocation(ctx context.Context, l domain.Location) (domain.Location, error)
	UpdateLocation(ctx context.Context, id string, patch domain.LocationPatch) (bool, error)

	ListAnnouncements(ctx context.Context) ([]domain.Announcement, error)
	CreateAnnouncement(ctx context.Context, a domain.Announcement) (domain.Announcement, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)
}
