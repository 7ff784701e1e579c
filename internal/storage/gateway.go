package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"xalqbahosi/internal/domain"
	"xalqbahosi/internal/metrics"
)

// Gateway presents one storage contract over a primary backend and a local
// fallback. The fallback decision is made per call.
type Gateway struct {
	primary  Backend
	fallback Backend
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

// NewGateway builds a gateway. primary may be nil when no remote store is
// configured; every call then goes to fallback.
func NewGateway(primary, fallback Backend, logger *slog.Logger, m *metrics.Metrics) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		metrics:  m,
		tracer:   otel.Tracer("xalqbahosi/storage"),
		now:      time.Now,
	}
}

// withFallback runs call against the primary and, on any error, against the
// fallback. The returned error is the fallback's.
func withFallback[T any](ctx context.Context, g *Gateway, op string, call func(context.Context, Backend) (T, error)) (T, error) {
	ctx, span := g.tracer.Start(ctx, "storage."+op)
	defer span.End()

	primaryErr := ErrPrimaryUnavailable
	if g.primary != nil {
		v, err := call(ctx, g.primary)
		if err == nil {
			span.SetAttributes(attribute.String("storage.backend", g.primary.Name()))
			return v, nil
		}
		primaryErr = err
	}

	g.logger.Warn("storage fallback", "operation", op, "error", primaryErr)
	g.metrics.Fallback(op)
	span.SetAttributes(
		attribute.String("storage.backend", g.fallback.Name()),
		attribute.Bool("storage.fallback", true),
	)

	v, err := call(ctx, g.fallback)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var zero T
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// ListReviews returns every review, newest first.
func (g *Gateway) ListReviews(ctx context.Context) ([]domain.Review, error) {
	return withFallback(ctx, g, "list_reviews", func(ctx context.Context, b Backend) ([]domain.Review, error) {
		return b.ListReviews(ctx)
	})
}

// ReviewsForLocation returns the reviews of one location, newest first.
func (g *Gateway) ReviewsForLocation(ctx context.Context, locationID string) ([]domain.Review, error) {
	all, err := g.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ReviewsFor(all, locationID), nil
}

// SaveReview stores r and returns it with its id. It never fails: when no
// backend accepts the write, the locally built review is returned.
func (g *Gateway) SaveReview(ctx context.Context, r domain.Review) domain.Review {
	r.ID = ""
	if r.CreatedAt.IsZero() {
		r.CreatedAt = g.now().UTC()
	}
	saved, err := withFallback(ctx, g, "save_review", func(ctx context.Context, b Backend) (domain.Review, error) {
		return b.CreateReview(ctx, r)
	})
	if err != nil {
		g.unpersisted("save_review", err)
		r.ID = "local_" + uuid.NewString()
		return r
	}
	return saved
}

func (g *Gateway) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return withFallback(ctx, g, "list_locations", func(ctx context.Context, b Backend) ([]domain.Location, error) {
		return b.ListLocations(ctx)
	})
}

func (g *Gateway) GetLocation(ctx context.Context, id string) (domain.Location, error) {
	locs, err := g.ListLocations(ctx)
	if err != nil {
		return domain.Location{}, err
	}
	l, ok := domain.FindLocation(locs, id)
	if !ok {
		return domain.Location{}, ErrLocationNotFound
	}
	return l, nil
}

// NearbyLocations returns locations within radiusKm of the point, nearest first.
func (g *Gateway) NearbyLocations(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Location, error) {
	locs, err := g.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	return withinRadius(locs, lat, lon, radiusKm), nil
}

// SaveLocation stores a new location. Like SaveReview it degrades to
// returning the locally built value.
func (g *Gateway) SaveLocation(ctx context.Context, l domain.Location) domain.Location {
	l.ID = ""
	saved, err := withFallback(ctx, g, "save_location", func(ctx context.Context, b Backend) (domain.Location, error) {
		return b.CreateLocation(ctx, l)
	})
	if err != nil {
		g.unpersisted("save_location", err)
		l.ID = "loc_" + uuid.NewString()
		return l
	}
	return saved
}

// UpdateLocation applies patch to the location with id. It reports false
// when no location has that id or when no backend could be written.
func (g *Gateway) UpdateLocation(ctx context.Context, id string, patch domain.LocationPatch) bool {
	ok, err := withFallback(ctx, g, "update_location", func(ctx context.Context, b Backend) (bool, error) {
		return b.UpdateLocation(ctx, id, patch)
	})
	if err != nil {
		g.unpersisted("update_location", err)
		return false
	}
	if !ok {
		g.logger.Info("update for unknown location", "location_id", id)
	}
	return ok
}

// ListAnnouncements returns announcements newest first.
func (g *Gateway) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	return withFallback(ctx, g, "list_announcements", func(ctx context.Context, b Backend) ([]domain.Announcement, error) {
		return b.ListAnnouncements(ctx)
	})
}

func (g *Gateway) SaveAnnouncement(ctx context.Context, a domain.Announcement) domain.Announcement {
	a.ID = ""
	if a.CreatedAt.IsZero() {
		a.CreatedAt = g.now().UTC()
	}
	a.Type = domain.ParseAnnouncementType(string(a.Type))
	saved, err := withFallback(ctx, g, "save_announcement", func(ctx context.Context, b Backend) (domain.Announcement, error) {
		return b.CreateAnnouncement(ctx, a)
	})
	if err != nil {
		g.unpersisted("save_announcement", err)
		a.ID = "local_" + uuid.NewString()
		return a
	}
	return saved
}

// ListCategories returns the stored categories, or the built-in set when
// the store has none or cannot be read.
func (g *Gateway) ListCategories(ctx context.Context) []domain.Category {
	cats, err := withFallback(ctx, g, "list_categories", func(ctx context.Context, b Backend) ([]domain.Category, error) {
		return b.ListCategories(ctx)
	})
	if err != nil || len(cats) == 0 {
		return domain.DefaultCategories()
	}
	return cats
}

// IsKnownCategory reports whether id names a category.
func (g *Gateway) IsKnownCategory(ctx context.Context, id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	return domain.IsKnownCategory(g.ListCategories(ctx), id)
}

func (g *Gateway) unpersisted(op string, err error) {
	g.logger.Error("write not persisted by any backend", "operation", op, "error", err)
	g.metrics.UnpersistedWrite(op)
}
