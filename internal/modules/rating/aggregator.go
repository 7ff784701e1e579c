package rating

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"xalqbahosi/internal/domain"
)

// ErrAggregateStale means the stored rating of a location may not reflect
// its latest reviews. The reviews themselves are already stored.
var ErrAggregateStale = errors.New("aggregate rating not updated")

type Store interface {
	ListLocations(ctx context.Context) ([]domain.Location, error)
	ListReviews(ctx context.Context) ([]domain.Review, error)
	UpdateLocation(ctx context.Context, id string, patch domain.LocationPatch) bool
}

type StateCache interface {
	ApplyAggregate(locationID string, patch domain.LocationPatch)
}

// Aggregator recomputes a location's rating and review count from its full
// review history.
type Aggregator struct {
	store  Store
	state  StateCache
	logger *slog.Logger
	locks  keyedMutex
}

func NewAggregator(store Store, state StateCache, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{store: store, state: state, logger: logger}
}

// Recompute runs one aggregation for locationID. Runs for the same location
// are serialized. On success the returned location carries the new values.
// With ErrAggregateStale it is the location as last read, unpatched.
func (a *Aggregator) Recompute(ctx context.Context, locationID string) (domain.Location, error) {
	unlock := a.locks.Lock(locationID)
	defer unlock()

	var (
		locs    []domain.Location
		reviews []domain.Review
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		locs, err = a.store.ListLocations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = a.store.ListReviews(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		a.logger.Error("aggregate fetch failed", "location_id", locationID, "error", err)
		return domain.Location{}, fmt.Errorf("%w: %v", ErrAggregateStale, err)
	}

	patch := Compute(domain.ReviewsFor(reviews, locationID))

	current, known := domain.FindLocation(locs, locationID)

	if !a.store.UpdateLocation(ctx, locationID, patch) {
		a.logger.Warn("aggregate not persisted", "location_id", locationID, "known", known)
		return current, fmt.Errorf("%w: location %s not updated", ErrAggregateStale, locationID)
	}

	loc := patch.Apply(current)

	if a.state != nil {
		a.state.ApplyAggregate(locationID, patch)
	}
	a.logger.Info("aggregate updated",
		"location_id", locationID,
		"rating", loc.Rating.String(),
		"review_count", *patch.ReviewCount,
	)
	return loc, nil
}

// Compute derives the aggregate for reviews already filtered to one
// location. With no reviews the rating is left out of the patch.
func Compute(reviews []domain.Review) domain.LocationPatch {
	stars := make([]int, 0, len(reviews))
	for _, r := range reviews {
		stars = append(stars, r.Rating)
	}
	count := len(stars)
	patch := domain.LocationPatch{ReviewCount: &count}
	if mean, ok := domain.MeanRating(stars); ok {
		patch.Rating = &mean
	}
	return patch
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
