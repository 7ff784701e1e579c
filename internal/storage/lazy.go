package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"xalqbahosi/internal/domain"
)

// ConnectFunc opens a backend, typically connecting and migrating the
// remote store.
type ConnectFunc func(ctx context.Context) (Backend, error)

var errConnecting = errors.New("connection attempt in progress")

// LazyBackend initialises its backend on first use. Until a connect
// succeeds every call fails with ErrPrimaryUnavailable, so the gateway
// keeps falling back and keeps retrying. Attempts are at least retryEvery
// apart and never overlap.
type LazyBackend struct {
	connect    ConnectFunc
	retryEvery time.Duration
	logger     *slog.Logger
	now        func() time.Time

	mu          sync.Mutex
	backend     Backend
	connecting  bool
	lastErr     error
	nextAttempt time.Time
}

func NewLazyBackend(connect ConnectFunc, retryEvery time.Duration, logger *slog.Logger) *LazyBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &LazyBackend{connect: connect, retryEvery: retryEvery, logger: logger, now: time.Now}
}

func (l *LazyBackend) Name() string { return "remote" }

// Ready attempts initialisation now and reports its result.
func (l *LazyBackend) Ready(ctx context.Context) error {
	_, err := l.get(ctx)
	return err
}

func (l *LazyBackend) get(ctx context.Context) (Backend, error) {
	l.mu.Lock()
	if l.backend != nil {
		b := l.backend
		l.mu.Unlock()
		return b, nil
	}
	if l.connecting {
		l.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrPrimaryUnavailable, errConnecting)
	}
	if l.lastErr != nil && l.now().Before(l.nextAttempt) {
		err := l.lastErr
		l.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrPrimaryUnavailable, err)
	}
	l.connecting = true
	l.mu.Unlock()

	b, err := l.connect(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.connecting = false
	if err != nil {
		l.lastErr = err
		l.nextAttempt = l.now().Add(l.retryEvery)
		l.logger.Warn("remote store not initialised", "error", err, "retry_in", l.retryEvery)
		return nil, fmt.Errorf("%w: %v", ErrPrimaryUnavailable, err)
	}
	l.backend = b
	l.lastErr = nil
	l.logger.Info("remote store initialised")
	return b, nil
}

func (l *LazyBackend) ListReviews(ctx context.Context) ([]domain.Review, error) {
	b, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return b.ListReviews(ctx)
}

func (l *LazyBackend) CreateReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	b, err := l.get(ctx)
	if err != nil {
		return domain.Review{}, err
	}
	return b.CreateReview(ctx, r)
}

func (l *LazyBackend) ListLocations(ctx context.Context) ([]domain.Location, error) {
	b, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return b.ListLocations(ctx)
}

func (l *LazyBackend) CreateLocation(ctx context.Context, loc domain.Location) (domain.Location, error) {
	b, err := l.get(ctx)
	if err != nil {
		return domain.Location{}, err
	}
	return b.CreateLocation(ctx, loc)
}

func (l *LazyBackend) UpdateLocation(ctx context.Context, id string, patch domain.LocationPatch) (bool, error) {
	b, err := l.get(ctx)
	if err != nil {
		return false, err
	}
	return b.UpdateLocation(ctx, id, patch)
}

func (l *LazyBackend) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	b, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return b.ListAnnouncements(ctx)
}

func (l *LazyBackend) CreateAnnouncement(ctx context.Context, a domain.Announcement) (domain.Announcement, error) {
	b, err := l.get(ctx)
	if err != nil {
		return domain.Announcement{}, err
	}
	return b.CreateAnnouncement(ctx, a)
}

func (l *LazyBackend) ListCategories(ctx context.Context) ([]domain.Category, error) {
	b, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return b.ListCategories(ctx)
}
