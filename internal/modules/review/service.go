package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"xalqbahosi/internal/domain"
	"xalqbahosi/internal/metrics"
	"xalqbahosi/internal/modules/media"
)

type Store interface {
	SaveReview(ctx context.Context, r domain.Review) domain.Review
	ListReviews(ctx context.Context) ([]domain.Review, error)
	IsKnownCategory(ctx context.Context, id string) bool
}

type Aggregator interface {
	Recompute(ctx context.Context, locationID string) (domain.Location, error)
}

type MediaStore interface {
	Save(ctx context.Context, userID int64, fh *multipart.FileHeader) (*media.Upload, error)
}

type Selection interface {
	SelectedLocation(userID int64) (domain.Location, bool)
}

type Service struct {
	store     Store
	agg       Aggregator
	media     MediaStore
	selection Selection
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(store Store, agg Aggregator, mediaStore MediaStore, selection Selection, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{store: store, agg: agg, media: mediaStore, selection: selection, metrics: m, logger: logger}
}

// Submit validates the input, stores the review and refreshes the location
// aggregate. Nothing is written when validation fails. A failed aggregate
// refresh is reported through SubmitResult.Warning, not as an error.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	r, err := s.validate(ctx, in)
	if err != nil {
		s.metrics.ReviewSubmission(metrics.OutcomeRejected)
		return nil, err
	}

	if in.Media != nil && s.media != nil {
		upload, err := s.media.Save(ctx, in.UserID, in.Media)
		if err != nil {
			s.metrics.ReviewSubmission(metrics.OutcomeRejected)
			return nil, err
		}
		r.MediaURL = upload.FileURL
	}

	saved := s.store.SaveReview(ctx, r)
	res := &SubmitResult{Review: saved}

	loc, err := s.agg.Recompute(ctx, saved.LocationID)
	if err != nil {
		s.logger.Warn("review saved with stale aggregate",
			"review_id", saved.ID,
			"location_id", saved.LocationID,
			"error", err,
		)
		res.Warning = StaleAggregateWarning
		s.metrics.ReviewSubmission(metrics.OutcomeStale)
		return res, nil
	}

	if loc.ID != "" {
		res.Location = &loc
	}
	s.metrics.ReviewSubmission(metrics.OutcomeSaved)
	return res, nil
}

func (s *Service) validate(ctx context.Context, in SubmitInput) (domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return domain.Review{}, ErrRatingRequired
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return domain.Review{}, ErrCategoryRequired
	}
	if strings.TrimSpace(in.Text) == "" {
		return domain.Review{}, ErrTextRequired
	}

	locationID := strings.TrimSpace(in.LocationID)
	if locationID == "" && s.selection != nil {
		if sel, ok := s.selection.SelectedLocation(in.UserID); ok {
			locationID = sel.ID
		}
	}
	if locationID == "" {
		return domain.Review{}, ErrLocationRequired
	}

	if !s.store.IsKnownCategory(ctx, category) {
		return domain.Review{}, ErrCategoryRequired
	}

	userName := strings.TrimSpace(in.UserName)
	if userName == "" {
		userName = "Anonim"
	}
	return domain.Review{
		LocationID: locationID,
		UserID:     in.UserID,
		UserName:   userName,
		Rating:     in.Rating,
		Category:   category,
		Text:       in.Text,
	}, nil
}

// List returns reviews newest first, optionally for one location.
func (s *Service) List(ctx context.Context, locationID string) ([]domain.Review, error) {
	all, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if locationID = strings.TrimSpace(locationID); locationID != "" {
		return domain.ReviewsFor(all, locationID), nil
	}
	return all, nil
}

func isMediaError(err error) bool {
	return errors.Is(err, media.ErrEmptyFile) ||
		errors.Is(err, media.ErrFileTooLarge) ||
		errors.Is(err, media.ErrInvalidMimeType)
}
