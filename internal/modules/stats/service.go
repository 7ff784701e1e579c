package stats

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"xalqbahosi/internal/domain"
)

type Store interface {
	ListLocations(ctx context.Context) ([]domain.Location, error)
	ListReviews(ctx context.Context) ([]domain.Review, error)
}

// Summary is keyed the way the stats screen reads it, one field per
// location type.
type Summary struct {
	Total         int           `json:"total"`
	Maktab        int           `json:"maktab"`
	Klinika       int           `json:"klinika"`
	Bogcha        int           `json:"bogcha"`
	Suv           int           `json:"suv"`
	Yol           int           `json:"-"`
	TotalReviews  int           `json:"totalReviews"`
	AverageRating domain.Rating `json:"averageRating"`
	Users         int           `json:"users"`
}

// MarshalJSON adds the road count under "yo'l", a key struct tags cannot
// express.
func (s Summary) MarshalJSON() ([]byte, error) {
	type fields Summary
	base, err := json.Marshal(fields(s))
	if err != nil {
		return nil, err
	}
	road, err := json.Marshal(map[string]int{domain.TypeRoad: s.Yol})
	if err != nil {
		return nil, err
	}
	out := append(base[:len(base)-1], ',')
	return append(out, road[1:]...), nil
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var (
		locs    []domain.Location
		reviews []domain.Review
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		locs, err = s.store.ListLocations(gctx)
		return err
	})
	g.Go(func() (err error) {
		reviews, err = s.store.ListReviews(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return Summarize(locs, reviews), nil
}

// Summarize counts locations per type. AverageRating is the mean of the
// rated locations; Users counts distinct reviewers, anonymous ones as one.
func Summarize(locs []domain.Location, reviews []domain.Review) *Summary {
	out := &Summary{Total: len(locs), TotalReviews: len(reviews)}

	var sum float64
	rated := 0
	for _, l := range locs {
		switch l.Type {
		case domain.TypeSchool:
			out.Maktab++
		case domain.TypeClinic:
			out.Klinika++
		case domain.TypeKindergarten:
			out.Bogcha++
		case domain.TypeWater:
			out.Suv++
		case domain.TypeRoad:
			out.Yol++
		}
		if l.Rating > 0 {
			sum += l.Rating.Float64()
			rated++
		}
	}
	if rated > 0 {
		out.AverageRating = domain.RoundRating(sum / float64(rated))
	}

	users := make(map[int64]struct{}, len(reviews))
	for _, r := range reviews {
		users[r.UserID] = struct{}{}
	}
	out.Users = len(users)
	return out
}
