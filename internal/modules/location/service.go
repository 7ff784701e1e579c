package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"xalqbahosi/internal/domain"
	"xalqbahosi/internal/pkg/validator"
	"xalqbahosi/internal/storage"
)

type Store interface {
	ListLocations(ctx context.Context) ([]domain.Location, error)
	GetLocation(ctx context.Context, id string) (domain.Location, error)
	NearbyLocations(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Location, error)
	SaveLocation(ctx context.Context, l domain.Location) domain.Location
}

type State interface {
	Locations() ([]domain.Location, bool)
	ReplaceLocations(locs []domain.Location)
	SelectLocation(userID int64, l domain.Location)
	AddLocation(l domain.Location)
}

type Service struct {
	store  Store
	state  State
	logger *slog.Logger
}

func NewService(store Store, state State, logger *slog.Logger) *Service {
	return &Service{store: store, state: state, logger: logger}
}

// List refreshes the cached location list and returns it, optionally
// filtered by type. When storage cannot be read the cached list is served.
func (s *Service) List(ctx context.Context, locType string) ([]domain.Location, error) {
	locs, err := s.store.ListLocations(ctx)
	if err != nil {
		cached, ok := s.state.Locations()
		if !ok {
			return nil, fmt.Errorf("list locations: %w", err)
		}
		s.logger.Warn("serving cached locations", "error", err)
		locs = cached
	} else {
		s.state.ReplaceLocations(locs)
	}

	locType = strings.TrimSpace(locType)
	if locType == "" || locType == "all" {
		return locs, nil
	}
	out := make([]domain.Location, 0, len(locs))
	for _, l := range locs {
		if l.Type == locType {
			out = append(out, l)
		}
	}
	return out, nil
}

// Get returns one location and records it as userID's current selection.
func (s *Service) Get(ctx context.Context, id string, userID int64) (domain.Location, error) {
	l, err := s.store.GetLocation(ctx, id)
	if errors.Is(err, storage.ErrLocationNotFound) {
		return domain.Location{}, ErrNotFound
	}
	if err != nil {
		return domain.Location{}, err
	}
	if userID != 0 {
		s.state.SelectLocation(userID, l)
	}
	return l, nil
}

func (s *Service) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Location, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultNearbyRadiusKm
	}
	return s.store.NearbyLocations(ctx, lat, lon, radiusKm)
}

// Create adds a location with no rating yet.
func (s *Service) Create(ctx context.Context, req CreateLocationRequest) (domain.Location, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := checkCreate(req); err != nil {
		return domain.Location{}, err
	}
	if !slices.Contains(domain.LocationTypes, req.Type) {
		return domain.Location{}, ErrUnknownType
	}

	l := s.store.SaveLocation(ctx, domain.Location{
		Name:    req.Name,
		Type:    req.Type,
		Address: strings.TrimSpace(req.Address),
		Lat:     req.Lat,
		Lon:     req.Lon,
	})
	s.state.AddLocation(l)
	s.logger.Info("location created", "location_id", l.ID, "type", l.Type)
	return l, nil
}

func checkCreate(req CreateLocationRequest) error {
	errs := validator.Validate(req)
	for _, rule := range errs {
		if rule == "required" {
			return ErrFieldsRequired
		}
	}
	if len(errs) > 0 {
		return ErrInvalidCoordinates
	}
	return nil
}
