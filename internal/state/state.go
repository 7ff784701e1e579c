// Package state holds the server's view of the location list and of the
// location each Telegram user has open. It is a cache: the stores stay
// authoritative and entries expire after the configured TTL.
package state

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"xalqbahosi/internal/domain"
)

const (
	locationsKey   = "locations"
	selectedPrefix = "selected:"
)

type State struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func New(ttl time.Duration) *State {
	return &State{cache: cache.New(ttl, 2*ttl)}
}

// Locations returns a copy of the cached list.
func (s *State) Locations() ([]domain.Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	locs, ok := s.locations()
	if !ok {
		return nil, false
	}
	return append([]domain.Location(nil), locs...), true
}

// SelectedLocation returns the location userID last opened.
func (s *State) SelectedLocation(userID int64) (domain.Location, bool) {
	v, ok := s.cache.Get(selectedKey(userID))
	if !ok {
		return domain.Location{}, false
	}
	l, ok := v.(domain.Location)
	return l, ok
}

func (s *State) ReplaceLocations(locs []domain.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.SetDefault(locationsKey, append([]domain.Location(nil), locs...))
}

func (s *State) SelectLocation(userID int64, l domain.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.SetDefault(selectedKey(userID), l)
}

// AddLocation appends l to the cached list. Nothing is cached when the list
// has not been loaded yet; the next read fills it from storage.
func (s *State) AddLocation(l domain.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	locs, ok := s.locations()
	if !ok {
		return
	}
	s.cache.SetDefault(locationsKey, append(append([]domain.Location(nil), locs...), l))
}

// ApplyAggregate writes a recomputed rating into the cached list and into
// every user's selection of that location.
func (s *State) ApplyAggregate(locationID string, patch domain.LocationPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if locs, ok := s.locations(); ok {
		updated := append([]domain.Location(nil), locs...)
		for i := range updated {
			if updated[i].ID == locationID {
				updated[i] = patch.Apply(updated[i])
			}
		}
		s.cache.SetDefault(locationsKey, updated)
	}

	for key, item := range s.cache.Items() {
		if !strings.HasPrefix(key, selectedPrefix) {
			continue
		}
		l, ok := item.Object.(domain.Location)
		if !ok || l.ID != locationID {
			continue
		}
		s.cache.SetDefault(key, patch.Apply(l))
	}
}

// Reset forgets the cached list and every selection.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Flush()
}

func (s *State) locations() ([]domain.Location, bool) {
	v, ok := s.cache.Get(locationsKey)
	if !ok {
		return nil, false
	}
	locs, ok := v.([]domain.Location)
	return locs, ok
}

func selectedKey(userID int64) string {
	return selectedPrefix + strconv.FormatInt(userID, 10)
}
