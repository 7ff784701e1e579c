package announcement

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"xalqbahosi/internal/domain"
)

type Store interface {
	ListAnnouncements(ctx context.Context) ([]domain.Announcement, error)
	SaveAnnouncement(ctx context.Context, a domain.Announcement) domain.Announcement
}

type Broadcaster interface {
	Broadcast(message any) int
}

type Service struct {
	store  Store
	feed   Broadcaster
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store Store, feed Broadcaster, logger *slog.Logger) *Service {
	return &Service{store: store, feed: feed, logger: logger, now: time.Now}
}

// List returns announcements newest first. When nothing has been posted, or
// storage cannot be read, the demo announcements are returned.
func (s *Service) List(ctx context.Context) []domain.Announcement {
	items, err := s.store.ListAnnouncements(ctx)
	if err != nil {
		s.logger.Warn("announcements unavailable, serving demo items", "error", err)
		return domain.DemoAnnouncements(s.now().UTC())
	}
	if len(items) == 0 {
		return domain.DemoAnnouncements(s.now().UTC())
	}
	return items
}

// Post stores an announcement and pushes it to feed subscribers. The author
// falls back to defaultAuthor, then to "Admin".
func (s *Service) Post(ctx context.Context, req CreateAnnouncementRequest, defaultAuthor string) (domain.Announcement, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return domain.Announcement{}, ErrFieldsRequired
	}

	author := strings.TrimSpace(req.AuthorName)
	if author == "" {
		author = strings.TrimSpace(defaultAuthor)
	}
	if author == "" {
		author = "Admin"
	}

	a := s.store.SaveAnnouncement(ctx, domain.Announcement{
		Title:      title,
		Content:    content,
		Type:       domain.ParseAnnouncementType(req.Type),
		AuthorName: author,
	})

	if s.feed != nil {
		n := s.feed.Broadcast(Event{Type: EventCreated, Data: a})
		s.logger.Info("announcement posted", "announcement_id", a.ID, "delivered", n)
	}
	return a, nil
}
