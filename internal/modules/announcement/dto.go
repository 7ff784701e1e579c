package announcement

import "xalqbahosi/internal/domain"

type CreateAnnouncementRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Type       string `json:"type"`
	AuthorName string `json:"authorName"`
}

// Event is pushed to feed subscribers.
type Event struct {
	Type string              `json:"type"`
	Data domain.Announcement `json:"data"`
}

const EventCreated = "announcement.created"
