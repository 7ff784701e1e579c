package domain

import "time"

type AnnouncementType string

const (
	AnnouncementSuccess AnnouncementType = "success"
	AnnouncementWarning AnnouncementType = "warning"
	AnnouncementInfo    AnnouncementType = "info"
)

// ParseAnnouncementType maps unknown or empty input to info.
func ParseAnnouncementType(s string) AnnouncementType {
	switch AnnouncementType(s) {
	case AnnouncementSuccess, AnnouncementWarning:
		return AnnouncementType(s)
	default:
		return AnnouncementInfo
	}
}

// Accent is the colour of the card's left border.
func (t AnnouncementType) Accent() string {
	switch t {
	case AnnouncementSuccess:
		return "#2ecc71"
	case AnnouncementWarning:
		return "#f1c40f"
	default:
		return "#3498db"
	}
}

type Announcement struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Content    string           `json:"content"`
	Type       AnnouncementType `json:"type"`
	AuthorName string           `json:"authorName"`
	CreatedAt  time.Time        `json:"createdAt"`
	// Demo marks built-in placeholder items that are never stored.
	Demo bool `json:"demo,omitempty"`
}
