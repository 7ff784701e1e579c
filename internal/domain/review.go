package domain

import "time"

// Review is immutable once stored.
type Review struct {
	ID         string    `json:"id"`
	LocationID string    `json:"locationId"`
	UserID     int64     `json:"userId"`
	UserName   string    `json:"userName"`
	Rating     int       `json:"rating"`
	Category   string    `json:"category"`
	Text       string    `json:"text"`
	MediaURL   string    `json:"mediaUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReviewsFor keeps the reviews that reference locationID, in input order.
func ReviewsFor(reviews []Review, locationID string) []Review {
	out := make([]Review, 0)
	for _, r := range reviews {
		if r.LocationID == locationID {
			out = append(out, r)
		}
	}
	return out
}
