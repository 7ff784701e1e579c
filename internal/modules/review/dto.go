package review

import (
	"mime/multipart"

	"xalqbahosi/internal/domain"
)

type CreateReviewRequest struct {
	LocationID string `json:"locationId" form:"locationId"`
	Rating     int    `json:"rating" form:"rating"`
	Category   string `json:"category" form:"category"`
	Text       string `json:"text" form:"text"`
}

type SubmitInput struct {
	CreateReviewRequest
	UserID   int64
	UserName string
	Media    *multipart.FileHeader
}

type SubmitResult struct {
	Review   domain.Review    `json:"review"`
	Location *domain.Location `json:"location,omitempty"`
	Warning  string           `json:"warning,omitempty"`
}
