package models

import (
	"fmt"
	"strings"
	"time"
)

// Review is a user's rating and optional text for an anime, scoped by
// language. One review exists per (user, jikan id, language); submitting
// again upserts the existing row.
type Review struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	JikanID   int64     `json:"jikan_id" db:"jikan_id"`
	Rating    int       `json:"rating" db:"rating"`
	Review    *string   `json:"review,omitempty" db:"review"`
	Language  string    `json:"language" db:"language"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ReviewWithUser augments a review with the author's display identity
type ReviewWithUser struct {
	Review
	Username string `json:"username"`
}

// SubmitReviewRequest represents a review create/update
type SubmitReviewRequest struct {
	Rating   int     `json:"rating" validate:"required,min=1,max=10"`
	Review   *string `json:"review"`
	Language string  `json:"language" validate:"required,oneof=en id"`
}

// ValidateSubmitReview validates a review request
func ValidateSubmitReview(req *SubmitReviewRequest) error {
	if req.Rating < 1 || req.Rating > 10 {
		return fmt.Errorf("%w: rating must be between 1 and 10", ErrInvalidInput)
	}
	if !IsValidLanguage(req.Language) {
		return fmt.Errorf("%w: invalid language: must be one of [en, id]", ErrInvalidInput)
	}
	if req.Review != nil && strings.TrimSpace(*req.Review) == "" {
		req.Review = nil
	}
	return nil
}
