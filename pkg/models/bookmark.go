package models

import (
	"fmt"
	"time"
)

// BookmarkCategory represents valid bookmark categories
type BookmarkCategory string

const (
	BookmarkFavorite BookmarkCategory = "favorite"
	BookmarkPlanned  BookmarkCategory = "planned"
)

// Bookmark is a user's saved relationship to an entity. At most one bookmark
// exists per (user, entity, entity type, category).
type Bookmark struct {
	ID           string           `json:"id" db:"id"`
	UserID       string           `json:"user_id" db:"user_id"`
	EntityID     int64            `json:"entity_id" db:"entity_id"`
	EntityType   EntityType       `json:"entity_type" db:"entity_type"`
	Category     BookmarkCategory `json:"category" db:"category"`
	Title        string           `json:"title" db:"title"`
	TitleEnglish *string          `json:"title_english,omitempty" db:"title_english"`
	ImageURL     *string          `json:"image_url,omitempty" db:"image_url"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}

// CreateBookmarkRequest represents a bookmark toggle/add
type CreateBookmarkRequest struct {
	EntityID     int64            `json:"entity_id" validate:"required,min=1"`
	EntityType   EntityType       `json:"entity_type" validate:"required,oneof=anime character"`
	Category     BookmarkCategory `json:"category" validate:"required,oneof=favorite planned"`
	Title        string           `json:"title" validate:"required"`
	TitleEnglish *string          `json:"title_english"`
	ImageURL     *string          `json:"image_url"`
}

// IsValidBookmarkCategory validates category against schema constraints
func IsValidBookmarkCategory(c string) bool {
	switch BookmarkCategory(c) {
	case BookmarkFavorite, BookmarkPlanned:
		return true
	default:
		return false
	}
}

// ValidateCreateBookmark validates a bookmark request
func ValidateCreateBookmark(req *CreateBookmarkRequest) error {
	if req.EntityID <= 0 {
		return fmt.Errorf("%w: entity id is required", ErrInvalidInput)
	}
	if !IsValidEntityType(string(req.EntityType)) {
		return fmt.Errorf("%w: invalid entity type: must be one of [anime, character]", ErrInvalidInput)
	}
	if !IsValidBookmarkCategory(string(req.Category)) {
		return fmt.Errorf("%w: invalid category: must be one of [favorite, planned]", ErrInvalidInput)
	}
	if req.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return nil
}
