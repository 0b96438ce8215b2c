package models

import (
	"fmt"
	"strings"
	"time"
)

// VersionStatus represents the moderation state of a content version
type VersionStatus string

const (
	VersionStatusPending  VersionStatus = "pending"
	VersionStatusApproved VersionStatus = "approved"
	VersionStatusRejected VersionStatus = "rejected"
)

// EntityType identifies the kind of encyclopedia entity a version belongs to
type EntityType string

const (
	EntityTypeAnime     EntityType = "anime"
	EntityTypeCharacter EntityType = "character"
)

// ContentType identifies the kind of text being translated
type ContentType string

const (
	ContentTypeAnimeSynopsis        ContentType = "anime_synopsis"
	ContentTypeAnimeBackground      ContentType = "anime_background"
	ContentTypeCharacterDescription ContentType = "character_description"
)

// Supported content languages
const (
	LanguageEnglish    = "en"
	LanguageIndonesian = "id"
)

// ContentVersion is one proposed (or accepted) piece of translated text tied
// to an entity, a content category, and a language.
type ContentVersion struct {
	ID              string        `json:"id" db:"id"`
	EntityType      EntityType    `json:"entity_type" db:"entity_type"`
	EntityID        int64         `json:"entity_id" db:"entity_id"`
	ContentType     ContentType   `json:"content_type" db:"content_type"`
	Language        string        `json:"language" db:"language"`
	Content         string        `json:"content" db:"content"`
	OriginalContent *string       `json:"original_content,omitempty" db:"original_content"`
	Status          VersionStatus `json:"status" db:"status"`
	CreatedBy       string        `json:"created_by" db:"created_by"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       *time.Time    `json:"updated_at,omitempty" db:"updated_at"`
	RejectedAt      *time.Time    `json:"rejected_at,omitempty" db:"rejected_at"`
}

// ContentTuple identifies the unit of moderation: one piece of text in one
// language for one entity.
type ContentTuple struct {
	EntityType  EntityType  `json:"entity_type" form:"entity_type"`
	EntityID    int64       `json:"entity_id" form:"entity_id"`
	ContentType ContentType `json:"content_type" form:"content_type"`
	Language    string      `json:"language" form:"language"`
}

// ModerationVersion is a ContentVersion augmented with the submitter's
// display identity and a comparison baseline for the moderation queue.
type ModerationVersion struct {
	ContentVersion
	SubmitterName   string  `json:"submitter_name"`
	BaselineContent *string `json:"baseline_content,omitempty"`
}

// SubmitContentRequest represents a contribution submission
type SubmitContentRequest struct {
	EntityType      EntityType  `json:"entity_type" validate:"required,oneof=anime character"`
	EntityID        int64       `json:"entity_id" validate:"required,min=1"`
	ContentType     ContentType `json:"content_type" validate:"required"`
	Language        string      `json:"language" validate:"required,oneof=en id"`
	Content         string      `json:"content" validate:"required"`
	OriginalContent *string     `json:"original_content"`
}

// Tuple returns the moderation tuple for the submission
func (r *SubmitContentRequest) Tuple() ContentTuple {
	return ContentTuple{
		EntityType:  r.EntityType,
		EntityID:    r.EntityID,
		ContentType: r.ContentType,
		Language:    r.Language,
	}
}

// VersionFilter narrows the moderation listing
type VersionFilter struct {
	Status      string `json:"status" form:"status"` // pending, approved, rejected, all
	ContentType string `json:"content_type" form:"content_type"`
	EntityType  string `json:"entity_type" form:"entity_type"`
	Language    string `json:"language" form:"language"`
	Limit       int    `json:"limit" form:"limit"`
	Offset      int    `json:"offset" form:"offset"`
}

// IsValidEntityType validates entity type against schema constraints
func IsValidEntityType(t string) bool {
	switch EntityType(t) {
	case EntityTypeAnime, EntityTypeCharacter:
		return true
	default:
		return false
	}
}

// IsValidContentType validates content type against schema constraints
func IsValidContentType(t string) bool {
	switch ContentType(t) {
	case ContentTypeAnimeSynopsis, ContentTypeAnimeBackground, ContentTypeCharacterDescription:
		return true
	default:
		return false
	}
}

// IsValidLanguage validates a content language code
func IsValidLanguage(lang string) bool {
	return lang == LanguageEnglish || lang == LanguageIndonesian
}

// ValidateSubmitContent validates a submission before any store call is made
func ValidateSubmitContent(req *SubmitContentRequest) error {
	if !IsValidEntityType(string(req.EntityType)) {
		return fmt.Errorf("%w: invalid entity type: must be one of [anime, character]", ErrInvalidInput)
	}
	if req.EntityID <= 0 {
		return fmt.Errorf("%w: entity id is required", ErrInvalidInput)
	}
	if !IsValidContentType(string(req.ContentType)) {
		return fmt.Errorf("%w: invalid content type: must be one of [anime_synopsis, anime_background, character_description]", ErrInvalidInput)
	}
	if !IsValidLanguage(req.Language) {
		return fmt.Errorf("%w: invalid language: must be one of [en, id]", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Content) == "" {
		return fmt.Errorf("%w: content cannot be empty", ErrInvalidInput)
	}
	return nil
}

// ValidateVersionFilter normalizes filter defaults
func ValidateVersionFilter(f *VersionFilter) error {
	if f.Status == "" {
		f.Status = string(VersionStatusPending)
	}
	if f.Status != "all" && f.Status != string(VersionStatusPending) &&
		f.Status != string(VersionStatusApproved) && f.Status != string(VersionStatusRejected) {
		return fmt.Errorf("%w: invalid status filter: %s", ErrInvalidInput, f.Status)
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return nil
}
