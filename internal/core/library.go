package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"animehub/internal/repository"
	"animehub/pkg/logger"
	"animehub/pkg/models"
)

// LibraryService handles the user's personal library: bookmarks and reviews
type LibraryService interface {
	// ToggleBookmark adds the bookmark when absent and removes it when
	// present, returning the created bookmark and whether one was added.
	ToggleBookmark(ctx context.Context, userID string, req models.CreateBookmarkRequest) (*models.Bookmark, bool, error)
	RemoveBookmark(ctx context.Context, userID, bookmarkID string) error
	ListBookmarks(ctx context.Context, userID, category string) ([]*models.Bookmark, error)
	SubmitReview(ctx context.Context, userID string, jikanID int64, req models.SubmitReviewRequest) (*models.Review, error)
	ListReviews(ctx context.Context, jikanID int64, language string, limit, offset int) ([]*models.ReviewWithUser, int, error)
}

type libraryService struct {
	bookmarkRepo repository.BookmarkRepository
	reviewRepo   repository.ReviewRepository
	rewards      RewardService
}

// NewLibraryService creates a new library service
func NewLibraryService(
	bookmarkRepo repository.BookmarkRepository,
	reviewRepo repository.ReviewRepository,
	rewards RewardService,
) LibraryService {
	return &libraryService{
		bookmarkRepo: bookmarkRepo,
		reviewRepo:   reviewRepo,
		rewards:      rewards,
	}
}

// ToggleBookmark flips the bookmark for (user, entity, type, category)
func (s *libraryService) ToggleBookmark(ctx context.Context, userID string, req models.CreateBookmarkRequest) (*models.Bookmark, bool, error) {
	if userID == "" {
		return nil, false, models.ErrUnauthenticated
	}
	if err := models.ValidateCreateBookmark(&req); err != nil {
		return nil, false, err
	}

	removed, err := s.bookmarkRepo.DeleteByTuple(ctx, userID, req.EntityID, req.EntityType, req.Category)
	if err != nil {
		return nil, false, fmt.Errorf("failed to toggle bookmark: %w", err)
	}
	if removed {
		return nil, false, nil
	}

	bookmark := &models.Bookmark{
		ID:           uuid.New().String(),
		UserID:       userID,
		EntityID:     req.EntityID,
		EntityType:   req.EntityType,
		Category:     req.Category,
		Title:        req.Title,
		TitleEnglish: req.TitleEnglish,
		ImageURL:     req.ImageURL,
		CreatedAt:    time.Now(),
	}

	if err := s.bookmarkRepo.Create(ctx, bookmark); err != nil {
		return nil, false, err
	}
	return bookmark, true, nil
}

// RemoveBookmark deletes a bookmark the user owns
func (s *libraryService) RemoveBookmark(ctx context.Context, userID, bookmarkID string) error {
	if userID == "" {
		return models.ErrUnauthenticated
	}
	return s.bookmarkRepo.Delete(ctx, userID, bookmarkID)
}

// ListBookmarks returns the user's bookmarks, optionally by category
func (s *libraryService) ListBookmarks(ctx context.Context, userID, category string) ([]*models.Bookmark, error) {
	if userID == "" {
		return nil, models.ErrUnauthenticated
	}
	if category != "" && !models.IsValidBookmarkCategory(category) {
		return nil, fmt.Errorf("%w: invalid category: must be one of [favorite, planned]", models.ErrInvalidInput)
	}
	return s.bookmarkRepo.ListByUser(ctx, userID, category)
}

// SubmitReview creates or replaces the user's review for an anime in one
// language. Points and achievements apply only to newly created reviews.
func (s *libraryService) SubmitReview(ctx context.Context, userID string, jikanID int64, req models.SubmitReviewRequest) (*models.Review, error) {
	if userID == "" {
		return nil, models.ErrUnauthenticated
	}
	if jikanID <= 0 {
		return nil, fmt.Errorf("%w: anime id is required", models.ErrInvalidInput)
	}
	if err := models.ValidateSubmitReview(&req); err != nil {
		return nil, err
	}

	review := &models.Review{
		ID:        uuid.New().String(),
		UserID:    userID,
		JikanID:   jikanID,
		Rating:    req.Rating,
		Review:    req.Review,
		Language:  req.Language,
		CreatedAt: time.Now(),
	}

	created, err := s.reviewRepo.Upsert(ctx, review)
	if err != nil {
		return nil, err
	}

	if created {
		if _, err := s.rewards.AwardPoints(ctx, userID, models.PointsReviewSubmission); err != nil {
			logger.Errorf("Failed to award review points to %s: %v", userID, err)
		}
		if _, err := s.rewards.CheckAchievements(ctx, userID); err != nil {
			logger.Errorf("Achievement check failed for %s: %v", userID, err)
		}
	}

	return review, nil
}

// ListReviews returns reviews for an anime, newest first
func (s *libraryService) ListReviews(ctx context.Context, jikanID int64, language string, limit, offset int) ([]*models.ReviewWithUser, int, error) {
	if jikanID <= 0 {
		return nil, 0, fmt.Errorf("%w: anime id is required", models.ErrInvalidInput)
	}
	if language != "" && !models.IsValidLanguage(language) {
		return nil, 0, fmt.Errorf("%w: invalid language: must be one of [en, id]", models.ErrInvalidInput)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.reviewRepo.ListByAnime(ctx, jikanID, language, limit, offset)
}
