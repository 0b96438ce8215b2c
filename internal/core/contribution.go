package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"animehub/internal/repository"
	"animehub/pkg/logger"
	"animehub/pkg/models"
)

// ContributionService accepts proposed content versions from authenticated
// users and serves the currently approved text.
type ContributionService interface {
	Submit(ctx context.Context, req models.SubmitContentRequest, submitterID string) (*models.ContentVersion, error)
	GetApprovedContent(ctx context.Context, tuple models.ContentTuple) (*models.ContentVersion, error)
	ListMine(ctx context.Context, userID string, limit, offset int) ([]*models.ContentVersion, int, error)
}

type contributionService struct {
	contentRepo repository.ContentVersionRepository
	userRepo    repository.UserRepository
	rewards     RewardService
}

// NewContributionService creates a new contribution service
func NewContributionService(
	contentRepo repository.ContentVersionRepository,
	userRepo repository.UserRepository,
	rewards RewardService,
) ContributionService {
	return &contributionService{
		contentRepo: contentRepo,
		userRepo:    userRepo,
		rewards:     rewards,
	}
}

// Submit validates and persists a pending content version. One pending
// proposal is allowed per content tuple at a time; a concurrent duplicate is
// caught by the conditional insert, not just the pre-check.
func (s *contributionService) Submit(ctx context.Context, req models.SubmitContentRequest, submitterID string) (*models.ContentVersion, error) {
	if submitterID == "" {
		return nil, models.ErrUnauthenticated
	}
	if err := models.ValidateSubmitContent(&req); err != nil {
		return nil, err
	}

	tuple := req.Tuple()
	pending, err := s.contentRepo.HasPending(ctx, tuple)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending versions: %w", err)
	}
	if pending {
		return nil, models.ErrDuplicatePending
	}

	version := &models.ContentVersion{
		ID:              uuid.New().String(),
		EntityType:      req.EntityType,
		EntityID:        req.EntityID,
		ContentType:     req.ContentType,
		Language:        req.Language,
		Content:         strings.TrimSpace(req.Content),
		OriginalContent: req.OriginalContent,
		Status:          models.VersionStatusPending,
		CreatedBy:       submitterID,
		CreatedAt:       time.Now(),
	}

	if err := s.contentRepo.Insert(ctx, version); err != nil {
		return nil, err
	}

	// Side effects after the primary write: log failures, never undo the
	// submission.
	if _, err := s.rewards.AwardPoints(ctx, submitterID, models.PointsContentSubmission); err != nil {
		logger.Errorf("Failed to award submission points to %s: %v", submitterID, err)
	}

	s.notifyModerators(ctx, version)

	return version, nil
}

// notifyModerators tells every member of the moderator set about the new
// pending version.
func (s *contributionService) notifyModerators(ctx context.Context, version *models.ContentVersion) {
	moderators, err := s.userRepo.ListModerators(ctx)
	if err != nil {
		logger.Errorf("Failed to list moderators for submission %s: %v", version.ID, err)
		return
	}

	message := fmt.Sprintf("New %s translation pending review (%s %d, %s)",
		version.Language, version.EntityType, version.EntityID, version.ContentType)
	link := moderationQueueLink()
	data := map[string]interface{}{
		"version_id":  version.ID,
		"entity_type": string(version.EntityType),
		"entity_id":   version.EntityID,
	}

	for _, mod := range moderators {
		if mod.ID == version.CreatedBy {
			continue
		}
		if _, err := s.rewards.Notify(ctx, mod.ID, models.NotificationContentSubmitted, message, &link, data); err != nil {
			logger.Errorf("Failed to notify moderator %s: %v", mod.ID, err)
		}
	}
}

func moderationQueueLink() string {
	return "/admin/moderation"
}

// GetApprovedContent returns the latest approved version for the tuple, or
// nil when the caller should fall back to the original text.
func (s *contributionService) GetApprovedContent(ctx context.Context, tuple models.ContentTuple) (*models.ContentVersion, error) {
	if !models.IsValidEntityType(string(tuple.EntityType)) ||
		!models.IsValidContentType(string(tuple.ContentType)) ||
		!models.IsValidLanguage(tuple.Language) || tuple.EntityID <= 0 {
		return nil, models.ErrInvalidInput
	}
	return s.contentRepo.GetLatestApproved(ctx, tuple)
}

// ListMine returns the caller's submissions
func (s *contributionService) ListMine(ctx context.Context, userID string, limit, offset int) ([]*models.ContentVersion, int, error) {
	if userID == "" {
		return nil, 0, models.ErrUnauthenticated
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.contentRepo.ListByUser(ctx, userID, limit, offset)
}
