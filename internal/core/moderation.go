package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"animehub/internal/repository"
	"animehub/pkg/logger"
	"animehub/pkg/models"
)

// ModerationService lets moderators enumerate outstanding proposals and
// resolve them.
type ModerationService interface {
	ListVersions(ctx context.Context, filter models.VersionFilter, actor *models.User) ([]*models.ModerationVersion, int, error)
	Resolve(ctx context.Context, versionID string, decision models.VersionStatus, actor *models.User) error
}

type moderationService struct {
	contentRepo      repository.ContentVersionRepository
	pointsRepo       repository.PointsRepository
	notificationRepo repository.NotificationRepository
	tx               repository.TxManager
	rewards          RewardService
	publisher        NotificationPublisher
}

// NewModerationService creates a new moderation service. publisher may be
// nil when no realtime feed is running.
func NewModerationService(
	contentRepo repository.ContentVersionRepository,
	pointsRepo repository.PointsRepository,
	notificationRepo repository.NotificationRepository,
	tx repository.TxManager,
	rewards RewardService,
	publisher NotificationPublisher,
) ModerationService {
	return &moderationService{
		contentRepo:      contentRepo,
		pointsRepo:       pointsRepo,
		notificationRepo: notificationRepo,
		tx:               tx,
		rewards:          rewards,
		publisher:        publisher,
	}
}

// ListVersions returns versions matching the filter, newest first, with the
// submitter's display identity and a comparison baseline attached.
func (s *moderationService) ListVersions(ctx context.Context, filter models.VersionFilter, actor *models.User) ([]*models.ModerationVersion, int, error) {
	if actor == nil {
		return nil, 0, models.ErrUnauthenticated
	}
	if !actor.HasRole(models.UserRoleModerator) {
		return nil, 0, models.ErrNotAuthorized
	}
	if err := models.ValidateVersionFilter(&filter); err != nil {
		return nil, 0, err
	}
	return s.contentRepo.List(ctx, filter)
}

// Resolve transitions a pending version to approved or rejected. The status
// update, the contributor's point award and the notification insert commit
// in one transaction; a version that is no longer pending fails with
// ErrAlreadyResolved and fires no side effects.
func (s *moderationService) Resolve(ctx context.Context, versionID string, decision models.VersionStatus, actor *models.User) error {
	if actor == nil {
		return models.ErrUnauthenticated
	}
	if !actor.HasRole(models.UserRoleModerator) {
		return models.ErrNotAuthorized
	}
	if decision != models.VersionStatusApproved && decision != models.VersionStatusRejected {
		return fmt.Errorf("%w: invalid decision: must be one of [approved, rejected]", models.ErrInvalidInput)
	}

	var resolved *models.ContentVersion
	var notification *models.Notification

	err := s.tx.WithTransaction(ctx, func(tx pgx.Tx) error {
		version, err := s.contentRepo.ResolveTx(ctx, tx, versionID, decision)
		if err != nil {
			return err
		}
		resolved = version

		if decision == models.VersionStatusApproved {
			if _, err := s.pointsRepo.AwardTx(ctx, tx, version.CreatedBy, models.PointsContentApproved); err != nil {
				return fmt.Errorf("failed to award approval points: %w", err)
			}
		}

		notification = buildResolutionNotification(version, decision)
		if err := s.notificationRepo.CreateTx(ctx, tx, notification); err != nil {
			return fmt.Errorf("failed to create resolution notification: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	logger.WithFields(map[string]interface{}{
		"version_id": versionID,
		"decision":   string(decision),
		"moderator":  actor.ID,
	}).Info("Content version resolved")

	// Auxiliary effects outside the transaction: log failures only.
	if s.publisher != nil && notification != nil {
		s.publisher.Publish(notification.UserID, notification)
	}
	if decision == models.VersionStatusApproved {
		if _, err := s.rewards.CheckAchievements(ctx, resolved.CreatedBy); err != nil {
			logger.Errorf("Achievement check failed for %s: %v", resolved.CreatedBy, err)
		}
	}

	return nil
}

// buildResolutionNotification creates the contributor-facing notification
// with a deep link to the entity page, e.g. /id/anime/5.
func buildResolutionNotification(version *models.ContentVersion, decision models.VersionStatus) *models.Notification {
	link := fmt.Sprintf("/%s/%s/%d", version.Language, version.EntityType, version.EntityID)
	data := map[string]interface{}{
		"version_id":   version.ID,
		"entity_type":  string(version.EntityType),
		"entity_id":    version.EntityID,
		"content_type": string(version.ContentType),
		"language":     version.Language,
	}

	notificationType := models.NotificationContentApproved
	message := fmt.Sprintf("Your %s translation for %s %d was approved",
		version.Language, version.EntityType, version.EntityID)
	if decision == models.VersionStatusRejected {
		notificationType = models.NotificationContentRejected
		message = fmt.Sprintf("Your %s translation for %s %d was rejected",
			version.Language, version.EntityType, version.EntityID)
	}

	return &models.Notification{
		ID:        uuid.New().String(),
		UserID:    version.CreatedBy,
		Type:      notificationType,
		Message:   message,
		Link:      &link,
		Data:      data,
		CreatedAt: time.Now(),
	}
}
