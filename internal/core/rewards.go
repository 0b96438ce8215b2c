// Package core - Core Business Logic
// Protocol-agnostic services for contributions, moderation, rewards and the
// user library.
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

// NotificationPublisher pushes a stored notification to connected clients.
// Publishing is decoupled from the database write: a failed push never fails
// the triggering operation.
type NotificationPublisher interface {
	Publish(userID string, notification *models.Notification)
}

// RewardService handles points, notifications and achievements
type RewardService interface {
	GetPoints(ctx context.Context, userID string) (*models.UserPoints, error)
	AwardPoints(ctx context.Context, userID string, amount int) (*models.UserPoints, error)
	Leaderboard(ctx context.Context, limit int) ([]*models.UserPoints, error)
	Notify(ctx context.Context, userID, notificationType, message string, link *string, data map[string]interface{}) (*models.Notification, error)
	ListNotifications(ctx context.Context, userID string, limit, offset int) (*models.NotificationListResponse, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	CheckAchievements(ctx context.Context, userID string) ([]string, error)
	ListAchievements(ctx context.Context, userID string) ([]*models.UserAchievement, error)
}

type rewardService struct {
	pointsRepo       repository.PointsRepository
	notificationRepo repository.NotificationRepository
	achievementRepo  repository.AchievementRepository
	contentRepo      repository.ContentVersionRepository
	reviewRepo       repository.ReviewRepository
	publisher        NotificationPublisher
	achievements     []models.AchievementDef
}

// NewRewardService creates a new reward service. publisher may be nil when
// no realtime feed is running.
func NewRewardService(
	pointsRepo repository.PointsRepository,
	notificationRepo repository.NotificationRepository,
	achievementRepo repository.AchievementRepository,
	contentRepo repository.ContentVersionRepository,
	reviewRepo repository.ReviewRepository,
	publisher NotificationPublisher,
	achievements []models.AchievementDef,
) RewardService {
	if len(achievements) == 0 {
		achievements = models.DefaultAchievements
	}
	return &rewardService{
		pointsRepo:       pointsRepo,
		notificationRepo: notificationRepo,
		achievementRepo:  achievementRepo,
		contentRepo:      contentRepo,
		reviewRepo:       reviewRepo,
		publisher:        publisher,
		achievements:     achievements,
	}
}

// GetPoints returns a user's point total, zero-valued when absent
func (s *rewardService) GetPoints(ctx context.Context, userID string) (*models.UserPoints, error) {
	return s.pointsRepo.Get(ctx, userID)
}

// AwardPoints adds points and recomputes the level
func (s *rewardService) AwardPoints(ctx context.Context, userID string, amount int) (*models.UserPoints, error) {
	up, err := s.pointsRepo.Award(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to award points: %w", err)
	}
	return up, nil
}

// Leaderboard returns the top point totals
func (s *rewardService) Leaderboard(ctx context.Context, limit int) ([]*models.UserPoints, error) {
	return s.pointsRepo.Top(ctx, limit)
}

// Notify stores a notification and pushes it to the recipient's feed
func (s *rewardService) Notify(ctx context.Context, userID, notificationType, message string, link *string, data map[string]interface{}) (*models.Notification, error) {
	n := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      notificationType,
		Message:   message,
		Link:      link,
		Data:      data,
		CreatedAt: time.Now(),
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(userID, n)
	}
	return n, nil
}

// ListNotifications returns a page of the user's notifications plus the
// unread badge count
func (s *rewardService) ListNotifications(ctx context.Context, userID string, limit, offset int) (*models.NotificationListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	notifications, total, err := s.notificationRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}

	return &models.NotificationListResponse{
		Data:        notifications,
		UnreadCount: unread,
		Total:       total,
	}, nil
}

// MarkNotificationRead marks one of the user's notifications as read
func (s *rewardService) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	return s.notificationRepo.MarkRead(ctx, userID, notificationID)
}

// MarkAllNotificationsRead clears the user's unread badge
func (s *rewardService) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

// CheckAchievements recomputes the user's counters and grants any newly
// crossed thresholds. Idempotent: already granted achievements stay granted
// exactly once. Returns the ids granted by this call.
func (s *rewardService) CheckAchievements(ctx context.Context, userID string) ([]string, error) {
	approvedCount, err := s.contentRepo.CountApprovedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count approved content: %w", err)
	}
	reviewCount, err := s.reviewRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	var granted []string
	for _, def := range s.achievements {
		var progress int
		switch def.RequirementType {
		case models.ReqApprovedContent:
			progress = approvedCount
		case models.ReqReviewsWritten:
			progress = reviewCount
		default:
			continue
		}

		if progress < def.Threshold {
			continue
		}

		inserted, err := s.achievementRepo.Grant(ctx, &models.UserAchievement{
			ID:            uuid.New().String(),
			UserID:        userID,
			AchievementID: def.ID,
			UnlockedAt:    time.Now(),
		})
		if err != nil {
			return granted, fmt.Errorf("failed to grant achievement %s: %w", def.ID, err)
		}
		if inserted {
			granted = append(granted, def.ID)
			logger.Infof("Achievement %s unlocked for user %s", def.ID, userID)
		}
	}

	return granted, nil
}

// ListAchievements returns a user's granted achievements
func (s *rewardService) ListAchievements(ctx context.Context, userID string) ([]*models.UserAchievement, error) {
	return s.achievementRepo.ListByUser(ctx, userID)
}
