package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animehub/pkg/models"
)

type moderationFixture struct {
	contentRepo      *fakeContentRepo
	pointsRepo       *fakePointsRepo
	notificationRepo *fakeNotificationRepo
	achievementRepo  *fakeAchievementRepo
	publisher        *capturePublisher
	svc              ModerationService
	admin            *models.User
	user             *models.User
}

func newModerationFixture() *moderationFixture {
	contentRepo := newFakeContentRepo()
	pointsRepo := newFakePointsRepo()
	notificationRepo := &fakeNotificationRepo{}
	achievementRepo := newFakeAchievementRepo()
	publisher := &capturePublisher{}

	rewards := NewRewardService(pointsRepo, notificationRepo, achievementRepo, contentRepo, newFakeReviewRepo(), publisher, nil)
	svc := NewModerationService(contentRepo, pointsRepo, notificationRepo, &fakeTxManager{}, rewards, publisher)

	return &moderationFixture{
		contentRepo:      contentRepo,
		pointsRepo:       pointsRepo,
		notificationRepo: notificationRepo,
		achievementRepo:  achievementRepo,
		publisher:        publisher,
		svc:              svc,
		admin:            &models.User{ID: "admin1", Username: "admin", Role: models.UserRoleAdmin},
		user:             &models.User{ID: "u1", Username: "contributor", Role: models.UserRoleUser},
	}
}

func (f *moderationFixture) addPending(id string) *models.ContentVersion {
	v := &models.ContentVersion{
		ID:          id,
		EntityType:  models.EntityTypeAnime,
		EntityID:    5,
		ContentType: models.ContentTypeAnimeSynopsis,
		Language:    models.LanguageIndonesian,
		Content:     "Ringkasan baru",
		Status:      models.VersionStatusPending,
		CreatedBy:   "u1",
		CreatedAt:   time.Now(),
	}
	f.contentRepo.versions[id] = v
	return v
}

func TestResolveApprovedAwardsPointsAndNotifies(t *testing.T) {
	f := newModerationFixture()
	ctx := context.Background()
	f.addPending("v1")
	f.pointsRepo.totals["u1"] = 10

	err := f.svc.Resolve(ctx, "v1", models.VersionStatusApproved, f.admin)
	require.NoError(t, err)

	v, err := f.contentRepo.GetByID(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, models.VersionStatusApproved, v.Status)
	assert.NotNil(t, v.UpdatedAt)
	assert.Nil(t, v.RejectedAt)

	up, _ := f.pointsRepo.Get(ctx, "u1")
	assert.Equal(t, 60, up.Points)
	assert.Equal(t, 1, up.Level)

	approved := f.notificationRepo.byType(models.NotificationContentApproved)
	require.Len(t, approved, 1)
	assert.Equal(t, "u1", approved[0].UserID)
	require.NotNil(t, approved[0].Link)
	assert.Equal(t, "/id/anime/5", *approved[0].Link)
}

func TestResolveRejectedNotifiesWithoutPoints(t *testing.T) {
	f := newModerationFixture()
	ctx := context.Background()
	f.addPending("v1")

	err := f.svc.Resolve(ctx, "v1", models.VersionStatusRejected, f.admin)
	require.NoError(t, err)

	v, err := f.contentRepo.GetByID(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, models.VersionStatusRejected, v.Status)
	assert.NotNil(t, v.RejectedAt)
	assert.NotNil(t, v.UpdatedAt)

	up, _ := f.pointsRepo.Get(ctx, "u1")
	assert.Zero(t, up.Points)

	rejected := f.notificationRepo.byType(models.NotificationContentRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, "u1", rejected[0].UserID)
}

func TestResolveIsOneShot(t *testing.T) {
	f := newModerationFixture()
	ctx := context.Background()
	f.addPending("v1")

	require.NoError(t, f.svc.Resolve(ctx, "v1", models.VersionStatusApproved, f.admin))

	// A second resolution must fail and must not double-award
	err := f.svc.Resolve(ctx, "v1", models.VersionStatusApproved, f.admin)
	assert.ErrorIs(t, err, models.ErrAlreadyResolved)

	err = f.svc.Resolve(ctx, "v1", models.VersionStatusRejected, f.admin)
	assert.ErrorIs(t, err, models.ErrAlreadyResolved)

	up, _ := f.pointsRepo.Get(ctx, "u1")
	assert.Equal(t, models.PointsContentApproved, up.Points)
	assert.Len(t, f.notificationRepo.byType(models.NotificationContentApproved), 1)
}

func TestResolveRequiresModeratorRole(t *testing.T) {
	f := newModerationFixture()
	f.addPending("v1")

	err := f.svc.Resolve(context.Background(), "v1", models.VersionStatusApproved, f.user)
	assert.ErrorIs(t, err, models.ErrNotAuthorized)

	err = f.svc.Resolve(context.Background(), "v1", models.VersionStatusApproved, nil)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestResolveMissingVersion(t *testing.T) {
	f := newModerationFixture()

	err := f.svc.Resolve(context.Background(), "nope", models.VersionStatusApproved, f.admin)
	assert.ErrorIs(t, err, models.ErrVersionNotFound)
}

func TestResolveRejectsInvalidDecision(t *testing.T) {
	f := newModerationFixture()
	f.addPending("v1")

	err := f.svc.Resolve(context.Background(), "v1", models.VersionStatusPending, f.admin)
	assert.Error(t, err)
}

func TestResolvePublishesToFeed(t *testing.T) {
	f := newModerationFixture()
	f.addPending("v1")

	require.NoError(t, f.svc.Resolve(context.Background(), "v1", models.VersionStatusApproved, f.admin))
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, "u1", f.publisher.published[0].UserID)
}

func TestResolveGrantsFirstContributionAchievement(t *testing.T) {
	f := newModerationFixture()
	f.addPending("v1")

	require.NoError(t, f.svc.Resolve(context.Background(), "v1", models.VersionStatusApproved, f.admin))
	assert.True(t, f.achievementRepo.granted["u1"][models.AchievementFirstContribution])
}

func TestListVersionsFiltersAndRequiresRole(t *testing.T) {
	f := newModerationFixture()
	ctx := context.Background()
	f.addPending("v1")
	f.addPending("v2")
	f.contentRepo.versions["v2"].Language = models.LanguageEnglish

	_, _, err := f.svc.ListVersions(ctx, models.VersionFilter{}, f.user)
	assert.ErrorIs(t, err, models.ErrNotAuthorized)

	out, total, err := f.svc.ListVersions(ctx, models.VersionFilter{Language: "id"}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, out, 1)
	assert.Equal(t, "v1", out[0].ID)

	out, _, err = f.svc.ListVersions(ctx, models.VersionFilter{Status: "all"}, f.admin)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}
