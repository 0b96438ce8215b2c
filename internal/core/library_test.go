package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animehub/pkg/models"
)

type libraryFixture struct {
	bookmarkRepo *fakeBookmarkRepo
	reviewRepo   *fakeReviewRepo
	pointsRepo   *fakePointsRepo
	svc          LibraryService
}

func newLibraryFixture() *libraryFixture {
	bookmarkRepo := newFakeBookmarkRepo()
	reviewRepo := newFakeReviewRepo()
	pointsRepo := newFakePointsRepo()

	rewards := NewRewardService(pointsRepo, &fakeNotificationRepo{}, newFakeAchievementRepo(), newFakeContentRepo(), reviewRepo, nil, nil)
	return &libraryFixture{
		bookmarkRepo: bookmarkRepo,
		reviewRepo:   reviewRepo,
		pointsRepo:   pointsRepo,
		svc:          NewLibraryService(bookmarkRepo, reviewRepo, rewards),
	}
}

func bookmarkRequest() models.CreateBookmarkRequest {
	return models.CreateBookmarkRequest{
		EntityID:   5,
		EntityType: models.EntityTypeAnime,
		Category:   models.BookmarkFavorite,
		Title:      "Fullmetal Alchemist",
	}
}

func TestToggleBookmarkAddsThenRemoves(t *testing.T) {
	f := newLibraryFixture()
	ctx := context.Background()

	b, added, err := f.svc.ToggleBookmark(ctx, "u1", bookmarkRequest())
	require.NoError(t, err)
	assert.True(t, added)
	require.NotNil(t, b)
	assert.Equal(t, "u1", b.UserID)

	list, err := f.svc.ListBookmarks(ctx, "u1", "")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	b, added, err = f.svc.ToggleBookmark(ctx, "u1", bookmarkRequest())
	require.NoError(t, err)
	assert.False(t, added)
	assert.Nil(t, b)

	list, err = f.svc.ListBookmarks(ctx, "u1", "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestToggleBookmarkSeparatesCategories(t *testing.T) {
	f := newLibraryFixture()
	ctx := context.Background()

	_, _, err := f.svc.ToggleBookmark(ctx, "u1", bookmarkRequest())
	require.NoError(t, err)

	planned := bookmarkRequest()
	planned.Category = models.BookmarkPlanned
	_, added, err := f.svc.ToggleBookmark(ctx, "u1", planned)
	require.NoError(t, err)
	assert.True(t, added)

	favorites, err := f.svc.ListBookmarks(ctx, "u1", string(models.BookmarkFavorite))
	require.NoError(t, err)
	assert.Len(t, favorites, 1)

	all, err := f.svc.ListBookmarks(ctx, "u1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestToggleBookmarkValidation(t *testing.T) {
	f := newLibraryFixture()
	ctx := context.Background()

	_, _, err := f.svc.ToggleBookmark(ctx, "", bookmarkRequest())
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	req := bookmarkRequest()
	req.Category = "watching"
	_, _, err = f.svc.ToggleBookmark(ctx, "u1", req)
	assert.Error(t, err)
}

func TestSubmitReviewAwardsPointsOnceOnCreate(t *testing.T) {
	f := newLibraryFixture()
	ctx := context.Background()

	text := "Solid adaptation"
	review, err := f.svc.SubmitReview(ctx, "u1", 5, models.SubmitReviewRequest{
		Rating: 8, Review: &text, Language: models.LanguageEnglish,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, review.Rating)

	up, _ := f.pointsRepo.Get(ctx, "u1")
	assert.Equal(t, models.PointsReviewSubmission, up.Points)

	// Re-submitting replaces the review without a second award
	_, err = f.svc.SubmitReview(ctx, "u1", 5, models.SubmitReviewRequest{
		Rating: 9, Language: models.LanguageEnglish,
	})
	require.NoError(t, err)

	up, _ = f.pointsRepo.Get(ctx, "u1")
	assert.Equal(t, models.PointsReviewSubmission, up.Points)

	reviews, total, err := f.svc.ListReviews(ctx, 5, "", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, reviews, 1)
	assert.Equal(t, 9, reviews[0].Rating)
}

func TestSubmitReviewPerLanguage(t *testing.T) {
	f := newLibraryFixture()
	ctx := context.Background()

	_, err := f.svc.SubmitReview(ctx, "u1", 5, models.SubmitReviewRequest{Rating: 8, Language: models.LanguageEnglish})
	require.NoError(t, err)
	_, err = f.svc.SubmitReview(ctx, "u1", 5, models.SubmitReviewRequest{Rating: 7, Language: models.LanguageIndonesian})
	require.NoError(t, err)

	_, total, err := f.svc.ListReviews(ctx, 5, "", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	indonesian, _, err := f.svc.ListReviews(ctx, 5, models.LanguageIndonesian, 20, 0)
	require.NoError(t, err)
	require.Len(t, indonesian, 1)
	assert.Equal(t, 7, indonesian[0].Rating)

	up, _ := f.pointsRepo.Get(ctx, "u1")
	assert.Equal(t, 2*models.PointsReviewSubmission, up.Points)
}

func TestSubmitReviewValidation(t *testing.T) {
	f := newLibraryFixture()
	ctx := context.Background()

	_, err := f.svc.SubmitReview(ctx, "", 5, models.SubmitReviewRequest{Rating: 8, Language: models.LanguageEnglish})
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	_, err = f.svc.SubmitReview(ctx, "u1", 0, models.SubmitReviewRequest{Rating: 8, Language: models.LanguageEnglish})
	assert.Error(t, err)

	_, err = f.svc.SubmitReview(ctx, "u1", 5, models.SubmitReviewRequest{Rating: 11, Language: models.LanguageEnglish})
	assert.Error(t, err)

	_, err = f.svc.SubmitReview(ctx, "u1", 5, models.SubmitReviewRequest{Rating: 0, Language: models.LanguageEnglish})
	assert.Error(t, err)

	_, err = f.svc.SubmitReview(ctx, "u1", 5, models.SubmitReviewRequest{Rating: 8, Language: "fr"})
	assert.Error(t, err)
}

func TestSubmitReviewBlanksWhitespaceText(t *testing.T) {
	f := newLibraryFixture()

	text := "   \n "
	review, err := f.svc.SubmitReview(context.Background(), "u1", 5, models.SubmitReviewRequest{
		Rating: 8, Review: &text, Language: models.LanguageEnglish,
	})
	require.NoError(t, err)
	assert.Nil(t, review.Review)
}
