package http

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animehub/pkg/models"
)

func TestStatusForValidationErrors(t *testing.T) {
	submitErr := models.ValidateSubmitContent(&models.SubmitContentRequest{
		EntityType:  models.EntityTypeAnime,
		EntityID:    5,
		ContentType: models.ContentTypeAnimeSynopsis,
		Language:    models.LanguageIndonesian,
		Content:     "   \t\n",
	})
	require.Error(t, submitErr)
	assert.Equal(t, 400, statusFor(submitErr))

	bookmarkErr := models.ValidateCreateBookmark(&models.CreateBookmarkRequest{
		EntityID:   5,
		EntityType: models.EntityTypeAnime,
		Category:   "watched",
		Title:      "Trigun",
	})
	require.Error(t, bookmarkErr)
	assert.Equal(t, 400, statusFor(bookmarkErr))

	reviewErr := models.ValidateSubmitReview(&models.SubmitReviewRequest{
		Rating:   11,
		Language: models.LanguageEnglish,
	})
	require.Error(t, reviewErr)
	assert.Equal(t, 400, statusFor(reviewErr))

	filterErr := models.ValidateVersionFilter(&models.VersionFilter{Status: "bogus"})
	require.Error(t, filterErr)
	assert.Equal(t, 400, statusFor(filterErr))
}

func TestStatusForSentinels(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.ErrUnauthenticated, 401},
		{models.ErrNotAuthorized, 403},
		{models.ErrVersionNotFound, 404},
		{models.ErrDuplicatePending, 409},
		{models.ErrAlreadyResolved, 409},
		{models.ErrUpstreamUnavailable, 503},
		{fmt.Errorf("wrapped: %w", models.ErrInvalidInput), 400},
		{fmt.Errorf("connection reset"), 500},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

// Validation failures must keep their message in the envelope; only
// unrecognized internal errors are masked.
func TestFailKeepsValidationMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	fail(c, fmt.Errorf("%w: content cannot be empty", models.ErrInvalidInput))

	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "content cannot be empty")

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	fail(c, fmt.Errorf("pq: connection refused"))

	assert.Equal(t, 500, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
