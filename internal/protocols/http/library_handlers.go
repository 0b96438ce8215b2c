package http

import (
	"github.com/gin-gonic/gin"

	"animehub/pkg/models"
)

// toggleBookmark flips a bookmark for the authenticated user
func (s *Server) toggleBookmark(c *gin.Context) {
	userID, exists := GetUserID(c)
	if !exists {
		failWith(c, 401, "unauthorized")
		return
	}

	var req models.CreateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failWith(c, 400, "invalid request body")
		return
	}

	bookmark, added, err := s.librarySvc.ToggleBookmark(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err)
		return
	}

	if added {
		ok(c, 201, "Bookmark added", bookmark)
		return
	}
	ok(c, 200, "Bookmark removed", nil)
}

// removeBookmark deletes one of the user's bookmarks by id
func (s *Server) removeBookmark(c *gin.Context) {
	userID, exists := GetUserID(c)
	if !exists {
		failWith(c, 401, "unauthorized")
		return
	}

	bookmarkID := c.Param("id")
	if bookmarkID == "" {
		failWith(c, 400, "bookmark id is required")
		return
	}

	if err := s.librarySvc.RemoveBookmark(c.Request.Context(), userID, bookmarkID); err != nil {
		fail(c, err)
		return
	}

	ok(c, 200, "Bookmark removed", nil)
}

// listBookmarks returns the user's bookmarks, optionally filtered by category
func (s *Server) listBookmarks(c *gin.Context) {
	userID, exists := GetUserID(c)
	if !exists {
		failWith(c, 401, "unauthorized")
		return
	}

	bookmarks, err := s.librarySvc.ListBookmarks(c.Request.Context(), userID, c.Query("category"))
	if err != nil {
		fail(c, err)
		return
	}
	if bookmarks == nil {
		bookmarks = []*models.Bookmark{}
	}

	ok(c, 200, "", bookmarks)
}

// submitReview creates or replaces the user's review for an anime
func (s *Server) submitReview(c *gin.Context) {
	userID, exists := GetUserID(c)
	if !exists {
		failWith(c, 401, "unauthorized")
		return
	}

	jikanID, err := pathID(c)
	if err != nil {
		failWith(c, 400, "invalid anime id")
		return
	}

	var req models.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failWith(c, 400, "invalid request body")
		return
	}

	review, err := s.librarySvc.SubmitReview(c.Request.Context(), userID, jikanID, req)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, 200, "Review saved", review)
}

// listReviews returns reviews for an anime, newest first
func (s *Server) listReviews(c *gin.Context) {
	jikanID, err := pathID(c)
	if err != nil {
		failWith(c, 400, "invalid anime id")
		return
	}

	limit, offset := pageParams(c)
	reviews, total, err := s.librarySvc.ListReviews(c.Request.Context(), jikanID, c.Query("language"), limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	if reviews == nil {
		reviews = []*models.ReviewWithUser{}
	}

	ok(c, 200, "", models.PaginatedResponse[*models.ReviewWithUser]{
		Data: reviews,
		Meta: models.NewPaginationMeta(total, limit, offset),
	})
}
