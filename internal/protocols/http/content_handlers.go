package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"animehub/pkg/models"
)

// getApprovedContent returns the live community translation for one
// (entity, content, language) tuple. 404 when nothing is approved yet:
// the frontend falls back to the upstream original.
func (s *Server) getApprovedContent(c *gin.Context) {
	var tuple models.ContentTuple
	if err := c.ShouldBindQuery(&tuple); err != nil {
		failWith(c, 400, "invalid query parameters")
		return
	}

	version, err := s.contributionSvc.GetApprovedContent(c.Request.Context(), tuple)
	if err != nil {
		fail(c, err)
		return
	}
	if version == nil {
		failWith(c, 404, "no approved content for this tuple")
		return
	}

	ok(c, 200, "", version)
}

// submitContent creates a pending content version
func (s *Server) submitContent(c *gin.Context) {
	userID, exists := GetUserID(c)
	if !exists {
		failWith(c, 401, "unauthorized")
		return
	}

	var req models.SubmitContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failWith(c, 400, "invalid request body")
		return
	}

	version, err := s.contributionSvc.Submit(c.Request.Context(), req, userID)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, 201, "Content submitted for review", version)
}

// listMyContent returns the authenticated user's submissions
func (s *Server) listMyContent(c *gin.Context) {
	userID, exists := GetUserID(c)
	if !exists {
		failWith(c, 401, "unauthorized")
		return
	}

	limit, offset := pageParams(c)
	versions, total, err := s.contributionSvc.ListMine(c.Request.Context(), userID, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, 200, "", models.PaginatedResponse[*models.ContentVersion]{
		Data: versions,
		Meta: models.NewPaginationMeta(total, limit, offset),
	})
}

// pageParams parses limit/offset query parameters with defaults
func pageParams(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
