package http

import (
	"github.com/gin-gonic/gin"

	"animehub/pkg/models"
)

// listVersions returns the moderation queue, filtered and paginated
func (s *Server) listVersions(c *gin.Context) {
	actor, exists := GetUser(c)
	if !exists {
		failWith(c, 401, "unauthorized")
		return
	}

	var filter models.VersionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		failWith(c, 400, "invalid query parameters")
		return
	}

	versions, total, err := s.moderationSvc.ListVersions(c.Request.Context(), filter, actor)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, 200, "", models.PaginatedResponse[*models.ModerationVersion]{
		Data: versions,
		Meta: models.NewPaginationMeta(total, filter.Limit, filter.Offset),
	})
}

// resolveVersion approves or rejects one pending version
func (s *Server) resolveVersion(c *gin.Context) {
	actor, exists := GetUser(c)
	if !exists {
		failWith(c, 401, "unauthorized")
		return
	}

	versionID := c.Param("id")
	if versionID == "" {
		failWith(c, 400, "version id is required")
		return
	}

	var req struct {
		Decision string `json:"decision" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failWith(c, 400, "decision is required")
		return
	}

	decision := models.VersionStatus(req.Decision)
	if decision != models.VersionStatusApproved && decision != models.VersionStatusRejected {
		failWith(c, 400, "invalid decision: must be one of [approved, rejected]")
		return
	}

	if err := s.moderationSvc.Resolve(c.Request.Context(), versionID, decision, actor); err != nil {
		fail(c, err)
		return
	}

	ok(c, 200, "Content version resolved", gin.H{
		"version_id": versionID,
		"decision":   req.Decision,
	})
}
