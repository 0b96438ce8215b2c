package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"animehub/pkg/models"
)

// listNotifications returns the user's notifications plus the unread count
func (s *Server) listNotifications(c *gin.Context) {
	userID, exists := GetUserID(c)
	if !exists {
		failWith(c, 401, "unauthorized")
		return
	}

	limit, offset := pageParams(c)
	resp, err := s.rewardSvc.ListNotifications(c.Request.Context(), userID, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, 200, "", resp)
}

// markNotificationRead marks one notification as read
func (s *Server) markNotificationRead(c *gin.Context) {
	userID, exists := GetUserID(c)
	if !exists {
		failWith(c, 401, "unauthorized")
		return
	}

	notificationID := c.Param("id")
	if notificationID == "" {
		failWith(c, 400, "notification id is required")
		return
	}

	if err := s.rewardSvc.MarkNotificationRead(c.Request.Context(), userID, notificationID); err != nil {
		fail(c, err)
		return
	}

	ok(c, 200, "Notification marked as read", nil)
}

// markAllNotificationsRead clears the user's unread badge
func (s *Server) markAllNotificationsRead(c *gin.Context) {
	userID, exists := GetUserID(c)
	if !exists {
		failWith(c, 401, "unauthorized")
		return
	}

	if err := s.rewardSvc.MarkAllNotificationsRead(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}

	ok(c, 200, "All notifications marked as read", nil)
}

// getUserPoints returns a user's point total and level
func (s *Server) getUserPoints(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		failWith(c, 400, "user id is required")
		return
	}

	points, err := s.rewardSvc.GetPoints(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, 200, "", gin.H{
		"user_id":        points.UserID,
		"points":         points.Points,
		"level":          points.Level,
		"points_to_next": models.PointsToNextLevel(points.Points),
	})
}

// getUserAchievements returns a user's unlocked achievements
func (s *Server) getUserAchievements(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		failWith(c, 400, "user id is required")
		return
	}

	achievements, err := s.rewardSvc.ListAchievements(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	if achievements == nil {
		achievements = []*models.UserAchievement{}
	}

	ok(c, 200, "", achievements)
}

// getLeaderboard returns the top contributors by points
func (s *Server) getLeaderboard(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	top, err := s.rewardSvc.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	if top == nil {
		top = []*models.UserPoints{}
	}

	ok(c, 200, "", top)
}
