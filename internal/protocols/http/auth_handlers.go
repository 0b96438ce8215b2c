package http

import (
	"github.com/gin-gonic/gin"

	"animehub/pkg/models"
)

// register handles user registration
func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failWith(c, 400, "invalid request body")
		return
	}

	user, err := s.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, 201, "User registered successfully", user)
}

// login handles user authentication
func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failWith(c, 400, "invalid request body")
		return
	}

	resp, err := s.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, 200, "Login successful", resp)
}

// updateUserRole promotes or demotes a user. The admin gate lives in
// AdminMiddleware on the route.
func (s *Server) updateUserRole(c *gin.Context) {
	targetID := c.Param("id")
	if targetID == "" {
		failWith(c, 400, "user id is required")
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failWith(c, 400, "role is required")
		return
	}

	if err := s.authSvc.UpdateUserRole(c.Request.Context(), targetID, req.Role); err != nil {
		fail(c, err)
		return
	}

	ok(c, 200, "User role updated", gin.H{"user_id": targetID, "role": req.Role})
}
