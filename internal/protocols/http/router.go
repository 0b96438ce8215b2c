package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"animehub/internal/core"
	"animehub/internal/jikan"
	wsProtocol "animehub/internal/protocols/websocket"
	"animehub/pkg/config"
)

// HealthChecker reports backing store availability for the ready probe
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Server manages the HTTP REST API
type Server struct {
	router          *gin.Engine
	config          *config.Config
	authSvc         core.AuthService
	contributionSvc core.ContributionService
	moderationSvc   core.ModerationService
	librarySvc      core.LibraryService
	rewardSvc       core.RewardService
	animeClient     jikan.Client
	wsHandler       *wsProtocol.Handler
	db              HealthChecker
}

// NewServer creates the HTTP server with all handlers registered
func NewServer(
	cfg *config.Config,
	authSvc core.AuthService,
	contributionSvc core.ContributionService,
	moderationSvc core.ModerationService,
	librarySvc core.LibraryService,
	rewardSvc core.RewardService,
	animeClient jikan.Client,
	wsHandler *wsProtocol.Handler,
	db HealthChecker,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	s := &Server{
		router:          router,
		config:          cfg,
		authSvc:         authSvc,
		contributionSvc: contributionSvc,
		moderationSvc:   moderationSvc,
		librarySvc:      librarySvc,
		rewardSvc:       rewardSvc,
		animeClient:     animeClient,
		wsHandler:       wsHandler,
		db:              db,
	}

	s.setupRoutes()
	return s
}

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/ready", s.readyCheck)

	if s.wsHandler != nil {
		s.router.GET("/ws/notifications", s.wsHandler.HandleNotifications)
	}

	v1 := s.router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", s.register)
			auth.POST("/login", s.login)
		}

		// Anime data proxy (public)
		v1.GET("/anime", s.searchAnime)
		v1.GET("/anime/:id", s.getAnime)
		v1.GET("/anime/:id/characters", s.getAnimeCharacters)
		v1.GET("/characters/:id", s.getCharacter)

		// Community content (read is public, write requires auth)
		v1.GET("/content", s.getApprovedContent)
		v1.GET("/anime/:id/reviews", s.listReviews)

		protected := v1.Group("", AuthMiddleware(s.authSvc))
		{
			protected.POST("/content", s.submitContent)
			protected.GET("/content/mine", s.listMyContent)

			protected.GET("/bookmarks", s.listBookmarks)
			protected.POST("/bookmarks", s.toggleBookmark)
			protected.DELETE("/bookmarks/:id", s.removeBookmark)

			protected.PUT("/anime/:id/reviews", s.submitReview)

			protected.GET("/notifications", s.listNotifications)
			protected.PUT("/notifications/:id/read", s.markNotificationRead)
			protected.PUT("/notifications/read-all", s.markAllNotificationsRead)
		}

		admin := v1.Group("/admin", AuthMiddleware(s.authSvc))
		{
			// Moderation routes (requires moderator or admin role)
			moderation := admin.Group("", ModeratorMiddleware())
			{
				moderation.GET("/content", s.listVersions)
				moderation.PUT("/content/:id/resolve", s.resolveVersion)
			}

			// Role management (admin only)
			adminOnly := admin.Group("", AdminMiddleware())
			{
				adminOnly.PUT("/users/:id/role", s.updateUserRole)
			}
		}

		// Gamification (public)
		v1.GET("/users/:id/points", s.getUserPoints)
		v1.GET("/users/:id/achievements", s.getUserAchievements)
		v1.GET("/leaderboard", s.getLeaderboard)
	}
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router returns the gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// healthCheck returns server liveness
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// readyCheck verifies the database is reachable
func (s *Server) readyCheck(c *gin.Context) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			c.JSON(503, gin.H{"status": "unavailable", "error": "database unreachable"})
			return
		}
	}
	c.JSON(200, gin.H{"status": "ready"})
}
