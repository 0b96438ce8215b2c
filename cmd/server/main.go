package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"animehub/internal/core"
	"animehub/internal/jikan"
	httpProtocol "animehub/internal/protocols/http"
	wsProtocol "animehub/internal/protocols/websocket"
	"animehub/internal/repository"
	"animehub/pkg/cache"
	"animehub/pkg/config"
	"animehub/pkg/database"
	"animehub/pkg/logger"
)

func main() {
	configPath := flag.String("config", "./configs/development.yaml", "path to config file")
	migrate := flag.Bool("migrate", false, "apply the schema file before starting")
	schemaPath := flag.String("schema", "./scripts/schema.sql", "path to schema file for -migrate")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	logger.Info("Starting AnimeHub server...")

	dbConfig := database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		Timeout:         cfg.Database.Timeout,
	}

	// Schema bootstrap runs on the database/sql handle, then closes it; the
	// pgx pool below serves all request traffic.
	if *migrate {
		db, err := database.NewDB(dbConfig)
		if err != nil {
			log.Fatalf("Failed to connect for migration: %v", err)
		}
		if err := db.ApplySchema(context.Background(), *schemaPath); err != nil {
			db.Close()
			log.Fatalf("Failed to apply schema: %v", err)
		}
		db.Close()
		logger.Info(fmt.Sprintf("Applied schema from %s", *schemaPath))
	}

	// Connect to database
	pool, err := database.NewPGXPool(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	logger.Info("Connected to PostgreSQL database")

	// Anime data cache is optional: no redis address means every lookup
	// goes to the upstream.
	var animeCache cache.Cache
	if cfg.Redis.Addr != "" {
		animeCache, err = cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer animeCache.Close()
		logger.Info("Connected to redis cache")
	} else {
		logger.Warn("Redis not configured, anime data cache disabled")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	contentRepo := repository.NewContentVersionRepository(pool)
	pointsRepo := repository.NewPointsRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	bookmarkRepo := repository.NewBookmarkRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	achievementRepo := repository.NewAchievementRepository(pool)
	txManager := repository.NewTxManager(pool)

	logger.Info("Initialized all repositories")

	// Achievement catalog from file, falling back to the built-in set
	achievements, err := config.LoadAchievements("./configs/achievements.yaml")
	if err != nil {
		log.Fatalf("Failed to load achievement catalog: %v", err)
	}

	// Realtime notification feed
	wsHub := wsProtocol.NewHub()
	defer wsHub.Close()

	// Initialize core services
	authSvc := core.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	rewardSvc := core.NewRewardService(pointsRepo, notificationRepo, achievementRepo, contentRepo, reviewRepo, wsHub, achievements)
	contributionSvc := core.NewContributionService(contentRepo, userRepo, rewardSvc)
	moderationSvc := core.NewModerationService(contentRepo, pointsRepo, notificationRepo, txManager, rewardSvc, wsHub)
	librarySvc := core.NewLibraryService(bookmarkRepo, reviewRepo, rewardSvc)

	// Upstream anime data client
	animeClient := jikan.NewClient(cfg.Jikan, animeCache)

	logger.Info("Initialized all core services")

	wsHandler := wsProtocol.NewHandler(wsHub, authSvc)

	httpServer := httpProtocol.NewServer(
		cfg,
		authSvc,
		contributionSvc,
		moderationSvc,
		librarySvc,
		rewardSvc,
		animeClient,
		wsHandler,
		pool,
	)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("HTTP server panic recovered: %v", r)
			}
		}()
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info(fmt.Sprintf("Starting HTTP server on %s", addr))
		if err := httpServer.Start(addr); err != nil {
			logger.Errorf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down AnimeHub server...")
}
