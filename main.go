package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fitclub-backend/cache"
	"fitclub-backend/config"
	"fitclub-backend/handlers"
	"fitclub-backend/middleware"
	"fitclub-backend/models"
	"fitclub-backend/pkg/logger"
	"fitclub-backend/queue"
	"fitclub-backend/services"
	"fitclub-backend/utils"
	"fitclub-backend/workers"
)

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}
	logger.Init()
	defer logger.Sync()

	db, err := gorm.Open(postgres.Open(config.Cfg.PostgresDSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logger.Logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.UserProfile{},
		&models.CheckInSession{},
		&models.GamificationStats{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Notification{},
	); err != nil {
		logger.Logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Optional collaborators: Redis, RabbitMQ, R2. Each degrades to a no-op
	// when unconfigured so a bare Postgres is enough for local development.
	var locks cache.Locker = cache.NoopLocker{}
	var leaderboard cache.LeaderboardCache = cache.NoopLeaderboardCache{}
	if config.Cfg.RedisEnabled() {
		if err := cache.Init(); err != nil {
			logger.Logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer cache.Close()
		locks = cache.NewLocker()
		leaderboard = cache.NewLeaderboardCache()
	}

	var events queue.EventPublisher = queue.NoopPublisher{}
	if config.Cfg.RabbitMQEnabled() {
		if err := queue.Init(); err != nil {
			logger.Logger.Fatal("failed to connect to rabbitmq", zap.Error(err))
		}
		defer queue.Close()
		events = queue.NewPublisher()
	}

	if config.Cfg.R2Enabled() {
		if err := utils.InitR2(); err != nil {
			logger.Logger.Fatal("failed to initialize R2 client", zap.Error(err))
		}
	}

	gamificationService := services.NewGamificationService(db, events, leaderboard)
	achievementService := services.NewAchievementService(db)
	checkinService := services.NewCheckInService(db, locks, gamificationService)
	notificationService := services.NewNotificationService(db)

	if err := achievementService.SeedCatalog(); err != nil {
		logger.Logger.Fatal("failed to seed achievement catalog", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.Cfg.RabbitMQEnabled() {
		worker := workers.NewNotificationWorker(db)
		go worker.Start(ctx)
	}

	sched, err := services.StartSweeps(gamificationService, notificationService)
	if err != nil {
		logger.Logger.Fatal("failed to start background sweeps", zap.Error(err))
	}
	defer func() { _ = sched.Shutdown() }()

	app := fiber.New(fiber.Config{
		AppName: config.Cfg.ServiceName,
	})

	app.Use(middleware.GatewayAuthMiddleware())

	origins := strings.Split(config.Cfg.AllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-User-ID, X-User-Roles",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	handlers.SetupCheckInRoutes(app, checkinService)
	handlers.SetupGamificationRoutes(app, gamificationService, achievementService)
	handlers.SetupNotificationRoutes(app, notificationService)
	handlers.SetupAdminRoutes(app, gamificationService, achievementService)

	go func() {
		if err := app.Listen(":" + config.Cfg.ServerPort); err != nil {
			logger.Logger.Error("server error", zap.Error(err))
		}
	}()
	logger.Logger.Info("server running",
		zap.String("port", config.Cfg.ServerPort),
		zap.String("environment", config.Cfg.Environment),
	)

	<-ctx.Done()
	logger.Logger.Info("shutting down server")
	_ = app.Shutdown()
}
