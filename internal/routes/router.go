package routes

import (
	"net/http"

	"taskboard/internal/config"
	"taskboard/internal/delivery/http/handler"
	"taskboard/internal/infrastructure/database/postgres"
	"taskboard/internal/logger"
	"taskboard/internal/mail"
	"taskboard/internal/middleware"
	"taskboard/internal/oauth"
	"taskboard/internal/usecase/board"
	"taskboard/internal/usecase/user"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(cfg *config.Config, db *postgres.DB) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(1 << 20))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	userRepository := postgres.NewUserRepository(db)
	taskRepository := postgres.NewTaskRepository(db)

	mailer := mail.NewSMTPMailer(&cfg.SMTP)
	googleClient := oauth.NewGoogleClient(&cfg.Google)

	userService := user.NewService(userRepository, taskRepository, mailer, cfg)
	boardService := board.NewService(taskRepository)

	userHandler := handler.NewUserHandler(userService)
	boardHandler := handler.NewBoardHandler(boardService)
	oauthHandler := handler.NewOAuthHandler(userService, googleClient, cfg)

	root := router.Group("")
	{
		userHandler.RegisterRoutes(root)
		oauthHandler.RegisterRoutes(root)

		protected := root.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			userHandler.RegisterProtectedRoutes(protected)
			boardHandler.RegisterProtectedRoutes(protected)

			admin := protected.Group("")
			admin.Use(middleware.AdminOnly())
			{
				userHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}
