package router

import (
	"github.com/gestortareas/api/config"
	"github.com/gestortareas/api/internal/handler"
	"github.com/gestortareas/api/internal/middleware"
	"github.com/gestortareas/api/internal/repository"
	"github.com/gestortareas/api/internal/service"
	"github.com/gestortareas/api/pkg/mailer"
	"github.com/gestortareas/api/pkg/redis"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewRouter wires repositories, services and handlers and returns the
// configured gin engine.
func NewRouter(cfg *config.Config, db *gorm.DB, cache *redis.Client, mail mailer.Sender) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestLogging())
	engine.Use(middleware.CORS())

	// Repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Services
	hasher := service.NewPasswordHasher()
	jwtService := service.NewJWTService(cfg.JWT)
	authService := service.NewAuthService(userRepo, hasher, jwtService, mail, cfg.App)
	taskService := service.NewTaskService(taskRepo, cache)
	qrService := service.NewQRService(taskRepo, cfg.App)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService, qrService)
	healthHandler := handler.NewHealthHandler(cache)

	engine.GET("/api/health", healthHandler.Check)

	v1 := engine.Group("/api/v1")
	registerAuthRoutes(v1, authHandler, jwtService)
	registerTaskRoutes(v1, taskHandler, jwtService)

	return engine
}
