package router

import (
	"github.com/gestortareas/api/internal/handler"
	"github.com/gestortareas/api/internal/middleware"
	"github.com/gestortareas/api/internal/service"
	"github.com/gin-gonic/gin"
)

func registerTaskRoutes(group *gin.RouterGroup, h *handler.TaskHandler, jwtService service.JWTService) {
	tasks := group.Group("/tasks")
	tasks.Use(middleware.JWTAuth(jwtService))
	{
		tasks.POST("", h.Create)
		tasks.GET("", h.List)
		tasks.GET("/stats", h.Stats)
		tasks.GET("/:id", h.Get)
		tasks.PUT("/:id", h.Update)
		tasks.DELETE("/:id", h.Delete)
		tasks.GET("/:id/qr", h.QRCode)
	}
}
