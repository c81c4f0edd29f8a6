package router

import (
	"github.com/gestortareas/api/internal/handler"
	"github.com/gestortareas/api/internal/middleware"
	"github.com/gestortareas/api/internal/service"
	"github.com/gin-gonic/gin"
)

func registerAuthRoutes(group *gin.RouterGroup, h *handler.AuthHandler, jwtService service.JWTService) {
	auth := group.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/confirm-email", h.ConfirmEmail)
		auth.POST("/confirm-email", h.ConfirmEmail)
		auth.POST("/resend-confirmation", h.ResendConfirmation)
		auth.POST("/recover-password", h.RequestPasswordRecovery)
		auth.POST("/reset-password", h.ResetPassword)
	}

	protected := group.Group("/auth")
	protected.Use(middleware.JWTAuth(jwtService))
	{
		protected.GET("/me", h.Me)
		protected.PUT("/profile", h.EditProfile)
		protected.PUT("/password", h.ChangePassword)
		protected.POST("/logout", h.Logout)
	}
}
