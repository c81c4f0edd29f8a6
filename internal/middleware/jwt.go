package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gestortareas/api/internal/constants"
	domainerrors "github.com/gestortareas/api/internal/errors"
	"github.com/gestortareas/api/internal/service"
	ctxutil "github.com/gestortareas/api/pkg/context"
	"github.com/gestortareas/api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// GinKeyUserID is the gin context key under which the authenticated user
// id is stored
const GinKeyUserID = "auth_user_id"

// JWTAuth validates the bearer token and stores the authenticated
// identity in both the gin context and the request context.
func JWTAuth(jwtService service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(constants.HeaderAuthorization)
		if header == "" {
			abortUnauthorized(c)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c)
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			logger.DebugWithContext(c.Request.Context(), "Token validation failed").Err(err).Log()
			abortUnauthorized(c)
			return
		}

		c.Set(GinKeyUserID, claims.UserID)

		ctx := c.Request.Context()
		ctx = ctxutil.WithUserID(ctx, claims.UserID)
		ctx = context.WithValue(ctx, ctxutil.UserEmailKey, claims.Email)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// CurrentUserID returns the authenticated user id stored by JWTAuth
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(GinKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(
		http.StatusUnauthorized,
		constants.BuildErrorResponse(domainerrors.ErrInvalidToken.Message, nil),
	)
}
