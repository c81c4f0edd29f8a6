package handler

import (
	"github.com/gestortareas/api/internal/constants"
	domainerrors "github.com/gestortareas/api/internal/errors"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status and error body
func respondError(c *gin.Context, err error) {
	status := domainerrors.ToHTTPStatus(err)
	c.JSON(status, constants.BuildErrorResponse(domainerrors.GetErrorMessage(err), nil))
}
