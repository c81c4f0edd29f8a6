package handler

import (
	"net/http"
	"strconv"

	"github.com/gestortareas/api/internal/constants"
	"github.com/gestortareas/api/internal/dto"
	domainerrors "github.com/gestortareas/api/internal/errors"
	"github.com/gestortareas/api/internal/middleware"
	"github.com/gestortareas/api/internal/repository"
	"github.com/gestortareas/api/internal/service"
	"github.com/gestortareas/api/pkg/validation"
	"github.com/gin-gonic/gin"
)

// TaskHandler exposes the task management endpoints
type TaskHandler struct {
	tasks service.TaskService
	qr    service.QRService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks service.TaskService, qr service.QRService) *TaskHandler {
	return &TaskHandler{tasks: tasks, qr: qr}
}

// Create handles POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, domainerrors.ErrUnauthorized)
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(constants.MsgBadRequest, validation.TranslateError(err)))
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// Get handles GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, domainerrors.ErrUnauthorized)
		return
	}

	taskID, err := parseIDParam(c)
	if err != nil {
		respondError(c, domainerrors.ErrInvalidInput)
		return
	}

	task, err := h.tasks.GetByID(c.Request.Context(), userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// List handles GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, domainerrors.ErrUnauthorized)
		return
	}

	pagination := constants.ParsePaginationParams(c)
	filter := repository.TaskFilter{
		Search: c.Query(constants.QueryParamSearch),
		Sort:   c.DefaultQuery(constants.QueryParamSort, constants.DefaultSort),
		Order:  c.DefaultQuery(constants.QueryParamOrder, constants.DefaultOrder),
	}
	if status, err := strconv.Atoi(c.Query(constants.QueryParamStatus)); err == nil {
		filter.Status = status
	}
	if priority, err := strconv.Atoi(c.Query(constants.QueryParamPriority)); err == nil {
		filter.Priority = priority
	}

	tasks, total, err := h.tasks.List(c.Request.Context(), userID, filter, pagination)
	if err != nil {
		respondError(c, err)
		return
	}

	pageTotal := int((total + int64(pagination.Limit) - 1) / int64(pagination.Limit))
	c.JSON(http.StatusOK, constants.BuildListResponse(total, pagination.Page, pageTotal, tasks))
}

// Update handles PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, domainerrors.ErrUnauthorized)
		return
	}

	taskID, err := parseIDParam(c)
	if err != nil {
		respondError(c, domainerrors.ErrInvalidInput)
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(constants.MsgBadRequest, validation.TranslateError(err)))
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), userID, taskID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, domainerrors.ErrUnauthorized)
		return
	}

	taskID, err := parseIDParam(c)
	if err != nil {
		respondError(c, domainerrors.ErrInvalidInput)
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), userID, taskID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgDeleted))
}

// Stats handles GET /tasks/stats
func (h *TaskHandler) Stats(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, domainerrors.ErrUnauthorized)
		return
	}

	stats, err := h.tasks.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// QRCode handles GET /tasks/:id/qr
func (h *TaskHandler) QRCode(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, domainerrors.ErrUnauthorized)
		return
	}

	taskID, err := parseIDParam(c)
	if err != nil {
		respondError(c, domainerrors.ErrInvalidInput)
		return
	}

	png, err := h.qr.TaskQRCode(c.Request.Context(), userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, constants.ContentTypePNG, png)
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
