package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gestortareas/api/internal/constants"
	"github.com/gestortareas/api/internal/dto"
	domainerrors "github.com/gestortareas/api/internal/errors"
	"github.com/gestortareas/api/internal/model"
	"github.com/gestortareas/api/internal/repository"
	ctxutil "github.com/gestortareas/api/pkg/context"
	"github.com/gestortareas/api/pkg/logger"
	"github.com/gestortareas/api/pkg/redis"
	"gorm.io/gorm"
)

const statsCacheTTL = 60 * time.Second

// TaskService implements task management for a single owner
type TaskService interface {
	Create(ctx context.Context, userID uint, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetByID(ctx context.Context, userID, taskID uint) (*dto.TaskResponse, error)
	List(ctx context.Context, userID uint, filter repository.TaskFilter, pagination constants.PaginationParams) ([]dto.TaskResponse, int64, error)
	Update(ctx context.Context, userID, taskID uint, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	Delete(ctx context.Context, userID, taskID uint) error
	Stats(ctx context.Context, userID uint) (*dto.TaskStatsResponse, error)
}

type taskService struct {
	tasks repository.TaskRepository
	cache *redis.Client
}

// NewTaskService wires the task service dependencies
func NewTaskService(tasks repository.TaskRepository, cache *redis.Client) TaskService {
	return &taskService{tasks: tasks, cache: cache}
}

func (s *taskService) Create(ctx context.Context, userID uint, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	ctx = ctxutil.NewContext(ctx, "tasks", "CreateTask")

	task := &model.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      constants.TaskStatusPending,
		Priority:    constants.TaskPriorityLow,
		DueDate:     req.DueDate,
	}
	if req.Status != 0 {
		task.Status = req.Status
	}
	if req.Priority != 0 {
		task.Priority = req.Priority
	}
	if task.Status == constants.TaskStatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	s.invalidateStats(ctx, userID)

	logger.InfoWithContext(ctx, "Task created").
		Int("task_id", int(task.ID)).
		Log()

	return toTaskResponse(task), nil
}

func (s *taskService) GetByID(ctx context.Context, userID, taskID uint) (*dto.TaskResponse, error) {
	ctx = ctxutil.NewContext(ctx, "tasks", "GetTask")

	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrTaskNotFound
		}
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	return toTaskResponse(task), nil
}

func (s *taskService) List(ctx context.Context, userID uint, filter repository.TaskFilter, pagination constants.PaginationParams) ([]dto.TaskResponse, int64, error) {
	ctx = ctxutil.NewContext(ctx, "tasks", "ListTasks")

	tasks, total, err := s.tasks.List(ctx, userID, filter, pagination)
	if err != nil {
		return nil, 0, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	responses := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, *toTaskResponse(&tasks[i]))
	}
	return responses, total, nil
}

func (s *taskService) Update(ctx context.Context, userID, taskID uint, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	ctx = ctxutil.NewContext(ctx, "tasks", "UpdateTask")

	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrTaskNotFound
		}
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Status != nil && *req.Status != task.Status {
		task.Status = *req.Status
		if task.Status == constants.TaskStatusCompleted {
			now := time.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	s.invalidateStats(ctx, userID)

	return toTaskResponse(task), nil
}

func (s *taskService) Delete(ctx context.Context, userID, taskID uint) error {
	ctx = ctxutil.NewContext(ctx, "tasks", "DeleteTask")

	if err := s.tasks.Delete(ctx, userID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrTaskNotFound
		}
		return domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	s.invalidateStats(ctx, userID)

	logger.InfoWithContext(ctx, "Task deleted").
		Int("task_id", int(taskID)).
		Log()
	return nil
}

// Stats returns the per-status task counts, cached briefly to keep
// dashboard polling off the database.
func (s *taskService) Stats(ctx context.Context, userID uint) (*dto.TaskStatsResponse, error) {
	ctx = ctxutil.NewContext(ctx, "tasks", "TaskStats")
	cacheKey := statsCacheKey(userID)

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var stats dto.TaskStatsResponse
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			logger.DebugWithContext(ctx, "Task stats served from cache").Log()
			return &stats, nil
		}
	} else if !redis.IsCacheMiss(err) {
		logger.WarnWithContext(ctx, "Stats cache read failed").Err(err).Log()
	}

	stats, err := s.tasks.Stats(ctx, userID)
	if err != nil {
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, cacheKey, payload, statsCacheTTL); err != nil {
			logger.WarnWithContext(ctx, "Stats cache write failed").Err(err).Log()
		}
	}

	return stats, nil
}

func (s *taskService) invalidateStats(ctx context.Context, userID uint) {
	if err := s.cache.Delete(ctx, statsCacheKey(userID)); err != nil {
		logger.WarnWithContext(ctx, "Stats cache invalidation failed").Err(err).Log()
	}
}

func statsCacheKey(userID uint) string {
	return fmt.Sprintf("%s%d", constants.CacheKeyTaskStats, userID)
}

func toTaskResponse(task *model.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		StatusName:   task.StatusName(),
		Priority:     task.Priority,
		PriorityName: task.PriorityName(),
		DueDate:      task.DueDate,
		CompletedAt:  task.CompletedAt,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}
