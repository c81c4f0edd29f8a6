package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gestortareas/api/internal/constants"
	"github.com/gestortareas/api/internal/dto"
	"github.com/gestortareas/api/internal/model"
	ctxutil "github.com/gestortareas/api/pkg/context"
	"github.com/gestortareas/api/pkg/logger"
	"gorm.io/gorm"
)

// TaskFilter narrows task listings. Zero values mean "no filter".
type TaskFilter struct {
	Status   int
	Priority int
	Search   string
	Sort     string
	Order    string
}

// TaskRepository provides data access for tasks. Every query is scoped
// to the owning user.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error)
	List(ctx context.Context, userID uint, filter TaskFilter, pagination constants.PaginationParams) ([]model.Task, int64, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, userID, taskID uint) error
	Stats(ctx context.Context, userID uint) (*dto.TaskStatsResponse, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	ctx = ctxutil.NewContext(ctx, "repository", "CreateTask")
	start := time.Now()

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create task").
			Int("user_id", int(task.UserID)).
			Err(err).
			Duration(time.Since(start)).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "Task created").
		Int("task_id", int(task.ID)).
		Duration(time.Since(start)).
		Log()
	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "FindTaskByID")

	var task model.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, userID uint, filter TaskFilter, pagination constants.PaginationParams) ([]model.Task, int64, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "ListTasks")
	start := time.Now()

	query := r.db.WithContext(ctx).Model(&model.Task{}).Where("user_id = ?", userID)

	if filter.Status != 0 {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != 0 {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []model.Task
	err := query.
		Order(buildOrderClause(filter)).
		Offset(pagination.Offset).
		Limit(pagination.Limit).
		Find(&tasks).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list tasks").
			Int("user_id", int(userID)).
			Err(err).
			Duration(time.Since(start)).
			Log()
		return nil, 0, err
	}

	return tasks, total, nil
}

// buildOrderClause whitelists sortable columns to keep user input out of
// the ORDER BY clause
func buildOrderClause(filter TaskFilter) string {
	column := constants.DefaultSort
	switch filter.Sort {
	case "title", "status", "priority", "due_date", "created_at", "updated_at":
		column = filter.Sort
	}

	order := constants.DefaultOrder
	if filter.Order == "asc" {
		order = "asc"
	}

	return fmt.Sprintf("%s %s", column, order)
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	ctx = ctxutil.NewContext(ctx, "repository", "UpdateTask")
	start := time.Now()

	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to update task").
			Int("task_id", int(task.ID)).
			Err(err).
			Duration(time.Since(start)).
			Log()
		return err
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	ctx = ctxutil.NewContext(ctx, "repository", "DeleteTask")

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&model.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *taskRepository) Stats(ctx context.Context, userID uint) (*dto.TaskStatsResponse, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "TaskStats")
	start := time.Now()

	type statusCount struct {
		Status int
		Count  int64
	}

	var counts []statusCount
	err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Select("status, count(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to aggregate task stats").
			Int("user_id", int(userID)).
			Err(err).
			Duration(time.Since(start)).
			Log()
		return nil, err
	}

	stats := &dto.TaskStatsResponse{}
	for _, c := range counts {
		stats.Total += c.Count
		switch c.Status {
		case constants.TaskStatusPending:
			stats.Pending = c.Count
		case constants.TaskStatusInProgress:
			stats.InProgress = c.Count
		case constants.TaskStatusCompleted:
			stats.Completed = c.Count
		case constants.TaskStatusCancelled:
			stats.Cancelled = c.Count
		}
	}

	// Overdue: past due date and still open
	err = r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("user_id = ? AND due_date < ? AND status IN ?",
			userID, time.Now(), []int{constants.TaskStatusPending, constants.TaskStatusInProgress}).
		Count(&stats.Overdue).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
