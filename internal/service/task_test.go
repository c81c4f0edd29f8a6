package service

import (
	"context"
	"testing"
	"time"

	"github.com/gestortareas/api/internal/constants"
	"github.com/gestortareas/api/internal/dto"
	domainerrors "github.com/gestortareas/api/internal/errors"
	"github.com/gestortareas/api/internal/model"
	"github.com/gestortareas/api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestTaskService(t *testing.T) (TaskService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	// nil cache degrades to a no-op; stats go straight to the database
	return NewTaskService(repository.NewTaskRepository(db), nil), db
}

func seedUser(t *testing.T, db *gorm.DB, email string) uint {
	t.Helper()

	user := &model.User{
		Email:        email,
		FirstName:    "Ana",
		LastName:     "García",
		PasswordHash: "hash",
		PasswordSalt: "salt",
	}
	require.NoError(t, db.Create(user).Error)
	return user.ID
}

func TestCreateTaskDefaults(t *testing.T) {
	svc, db := newTestTaskService(t)
	userID := seedUser(t, db, "ana@example.com")

	task, err := svc.Create(context.Background(), userID, &dto.CreateTaskRequest{
		Title: "Comprar pan",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusPending, task.Status)
	assert.Equal(t, constants.TaskPriorityLow, task.Priority)
	assert.Nil(t, task.CompletedAt)
	assert.Equal(t, "pending", task.StatusName)
}

func TestUpdateTaskStampsCompletedAt(t *testing.T) {
	svc, db := newTestTaskService(t)
	userID := seedUser(t, db, "ana@example.com")
	ctx := context.Background()

	task, err := svc.Create(ctx, userID, &dto.CreateTaskRequest{Title: "Comprar pan"})
	require.NoError(t, err)

	completed := constants.TaskStatusCompleted
	updated, err := svc.Update(ctx, userID, task.ID, &dto.UpdateTaskRequest{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.WithinDuration(t, time.Now(), *updated.CompletedAt, time.Minute)

	// Reopening clears the completion stamp
	pending := constants.TaskStatusPending
	updated, err = svc.Update(ctx, userID, task.ID, &dto.UpdateTaskRequest{Status: &pending})
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedAt)
}

func TestTaskOwnershipIsolation(t *testing.T) {
	svc, db := newTestTaskService(t)
	owner := seedUser(t, db, "ana@example.com")
	other := seedUser(t, db, "luis@example.com")
	ctx := context.Background()

	task, err := svc.Create(ctx, owner, &dto.CreateTaskRequest{Title: "Privada"})
	require.NoError(t, err)

	// Another user cannot read, update or delete the task
	_, err = svc.GetByID(ctx, other, task.ID)
	assert.ErrorIs(t, err, domainerrors.ErrTaskNotFound)

	title := "Robada"
	_, err = svc.Update(ctx, other, task.ID, &dto.UpdateTaskRequest{Title: &title})
	assert.ErrorIs(t, err, domainerrors.ErrTaskNotFound)

	err = svc.Delete(ctx, other, task.ID)
	assert.ErrorIs(t, err, domainerrors.ErrTaskNotFound)

	// The owner still sees it untouched
	got, err := svc.GetByID(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Privada", got.Title)
}

func TestListTasksFiltersAndPaginates(t *testing.T) {
	svc, db := newTestTaskService(t)
	userID := seedUser(t, db, "ana@example.com")
	ctx := context.Background()

	high := constants.TaskPriorityHigh
	for _, title := range []string{"Comprar pan", "Comprar leche", "Llamar al banco"} {
		_, err := svc.Create(ctx, userID, &dto.CreateTaskRequest{Title: title, Priority: high})
		require.NoError(t, err)
	}

	tasks, total, err := svc.List(ctx, userID, repository.TaskFilter{Search: "comprar"},
		constants.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, tasks, 2)

	tasks, total, err = svc.List(ctx, userID, repository.TaskFilter{},
		constants.PaginationParams{Page: 2, Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, tasks, 1)
}

func TestDeleteTaskNotFound(t *testing.T) {
	svc, db := newTestTaskService(t)
	userID := seedUser(t, db, "ana@example.com")

	err := svc.Delete(context.Background(), userID, 9999)
	assert.ErrorIs(t, err, domainerrors.ErrTaskNotFound)
}

func TestTaskStats(t *testing.T) {
	svc, db := newTestTaskService(t)
	userID := seedUser(t, db, "ana@example.com")
	ctx := context.Background()

	completed := constants.TaskStatusCompleted
	_, err := svc.Create(ctx, userID, &dto.CreateTaskRequest{Title: "Pendiente"})
	require.NoError(t, err)
	task, err := svc.Create(ctx, userID, &dto.CreateTaskRequest{Title: "Hecha"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, userID, task.ID, &dto.UpdateTaskRequest{Status: &completed})
	require.NoError(t, err)

	yesterday := time.Now().Add(-24 * time.Hour)
	_, err = svc.Create(ctx, userID, &dto.CreateTaskRequest{Title: "Atrasada", DueDate: &yesterday})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(1), stats.Overdue)
}
