package service

import (
	"context"
	"testing"

	"github.com/gestortareas/api/config"
	"github.com/gestortareas/api/internal/dto"
	domainerrors "github.com/gestortareas/api/internal/errors"
	"github.com/gestortareas/api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskQRCodeReturnsPNG(t *testing.T) {
	db := newTestDB(t)
	taskRepo := repository.NewTaskRepository(db)
	tasks := NewTaskService(taskRepo, nil)
	qr := NewQRService(taskRepo, config.AppConfig{BaseURL: "http://localhost:8080"})

	userID := seedUser(t, db, "ana@example.com")
	ctx := context.Background()

	task, err := tasks.Create(ctx, userID, &dto.CreateTaskRequest{Title: "Compartir"})
	require.NoError(t, err)

	png, err := qr.TaskQRCode(ctx, userID, task.ID)
	require.NoError(t, err)
	require.NotEmpty(t, png)

	// PNG signature
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestTaskQRCodeRespectsOwnership(t *testing.T) {
	db := newTestDB(t)
	taskRepo := repository.NewTaskRepository(db)
	tasks := NewTaskService(taskRepo, nil)
	qr := NewQRService(taskRepo, config.AppConfig{BaseURL: "http://localhost:8080"})

	owner := seedUser(t, db, "ana@example.com")
	other := seedUser(t, db, "luis@example.com")
	ctx := context.Background()

	task, err := tasks.Create(ctx, owner, &dto.CreateTaskRequest{Title: "Privada"})
	require.NoError(t, err)

	_, err = qr.TaskQRCode(ctx, other, task.ID)
	assert.ErrorIs(t, err, domainerrors.ErrTaskNotFound)
}
