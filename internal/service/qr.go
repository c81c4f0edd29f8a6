package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gestortareas/api/config"
	domainerrors "github.com/gestortareas/api/internal/errors"
	"github.com/gestortareas/api/internal/repository"
	ctxutil "github.com/gestortareas/api/pkg/context"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

const qrImageSize = 256

// QRService renders shareable QR codes that link to a task
type QRService interface {
	TaskQRCode(ctx context.Context, userID, taskID uint) ([]byte, error)
}

type qrService struct {
	tasks repository.TaskRepository
	app   config.AppConfig
}

// NewQRService creates a QR code service
func NewQRService(tasks repository.TaskRepository, app config.AppConfig) QRService {
	return &qrService{tasks: tasks, app: app}
}

// TaskQRCode returns a PNG QR code pointing at the task detail URL. The
// task must belong to the requesting user.
func (s *qrService) TaskQRCode(ctx context.Context, userID, taskID uint) ([]byte, error) {
	ctx = ctxutil.NewContext(ctx, "tasks", "TaskQRCode")

	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrTaskNotFound
		}
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	url := fmt.Sprintf("%s/api/v1/tasks/%d", s.app.BaseURL, task.ID)

	png, err := qrcode.Encode(url, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}
	return png, nil
}
