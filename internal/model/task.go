package model

import (
	"time"

	"github.com/gestortareas/api/internal/constants"
)

// Task represents a unit of work owned by a single user
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"size:1000" json:"description"`
	Status      int        `gorm:"not null;default:1" json:"status"`
	Priority    int        `gorm:"not null;default:1" json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName overrides the default table name
func (Task) TableName() string {
	return "tasks"
}

// IsCompleted reports whether the task is in the completed state
func (t *Task) IsCompleted() bool {
	return t.Status == constants.TaskStatusCompleted
}

// StatusName returns a human readable status label
func (t *Task) StatusName() string {
	switch t.Status {
	case constants.TaskStatusPending:
		return "pending"
	case constants.TaskStatusInProgress:
		return "in_progress"
	case constants.TaskStatusCompleted:
		return "completed"
	case constants.TaskStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// PriorityName returns a human readable priority label
func (t *Task) PriorityName() string {
	switch t.Priority {
	case constants.TaskPriorityLow:
		return "low"
	case constants.TaskPriorityMedium:
		return "medium"
	case constants.TaskPriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}
