package dto

import "time"

// CreateTaskRequest is the payload for task creation
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"max=1000"`
	Status      int        `json:"status" binding:"omitempty,gte=1,lte=4"`
	Priority    int        `json:"priority" binding:"omitempty,gte=1,lte=3"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest is the payload for task updates. Pointer fields
// distinguish "not provided" from zero values.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
	Status      *int       `json:"status" binding:"omitempty,gte=1,lte=4"`
	Priority    *int       `json:"priority" binding:"omitempty,gte=1,lte=3"`
	DueDate     *time.Time `json:"due_date"`
}

// TaskResponse is the public view of a task
type TaskResponse struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       int        `json:"status"`
	StatusName   string     `json:"status_name"`
	Priority     int        `json:"priority"`
	PriorityName string     `json:"priority_name"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TaskStatsResponse aggregates a user's task counts by status
type TaskStatsResponse struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
	Overdue    int64 `json:"overdue"`
}
