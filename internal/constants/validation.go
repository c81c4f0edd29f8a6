package constants

// Field Length Limits
const (
	MinPasswordLength = 6
	MaxPasswordLength = 100
	MinNameLength     = 2
	MaxNameLength     = 100
	MaxEmailLength    = 100
	MaxTitleLength    = 200
	MaxDescLength     = 1000
)

// Token Settings
const (
	SessionTokenExpiryDays      = 7  // JWT session token lifetime
	ConfirmationTokenExpiryDays = 7  // email confirmation token lifetime
	ResetTokenExpiryHours       = 24 // password reset token lifetime
)

// Task Status Values
const (
	TaskStatusPending    = 1
	TaskStatusInProgress = 2
	TaskStatusCompleted  = 3
	TaskStatusCancelled  = 4
)

// Task Priority Values
const (
	TaskPriorityLow    = 1
	TaskPriorityMedium = 2
	TaskPriorityHigh   = 3
)
