package dto

import "time"

// RegisterRequest is the payload for account registration. The password
// confirmation match is enforced here at the binding layer.
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email,max=255"`
	FirstName       string `json:"first_name" binding:"required,max=100"`
	LastName        string `json:"last_name" binding:"required,max=100"`
	Password        string `json:"password" binding:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// LoginRequest is the payload for authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID             uint       `json:"id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	DisplayName    string     `json:"display_name"`
	EmailConfirmed bool       `json:"email_confirmed"`
	LastAccessAt   *time.Time `json:"last_access_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// AuthResponse is returned on successful login
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// EditProfileRequest updates the account email and name
type EditProfileRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
}

// ChangePasswordRequest changes the password of an authenticated user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// PasswordRecoveryRequest starts the password recovery flow
type PasswordRecoveryRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes the recovery flow using the emailed token
type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// ConfirmEmailRequest confirms an account using the emailed token
type ConfirmEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// ResendConfirmationRequest reissues the confirmation email
type ResendConfirmationRequest struct {
	Email string `json:"email" binding:"required,email"`
}
