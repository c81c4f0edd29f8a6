package model

import (
	"strings"
	"time"
)

// User represents an account. The password is stored as a hash with its
// salt in a separate column. Confirmation and reset tokens are stored
// together with their expiry timestamps and cleared on use.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName    string `gorm:"size:100;not null" json:"first_name"`
	LastName     string `gorm:"size:100;not null" json:"last_name"`
	PasswordHash string `gorm:"size:512;not null" json:"-"`
	PasswordSalt string `gorm:"size:512;not null" json:"-"`

	EmailConfirmed bool `gorm:"not null;default:false" json:"email_confirmed"`

	// Single-use token pairs. Token and expiry are always both set or
	// both null.
	ConfirmationToken          *string    `gorm:"size:128;index" json:"-"`
	ConfirmationTokenExpiresAt *time.Time `json:"-"`
	ResetToken                 *string    `gorm:"size:128;index" json:"-"`
	ResetTokenExpiresAt        *time.Time `json:"-"`

	LastAccessAt *time.Time `json:"last_access_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Tasks []Task `gorm:"foreignKey:UserID" json:"-"`
}

// TableName overrides the default table name
func (User) TableName() string {
	return "users"
}

// DisplayName is the full name carried in session token claims
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasValidConfirmationToken reports whether the stored confirmation token
// is present and not yet expired at the given instant.
func (u *User) HasValidConfirmationToken(now time.Time) bool {
	return u.ConfirmationToken != nil &&
		u.ConfirmationTokenExpiresAt != nil &&
		now.Before(*u.ConfirmationTokenExpiresAt)
}

// HasValidResetToken reports whether the stored reset token is present
// and not yet expired at the given instant.
func (u *User) HasValidResetToken(now time.Time) bool {
	return u.ResetToken != nil &&
		u.ResetTokenExpiresAt != nil &&
		now.Before(*u.ResetTokenExpiresAt)
}
