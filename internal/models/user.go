package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user can hold. Agency staff are "government"; "admin" can manage
// categories and other users.
const (
	RoleCitizen    = "citizen"
	RoleGovernment = "government"
	RoleAdmin      = "admin"
)

// User represents an account in the system. Password always holds the bcrypt
// hash, never the plaintext, and is excluded from JSON output.
type User struct {
	gorm.Model

	Name       string  `gorm:"type:text;not null" json:"name"`
	Email      string  `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Password   string  `gorm:"type:text;not null" json:"-"`
	Image      *string `gorm:"type:text" json:"image"`
	Role       string  `gorm:"type:text;not null;default:citizen" json:"role"`
	Department *string `gorm:"type:text" json:"department"`
}

// PasswordResetToken is a single-use, time-limited secret enabling a password
// change without the old password. A token is valid while it is unused and
// ExpiresAt is in the future.
type PasswordResetToken struct {
	gorm.Model

	UserID    uint      `gorm:"not null;index" json:"userId"`
	Token     string    `gorm:"type:text;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
}
