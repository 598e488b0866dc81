package auth

import (
	"time"

	"civicvoice/backend/internal/config"
	"civicvoice/backend/internal/models"

	"github.com/google/uuid"
)

// NewResetToken builds a password-reset token row for the user: an opaque
// random token with a 30-minute expiry. The caller persists it.
func NewResetToken(userID uint) *models.PasswordResetToken {
	return &models.PasswordResetToken{
		UserID:    userID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(config.ResetTokenExpiry),
	}
}
