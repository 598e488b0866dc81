// Package mailer delivers transactional email. The only message the backend
// sends is the password-reset link.
package mailer

import "log"

// Mailer sends a password-reset email. The forgot-password handler always
// answers the caller with the same generic message, so send failures are
// logged, never surfaced.
type Mailer interface {
	SendPasswordResetEmail(email, name, resetLink string) error
}

// LogMailer is the fallback used when no email provider is configured.
// It writes the reset link to the server log instead of sending anything.
type LogMailer struct{}

func (LogMailer) SendPasswordResetEmail(email, name, resetLink string) error {
	log.Printf("mailer: no provider configured; reset link for %s: %s", email, resetLink)
	return nil
}
