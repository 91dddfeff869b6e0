// Package auth handles account registration, login and JWT sessions.
package auth

import (
	"context"

	"github.com/mmynk/billcal/internal/models"
)

// Authenticator registers accounts and checks their credentials.
// PasswordAuthenticator is the only implementation; email links and
// third-party sign-in are not supported.
type Authenticator interface {
	// Register creates an account. Emails are compared case-insensitively,
	// so a second registration that differs only in case fails with ErrEmailExists.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the account for email if credential matches.
	// Unknown emails and wrong credentials both yield ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}
