// Package auth issues session tokens and verifies user credentials.
package auth

import (
	"context"

	"github.com/mmynk/lessmo/internal/models"
)

// Authenticator verifies who a user is.
// Implementations differ by credential (password today; passkeys or OAuth
// later) without the services noticing.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the matching user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential against the implementation's rules.
	ValidateCredential(credential string) error
}
