package auth

import (
	"errors"

	"github.com/aanand-mishra/students-admin/internal/config"
	"github.com/aanand-mishra/students-admin/internal/types"
)

// ErrInvalidCredentials is returned when the pair does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials is the one accepted username/password pair. The comparison
// is plain text; there is no hashing, lockout or rate limiting.
type Credentials struct {
	Username string
	Password string
}

// CredentialsFrom reads the accepted pair from config.
func CredentialsFrom(cfg config.Admin) Credentials {
	return Credentials{Username: cfg.Username, Password: cfg.Password}
}

// Verify reports ErrInvalidCredentials unless form matches exactly.
// Empty fields are rejected by form validation before this is called.
func (c Credentials) Verify(form types.LoginForm) error {
	if form.Username != c.Username || form.Password != c.Password {
		return ErrInvalidCredentials
	}
	return nil
}
