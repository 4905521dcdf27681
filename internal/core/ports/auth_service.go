package ports

import (
	"context"

	"github.com/bibliotek/library-system/internal/core/domain"
)

// RegisterInput carries the fields for creating an account. Validation of
// lengths and password complexity happens at the HTTP layer; the service
// re-checks only non-emptiness.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthService implements registration and login.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login resolves login as username or email and verifies the password.
	Login(ctx context.Context, login, password string) (*domain.User, error)
	// IssueToken signs a bearer token carrying the user's resolved identity.
	IssueToken(user *domain.User) (string, error)
}
