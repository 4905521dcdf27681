package ports

import (
	"context"

	"github.com/bibliotek/library-system/internal/core/domain"
)

// UpdateUserInput carries profile fields to change; empty fields are left
// untouched.
type UpdateUserInput struct {
	Username string
	Email    string
	Password string
}

// UserService exposes profile and account management. Get/Update/Delete are
// self-or-admin; List is admin-only.
type UserService interface {
	Get(ctx context.Context, caller domain.Identity, id int64) (*domain.User, error)
	List(ctx context.Context, caller domain.Identity, page, limit int) ([]*domain.User, error)
	Update(ctx context.Context, caller domain.Identity, id int64, input UpdateUserInput) (*domain.User, error)
	// Delete removes the account. Active reservations are released first:
	// each reserved book's stock is returned before the user row goes away,
	// all inside one transaction.
	Delete(ctx context.Context, caller domain.Identity, id int64) error
}
