package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bibliotek/library-system/internal/core/domain"
	"github.com/bibliotek/library-system/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// UserService implements profile and account management on top of the
// storage port.
type UserService struct {
	store  ports.Store
	logger zerolog.Logger
}

func NewUserService(store ports.Store, logger zerolog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// Get returns a user's profile. Self-or-admin.
func (s *UserService) Get(ctx context.Context, caller domain.Identity, id int64) (*domain.User, error) {
	if err := domain.Authorize(caller, domain.SelfOrAdmin, id); err != nil {
		return nil, err
	}
	return s.store.Users().GetByID(ctx, id)
}

// List returns a page of users. Admin-only.
func (s *UserService) List(ctx context.Context, caller domain.Identity, page, limit int) ([]*domain.User, error) {
	if err := domain.Authorize(caller, domain.AdminOnly, 0); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	users, err := s.store.Users().List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

// Update edits profile fields; empty fields are left as they are. Username
// and email uniqueness is re-checked by the store's unique constraints.
// Self-or-admin.
func (s *UserService) Update(ctx context.Context, caller domain.Identity, id int64, input ports.UpdateUserInput) (*domain.User, error) {
	if err := domain.Authorize(caller, domain.SelfOrAdmin, id); err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	updated, err := s.store.Users().Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", id).Msg("user updated")
	return updated, nil
}

// Delete removes an account. All of the user's reservations are released
// first (each reserved book gets its copy back), then the ledger rows and
// the user row are removed, all in one transaction. Self-or-admin.
func (s *UserService) Delete(ctx context.Context, caller domain.Identity, id int64) error {
	if err := domain.Authorize(caller, domain.SelfOrAdmin, id); err != nil {
		return err
	}

	err := s.store.WithinTx(ctx, func(tx ports.Tx) error {
		if _, err := tx.Users().GetByID(ctx, id); err != nil {
			return err
		}

		reservations, err := tx.Reservations().ListByUser(ctx, id)
		if err != nil {
			return err
		}
		for _, r := range reservations {
			if _, err := tx.Books().IncrementQuantity(ctx, r.BookID); err != nil {
				return err
			}
		}

		if err := tx.Reservations().DeleteByUser(ctx, id); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
