package ports

import (
	"context"

	"github.com/bibliotek/library-system/internal/core/domain"
)

// ReservationResult is returned by a successful reservation: the created
// ledger row plus the book snapshot after the stock decrement.
type ReservationResult struct {
	Reservation *domain.Reservation
	Book        *domain.Book
}

// ReservationService orchestrates the reservation lifecycle. Every operation
// authorizes the caller against the subject user (self-or-admin) before
// touching storage.
type ReservationService interface {
	Create(ctx context.Context, caller domain.Identity, userID, bookID int64) (*ReservationResult, error)
	Cancel(ctx context.Context, caller domain.Identity, userID, bookID int64) error
	ListForUser(ctx context.Context, caller domain.Identity, userID int64) ([]domain.ReservedBook, error)
}
