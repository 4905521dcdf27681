package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/bibliotek/library-system/internal/api/metrics"
	"github.com/bibliotek/library-system/internal/core/domain"
	"github.com/bibliotek/library-system/internal/core/ports"
)

const (
	txMaxRetries   = 3
	txRetryBackoff = 50 * time.Millisecond
)

// ReservationService implements the reservation lifecycle. Each operation
// runs its read-check-mutate sequence inside one storage transaction; the
// book row is locked for the duration, so two concurrent reservations of the
// last copy resolve to exactly one success.
type ReservationService struct {
	store  ports.Store
	logger zerolog.Logger
}

func NewReservationService(store ports.Store, logger zerolog.Logger) *ReservationService {
	return &ReservationService{store: store, logger: logger}
}

// Create reserves one copy of a book for a user. Inside a single
// transaction it verifies both references, rejects duplicates and exhausted
// stock, inserts the ledger row, and decrements the stock together with the
// availability flag. Transient store failures roll back and are retried a
// bounded number of times before being surfaced.
func (s *ReservationService) Create(ctx context.Context, caller domain.Identity, userID, bookID int64) (*ports.ReservationResult, error) {
	if err := domain.Authorize(caller, domain.SelfOrAdmin, userID); err != nil {
		return nil, err
	}

	var result ports.ReservationResult
	err := s.withRetry(ctx, func(ctx context.Context) error {
		return s.store.WithinTx(ctx, func(tx ports.Tx) error {
			if _, err := tx.Users().GetByID(ctx, userID); err != nil {
				return err
			}

			book, err := tx.Books().GetForUpdate(ctx, bookID)
			if err != nil {
				return err
			}

			existing, err := tx.Reservations().Find(ctx, userID, bookID)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.ErrAlreadyReserved
			}

			if book.Quantity == 0 || !book.Available {
				return domain.ErrBookUnavailable
			}

			// The unique (user_id, book_id) constraint backstops the
			// duplicate pre-check under race; the repository translates the
			// violation back to ErrAlreadyReserved.
			reservation, err := tx.Reservations().Create(ctx, userID, bookID)
			if err != nil {
				return err
			}

			updated, err := tx.Books().DecrementQuantity(ctx, bookID)
			if err != nil {
				return err
			}

			result.Reservation = reservation
			result.Book = updated
			return nil
		})
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyReserved):
			metrics.ReservationConflictsTotal.WithLabelValues("already_reserved").Inc()
		case errors.Is(err, domain.ErrBookUnavailable):
			metrics.ReservationConflictsTotal.WithLabelValues("unavailable").Inc()
		}
		return nil, err
	}

	metrics.ReservationsCreatedTotal.Inc()
	s.logger.Info().
		Int64("user_id", userID).
		Int64("book_id", bookID).
		Int("quantity_left", result.Book.Quantity).
		Msg("reservation created")

	return &result, nil
}

// Cancel releases a user's reservation of a book: the ledger row is deleted
// and the stock returned in the same transaction. Availability is recomputed
// from the incremented quantity rather than forced, so the flag can never
// drift from the stock count.
func (s *ReservationService) Cancel(ctx context.Context, caller domain.Identity, userID, bookID int64) error {
	if err := domain.Authorize(caller, domain.SelfOrAdmin, userID); err != nil {
		return err
	}

	err := s.withRetry(ctx, func(ctx context.Context) error {
		return s.store.WithinTx(ctx, func(tx ports.Tx) error {
			if _, err := tx.Users().GetByID(ctx, userID); err != nil {
				return err
			}

			if _, err := tx.Books().GetForUpdate(ctx, bookID); err != nil {
				return err
			}

			reservation, err := tx.Reservations().Find(ctx, userID, bookID)
			if err != nil {
				return err
			}
			if reservation == nil {
				return domain.ErrNotReserved
			}

			if err := tx.Reservations().Delete(ctx, reservation.ID); err != nil {
				return err
			}

			_, err = tx.Books().IncrementQuantity(ctx, bookID)
			return err
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotReserved) {
			metrics.ReservationConflictsTotal.WithLabelValues("not_reserved").Inc()
		}
		return err
	}

	metrics.ReservationsCancelledTotal.Inc()
	s.logger.Info().
		Int64("user_id", userID).
		Int64("book_id", bookID).
		Msg("reservation cancelled")

	return nil
}

// ListForUser returns the books currently reserved by a user, projected to
// (id, title, author, published date).
func (s *ReservationService) ListForUser(ctx context.Context, caller domain.Identity, userID int64) ([]domain.ReservedBook, error) {
	if err := domain.Authorize(caller, domain.SelfOrAdmin, userID); err != nil {
		return nil, err
	}

	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, err
	}

	books, err := s.store.Reservations().ListBooksByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []domain.ReservedBook{}
	}
	return books, nil
}

// withRetry re-runs fn on transient store failures (the transaction has
// already rolled back) with fibonacci backoff. Business-rule errors pass
// through untouched.
func (s *ReservationService) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(txMaxRetries, retry.NewFibonacci(txRetryBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, domain.ErrTransientStore) {
			metrics.ReservationTxRetriesTotal.Inc()
			s.logger.Warn().Err(err).Msg("transient store failure, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
}
