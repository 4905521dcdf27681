package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bibliotek/library-system/internal/core/domain"
	"github.com/bibliotek/library-system/internal/infrastructure/db/dbx"
)

const reservationColumns = `id, user_id, book_id, reserved_on`

// ReservationRepository persists the reservation ledger. The unique
// (user_id, book_id) constraint makes the at-most-one-reservation invariant
// hold even if two transactions race past the application-level pre-check.
type ReservationRepository struct {
	db dbx.DBTX
}

func NewReservationRepository(db dbx.DBTX) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, userID, bookID int64) (*domain.Reservation, error) {
	query := `
		INSERT INTO reservations (user_id, book_id, reserved_on)
		VALUES ($1, $2, $3)
		RETURNING ` + reservationColumns

	reservation := &domain.Reservation{}
	err := r.db.GetContext(ctx, reservation, query, userID, bookID, time.Now().UTC())
	if err != nil {
		switch {
		case isUniqueViolation(err, "reservations_user_id_book_id_key"):
			return nil, domain.ErrAlreadyReserved
		case isForeignKeyViolation(err, "reservations_user_id_fkey"):
			return nil, domain.ErrUserNotFound
		case isForeignKeyViolation(err, "reservations_book_id_fkey"):
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("insert reservation: %w", err)
	}
	return reservation, nil
}

func (r *ReservationRepository) Find(ctx context.Context, userID, bookID int64) (*domain.Reservation, error) {
	reservation := &domain.Reservation{}
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 AND book_id = $2`
	err := r.db.GetContext(ctx, reservation, query, userID, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find reservation: %w", err)
	}
	return reservation, nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Reservation, error) {
	var reservations []*domain.Reservation
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &reservations, query, userID); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return reservations, nil
}

// ListBooksByUser projects a user's reserved books to the listing shape:
// stock and availability are deliberately not part of this projection.
func (r *ReservationRepository) ListBooksByUser(ctx context.Context, userID int64) ([]domain.ReservedBook, error) {
	query := `
		SELECT b.id, b.title, a.name AS author, b.published_on
		FROM reservations r
		INNER JOIN books b ON r.book_id = b.id
		INNER JOIN authors a ON b.author_id = a.id
		WHERE r.user_id = $1
		ORDER BY b.id`

	var books []domain.ReservedBook
	if err := r.db.SelectContext(ctx, &books, query, userID); err != nil {
		return nil, fmt.Errorf("list reserved books: %w", err)
	}
	return books, nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotReserved
	}
	return nil
}

func (r *ReservationRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user reservations: %w", err)
	}
	return nil
}
