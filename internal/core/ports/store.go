package ports

import (
	"context"

	"github.com/bibliotek/library-system/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// GetByLogin resolves a user by username or email.
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// AuthorRepository defines persistence operations for authors.
type AuthorRepository interface {
	Create(ctx context.Context, name string) (*domain.Author, error)
	GetByID(ctx context.Context, id int64) (*domain.Author, error)
	List(ctx context.Context) ([]*domain.Author, error)
}

// BookRepository defines persistence operations for catalog entries.
//
// GetForUpdate and the two quantity mutators exist for the reservation
// paths: GetForUpdate must take a row-level lock when called inside a
// transaction, and both mutators must recompute the availability flag in the
// same statement that changes the quantity so the two can never drift.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Book, error)
	List(ctx context.Context) ([]*domain.Book, error)
	SearchByTitle(ctx context.Context, title string) ([]*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) (*domain.Book, error)
	Delete(ctx context.Context, id int64) error
	DecrementQuantity(ctx context.Context, id int64) (*domain.Book, error)
	IncrementQuantity(ctx context.Context, id int64) (*domain.Book, error)
}

// ReservationRepository defines persistence operations for the reservation
// ledger.
type ReservationRepository interface {
	Create(ctx context.Context, userID, bookID int64) (*domain.Reservation, error)
	// Find returns (nil, nil) when no active reservation links the pair;
	// absence is a normal state, not an error.
	Find(ctx context.Context, userID, bookID int64) (*domain.Reservation, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Reservation, error)
	ListBooksByUser(ctx context.Context, userID int64) ([]domain.ReservedBook, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}

// Tx vends repositories bound to one transaction. All calls made through the
// same Tx share a single unit of atomicity.
type Tx interface {
	Users() UserRepository
	Authors() AuthorRepository
	Books() BookRepository
	Reservations() ReservationRepository
}

// Store is the storage port. Repositories obtained directly from the Store
// auto-commit per call; WithinTx runs fn against transaction-scoped
// repositories and commits only if fn returns nil, rolling back otherwise.
type Store interface {
	Tx
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}
