package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/bibliotek/library-system/internal/core/ports"
	"github.com/bibliotek/library-system/internal/infrastructure/db/dbx"
)

// Store implements the storage port on PostgreSQL. Repositories obtained
// directly from the Store run against the pool; WithinTx vends repositories
// bound to one transaction.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() ports.UserRepository               { return NewUserRepository(s.db) }
func (s *Store) Authors() ports.AuthorRepository           { return NewAuthorRepository(s.db) }
func (s *Store) Books() ports.BookRepository               { return NewBookRepository(s.db) }
func (s *Store) Reservations() ports.ReservationRepository { return NewReservationRepository(s.db) }

// WithinTx runs fn inside one database transaction. Serialization conflicts,
// deadlocks and connection failures come back tagged ErrTransientStore after
// the rollback, so the caller can retry the whole operation.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Tx) error) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, q dbx.DBTX) error {
		return fn(&storeTx{q: q})
	})
	if err != nil && isTransient(err) {
		return markTransient(err)
	}
	return err
}

type storeTx struct {
	q dbx.DBTX
}

func (t *storeTx) Users() ports.UserRepository               { return NewUserRepository(t.q) }
func (t *storeTx) Authors() ports.AuthorRepository           { return NewAuthorRepository(t.q) }
func (t *storeTx) Books() ports.BookRepository               { return NewBookRepository(t.q) }
func (t *storeTx) Reservations() ports.ReservationRepository { return NewReservationRepository(t.q) }
