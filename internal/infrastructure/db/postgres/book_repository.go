package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/bibliotek/library-system/internal/core/domain"
	"github.com/bibliotek/library-system/internal/infrastructure/db/dbx"
)

var builder = goqu.Dialect("postgres")

const bookColumns = `id, title, author_id, published_on, quantity, available`

// BookRepository persists catalog entries. Read queries join the author name
// in; the reservation-path queries (GetForUpdate and the two quantity
// mutators) touch only the books row so the row lock covers exactly the
// contended resource.
type BookRepository struct {
	db dbx.DBTX
}

func NewBookRepository(db dbx.DBTX) *BookRepository {
	return &BookRepository{db: db}
}

// catalogQuery selects books joined with their author's name.
func catalogQuery() *goqu.SelectDataset {
	return builder.From(goqu.T("books").As("b")).
		InnerJoin(goqu.T("authors").As("a"), goqu.On(goqu.I("b.author_id").Eq(goqu.I("a.id")))).
		Select(
			goqu.I("b.id"),
			goqu.I("b.title"),
			goqu.I("b.author_id"),
			goqu.I("a.name").As("author_name"),
			goqu.I("b.published_on"),
			goqu.I("b.quantity"),
			goqu.I("b.available"),
		)
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	query := `
		INSERT INTO books (title, author_id, published_on, quantity, available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + bookColumns

	created := &domain.Book{}
	err := r.db.GetContext(ctx, created, query,
		book.Title, book.AuthorID, book.PublishedOn, book.Quantity, book.Available)
	if err != nil {
		if isForeignKeyViolation(err, "books_author_id_fkey") {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return created, nil
}

func (r *BookRepository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	query, args, err := catalogQuery().Where(goqu.I("b.id").Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build book query: %w", err)
	}

	book := &domain.Book{}
	if err := r.db.GetContext(ctx, book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return book, nil
}

// GetForUpdate locks the books row for the rest of the surrounding
// transaction. No join here: only the contended row is locked.
func (r *BookRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Book, error) {
	book := &domain.Book{}
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1 FOR UPDATE`
	if err := r.db.GetContext(ctx, book, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("lock book: %w", err)
	}
	return book, nil
}

func (r *BookRepository) List(ctx context.Context) ([]*domain.Book, error) {
	query, args, err := catalogQuery().Order(goqu.I("b.id").Asc()).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var books []*domain.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (r *BookRepository) SearchByTitle(ctx context.Context, title string) ([]*domain.Book, error) {
	query, args, err := catalogQuery().
		Where(goqu.I("b.title").ILike("%" + title + "%")).
		Order(goqu.I("b.id").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	var books []*domain.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return books, nil
}

func (r *BookRepository) Update(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	query := `
		UPDATE books
		SET title = $2, author_id = $3, published_on = $4, quantity = $5, available = $6
		WHERE id = $1
		RETURNING ` + bookColumns

	updated := &domain.Book{}
	err := r.db.GetContext(ctx, updated, query,
		book.ID, book.Title, book.AuthorID, book.PublishedOn, book.Quantity, book.Available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		if isForeignKeyViolation(err, "books_author_id_fkey") {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("update book: %w", err)
	}
	return updated, nil
}

func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if affected == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// DecrementQuantity takes one copy out of stock and recomputes availability
// in the same statement, so the flag can never drift from the count. The
// quantity >= 0 check constraint backstops the service-level stock check.
func (r *BookRepository) DecrementQuantity(ctx context.Context, id int64) (*domain.Book, error) {
	query := `
		UPDATE books
		SET quantity = quantity - 1, available = quantity - 1 > 0
		WHERE id = $1
		RETURNING ` + bookColumns

	book := &domain.Book{}
	if err := r.db.GetContext(ctx, book, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		if isCheckViolation(err) {
			return nil, domain.ErrBookUnavailable
		}
		return nil, fmt.Errorf("decrement quantity: %w", err)
	}
	return book, nil
}

// IncrementQuantity returns one copy to stock and recomputes availability.
func (r *BookRepository) IncrementQuantity(ctx context.Context, id int64) (*domain.Book, error) {
	query := `
		UPDATE books
		SET quantity = quantity + 1, available = quantity + 1 > 0
		WHERE id = $1
		RETURNING ` + bookColumns

	book := &domain.Book{}
	if err := r.db.GetContext(ctx, book, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("increment quantity: %w", err)
	}
	return book, nil
}
