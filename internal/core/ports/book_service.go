package ports

import (
	"context"
	"time"

	"github.com/bibliotek/library-system/internal/core/domain"
)

// BookInput carries catalog fields for creating or replacing a book.
type BookInput struct {
	Title       string
	AuthorID    int64
	PublishedOn *time.Time
	Quantity    int
}

// BookService exposes the catalog. Reads are open to any authenticated
// caller; mutations are admin-only. Quantity set here is the initial stock;
// once created, quantity and availability move only through reservations.
type BookService interface {
	List(ctx context.Context) ([]*domain.Book, error)
	Get(ctx context.Context, id int64) (*domain.Book, error)
	Search(ctx context.Context, title string) ([]*domain.Book, error)
	Create(ctx context.Context, caller domain.Identity, input BookInput) (*domain.Book, error)
	Update(ctx context.Context, caller domain.Identity, id int64, input BookInput) (*domain.Book, error)
	Delete(ctx context.Context, caller domain.Identity, id int64) error
}
