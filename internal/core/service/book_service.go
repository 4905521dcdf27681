package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bibliotek/library-system/internal/core/domain"
	"github.com/bibliotek/library-system/internal/core/ports"
)

// BookService implements catalog management. Reads are open to any
// authenticated caller; mutations are admin-only.
type BookService struct {
	store  ports.Store
	logger zerolog.Logger
}

func NewBookService(store ports.Store, logger zerolog.Logger) *BookService {
	return &BookService{store: store, logger: logger}
}

func (s *BookService) List(ctx context.Context) ([]*domain.Book, error) {
	books, err := s.store.Books().List(ctx)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []*domain.Book{}
	}
	return books, nil
}

func (s *BookService) Get(ctx context.Context, id int64) (*domain.Book, error) {
	return s.store.Books().GetByID(ctx, id)
}

func (s *BookService) Search(ctx context.Context, title string) ([]*domain.Book, error) {
	books, err := s.store.Books().SearchByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []*domain.Book{}
	}
	return books, nil
}

// Create adds a catalog entry. The author reference is verified before the
// insert; availability is derived from the initial quantity.
func (s *BookService) Create(ctx context.Context, caller domain.Identity, input ports.BookInput) (*domain.Book, error) {
	if err := domain.Authorize(caller, domain.AdminOnly, 0); err != nil {
		return nil, err
	}

	if _, err := s.store.Authors().GetByID(ctx, input.AuthorID); err != nil {
		return nil, err
	}

	book := &domain.Book{
		Title:       input.Title,
		AuthorID:    input.AuthorID,
		PublishedOn: input.PublishedOn,
		Quantity:    input.Quantity,
		Available:   input.Quantity > 0,
	}

	created, err := s.store.Books().Create(ctx, book)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("book_id", created.ID).Str("title", created.Title).Msg("book created")
	return created, nil
}

// Update replaces a book's catalog fields. Quantity changes here reset the
// availability flag to match, keeping the invariant intact for books edited
// by catalog management.
func (s *BookService) Update(ctx context.Context, caller domain.Identity, id int64, input ports.BookInput) (*domain.Book, error) {
	if err := domain.Authorize(caller, domain.AdminOnly, 0); err != nil {
		return nil, err
	}

	book, err := s.store.Books().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Authors().GetByID(ctx, input.AuthorID); err != nil {
		return nil, err
	}

	book.Title = input.Title
	book.AuthorID = input.AuthorID
	book.PublishedOn = input.PublishedOn
	book.Quantity = input.Quantity
	book.Available = input.Quantity > 0

	updated, err := s.store.Books().Update(ctx, book)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("book_id", id).Msg("book updated")
	return updated, nil
}

func (s *BookService) Delete(ctx context.Context, caller domain.Identity, id int64) error {
	if err := domain.Authorize(caller, domain.AdminOnly, 0); err != nil {
		return err
	}

	if err := s.store.Books().Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("book_id", id).Msg("book deleted")
	return nil
}
