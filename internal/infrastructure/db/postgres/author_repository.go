package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bibliotek/library-system/internal/core/domain"
	"github.com/bibliotek/library-system/internal/infrastructure/db/dbx"
)

type AuthorRepository struct {
	db dbx.DBTX
}

func NewAuthorRepository(db dbx.DBTX) *AuthorRepository {
	return &AuthorRepository{db: db}
}

func (r *AuthorRepository) Create(ctx context.Context, name string) (*domain.Author, error) {
	author := &domain.Author{}
	query := `INSERT INTO authors (name) VALUES ($1) RETURNING id, name`
	if err := r.db.GetContext(ctx, author, query, name); err != nil {
		return nil, fmt.Errorf("insert author: %w", err)
	}
	return author, nil
}

func (r *AuthorRepository) GetByID(ctx context.Context, id int64) (*domain.Author, error) {
	author := &domain.Author{}
	err := r.db.GetContext(ctx, author, `SELECT id, name FROM authors WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("find author: %w", err)
	}
	return author, nil
}

func (r *AuthorRepository) List(ctx context.Context) ([]*domain.Author, error) {
	var authors []*domain.Author
	if err := r.db.SelectContext(ctx, &authors, `SELECT id, name FROM authors ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}
