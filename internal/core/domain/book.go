package domain

import (
	"errors"
	"time"
)

var ErrBookNotFound = errors.New("book not found")
var ErrBookUnavailable = errors.New("book is not available")
var ErrAuthorNotFound = errors.New("author not found")

// Book is a catalog entry. Quantity counts loanable copies; Available is
// persisted redundantly and must always equal quantity > 0. Both fields are
// mutated only through the reservation service's create/cancel paths.
type Book struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	AuthorID    int64      `json:"author_id" db:"author_id"`
	AuthorName  string     `json:"author_name" db:"author_name"`
	PublishedOn *time.Time `json:"published_on,omitempty" db:"published_on"`
	Quantity    int        `json:"quantity" db:"quantity"`
	Available   bool       `json:"available" db:"available"`
}

// Author is referenced by catalog entries.
type Author struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
