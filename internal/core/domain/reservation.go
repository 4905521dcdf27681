package domain

import (
	"errors"
	"time"
)

var ErrAlreadyReserved = errors.New("book is already reserved by the user")
var ErrNotReserved = errors.New("book is not reserved by the user")

// ErrTransientStore marks a storage failure (connection loss, timeout,
// serialization conflict) where the transaction was rolled back and the whole
// operation is safe to retry.
var ErrTransientStore = errors.New("transient store failure")

// Reservation links one user to one unit of one book. At most one active
// reservation may exist per (user, book) pair; cancellation deletes the row,
// there is no historical state.
type Reservation struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	BookID     int64     `json:"book_id" db:"book_id"`
	ReservedOn time.Time `json:"reserved_on" db:"reserved_on"`
}

// ReservedBook is the projection returned when listing a user's
// reservations. Stock and availability are intentionally omitted.
type ReservedBook struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Author      string     `json:"author" db:"author"`
	PublishedOn *time.Time `json:"published_on,omitempty" db:"published_on"`
}
