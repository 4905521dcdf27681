package service

import (
	"context"
	"sync"
	"time"

	"github.com/bibliotek/library-system/internal/core/domain"
	"github.com/bibliotek/library-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub store
//
// WithinTx serializes callers on one mutex and restores a snapshot when fn
// fails, mirroring the commit/rollback contract of the real store.
// ---------------------------------------------------------------------------

type stubStore struct {
	mu           sync.Mutex
	users        map[int64]*domain.User
	authors      map[int64]*domain.Author
	books        map[int64]*domain.Book
	reservations map[int64]*domain.Reservation

	nextReservationID int64
	failTxTimes       int // next N WithinTx calls fail transiently before running fn
}

func newStubStore() *stubStore {
	return &stubStore{
		users:             make(map[int64]*domain.User),
		authors:           make(map[int64]*domain.Author),
		books:             make(map[int64]*domain.Book),
		reservations:      make(map[int64]*domain.Reservation),
		nextReservationID: 1,
	}
}

func (s *stubStore) addUser(id int64, role string) {
	s.users[id] = &domain.User{ID: id, Username: "user", Role: role, RegisteredOn: time.Now()}
}

func (s *stubStore) addBook(id int64, quantity int) {
	s.books[id] = &domain.Book{ID: id, Title: "book", AuthorID: 1, Quantity: quantity, Available: quantity > 0}
}

func (s *stubStore) Users() ports.UserRepository               { return &stubUserRepo{s: s} }
func (s *stubStore) Authors() ports.AuthorRepository           { return &stubAuthorRepo{s: s} }
func (s *stubStore) Books() ports.BookRepository               { return &stubBookRepo{s: s} }
func (s *stubStore) Reservations() ports.ReservationRepository { return &stubReservationRepo{s: s} }

func (s *stubStore) WithinTx(_ context.Context, fn func(tx ports.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failTxTimes > 0 {
		s.failTxTimes--
		return domain.ErrTransientStore
	}

	snapUsers := cloneMap(s.users)
	snapBooks := cloneMap(s.books)
	snapReservations := cloneMap(s.reservations)
	snapNext := s.nextReservationID

	if err := fn(s); err != nil {
		s.users = snapUsers
		s.books = snapBooks
		s.reservations = snapReservations
		s.nextReservationID = snapNext
		return err
	}
	return nil
}

func cloneMap[V any](in map[int64]*V) map[int64]*V {
	out := make(map[int64]*V, len(in))
	for k, v := range in {
		clone := *v
		out[k] = &clone
	}
	return out
}

// --- users ---

type stubUserRepo struct{ s *stubStore }

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	id := int64(len(r.s.users) + 1)
	clone := *user
	clone.ID = id
	r.s.users[id] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	for _, u := range r.s.users {
		if u.Username == login || u.Email == login {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, offset, limit int) ([]*domain.User, error) {
	var all []*domain.User
	for _, u := range r.s.users {
		clone := *u
		all = append(all, &clone)
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.s.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	r.s.users[user.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}

// --- authors ---

type stubAuthorRepo struct{ s *stubStore }

func (r *stubAuthorRepo) Create(_ context.Context, name string) (*domain.Author, error) {
	id := int64(len(r.s.authors) + 1)
	a := &domain.Author{ID: id, Name: name}
	r.s.authors[id] = a
	clone := *a
	return &clone, nil
}

func (r *stubAuthorRepo) GetByID(_ context.Context, id int64) (*domain.Author, error) {
	a, ok := r.s.authors[id]
	if !ok {
		return nil, domain.ErrAuthorNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAuthorRepo) List(_ context.Context) ([]*domain.Author, error) {
	var all []*domain.Author
	for _, a := range r.s.authors {
		clone := *a
		all = append(all, &clone)
	}
	return all, nil
}

// --- books ---

type stubBookRepo struct{ s *stubStore }

func (r *stubBookRepo) Create(_ context.Context, book *domain.Book) (*domain.Book, error) {
	id := int64(len(r.s.books) + 1)
	clone := *book
	clone.ID = id
	r.s.books[id] = &clone
	out := clone
	return &out, nil
}

func (r *stubBookRepo) GetByID(_ context.Context, id int64) (*domain.Book, error) {
	b, ok := r.s.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBookRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Book, error) {
	return r.GetByID(ctx, id)
}

func (r *stubBookRepo) List(_ context.Context) ([]*domain.Book, error) {
	var all []*domain.Book
	for _, b := range r.s.books {
		clone := *b
		all = append(all, &clone)
	}
	return all, nil
}

func (r *stubBookRepo) SearchByTitle(_ context.Context, title string) ([]*domain.Book, error) {
	var matched []*domain.Book
	for _, b := range r.s.books {
		if title == "" || b.Title == title {
			clone := *b
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

func (r *stubBookRepo) Update(_ context.Context, book *domain.Book) (*domain.Book, error) {
	if _, ok := r.s.books[book.ID]; !ok {
		return nil, domain.ErrBookNotFound
	}
	clone := *book
	r.s.books[book.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubBookRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(r.s.books, id)
	return nil
}

func (r *stubBookRepo) DecrementQuantity(_ context.Context, id int64) (*domain.Book, error) {
	b, ok := r.s.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	if b.Quantity == 0 {
		return nil, domain.ErrBookUnavailable
	}
	b.Quantity--
	b.Available = b.Quantity > 0
	clone := *b
	return &clone, nil
}

func (r *stubBookRepo) IncrementQuantity(_ context.Context, id int64) (*domain.Book, error) {
	b, ok := r.s.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	b.Quantity++
	b.Available = b.Quantity > 0
	clone := *b
	return &clone, nil
}

// --- reservations ---

type stubReservationRepo struct{ s *stubStore }

func (r *stubReservationRepo) Create(_ context.Context, userID, bookID int64) (*domain.Reservation, error) {
	for _, res := range r.s.reservations {
		if res.UserID == userID && res.BookID == bookID {
			return nil, domain.ErrAlreadyReserved
		}
	}
	res := &domain.Reservation{
		ID:         r.s.nextReservationID,
		UserID:     userID,
		BookID:     bookID,
		ReservedOn: time.Now(),
	}
	r.s.nextReservationID++
	r.s.reservations[res.ID] = res
	clone := *res
	return &clone, nil
}

func (r *stubReservationRepo) Find(_ context.Context, userID, bookID int64) (*domain.Reservation, error) {
	for _, res := range r.s.reservations {
		if res.UserID == userID && res.BookID == bookID {
			clone := *res
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *stubReservationRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, res := range r.s.reservations {
		if res.UserID == userID {
			clone := *res
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubReservationRepo) ListBooksByUser(_ context.Context, userID int64) ([]domain.ReservedBook, error) {
	var out []domain.ReservedBook
	for _, res := range r.s.reservations {
		if res.UserID != userID {
			continue
		}
		if b, ok := r.s.books[res.BookID]; ok {
			out = append(out, domain.ReservedBook{
				ID:          b.ID,
				Title:       b.Title,
				Author:      b.AuthorName,
				PublishedOn: b.PublishedOn,
			})
		}
	}
	return out, nil
}

func (r *stubReservationRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.reservations[id]; !ok {
		return domain.ErrNotReserved
	}
	delete(r.s.reservations, id)
	return nil
}

func (r *stubReservationRepo) DeleteByUser(_ context.Context, userID int64) error {
	for id, res := range r.s.reservations {
		if res.UserID == userID {
			delete(r.s.reservations, id)
		}
	}
	return nil
}

// countReservations reports the number of active reservations for a book.
func (s *stubStore) countReservations(bookID int64) int {
	n := 0
	for _, res := range s.reservations {
		if res.BookID == bookID {
			n++
		}
	}
	return n
}
