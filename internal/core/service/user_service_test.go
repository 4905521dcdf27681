package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bibliotek/library-system/internal/core/domain"
	"github.com/bibliotek/library-system/internal/core/ports"
)

func TestDeleteUser_ReleasesReservationsFirst(t *testing.T) {
	store := newStubStore()
	store.addUser(10, domain.RoleUser)
	store.addBook(1, 1)

	reservations := NewReservationService(store, zerolog.Nop())
	users := NewUserService(store, zerolog.Nop())
	ctx := context.Background()

	if _, err := reservations.Create(ctx, asUser(10), 10, 1); err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	if q := store.books[1].Quantity; q != 0 {
		t.Fatalf("expected quantity=0 before delete, got %d", q)
	}

	if err := users.Delete(ctx, asUser(10), 10); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	b := store.books[1]
	if b.Quantity != 1 || !b.Available {
		t.Fatalf("expected stock released (quantity=1 available=true), got %+v", b)
	}
	if _, ok := store.users[10]; ok {
		t.Fatalf("user record still present after delete")
	}
	if n := store.countReservations(1); n != 0 {
		t.Fatalf("expected no reservations after delete, got %d", n)
	}
}

func TestDeleteUser_UnknownUser(t *testing.T) {
	store := newStubStore()
	users := NewUserService(store, zerolog.Nop())

	if err := users.Delete(context.Background(), asAdmin(1), 999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListUsers_AdminOnly(t *testing.T) {
	store := newStubStore()
	store.addUser(10, domain.RoleUser)
	users := NewUserService(store, zerolog.Nop())
	ctx := context.Background()

	if _, err := users.List(ctx, asUser(10), 1, 10); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}

	listed, err := users.List(ctx, asAdmin(1), 1, 10)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 user, got %d", len(listed))
	}
}

func TestUpdateUser_SelfOnly(t *testing.T) {
	store := newStubStore()
	store.addUser(10, domain.RoleUser)
	store.addUser(20, domain.RoleUser)
	users := NewUserService(store, zerolog.Nop())
	ctx := context.Background()

	if _, err := users.Update(ctx, asUser(20), 10, ports.UpdateUserInput{Username: "newname"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := users.Update(ctx, asUser(10), 10, ports.UpdateUserInput{Username: "newname"})
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if updated.Username != "newname" {
		t.Fatalf("username not applied: %+v", updated)
	}
}
