package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bibliotek/library-system/internal/core/domain"
	"github.com/bibliotek/library-system/internal/core/ports"
)

func TestRegisterAndLogin(t *testing.T) {
	store := newStubStore()
	svc := NewAuthService(store.Users(), "secret", time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, ports.RegisterInput{
		Username: "frodobaggins",
		Email:    "frodo@shire.example",
		Password: "Precious#1ring",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected role %q, got %q", domain.RoleUser, user.Role)
	}
	if user.PasswordHash == "Precious#1ring" {
		t.Fatalf("password stored in clear text")
	}

	// Login by username and by email.
	if _, err := svc.Login(ctx, "frodobaggins", "Precious#1ring"); err != nil {
		t.Fatalf("login by username: %v", err)
	}
	if _, err := svc.Login(ctx, "frodo@shire.example", "Precious#1ring"); err != nil {
		t.Fatalf("login by email: %v", err)
	}

	if _, err := svc.Login(ctx, "frodobaggins", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	// Unknown login reads the same as a wrong password.
	if _, err := svc.Login(ctx, "nobody", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegister_DuplicateUser(t *testing.T) {
	store := newStubStore()
	svc := NewAuthService(store.Users(), "secret", time.Hour)
	ctx := context.Background()

	input := ports.RegisterInput{Username: "frodobaggins", Email: "frodo@shire.example", Password: "Precious#1ring"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, input); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestIssueToken_CarriesIdentity(t *testing.T) {
	svc := NewAuthService(newStubStore().Users(), "secret", time.Hour)

	token, err := svc.IssueToken(&domain.User{ID: 42, Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != 42 || claims.Role != domain.RoleAdmin {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}
