package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models a registered library member or administrator.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	RegisteredOn time.Time `json:"registered_on" db:"registered_on"`
}

// Identity is the resolved caller: who is making the request and with what
// role. It is produced by the token or session middleware; the core never
// sees credentials.
type Identity struct {
	UserID int64
	Role   string
}
