// Package accounts manages username/password accounts. Passwords are never
// stored; only the salt and the derived hash from pkg/credential are.
package accounts

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNotFound           = errors.New("account not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type Account struct {
	ID           string
	Username     string
	Salt         []byte
	PasswordHash []byte
	CreatedAt    time.Time
}

// Store is the durable side of the account service. Usernames are unique.
type Store interface {
	// Create returns ErrDuplicateUsername when the username is taken.
	Create(ctx context.Context, account *Account) error
	// FindByUsername returns ErrNotFound when no account matches.
	FindByUsername(ctx context.Context, username string) (*Account, error)
	// UpdateCredential returns ErrNotFound when no account matches.
	UpdateCredential(ctx context.Context, username string, salt, hash []byte) error
}
