package accounts

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/dharmasatrya/flighttracker/pkg/credential"
)

// Service is the only place that rejects empty passwords; the hasher itself
// accepts them.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger.With("component", "accounts"),
	}
}

func (s *Service) Register(ctx context.Context, username, password string) (*Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	salt, err := credential.GenerateSalt()
	if err != nil {
		return nil, err
	}

	account := &Account{
		ID:           uuid.NewString(),
		Username:     username,
		Salt:         salt,
		PasswordHash: credential.HashPassword(password, salt),
	}
	if err := s.store.Create(ctx, account); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, err
		}
		return nil, errors.Wrap(err, "create account")
	}

	s.logger.InfoContext(ctx, "account created", "username", username)
	return account, nil
}

// Login does not reveal whether the username or the password was wrong.
func (s *Service) Login(ctx context.Context, username, password string) (*Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	account, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "find account")
	}

	if !credential.VerifyPassword(account.PasswordHash, account.Salt, password) {
		s.logger.WarnContext(ctx, "failed login attempt", "username", username)
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

// UpdatePassword re-hashes under a fresh salt once the current password checks out.
func (s *Service) UpdatePassword(ctx context.Context, username, current, next string) error {
	username = strings.TrimSpace(username)
	if username == "" || current == "" || next == "" {
		return ErrMissingCredentials
	}

	account, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return errors.Wrap(err, "find account")
	}

	if !credential.VerifyPassword(account.PasswordHash, account.Salt, current) {
		return ErrInvalidCredentials
	}

	salt, err := credential.GenerateSalt()
	if err != nil {
		return err
	}
	if err := s.store.UpdateCredential(ctx, username, salt, credential.HashPassword(next, salt)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return errors.Wrap(err, "update credential")
	}

	s.logger.InfoContext(ctx, "password updated", "username", username)
	return nil
}
