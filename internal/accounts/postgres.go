package accounts

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, account *Account) error {
	query :=
		`INSERT INTO users (id, username, salt, hashed_password)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`

	err := s.db.QueryRowContext(ctx, query,
		account.ID, account.Username, account.Salt, account.PasswordHash).Scan(&account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateUsername
		}
		return errors.Wrap(err, "db error")
	}

	return nil
}

func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*Account, error) {
	query :=
		`SELECT id, username, salt, hashed_password, created_at FROM users
		 WHERE username = $1`

	account := &Account{}
	err := s.db.QueryRowContext(ctx, query, username).
		Scan(&account.ID, &account.Username, &account.Salt, &account.PasswordHash, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "db error")
	}

	return account, nil
}

func (s *PostgresStore) UpdateCredential(ctx context.Context, username string, salt, hash []byte) error {
	query :=
		`UPDATE users SET salt = $1, hashed_password = $2
		 WHERE username = $3`

	res, err := s.db.ExecContext(ctx, query, salt, hash, username)
	if err != nil {
		return errors.Wrap(err, "db error")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "db error")
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}
