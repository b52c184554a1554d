package accounts

import (
	"context"
	"slices"
	"sync"
)

type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]*Account)}
}

func (s *MemoryStore) Create(ctx context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.Username]; exists {
		return ErrDuplicateUsername
	}
	s.accounts[account.Username] = clone(account)
	return nil
}

func (s *MemoryStore) FindByUsername(ctx context.Context, username string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[username]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(account), nil
}

func (s *MemoryStore) UpdateCredential(ctx context.Context, username string, salt, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[username]
	if !ok {
		return ErrNotFound
	}
	account.Salt = slices.Clone(salt)
	account.PasswordHash = slices.Clone(hash)
	return nil
}

func clone(a *Account) *Account {
	c := *a
	c.Salt = slices.Clone(a.Salt)
	c.PasswordHash = slices.Clone(a.PasswordHash)
	return &c
}
