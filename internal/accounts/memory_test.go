package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	acc := &Account{ID: "1", Username: "alice", Salt: []byte("salt"), PasswordHash: []byte("hash")}
	require.NoError(t, s.Create(ctx, acc))
	assert.ErrorIs(t, s.Create(ctx, &Account{ID: "2", Username: "alice"}), ErrDuplicateUsername)

	got, err := s.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	got.Salt[0] = 'X'
	again, err := s.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("salt"), again.Salt, "callers get copies")

	require.NoError(t, s.UpdateCredential(ctx, "alice", []byte("s2"), []byte("h2")))
	again, err = s.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("s2"), again.Salt)
	assert.Equal(t, []byte("h2"), again.PasswordHash)

	_, err = s.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.UpdateCredential(ctx, "bob", nil, nil), ErrNotFound)
}
