package identities_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/voltgrid/auth-server/identities"
)

func TestHashAndCompare(t *testing.T) {
	hasher := identities.NewHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	hash, err := hasher.Hash(ctx, "Sup3rSecret")
	require.NoError(t, err)
	require.NotEqual(t, "Sup3rSecret", hash)

	require.True(t, hasher.Compare(ctx, hash, "Sup3rSecret"))
	require.False(t, hasher.Compare(ctx, hash, "WrongPass1"))
	require.False(t, hasher.Compare(ctx, "not-a-hash", "Sup3rSecret"))
}

func TestHash_SaltedPerCall(t *testing.T) {
	hasher := identities.NewHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	first, err := hasher.Hash(ctx, "Sup3rSecret")
	require.NoError(t, err)
	second, err := hasher.Hash(ctx, "Sup3rSecret")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestHash_CancelledContext(t *testing.T) {
	hasher := identities.NewHasher(bcrypt.MinCost, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hasher.Hash(ctx, "Sup3rSecret")
	require.Error(t, err)
	require.False(t, hasher.Compare(ctx, "$2a$10$whatever", "Sup3rSecret"))
}
