package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func TestMemory_LoadMissing(t *testing.T) {
	repo := NewMemory()
	_, err := repo.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemory_SaveCopiesBlob(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	blob := []byte(`{"cart":[],"wishlist":[]}`)
	require.NoError(t, repo.Save(ctx, "s1", blob))
	blob[0] = 'X'

	got, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, `{"cart":[],"wishlist":[]}`, string(got))
	assert.NoError(t, repo.Ping(ctx))
}
