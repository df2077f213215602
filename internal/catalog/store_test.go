package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orcafacil/internal"
	"orcafacil/internal/storage"
)

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	_, _, err := Load(ctx, kv)
	require.ErrorIs(t, err, ErrNoCatalog)

	require.NoError(t, Save(ctx, kv, []internal.CatalogItem{{ID: "cat-0", Description: "FIO 1,5MM", Price: 2.1}}))
	require.NoError(t, Save(ctx, kv, []internal.CatalogItem{{ID: "cat-0", Description: "CABO PP", Price: 7}}))

	snap, updatedAt, err := Load(ctx, kv)
	require.NoError(t, err)
	assert.False(t, updatedAt.IsZero())
	require.Equal(t, 1, snap.Len())
	item, ok := snap.ByID("cat-0")
	require.True(t, ok)
	assert.Equal(t, "CABO PP", item.Description)
}

func TestLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, storeKey, []byte("{")))

	_, _, err := Load(ctx, kv)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoCatalog)
}
