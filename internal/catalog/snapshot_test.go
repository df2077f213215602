package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orcafacil/internal"
)

func TestSnapshotLookups(t *testing.T) {
	items := []internal.CatalogItem{
		{ID: "c1", Description: "CABO FLEX 2,5MM PRETO", Price: 3.2},
		{ID: "c2", Description: "PARAFUSO 4X40", Price: 0.35},
	}
	s := NewSnapshot(items)
	items[0].Description = "mutated"

	assert.Equal(t, 2, s.Len())

	got, ok := s.ByID("c1")
	require.True(t, ok)
	assert.Equal(t, "CABO FLEX 2,5MM PRETO", got.Description)

	_, ok = s.ByID("gone")
	assert.False(t, ok)

	got, ok = s.At(1)
	require.True(t, ok)
	assert.Equal(t, "c2", got.ID)

	_, ok = s.At(-1)
	assert.False(t, ok)
	_, ok = s.At(2)
	assert.False(t, ok)
}

func TestNilSnapshot(t *testing.T) {
	var s *Snapshot
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Items())
	_, ok := s.ByID("c1")
	assert.False(t, ok)
}

func TestHolderReplace(t *testing.T) {
	h := NewHolder(nil)
	require.NotNil(t, h.Current())
	assert.Equal(t, 0, h.Current().Len())

	h.Replace(NewSnapshot([]internal.CatalogItem{{ID: "c1"}}))
	assert.Equal(t, 1, h.Current().Len())
}
