package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLocations_IDsAreUnique(t *testing.T) {
	docs := []document{
		{Seq: 1, DocID: "a", Data: map[string]any{"name": "A"}},
		{Seq: 2, Data: map[string]any{"_id": "b", "name": "B"}},
		{Seq: 3, Data: map[string]any{"id": "b", "name": "B copy"}},
		{Seq: 4, Data: map[string]any{"name": "C"}},
	}

	locs, backfill := normalizeLocations(docs)
	require.Len(t, locs, 4)

	seen := map[string]bool{}
	for _, l := range locs {
		require.NotEmpty(t, l.ID)
		assert.False(t, seen[l.ID], "duplicate id %s", l.ID)
		seen[l.ID] = true
	}
	assert.Equal(t, "a", locs[0].ID)
	assert.Equal(t, "b", locs[1].ID)
	assert.Equal(t, "loc_3", locs[2].ID)
	assert.Equal(t, "loc_4", locs[3].ID)
	assert.Len(t, backfill, 3)
}

func TestNormalizeLocations_GeneratedIDStableWithoutBackfill(t *testing.T) {
	docs := []document{{Seq: 7, Data: map[string]any{"name": "Bog'cha"}}}

	first, _ := normalizeLocations(docs)
	second, _ := normalizeLocations(docs)
	assert.Equal(t, "loc_7", first[0].ID)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestNormalizeLocations_SequenceIDCollision(t *testing.T) {
	docs := []document{
		{Seq: 1, DocID: "loc_2", Data: map[string]any{"name": "A"}},
		{Seq: 2, Data: map[string]any{"name": "B"}},
	}

	locs, _ := normalizeLocations(docs)
	assert.Equal(t, "loc_2", locs[0].ID)
	assert.NotEqual(t, "loc_2", locs[1].ID)
	assert.Contains(t, locs[1].ID, "loc_")
}

func TestDistanceKm(t *testing.T) {
	assert.InDelta(t, 0, DistanceKm(41.3, 69.2, 41.3, 69.2), 1e-9)
	// Tashkent to Samarkand, roughly 270 km
	assert.InDelta(t, 270, DistanceKm(41.2995, 69.2401, 39.6542, 66.9597), 15)
}
