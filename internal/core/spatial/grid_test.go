package spatial

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridRejectsBadCellSize(t *testing.T) {
	_, err := NewGrid(0)
	assert.ErrorIs(t, err, ErrNonPositiveCellSize)
	_, err = NewGrid(-10)
	assert.ErrorIs(t, err, ErrNonPositiveCellSize)
}

func TestQueryNeverMissesOverlappingBox(t *testing.T) {
	g, err := NewGrid(50)
	require.NoError(t, err)

	// Boxes scattered across cell boundaries, including negative space.
	boxes := map[string]AABB{
		"a": NewAABB(0, 0, 40, 40),
		"b": NewAABB(45, 45, 55, 55),   // straddles a cell corner
		"c": NewAABB(-120, -80, -60, -10),
		"d": NewAABB(500, 500, 510, 510),
		"e": NewAABB(-10, 30, 10, 70),  // straddles origin cell edge
	}
	for id, box := range boxes {
		g.Insert(id, box)
	}

	query := NewAABB(-20, -20, 60, 60)
	got := g.Query(query)
	found := make(map[string]bool)
	for _, id := range got {
		found[id] = true
	}
	for id, box := range boxes {
		if box.Overlaps(query) {
			assert.True(t, found[id], "query missed overlapping box %q", id)
		}
	}
}

func TestQueryDeduplicates(t *testing.T) {
	g, err := NewGrid(10)
	require.NoError(t, err)

	// Spans many cells; every cell holds the same id.
	g.Insert("wide", NewAABB(0, 0, 95, 95))

	got := g.Query(NewAABB(0, 0, 100, 100))
	assert.Equal(t, []string{"wide"}, got)
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	g, err := NewGrid(25)
	require.NoError(t, err)
	g.Remove("ghost")
	assert.Equal(t, 0, g.Len())
}

func TestUpdateMovesBodyBetweenCells(t *testing.T) {
	g, err := NewGrid(25)
	require.NoError(t, err)

	g.Insert("m", NewAABB(0, 0, 10, 10))
	require.Contains(t, g.Query(NewAABB(0, 0, 20, 20)), "m")

	g.Update("m", NewAABB(200, 200, 210, 210))
	assert.NotContains(t, g.Query(NewAABB(0, 0, 20, 20)), "m")
	assert.Contains(t, g.Query(NewAABB(195, 195, 215, 215)), "m")

	b, ok := g.Bounds("m")
	require.True(t, ok)
	assert.Equal(t, NewAABB(200, 200, 210, 210), b)
}

func TestUpdateWithinSameCellsKeepsRegistration(t *testing.T) {
	g, err := NewGrid(100)
	require.NoError(t, err)

	g.Insert("s", NewAABB(10, 10, 20, 20))
	g.Update("s", NewAABB(12, 12, 22, 22))
	assert.Contains(t, g.Query(NewAABB(0, 0, 50, 50)), "s")
}

func TestClear(t *testing.T) {
	g, err := NewGrid(25)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		g.Insert(fmt.Sprintf("b%d", i), NewAABB(float64(i*30), 0, float64(i*30+10), 10))
	}
	require.Equal(t, 10, g.Len())
	g.Clear()
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Query(NewAABB(-1000, -1000, 1000, 1000)))
}

func TestAABBOverlaps(t *testing.T) {
	a := NewAABB(0, 0, 10, 10)
	assert.True(t, a.Overlaps(NewAABB(5, 5, 15, 15)))
	assert.True(t, a.Overlaps(NewAABB(10, 10, 20, 20)), "touching boxes overlap")
	assert.False(t, a.Overlaps(NewAABB(11, 0, 20, 10)))
	assert.True(t, a.Contains(5, 5))
	assert.False(t, a.Contains(11, 5))
}
