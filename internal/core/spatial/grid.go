package spatial

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/cespare/xxhash/v2"
)

var ErrNonPositiveCellSize = errors.New("grid cell size must be positive")

// Grid is a uniform spatial hash over AABBs. Cell coordinates are hashed with
// xxhash so sparse worlds pay only for occupied cells. Queries return a
// superset of the ids whose boxes may overlap the query region; false
// positives are expected, false negatives never happen for inserted boxes.
type Grid struct {
	cellSize float64
	// cells maps a hashed cell coordinate to the ids whose AABB touches it.
	cells map[uint64]map[string]struct{}
	// occupancy remembers which cells each id was inserted into, so Remove
	// and Update are O(cells touched), not O(world).
	occupancy map[string][]uint64
	bounds    map[string]AABB
}

// NewGrid creates a grid with the given cell size. Cell size should be on the
// order of a typical body's diameter; too small inflates occupancy lists, too
// large degrades toward all-pairs.
func NewGrid(cellSize float64) (*Grid, error) {
	if cellSize <= 0 {
		return nil, ErrNonPositiveCellSize
	}
	return &Grid{
		cellSize:  cellSize,
		cells:     make(map[uint64]map[string]struct{}),
		occupancy: make(map[string][]uint64),
		bounds:    make(map[string]AABB),
	}, nil
}

func cellKey(cx, cy int64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(cx))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(cy))
	return xxhash.Sum64(buf[:])
}

func (g *Grid) cellRange(box AABB) (minX, minY, maxX, maxY int64) {
	minX = int64(math.Floor(box.MinX / g.cellSize))
	minY = int64(math.Floor(box.MinY / g.cellSize))
	maxX = int64(math.Floor(box.MaxX / g.cellSize))
	maxY = int64(math.Floor(box.MaxY / g.cellSize))
	return
}

// Insert registers id under every cell its box touches. Inserting an existing
// id replaces its previous registration.
func (g *Grid) Insert(id string, box AABB) {
	if _, ok := g.occupancy[id]; ok {
		g.Remove(id)
	}
	minX, minY, maxX, maxY := g.cellRange(box)
	keys := make([]uint64, 0, (maxX-minX+1)*(maxY-minY+1))
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			key := cellKey(cx, cy)
			cell := g.cells[key]
			if cell == nil {
				cell = make(map[string]struct{})
				g.cells[key] = cell
			}
			cell[id] = struct{}{}
			keys = append(keys, key)
		}
	}
	g.occupancy[id] = keys
	g.bounds[id] = box
}

// Remove deletes id from the grid. Unknown ids are a no-op.
func (g *Grid) Remove(id string) {
	keys, ok := g.occupancy[id]
	if !ok {
		return
	}
	for _, key := range keys {
		if cell := g.cells[key]; cell != nil {
			delete(cell, id)
			if len(cell) == 0 {
				delete(g.cells, key)
			}
		}
	}
	delete(g.occupancy, id)
	delete(g.bounds, id)
}

// Update moves id to a new box. Registration is only rewritten when the cell
// footprint actually changed, which is the common fast path for slow movers.
func (g *Grid) Update(id string, box AABB) {
	if old, ok := g.bounds[id]; ok {
		oMinX, oMinY, oMaxX, oMaxY := g.cellRange(old)
		nMinX, nMinY, nMaxX, nMaxY := g.cellRange(box)
		if oMinX == nMinX && oMinY == nMinY && oMaxX == nMaxX && oMaxY == nMaxY {
			g.bounds[id] = box
			return
		}
	}
	g.Insert(id, box)
}

// Query returns the ids registered in any cell the query box touches. The
// result is deduplicated but still approximate: callers run a narrow-phase
// test on each candidate.
func (g *Grid) Query(box AABB) []string {
	minX, minY, maxX, maxY := g.cellRange(box)
	seen := make(map[string]struct{})
	var out []string
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			for id := range g.cells[cellKey(cx, cy)] {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	return out
}

// Bounds returns the last box registered for id.
func (g *Grid) Bounds(id string) (AABB, bool) {
	b, ok := g.bounds[id]
	return b, ok
}

// Len returns the number of registered ids.
func (g *Grid) Len() int {
	return len(g.occupancy)
}

// Clear drops all registrations, keeping the configured cell size.
func (g *Grid) Clear() {
	g.cells = make(map[uint64]map[string]struct{})
	g.occupancy = make(map[string][]uint64)
	g.bounds = make(map[string]AABB)
}
