package main

const (
	// BlockBits sets the cell size to 128 world units (a power of two so
	// cell coordinates are plain shifts).
	BlockBits = 7
	// BlockUnits is the cell size in whole world units.
	BlockUnits = 1 << BlockBits
	// BlockSize is the cell size in fixed-point units.
	BlockSize = Fixed(BlockUnits) << FracBits
	// BlockMask isolates the position within a cell.
	BlockMask = BlockSize - 1
	// blockShift converts a grid-relative fixed-point coordinate straight
	// to a cell index.
	blockShift = FracBits + BlockBits
	// blockMargin pads the grid extent so probes that start slightly
	// outside the geometry still land in a valid cell.
	blockMargin = 8
)

// Blockmap is the uniform grid index over the world. Each cell knows which
// walls cross it (fixed at load) and which entities currently stand in it
// (updated on every entity move). It is owned by a single game session and
// must only be mutated by that session's tick goroutine.
type Blockmap struct {
	OrgX, OrgY Fixed
	Cols, Rows int

	walls    []Wall
	wallIdx  [][]int
	entities [][]*Entity

	// validCount is the query token: bumped once per trace so a wall
	// spanning several visited cells is handled exactly once.
	validCount int
}

// NewBlockmap builds the grid for the given wall set and world extent and
// inserts every wall into each cell its bounding box overlaps.
func NewBlockmap(walls []Wall, minX, minY, maxX, maxY Fixed) *Blockmap {
	org := FixedFromInt(blockMargin)
	bm := &Blockmap{
		OrgX:  minX - org,
		OrgY:  minY - org,
		walls: walls,
	}
	bm.Cols = int((maxX+org-bm.OrgX)>>blockShift) + 1
	bm.Rows = int((maxY+org-bm.OrgY)>>blockShift) + 1

	bm.wallIdx = make([][]int, bm.Cols*bm.Rows)
	bm.entities = make([][]*Entity, bm.Cols*bm.Rows)

	for i := range walls {
		w := &walls[i]
		x1, y1 := bm.CellAt(w.MinX, w.MinY)
		x2, y2 := bm.CellAt(w.MaxX, w.MaxY)
		for cy := y1; cy <= y2; cy++ {
			for cx := x1; cx <= x2; cx++ {
				idx := cy*bm.Cols + cx
				bm.wallIdx[idx] = append(bm.wallIdx[idx], i)
			}
		}
	}
	return bm
}

// CellAt returns the cell coordinates containing a world position, clamped
// to the grid so out-of-bounds entities stay addressable.
func (bm *Blockmap) CellAt(x, y Fixed) (int, int) {
	cx := int((x - bm.OrgX) >> blockShift)
	cy := int((y - bm.OrgY) >> blockShift)
	if cx < 0 {
		cx = 0
	} else if cx >= bm.Cols {
		cx = bm.Cols - 1
	}
	if cy < 0 {
		cy = 0
	} else if cy >= bm.Rows {
		cy = bm.Rows - 1
	}
	return cx, cy
}

// NextQuery advances the validity token. Every trace calls this once before
// walking cells.
func (bm *Blockmap) NextQuery() {
	bm.validCount++
}

// IterWallsInCell visits each wall crossing the cell that has not already
// been visited by the current query. The visitor returns false to stop; the
// stop propagates as the return value.
func (bm *Blockmap) IterWallsInCell(cx, cy int, visit func(*Wall) bool) bool {
	if cx < 0 || cx >= bm.Cols || cy < 0 || cy >= bm.Rows {
		return true
	}
	for _, i := range bm.wallIdx[cy*bm.Cols+cx] {
		w := &bm.walls[i]
		if w.validCount == bm.validCount {
			continue
		}
		w.validCount = bm.validCount
		if !visit(w) {
			return false
		}
	}
	return true
}

// IterEntitiesInCell visits each entity resident in the cell. Same
// stop-propagation contract as IterWallsInCell.
func (bm *Blockmap) IterEntitiesInCell(cx, cy int, visit func(*Entity) bool) bool {
	if cx < 0 || cx >= bm.Cols || cy < 0 || cy >= bm.Rows {
		return true
	}
	for _, e := range bm.entities[cy*bm.Cols+cx] {
		if !visit(e) {
			return false
		}
	}
	return true
}

// LinkEntity inserts an entity into the cell containing its position.
func (bm *Blockmap) LinkEntity(e *Entity) {
	cx, cy := bm.CellAt(e.X, e.Y)
	idx := cy*bm.Cols + cx
	bm.entities[idx] = append(bm.entities[idx], e)
	e.cellX, e.cellY = cx, cy
	e.linked = true
}

// UnlinkEntity removes an entity from its resident cell (swap-remove, order
// within a cell is not meaningful).
func (bm *Blockmap) UnlinkEntity(e *Entity) {
	if !e.linked {
		return
	}
	idx := e.cellY*bm.Cols + e.cellX
	cell := bm.entities[idx]
	for i, o := range cell {
		if o == e {
			last := len(cell) - 1
			cell[i] = cell[last]
			cell[last] = nil
			bm.entities[idx] = cell[:last]
			break
		}
	}
	e.linked = false
}

// MoveEntity updates an entity's position and its cell residency in one
// step, so no trace can ever observe a position without matching residency.
func (bm *Blockmap) MoveEntity(e *Entity, x, y Fixed) {
	cx, cy := bm.CellAt(x, y)
	if e.linked && cx == e.cellX && cy == e.cellY {
		e.X, e.Y = x, y
		return
	}
	bm.UnlinkEntity(e)
	e.X, e.Y = x, y
	bm.LinkEntity(e)
}
