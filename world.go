package main

import "fmt"

// SlopeType is a coarse orientation class for a wall, letting the side test
// skip the cross product for axis-aligned walls.
type SlopeType int

const (
	SlopeHorizontal SlopeType = iota
	SlopeVertical
	SlopePositive
	SlopeNegative
)

// Wall is an immutable static segment of the world. One-sided walls are
// solid and block movement, sight, and shots; two-sided walls are passable
// boundaries that still report crossings to trace consumers. Walls are
// created once at load and only referenced afterwards.
type Wall struct {
	ID       int
	V1, V2   Point
	DX, DY   Fixed
	TwoSided bool
	Slope    SlopeType
	MinX     Fixed
	MinY     Fixed
	MaxX     Fixed
	MaxY     Fixed

	// validCount marks the wall as already handled by the current trace
	// query, so a wall spanning several cells is processed once.
	validCount int
}

// PointOnSide classifies (x, y) against the wall. Axis-aligned walls decide
// by coordinate comparison alone; everything else falls back to the cross
// product with the wall's own delta.
func (w *Wall) PointOnSide(x, y Fixed) Side {
	switch w.Slope {
	case SlopeVertical:
		if x == w.V1.X {
			return SideFront
		}
		if x < w.V1.X {
			if w.DY > 0 {
				return SideBack
			}
			return SideFront
		}
		if w.DY < 0 {
			return SideBack
		}
		return SideFront

	case SlopeHorizontal:
		if y == w.V1.Y {
			return SideFront
		}
		if y < w.V1.Y {
			if w.DX < 0 {
				return SideBack
			}
			return SideFront
		}
		if w.DX > 0 {
			return SideBack
		}
		return SideFront
	}

	dx := x - w.V1.X
	dy := y - w.V1.Y
	left := FixedMul(w.DY>>FracBits, dx)
	right := FixedMul(dy, w.DX>>FracBits)
	if right <= left {
		return SideFront
	}
	return SideBack
}

// MapVertex is a map-file vertex in whole world units.
type MapVertex struct {
	X, Y int
}

// MapWall references two vertices by index. TwoSided marks a passable
// boundary instead of a solid wall.
type MapWall struct {
	V1, V2   int
	TwoSided bool
}

// MapData is the load-time input contract: raw geometry as stored in the map
// database, before any fixed-point conversion or indexing.
type MapData struct {
	Name     string
	Vertices []MapVertex
	Walls    []MapWall
}

// World owns the static geometry, the blockmap index over it, and the trace
// engine. One world backs one game session; per-tick exclusivity is the
// session's responsibility (the game loop is the only writer).
type World struct {
	Name  string
	Walls []Wall

	MinX, MinY Fixed
	MaxX, MaxY Fixed

	blockmap *Blockmap
	tracer   *Tracer
}

// NewWorld converts raw map data into an indexed world.
func NewWorld(md *MapData) (*World, error) {
	if len(md.Vertices) < 2 || len(md.Walls) == 0 {
		return nil, fmt.Errorf("map %q has no geometry", md.Name)
	}

	w := &World{Name: md.Name, Walls: make([]Wall, len(md.Walls))}

	w.MinX, w.MinY = FixedMax, FixedMax
	w.MaxX, w.MaxY = FixedMin, FixedMin
	for _, v := range md.Vertices {
		x := FixedFromInt(v.X)
		y := FixedFromInt(v.Y)
		w.MinX = fixedMin(w.MinX, x)
		w.MinY = fixedMin(w.MinY, y)
		w.MaxX = fixedMax(w.MaxX, x)
		w.MaxY = fixedMax(w.MaxY, y)
	}

	for i, mw := range md.Walls {
		if mw.V1 < 0 || mw.V1 >= len(md.Vertices) || mw.V2 < 0 || mw.V2 >= len(md.Vertices) {
			return nil, fmt.Errorf("map %q wall %d references a missing vertex", md.Name, i)
		}
		v1 := md.Vertices[mw.V1]
		v2 := md.Vertices[mw.V2]
		wall := Wall{
			ID:       i,
			V1:       Point{FixedFromInt(v1.X), FixedFromInt(v1.Y)},
			V2:       Point{FixedFromInt(v2.X), FixedFromInt(v2.Y)},
			TwoSided: mw.TwoSided,
		}
		wall.DX = wall.V2.X - wall.V1.X
		wall.DY = wall.V2.Y - wall.V1.Y
		if wall.DX == 0 && wall.DY == 0 {
			return nil, fmt.Errorf("map %q wall %d has zero length", md.Name, i)
		}
		wall.Slope = slopeOf(wall.DX, wall.DY)
		wall.MinX = fixedMin(wall.V1.X, wall.V2.X)
		wall.MaxX = fixedMax(wall.V1.X, wall.V2.X)
		wall.MinY = fixedMin(wall.V1.Y, wall.V2.Y)
		wall.MaxY = fixedMax(wall.V1.Y, wall.V2.Y)
		w.Walls[i] = wall
	}

	w.blockmap = NewBlockmap(w.Walls, w.MinX, w.MinY, w.MaxX, w.MaxY)
	w.tracer = NewTracer(w)
	return w, nil
}

func slopeOf(dx, dy Fixed) SlopeType {
	switch {
	case dx == 0:
		return SlopeVertical
	case dy == 0:
		return SlopeHorizontal
	case (dx > 0) == (dy > 0):
		return SlopePositive
	default:
		return SlopeNegative
	}
}

// Spawn registers an entity with the world and links it into the blockmap.
func (w *World) Spawn(e *Entity) {
	e.world = w
	if e.Flags&EntNoBlockmap == 0 {
		w.blockmap.LinkEntity(e)
	}
}

// Remove unlinks an entity from the blockmap. The entity must not be used
// with this world afterwards.
func (w *World) Remove(e *Entity) {
	w.blockmap.UnlinkEntity(e)
	e.world = nil
}

// SetPosition moves an entity and keeps its blockmap residency in step.
// This is the only way entity positions may change.
func (w *World) SetPosition(e *Entity, x, y Fixed) {
	if e.Flags&EntNoBlockmap == 0 {
		w.blockmap.MoveEntity(e, x, y)
		return
	}
	e.X, e.Y = x, y
}

func fixedMin(a, b Fixed) Fixed {
	if a < b {
		return a
	}
	return b
}

func fixedMax(a, b Fixed) Fixed {
	if a > b {
		return a
	}
	return b
}
