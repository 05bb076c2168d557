package main

// TryMove attempts to move an entity to (x, y). The movement path is probed
// with the early-out policy: the first solid wall short of the target
// blocks, and any solid entity on the path blocks. Returns false with the
// position unchanged when blocked; otherwise commits the move.
func (w *World) TryMove(e *Entity, x, y Fixed) bool {
	ok := w.tracer.PathTraverse(e.X, e.Y, x, y,
		TraceWalls|TraceEntities|TraceEarlyOut,
		func(ic *Intercept) bool {
			if ic.Wall != nil {
				return ic.Wall.TwoSided
			}
			other := ic.Entity
			if other == e || other.Flags&EntSolid == 0 {
				return true
			}
			return false
		})
	if !ok {
		return false
	}
	w.SetPosition(e, x, y)
	return true
}

// SlideMove moves by the entity's velocity, falling back to axis-aligned
// slides when the direct move is blocked. Returns false if the entity could
// not move at all this tick.
func (w *World) SlideMove(e *Entity) bool {
	x := e.X + e.VelX
	y := e.Y + e.VelY
	if w.TryMove(e, x, y) {
		return true
	}
	if e.VelX != 0 && w.TryMove(e, x, e.Y) {
		e.VelY = 0
		return true
	}
	if e.VelY != 0 && w.TryMove(e, e.X, y) {
		e.VelX = 0
		return true
	}
	e.VelX = 0
	e.VelY = 0
	return false
}
