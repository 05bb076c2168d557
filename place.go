package main

// CheckSpot reports whether a bounding square of the given radius fits at
// (x, y) without a solid wall crossing it. Each edge of the square is probed
// with a short walls-only trace. Used to validate teleport destinations and
// item spawn points.
func (w *World) CheckSpot(x, y, radius Fixed) bool {
	corners := [4]Point{
		{x - radius, y - radius},
		{x + radius, y - radius},
		{x + radius, y + radius},
		{x - radius, y + radius},
	}
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%4]
		ok := w.tracer.PathTraverse(a.X, a.Y, b.X, b.Y, TraceWalls,
			func(ic *Intercept) bool {
				return ic.Wall.TwoSided
			})
		if !ok {
			return false
		}
	}
	return true
}

// Teleport validates the destination and relocates the entity there.
// Returns false, leaving the entity in place, when the spot is obstructed.
func (w *World) Teleport(e *Entity, x, y Fixed) bool {
	if !w.CheckSpot(x, y, e.Radius) {
		return false
	}
	w.SetPosition(e, x, y)
	e.VelX = 0
	e.VelY = 0
	return true
}
