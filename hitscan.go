package main

// HitResult describes the nearest thing a hit-scan ray stopped at: exactly
// one of Target or Wall, plus the impact point.
type HitResult struct {
	Target *Entity
	Wall   *Wall
	Frac   Fixed
	X, Y   Fixed
}

// LineAttack fires a hit-scan ray from the shooter toward (x2, y2). The
// trace runs to full length with no early-out so every candidate's distance
// is resolved; the acceptor then picks the nearest shootable target or the
// solid wall that stops the ray. Returns nil if the ray hits nothing.
func (w *World) LineAttack(shooter *Entity, x2, y2 Fixed) *HitResult {
	x1, y1 := shooter.X, shooter.Y
	var hit *HitResult

	w.tracer.PathTraverse(x1, y1, x2, y2, TraceWalls|TraceEntities,
		func(ic *Intercept) bool {
			if ic.Wall != nil {
				if ic.Wall.TwoSided {
					return true // passable boundary, keep looking
				}
				hit = &HitResult{
					Wall: ic.Wall,
					Frac: ic.Frac,
					X:    x1 + FixedMul(ic.Frac, x2-x1),
					Y:    y1 + FixedMul(ic.Frac, y2-y1),
				}
				return false
			}
			t := ic.Entity
			if t == shooter || t.Flags&EntShootable == 0 {
				return true
			}
			hit = &HitResult{
				Target: t,
				Frac:   ic.Frac,
				X:      x1 + FixedMul(ic.Frac, x2-x1),
				Y:      y1 + FixedMul(ic.Frac, y2-y1),
			}
			return false
		})
	return hit
}

// CheckSight reports whether nothing solid lies between two entities.
// Walls only: entities never block sight.
func (w *World) CheckSight(from, to *Entity) bool {
	return w.tracer.PathTraverse(from.X, from.Y, to.X, to.Y, TraceWalls,
		func(ic *Intercept) bool {
			return ic.Wall.TwoSided
		})
}
