package main

// TraceFlags select what a trace tests and when it may stop early.
type TraceFlags uint32

const (
	// TraceWalls tests static walls along the probe.
	TraceWalls TraceFlags = 1 << iota
	// TraceEntities tests blockmap-resident entities along the probe.
	TraceEntities
	// TraceEarlyOut ends the cell walk as soon as a solid wall intercepts
	// short of the probe end. Movement uses it; hit-scan must not, since
	// it has to rank several candidates by distance.
	TraceEarlyOut
)

// Intercept records one candidate crossing of the probe: the fraction along
// the probe (FracUnit = probe end) and exactly one of Wall or Entity.
type Intercept struct {
	Frac   Fixed
	Wall   *Wall
	Entity *Entity
}

const (
	// interceptCap pre-sizes the buffer for dense scenes. The buffer grows
	// past this rather than abort; overflow is only observable as an
	// allocation.
	interceptCap = 256
	// maxTraverseSteps caps the cell walk. Coordinate precision makes a
	// longer walk within one probe meaningless, so hitting the cap simply
	// ends the walk.
	maxTraverseSteps = 64
)

// Tracer answers "what lies along this segment, in what order, and where
// does it first stop movement or sight". It keeps no state between calls
// except the reusable intercept buffer; the world's query token and this
// buffer are both reset at the start of every trace.
type Tracer struct {
	world      *World
	probe      DivLine
	intercepts []Intercept
	earlyOut   bool

	// blockFrac is the fraction of the solid wall that triggered the
	// early-out; nothing past it may reach the acceptor.
	blockFrac Fixed
}

// NewTracer creates a tracer bound to a world.
func NewTracer(w *World) *Tracer {
	return &Tracer{
		world:      w,
		intercepts: make([]Intercept, 0, interceptCap),
	}
}

// PathTraverse walks the grid cells crossed by the segment from (x1, y1) to
// (x2, y2) in crossing order, collects wall and entity intercepts per the
// flags, then replays them nearest-first through the acceptor. It returns
// false if a solid wall triggered the early-out or the acceptor declined to
// continue; true means the probe was fully traversed.
func (tr *Tracer) PathTraverse(x1, y1, x2, y2 Fixed, flags TraceFlags, acceptor func(*Intercept) bool) bool {
	bm := tr.world.blockmap
	bm.NextQuery()
	tr.intercepts = tr.intercepts[:0]
	tr.earlyOut = flags&TraceEarlyOut != 0
	tr.blockFrac = FracUnit

	// Starting exactly on a cell boundary makes the side classification
	// degenerate; one fixed-point unit is below world-unit resolution.
	if (x1-bm.OrgX)&BlockMask == 0 {
		x1++
	}
	if (y1-bm.OrgY)&BlockMask == 0 {
		y1++
	}

	tr.probe = DivLine{X: x1, Y: y1, DX: x2 - x1, DY: y2 - y1}

	blocked := false
	tr.traverseCells(x1, y1, x2, y2, func(cx, cy int) bool {
		if flags&TraceWalls != 0 {
			if !bm.IterWallsInCell(cx, cy, tr.addWallIntercept) {
				blocked = true
				return false
			}
		}
		if flags&TraceEntities != 0 {
			if !bm.IterEntitiesInCell(cx, cy, tr.addEntityIntercept) {
				return false
			}
		}
		return true
	})

	// Intercepts gathered before an early-out are still replayed so the
	// acceptor sees the blocking hit itself, but nothing beyond it: walls
	// in the blocked cell may already sit in the buffer at greater
	// fractions, and those crossings were never reached.
	if !tr.replay(tr.blockFrac, acceptor) {
		return false
	}
	return !blocked
}

// traverseCells steps cell-by-cell from the cell containing (x1, y1) to the
// cell containing (x2, y2), advancing whichever axis reaches its next cell
// boundary first. Factored out of PathTraverse so the visit order is
// directly observable in tests. The visitor returns false to stop the walk.
func (tr *Tracer) traverseCells(x1, y1, x2, y2 Fixed, visit func(cx, cy int) bool) bool {
	bm := tr.world.blockmap
	x1 -= bm.OrgX
	y1 -= bm.OrgY
	x2 -= bm.OrgX
	y2 -= bm.OrgY

	xt1 := int(x1 >> blockShift)
	yt1 := int(y1 >> blockShift)
	xt2 := int(x2 >> blockShift)
	yt2 := int(y2 >> blockShift)

	var (
		mapXStep, mapYStep     int
		xStep, yStep           Fixed
		xIntercept, yIntercept Fixed
		partial                Fixed
	)

	switch {
	case xt2 > xt1:
		mapXStep = 1
		partial = FracUnit - (x1>>BlockBits)&(FracUnit-1)
		yStep = FixedDiv(y2-y1, fixedAbs(x2-x1))
	case xt2 < xt1:
		mapXStep = -1
		partial = (x1 >> BlockBits) & (FracUnit - 1)
		yStep = FixedDiv(y2-y1, fixedAbs(x2-x1))
	default:
		mapXStep = 0
		partial = FracUnit
		yStep = 256 * FracUnit
	}
	yIntercept = y1>>BlockBits + FixedMul(partial, yStep)

	switch {
	case yt2 > yt1:
		mapYStep = 1
		partial = FracUnit - (y1>>BlockBits)&(FracUnit-1)
		xStep = FixedDiv(x2-x1, fixedAbs(y2-y1))
	case yt2 < yt1:
		mapYStep = -1
		partial = (y1 >> BlockBits) & (FracUnit - 1)
		xStep = FixedDiv(x2-x1, fixedAbs(y2-y1))
	default:
		mapYStep = 0
		partial = FracUnit
		xStep = 256 * FracUnit
	}
	xIntercept = x1>>BlockBits + FixedMul(partial, xStep)

	cx, cy := xt1, yt1
	for i := 0; i < maxTraverseSteps; i++ {
		if !visit(cx, cy) {
			return false
		}
		if cx == xt2 && cy == yt2 {
			break
		}
		switch {
		case int(yIntercept>>FracBits) == cy:
			yIntercept += yStep
			cx += mapXStep
		case int(xIntercept>>FracBits) == cx:
			xIntercept += xStep
			cy += mapYStep
		}
	}
	return true
}

// addWallIntercept tests one wall against the probe and records a crossing.
// Returns false only when the early-out policy fires on a solid wall short
// of the probe end.
func (tr *Tracer) addWallIntercept(w *Wall) bool {
	var s1, s2 Side
	if tr.probe.DX > 16*FracUnit || tr.probe.DY > 16*FracUnit ||
		tr.probe.DX < -16*FracUnit || tr.probe.DY < -16*FracUnit {
		// Long probe: classify the wall's endpoints against the probe to
		// dodge cancellation in the fixed-point cross product.
		s1 = tr.probe.PointOnSide(w.V1.X, w.V1.Y)
		s2 = tr.probe.PointOnSide(w.V2.X, w.V2.Y)
	} else {
		s1 = w.PointOnSide(tr.probe.X, tr.probe.Y)
		s2 = w.PointOnSide(tr.probe.X+tr.probe.DX, tr.probe.Y+tr.probe.DY)
	}
	if s1 == s2 {
		return true // does not straddle
	}

	dl := MakeDivLine(w)
	frac, ok := InterceptVector(&tr.probe, &dl)
	if !ok || frac < 0 {
		return true // parallel, or behind the start
	}

	tr.intercepts = append(tr.intercepts, Intercept{Frac: frac, Wall: w})

	if tr.earlyOut && !w.TwoSided && frac < FracUnit {
		tr.blockFrac = frac
		return false // definitely blocked before reaching the target
	}
	return true
}

// addEntityIntercept tests an entity's bounding square, corner to corner
// across the probe direction, and records a crossing. Entities never
// trigger the early-out.
func (tr *Tracer) addEntityIntercept(e *Entity) bool {
	var x1, y1, x2, y2 Fixed
	if (tr.probe.DX ^ tr.probe.DY) > 0 {
		x1 = e.X - e.Radius
		y1 = e.Y + e.Radius
		x2 = e.X + e.Radius
		y2 = e.Y - e.Radius
	} else {
		x1 = e.X - e.Radius
		y1 = e.Y - e.Radius
		x2 = e.X + e.Radius
		y2 = e.Y + e.Radius
	}

	s1 := tr.probe.PointOnSide(x1, y1)
	s2 := tr.probe.PointOnSide(x2, y2)
	if s1 == s2 {
		return true
	}

	dl := DivLine{X: x1, Y: y1, DX: x2 - x1, DY: y2 - y1}
	frac, ok := InterceptVector(&tr.probe, &dl)
	if !ok || frac < 0 {
		return true
	}

	tr.intercepts = append(tr.intercepts, Intercept{Frac: frac, Entity: e})
	return true
}

// replay hands intercepts to the acceptor in ascending fraction order by
// repeatedly selecting the minimum remaining entry (the buffer is small and
// bounded; ties keep insertion order). Stops at the first intercept past
// maxFrac or when the acceptor declines.
func (tr *Tracer) replay(maxFrac Fixed, acceptor func(*Intercept) bool) bool {
	for n := len(tr.intercepts); n > 0; n-- {
		dist := FixedMax
		var best *Intercept
		for i := range tr.intercepts {
			ic := &tr.intercepts[i]
			if ic.Frac < dist {
				dist = ic.Frac
				best = ic
			}
		}
		if dist > maxFrac {
			return true // everything left is past the target
		}
		if !acceptor(best) {
			return false
		}
		best.Frac = FixedMax // consumed
	}
	return true
}
