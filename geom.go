package main

// Side classifies a point relative to a directed line. A cross product of
// exactly zero counts as front; callers that test two points for a crossing
// must treat equal sides as "not crossed".
type Side int

const (
	SideFront Side = iota
	SideBack
)

// Point is a position in fixed-point world coordinates.
type Point struct {
	X, Y Fixed
}

// DivLine is a directed segment stored as origin plus delta. It doubles as
// the probe of a trace (movement path, shot ray) and as the ad-hoc form of a
// wall or entity diagonal being tested against the probe.
type DivLine struct {
	X, Y   Fixed
	DX, DY Fixed
}

// MakeDivLine converts a wall to origin+delta form.
func MakeDivLine(w *Wall) DivLine {
	return DivLine{X: w.V1.X, Y: w.V1.Y, DX: w.DX, DY: w.DY}
}

// PointOnSide classifies (x, y) against the line using the sign of the
// cross product of (point - origin) with the delta. Coordinates are
// prescaled by >>8 before the multiply so the widened product cannot lose
// the sign on long probes.
func (dl *DivLine) PointOnSide(x, y Fixed) Side {
	if dl.DX == 0 {
		if x == dl.X {
			return SideFront
		}
		if x < dl.X {
			if dl.DY > 0 {
				return SideBack
			}
			return SideFront
		}
		if dl.DY < 0 {
			return SideBack
		}
		return SideFront
	}
	if dl.DY == 0 {
		if y == dl.Y {
			return SideFront
		}
		if y < dl.Y {
			if dl.DX < 0 {
				return SideBack
			}
			return SideFront
		}
		if dl.DX > 0 {
			return SideBack
		}
		return SideFront
	}

	dx := x - dl.X
	dy := y - dl.Y
	left := FixedMul(dl.DY>>8, dx>>8)
	right := FixedMul(dy>>8, dl.DX>>8)
	if right <= left {
		return SideFront
	}
	return SideBack
}

// InterceptVector solves where the candidate line crosses the probe and
// returns the fractional position along the probe (0 = probe origin,
// FracUnit = probe end). Parallel lines have a zero determinant and return
// ok == false; that is an explicit no-intercept, distinct from a legitimate
// zero-fraction hit.
func InterceptVector(probe, line *DivLine) (frac Fixed, ok bool) {
	den := FixedMul(line.DY>>8, probe.DX) - FixedMul(line.DX>>8, probe.DY)
	if den == 0 {
		return 0, false
	}
	num := FixedMul((line.X-probe.X)>>8, line.DY) +
		FixedMul((probe.Y-line.Y)>>8, line.DX)
	return FixedDiv(num, den), true
}

// Sixteen compass directions, direction 0 pointing along +X and increasing
// counterclockwise. All facing, thrust, and aim math runs on these discrete
// directions so no trigonometry is needed in the simulation.
const NumDirs = 16

// dirCos and dirSin are cos/sin of k*22.5 degrees in 16.16.
var dirCos = [NumDirs]Fixed{
	65536, 60547, 46341, 25080, 0, -25080, -46341, -60547,
	-65536, -60547, -46341, -25080, 0, 25080, 46341, 60547,
}

var dirSin = [NumDirs]Fixed{
	0, 25080, 46341, 60547, 65536, 60547, 46341, 25080,
	0, -25080, -46341, -60547, -65536, -60547, -46341, -25080,
}

// Tangents of the 16-way sector boundaries (11.25, 33.75, 56.25, 78.75
// degrees) in 16.16, used by PointToDir.
var dirTan = [4]int64{13036, 43790, 98082, 329472}

// PointToDir returns the 16-way direction from (x1, y1) toward (x2, y2)
// using integer octant comparisons only. A zero delta maps to direction 0.
func PointToDir(x1, y1, x2, y2 Fixed) int {
	dx := int64(x2 - x1)
	dy := int64(y2 - y1)
	if dx == 0 && dy == 0 {
		return 0
	}
	adx, ady := dx, dy
	if adx < 0 {
		adx = -adx
	}
	if ady < 0 {
		ady = -ady
	}

	d := 4
	for i, tan := range dirTan {
		if ady<<FracBits < adx*tan {
			d = i
			break
		}
	}

	switch {
	case dx >= 0 && dy >= 0:
		return d
	case dx < 0 && dy >= 0:
		return 8 - d
	case dx < 0 && dy < 0:
		return (8 + d) & (NumDirs - 1)
	default:
		return (NumDirs - d) & (NumDirs - 1)
	}
}
