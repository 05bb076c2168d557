package main

// Fixed is a signed 16.16 fixed-point number. Every world coordinate and
// every piece of derived geometry uses it so that a simulation fed the same
// inputs produces bit-identical results on every platform. No float ever
// enters the simulation core.
type Fixed int32

const (
	// FracBits is the number of fractional bits in a Fixed.
	FracBits = 16
	// FracUnit is the Fixed representation of 1.
	FracUnit Fixed = 1 << FracBits
	// FixedMax is the largest representable Fixed value.
	FixedMax Fixed = 0x7fffffff
	// FixedMin is the smallest representable Fixed value.
	FixedMin Fixed = -FixedMax - 1
)

// FixedFromInt converts whole world units to Fixed. Overflow wraps per
// native int32 semantics.
func FixedFromInt(i int) Fixed {
	return Fixed(i) << FracBits
}

// Int truncates toward negative infinity (arithmetic shift).
func (f Fixed) Int() int {
	return int(f >> FracBits)
}

// FixedMul multiplies two Fixed values through a widened intermediate,
// truncating toward the representable grid.
func FixedMul(a, b Fixed) Fixed {
	return Fixed(int64(a) * int64(b) >> FracBits)
}

// FixedDiv divides a by b, saturating when the quotient would not fit.
func FixedDiv(a, b Fixed) Fixed {
	if fixedAbs(a)>>14 >= fixedAbs(b) {
		if (a ^ b) < 0 {
			return FixedMin
		}
		return FixedMax
	}
	return Fixed((int64(a) << FracBits) / int64(b))
}

func fixedAbs(f Fixed) Fixed {
	if f < 0 {
		return -f
	}
	return f
}

// ApproxDistance returns the octagonal approximation of the length of
// (dx, dy): |dx| + |dy| - min(|dx|, |dy|)/2. Cheap, monotonic, and exact
// enough for range checks and speed clamping.
func ApproxDistance(dx, dy Fixed) Fixed {
	dx = fixedAbs(dx)
	dy = fixedAbs(dy)
	if dx < dy {
		return dx + dy - dx>>1
	}
	return dx + dy - dy>>1
}
