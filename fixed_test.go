package main

import "testing"

func TestFixedMul(t *testing.T) {
	cases := []struct {
		a, b, want Fixed
	}{
		{FixedFromInt(2), FixedFromInt(3), FixedFromInt(6)},
		{FixedFromInt(-2), FixedFromInt(3), FixedFromInt(-6)},
		{FracUnit / 2, FracUnit / 2, FracUnit / 4},
		{0, FixedMax, 0},
		{FracUnit, FixedFromInt(1234), FixedFromInt(1234)},
	}
	for _, c := range cases {
		if got := FixedMul(c.a, c.b); got != c.want {
			t.Errorf("FixedMul(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestFixedDiv(t *testing.T) {
	if got := FixedDiv(FixedFromInt(6), FixedFromInt(2)); got != FixedFromInt(3) {
		t.Errorf("6/2 = %d", got)
	}
	if got := FixedDiv(FracUnit/2, FixedFromInt(2)); got != FracUnit/4 {
		t.Errorf("0.5/2 = %d", got)
	}
	// Quotients that cannot fit saturate instead of overflowing.
	if got := FixedDiv(FixedMax, FracUnit/256); got != FixedMax {
		t.Errorf("positive overflow = %d, want FixedMax", got)
	}
	if got := FixedDiv(FixedMax, -(FracUnit / 256)); got != FixedMin {
		t.Errorf("negative overflow = %d, want FixedMin", got)
	}
}

func TestFixedIntFloors(t *testing.T) {
	cases := []struct {
		f    Fixed
		want int
	}{
		{FracUnit + FracUnit/2, 1},
		{-FracUnit - FracUnit/2, -2},
		{-1, -1}, // just below zero floors to -1
		{0, 0},
		{FracUnit - 1, 0},
	}
	for _, c := range cases {
		if got := c.f.Int(); got != c.want {
			t.Errorf("(%d).Int() = %d, want %d", c.f, got, c.want)
		}
	}
}

func TestApproxDistance(t *testing.T) {
	// |dx| + |dy| - min/2, exact in fixed point.
	got := ApproxDistance(FixedFromInt(3), FixedFromInt(4))
	want := FixedFromInt(3) + FixedFromInt(4) - FixedFromInt(3)/2
	if got != want {
		t.Errorf("ApproxDistance(3, 4) = %d, want %d", got, want)
	}
	if got := ApproxDistance(FixedFromInt(-3), FixedFromInt(4)); got != want {
		t.Errorf("sign handling: %d, want %d", got, want)
	}
	if got := ApproxDistance(0, 0); got != 0 {
		t.Errorf("zero distance = %d", got)
	}
	// Axis-aligned distances are exact.
	if got := ApproxDistance(FixedFromInt(7), 0); got != FixedFromInt(7) {
		t.Errorf("axis distance = %d", got)
	}
}
