package color

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func TestFromHeat_StillParticleIsCoolBlue(t *testing.T) {
	// A still particle's color should equal HSL(0.66, 1, 0.35).
	c := FromHeat(0)
	if !(c.B > c.R && c.B > c.G) {
		t.Errorf("still-particle color %+v should be blue-dominant", c)
	}
	// Hand-computed HSL(0.66, 1, 0.35) -> linear RGB via the same branchless
	// formula, independent of FromHeat's internal wiring.
	want := RGB{R: 0.0, G: 0.028, B: 0.7}
	if !almostEqual(c.R, want.R, 0.01) || !almostEqual(c.G, want.G, 0.01) || !almostEqual(c.B, want.B, 0.01) {
		t.Errorf("FromHeat(0) = %+v, want approximately %+v", c, want)
	}
}

func TestFromHeat_FastParticleIsWarmRed(t *testing.T) {
	c := FromHeat(1)
	if !(c.R > c.B) {
		t.Errorf("fast-particle color %+v should be red-dominant", c)
	}
}

func TestHeat_ClampsToUnitRange(t *testing.T) {
	cases := []struct {
		move, min, max float32
	}{
		{-10, 0, 1},
		{0, 0, 1},
		{0.5, 0, 1},
		{1, 0, 1},
		{1000, 0, 1},
	}
	for _, c := range cases {
		h := Heat(c.move, c.min, c.max)
		if h < 0 || h > 1 {
			t.Errorf("Heat(%v, %v, %v) = %v, want in [0,1]", c.move, c.min, c.max, h)
		}
	}
}

func TestHeat_IsMonotonicInMove(t *testing.T) {
	prev := float32(-1)
	for move := float32(0); move <= 2; move += 0.05 {
		h := Heat(move, 0, 2)
		if h < prev {
			t.Fatalf("Heat not monotonic at move=%v: %v < %v", move, h, prev)
		}
		prev = h
	}
}

func TestHeat_DegenerateSpanDoesNotPanic(t *testing.T) {
	h := Heat(5, 1, 1) // heatSpeedMin == heatSpeedMax
	if h < 0 || h > 1 {
		t.Errorf("Heat with degenerate span = %v, want in [0,1]", h)
	}
}

func TestOf_MatchesFromHeatComposition(t *testing.T) {
	got := Of(2, 0.5, 0, 1)
	want := FromHeat(Heat(1.0, 0, 1))
	if got != want {
		t.Errorf("Of(2, 0.5, 0, 1) = %+v, want %+v", got, want)
	}
}
