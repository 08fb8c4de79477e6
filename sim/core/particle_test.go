package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	// decode(encode(f)) should equal round(f*1e7)/1e7, max abs error <= 5e-8 for |f|<100.
	values := []float32{0, 1, -1, 0.12345678, 99.999, -99.999, 1e-6}
	for _, f := range values {
		enc := Encode(f, DefaultFixedPointMultiplier)
		dec := Decode(enc, DefaultFixedPointMultiplier)
		want := float32(math.Round(float64(f)*float64(DefaultFixedPointMultiplier)) / float64(DefaultFixedPointMultiplier))
		if diff := math.Abs(float64(dec - want)); diff > 5e-8 {
			t.Errorf("decode(encode(%v)) = %v, want %v (diff %v)", f, dec, want, diff)
		}
	}
}

func TestValidateFixedPointHeadroom(t *testing.T) {
	if !ValidateFixedPointHeadroom(160_000, 30, DefaultFixedPointMultiplier) {
		t.Errorf("expected headroom to be sufficient for 160k particles at default multiplier")
	}
	if ValidateFixedPointHeadroom(160_000, 30, 1e12) {
		t.Errorf("expected headroom check to fail for an absurdly large multiplier")
	}
}

func TestResetParticle_Deterministic(t *testing.T) {
	a := ResetParticle(42, 64)
	b := ResetParticle(42, 64)
	if a.Position != b.Position || a.Mass != b.Mass || a.Direction != b.Direction {
		t.Errorf("ResetParticle(42, 64) is not deterministic: %+v vs %+v", a, b)
	}
}

func TestResetParticle_DistinctIndicesDiffer(t *testing.T) {
	a := ResetParticle(0, 64)
	b := ResetParticle(1, 64)
	if a.Position == b.Position {
		t.Errorf("expected distinct particle indices to seed distinct positions")
	}
}

func TestResetParticle_StaysInsetOfGrid(t *testing.T) {
	const gridSize = 64
	for i := uint32(0); i < 2000; i++ {
		p := ResetParticle(i, gridSize)
		for axis := 0; axis < 3; axis++ {
			if p.Position[axis] < 1.0 || p.Position[axis] > gridSize-1.001 {
				t.Fatalf("particle %d position[%d] = %v out of wall bounds", i, axis, p.Position[axis])
			}
		}
		if p.Mass <= 0 {
			t.Fatalf("particle %d mass = %v, want > 0", i, p.Mass)
		}
		if p.Density != 0 {
			t.Fatalf("particle %d density = %v, want 0 immediately after reset", i, p.Density)
		}
	}
}

func TestResetParticle_InitialDirectionIsForward(t *testing.T) {
	p := ResetParticle(7, 64)
	if p.Direction != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("Direction = %v, want (0,0,1)", p.Direction)
	}
}
