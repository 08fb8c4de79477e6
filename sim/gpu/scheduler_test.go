package gpu

import (
	"math/rand"
	"testing"

	"github.com/gekko3d/mlsmpm/sim/core"
	"github.com/gekko3d/mlsmpm/sim/impulse"
)

// newTestSimulator builds a Simulator with no GPU resources, exercising
// only the host-side bookkeeping (impulse routing, numParticles
// staging, parameter storage) that doesn't touch s.mgr or s.device.
func newTestSimulator() *Simulator {
	return &Simulator{
		cfg:      Config{MaxParticles: 1024, GridSize: 64},
		params:   DefaultParameters(),
		logger:   NewNopLogger(),
		impulses: impulse.NewManager(rand.New(rand.NewSource(1))),
	}
}

func TestSetNumParticles_StagesUntilNextStep(t *testing.T) {
	s := newTestSimulator()
	s.numParticles = 1024

	if err := s.SetNumParticles(512); err != nil {
		t.Fatalf("SetNumParticles: %v", err)
	}
	if s.numParticles != 1024 {
		t.Errorf("numParticles changed before Step, got %d", s.numParticles)
	}
	if !s.numParticlesDirty {
		t.Error("expected numParticlesDirty to be set")
	}
}

func TestSetNumParticles_RejectsAboveMax(t *testing.T) {
	s := newTestSimulator()
	err := s.SetNumParticles(2000)
	if err == nil {
		t.Fatal("expected an error for numParticles > MaxParticles")
	}
}

func TestApplyImpulse_RejectsOutOfRangeNoteOrVelocity(t *testing.T) {
	s := newTestSimulator()
	if _, err := s.ApplyImpulse(128, 64, 400, 0); err == nil {
		t.Error("expected error for note=128")
	}
	if _, err := s.ApplyImpulse(64, -1, 400, 0); err == nil {
		t.Error("expected error for velocity=-1")
	}
}

func TestApplyImpulse_AndHasActiveImpulse(t *testing.T) {
	s := newTestSimulator()
	res, err := s.ApplyImpulse(64, 127, 400, 0)
	if err != nil {
		t.Fatalf("ApplyImpulse: %v", err)
	}
	if !s.HasActiveImpulse(0) {
		t.Error("expected an active impulse right after ApplyImpulse")
	}
	if s.ActiveImpulseCount(0) != 1 {
		t.Errorf("ActiveImpulseCount = %d, want 1", s.ActiveImpulseCount(0))
	}
	if s.HasActiveImpulse(res.EndMs + 1) {
		t.Error("impulse should have expired past its EndMs")
	}
}

func TestParticleLayout_MatchesCoreLayout(t *testing.T) {
	s := newTestSimulator()
	if s.ParticleLayout().Stride == 0 {
		t.Error("ParticleLayout().Stride should be nonzero")
	}
	got, want := s.ParticleLayout(), core.ParticleLayout()
	if got.Stride != want.Stride {
		t.Errorf("ParticleLayout().Stride = %d, want %d", got.Stride, want.Stride)
	}
	for _, field := range []string{"Position", "Color", "Direction"} {
		if got.Offset(field) != want.Offset(field) {
			t.Errorf("ParticleLayout().Offset(%q) = %d, want %d", field, got.Offset(field), want.Offset(field))
		}
	}
}
