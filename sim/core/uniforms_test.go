package core

import "testing"

// WGSL packs stiffness into gravity's vec3 tail slot and rounds the vec4
// arrays up to a 16-byte boundary; pin those offsets so the Go mirror
// can't silently drift from the shader-side layout.
func TestUniformsLayout_MatchesWGSLPacking(t *testing.T) {
	l := UniformsLayout()
	cases := []struct {
		field string
		want  uint64
	}{
		{"Dt", 0},
		{"NumParticles", 4},
		{"GridSize", 8},
		{"GravityType", 12},
		{"Gravity", 16},
		{"Stiffness", 28},
		{"RestDensity", 32},
		{"DynamicViscosity", 36},
		{"Noise", 40},
		{"HeatSpeedMin", 44},
		{"HeatSpeedMax", 48},
		{"WallThickness", 52},
		{"FixedPointMultiplier", 56},
		{"ImpulsePR", 64},
		{"ImpulseS", 192},
	}
	for _, c := range cases {
		if got := l.Offset(c.field); got != c.want {
			t.Errorf("%s offset = %d, want %d", c.field, got, c.want)
		}
	}
	if l.Stride != 320 {
		t.Errorf("Uniforms stride = %d, want 320", l.Stride)
	}
}

func TestPack_UniformsIncludesUnexportedPadding(t *testing.T) {
	b := Pack([]Uniforms{{Dt: 0.016}})
	if got, want := len(b), int(UniformsLayout().Stride); got != want {
		t.Errorf("packed uniforms length = %d, want %d", got, want)
	}
}
