package core

import "github.com/go-gl/mathgl/mgl32"

// GravityType selects g2p.wgsl's external-force branch: a fixed vector,
// straight down, or inward-radial toward the grid center.
type GravityType uint32

const (
	GravityVector       GravityType = 0
	GravityDown         GravityType = 1
	GravityInwardRadial GravityType = 2
)

// MaxImpulses is the fixed polyphony of the impulse system.
const MaxImpulses = 8

// Uniforms mirrors the per-frame uniform block every kernel binds at
// group(0), byte-for-byte against the WGSL `Uniforms` struct in each
// kernel file. WGSL packs Stiffness into Gravity's vec3 tail slot
// (offset 28), so no pad follows Gravity; the one explicit pad here
// lands ImpulsePR on the 16-byte boundary WGSL rounds the vec4 array
// up to.
type Uniforms struct {
	Dt                   float32
	NumParticles         uint32
	GridSize             uint32
	GravityType          GravityType
	Gravity              mgl32.Vec3
	Stiffness            float32
	RestDensity          float32
	DynamicViscosity     float32
	Noise                float32
	HeatSpeedMin         float32
	HeatSpeedMax         float32
	WallThickness        float32
	FixedPointMultiplier float32
	_padImpulse          float32
	ImpulsePR            [MaxImpulses]mgl32.Vec4
	ImpulseS             [MaxImpulses]mgl32.Vec4
}

// UniformsLayout exposes field byte offsets for diagnostics/tests; no
// external consumer needs it since uniforms are host-owned and
// kernel-read only.
func UniformsLayout() BufferLayout { return BuildLayout[Uniforms]() }
