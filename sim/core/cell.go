package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Cell is the atomic fixed-point grid-node record p2g1.wgsl/p2g2.wgsl
// accumulate into and clear_grid.wgsl zeroes every frame:
//
//	struct Cell { x: atomic<i32>, y: atomic<i32>, z: atomic<i32>, mass: atomic<i32> }
type Cell struct {
	X    int32
	Y    int32
	Z    int32
	Mass int32
}

// CellFloat is the decoded velocity+mass cell buffer update_grid.wgsl
// writes and g2p.wgsl reads — a flat vec4<f32> per cell.
type CellFloat struct {
	Velocity mgl32.Vec3
	Mass     float32
}

// CellLayout/CellFloatLayout are exposed for parity with ParticleLayout,
// though no external consumer needs the grid's layout today — kernels are
// the only readers/writers of cell buffers; only the particle buffer is
// a renderer-facing handle.
func CellLayout() BufferLayout      { return BuildLayout[Cell]() }
func CellFloatLayout() BufferLayout { return BuildLayout[CellFloat]() }

// Encode fixed-point-encodes f for atomic accumulation: round(f*multiplier).
// multiplier is a Config field, default 1e7, rather than a hard constant,
// so callers can tune headroom against maxParticles and expected per-cell
// weighted momentum.
func Encode(f float32, multiplier float32) int32 {
	return int32(math.Round(float64(f * multiplier)))
}

// Decode reverses Encode: i/multiplier.
func Decode(i int32, multiplier float32) float32 {
	return float32(i) / multiplier
}

// DefaultFixedPointMultiplier is the Config default: M = 10^7.
const DefaultFixedPointMultiplier float32 = 1e7

// ValidateFixedPointHeadroom checks the accumulator headroom invariant:
// maxParticles * maxExpectedWeightedMomentum < 2^31 / multiplier. Returns
// false if the configured multiplier could let per-cell atomic
// accumulation overflow a signed 32-bit integer for the given particle
// count and expected per-particle weighted momentum contribution.
func ValidateFixedPointHeadroom(maxParticles int, maxExpectedWeightedMomentum, multiplier float32) bool {
	if multiplier <= 0 {
		return false
	}
	limit := float64(math.MaxInt32) / float64(multiplier)
	return float64(maxParticles)*float64(maxExpectedWeightedMomentum) < limit
}
