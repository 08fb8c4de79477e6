package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Particle mirrors the WGSL `Particle` storage-buffer struct used by
// p2g1.wgsl, p2g2.wgsl and g2p.wgsl byte-for-byte:
//
//	struct Particle {
//	  position: vec3<f32>, mass: f32,
//	  velocity: vec3<f32>, density: f32,
//	  C: mat3x3<f32>,
//	  direction: vec3<f32>, _padDirection: f32,
//	  color: vec3<f32>, _padColor: f32,
//	}
//
// mat3x3<f32> is laid out by WGSL as three vec4-padded columns, so C below
// is a Mat3Padded, which carries one explicit pad per column.
type Particle struct {
	Position      mgl32.Vec3
	Mass          float32
	Velocity      mgl32.Vec3
	Density       float32
	C             Mat3Padded
	Direction     mgl32.Vec3
	_padDirection float32
	Color         mgl32.Vec3
	_padColor     float32
}

// Mat3Padded is mgl32.Mat3 (column-major 3x3) stored the way WGSL's
// mat3x3<f32> actually occupies memory: each column padded out to 16
// bytes. Plain mgl32.Mat3 packs tightly (36 bytes) and cannot be written
// directly into a buffer a WGSL kernel will read.
type Mat3Padded struct {
	Col0  mgl32.Vec3
	_pad0 float32
	Col1  mgl32.Vec3
	_pad1 float32
	Col2  mgl32.Vec3
	_pad2 float32
}

// ToMat3 returns the affine matrix as an mgl32.Mat3 (column-major) for
// host-side math.
func (m Mat3Padded) ToMat3() mgl32.Mat3 {
	return mgl32.Mat3{
		m.Col0[0], m.Col0[1], m.Col0[2],
		m.Col1[0], m.Col1[1], m.Col1[2],
		m.Col2[0], m.Col2[1], m.Col2[2],
	}
}

// Mat3PaddedFromMat3 packs an mgl32.Mat3 into the WGSL-compatible layout.
func Mat3PaddedFromMat3(m mgl32.Mat3) Mat3Padded {
	return Mat3Padded{
		Col0: mgl32.Vec3{m[0], m[1], m[2]},
		Col1: mgl32.Vec3{m[3], m[4], m[5]},
		Col2: mgl32.Vec3{m[6], m[7], m[8]},
	}
}

// ParticleLayout is the record layout external renderers use to build
// their own vertex/storage buffer views over the particle buffer without
// touching Simulator internals.
func ParticleLayout() BufferLayout {
	return BuildLayout[Particle]()
}

// insetFraction is the fraction of the grid's half-extent particles are
// seeded within: an inset cube, not flush against the grid walls.
const insetFraction = 0.95

// ResetParticle deterministically reseeds particle index i with the same
// hash and sampling formulas as the reset_particles.wgsl kernel, so the
// CPU seeding at Init and the GPU reset kernel place each particle at
// the same point up to float rounding differences between Go and WGSL.
func ResetParticle(i uint32, gridSize float32) Particle {
	hu := hashFloat(i, 0xA511E9B3)
	hv := hashFloat(i, 0x5C3B7E27)
	hr := hashFloat(i, 0x27D4EB2F)
	hj := hashFloat(i, 0x9E3779B1)
	hm := hashFloat(i, 0x85EBCA77)

	dir := sampleSphereDirection(hu, hv)
	radius := float32(math.Cbrt(float64(wrap01(hr + hj*0.5))))

	pos := dir.Mul(radius * insetFraction).Add(mgl32.Vec3{1, 1, 1}).Mul(0.5 * gridSize)

	return Particle{
		Position:  pos,
		Mass:      1 - hm*0.002,
		Direction: mgl32.Vec3{0, 0, 1},
	}
}

// sampleSphereDirection maps two uniform randoms to a point on the unit
// sphere (Marsaglia-style, 2-parameter form — no rejection sampling).
// Same formula as reset_particles.wgsl, z = 2u-1 included, so the two
// seeding paths only differ by float rounding.
func sampleSphereDirection(u, v float32) mgl32.Vec3 {
	z := 2*u - 1
	r := float32(math.Sqrt(math.Max(0, float64(1-z*z))))
	phi := 2 * math.Pi * float64(v)
	return mgl32.Vec3{r * float32(math.Cos(phi)), r * float32(math.Sin(phi)), z}
}

func wrap01(x float32) float32 {
	return x - float32(math.Floor(float64(x)))
}

// hashFloat derives a uniform-ish float32 in [0,1] from a particle index
// and a salt constant via hash(i*a+b) with distinct constants per call
// site. The mix is a standard 32-bit integer finalizer (same shape as
// murmur3/splitmix64's finalization step), chosen for its avalanche
// behavior, not for cryptographic strength.
func hashFloat(i uint32, salt uint32) float32 {
	x := i*0x9e3779b1 + salt
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return float32(x) / float32(math.MaxUint32)
}
