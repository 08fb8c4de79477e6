// Package impulse implements the host-side polyphonic impulse system: up
// to 8 concurrently decaying radial force fields that get mirrored into
// the simulator's uniform block every frame and consumed by the g2p
// kernel.
package impulse

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxSlots is the fixed impulse polyphony (8 concurrent slots).
const MaxSlots = 8

// Impulse is one host-side slot's state.
type Impulse struct {
	Active       bool
	StartMs      float64
	EndMs        float64
	BaseStrength float32
	Radius       float32
	Pos          mgl32.Vec3
}

// Slot mirrors one (impulsePR_i, impulseS_i) uniform pair g2p.wgsl reads.
// Strength's y/z/w lanes are unused, kept only so the WGSL side can bind
// a vec4 array without a separate scalar array.
type Slot struct {
	PosRadius [4]float32
	Strength  [4]float32
}

// Manager owns the fixed 8-slot ring and the "previous impulse center"
// used by the short-duration annulus sampling policy.
type Manager struct {
	slots       [MaxSlots]Impulse
	havePrevCtr bool
	prevCtr     mgl32.Vec3
	rng         *rand.Rand
}

// NewManager builds an impulse manager. Pass rng to make position
// sampling deterministic in tests; nil gets a new source seeded with 1.
func NewManager(rng *rand.Rand) *Manager {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Manager{rng: rng}
}

// Apply allocates a slot for a new impulse and returns its index and the
// resulting record. note and velocity are MIDI-style 0..127 values;
// durationMs and now are in milliseconds, with now being the same clock
// Simulator.Step receives.
func (m *Manager) Apply(note, velocity int, durationMs, now float64, gridSize float32) (int, Impulse) {
	v01 := float32(velocity) / 127
	note01 := float32(note) / 127
	boxRange := gridSize - 2

	var x, z float32
	if durationMs < 150 && m.havePrevCtr {
		proximity := float32(1 - durationMs/150)
		angle := m.rng.Float64() * 2 * math.Pi
		rMin := boxRange*0.15 + proximity*boxRange*0.05
		rMax := boxRange * 0.45
		radius := rMin + m.rng.Float32()*(rMax-rMin)
		x = m.prevCtr.X() + radius*float32(math.Cos(angle))
		z = m.prevCtr.Z() + radius*float32(math.Sin(angle))
	} else {
		x = 1 + m.rng.Float32()*boxRange
		z = 1 + m.rng.Float32()*boxRange
	}
	y := (note01*0.3+m.rng.Float32()*0.7)*boxRange + 1

	pos := mgl32.Vec3{
		clampf(x, 1, gridSize-1),
		clampf(y, 1, gridSize-1),
		clampf(z, 1, gridSize-1),
	}
	m.prevCtr = pos
	m.havePrevCtr = true

	durationScale := float32(1 / math.Sqrt(math.Max(durationMs/120, 1)))
	baseStrength := 14 * v01 * durationScale
	radius := float32(14 + math.Min(durationMs/120, 30))

	slot := m.allocateSlot(now)
	m.slots[slot] = Impulse{
		Active:       true,
		StartMs:      now,
		EndMs:        now + durationMs,
		BaseStrength: baseStrength,
		Radius:       radius,
		Pos:          pos,
	}
	return slot, m.slots[slot]
}

// allocateSlot picks the first expired slot, or the soonest-to-expire
// slot if all 8 are in flight.
func (m *Manager) allocateSlot(now float64) int {
	for i := range m.slots {
		if !m.slots[i].Active || now > m.slots[i].EndMs {
			return i
		}
	}
	evict := 0
	for i := 1; i < MaxSlots; i++ {
		if m.slots[i].EndMs < m.slots[evict].EndMs {
			evict = i
		}
	}
	return evict
}

// Advance computes the per-frame uniform mirror for every slot, applying
// the fade formula: expired or never-used slots mirror to zero strength,
// which the g2p guard (|s| > 1e-4) discards.
func (m *Manager) Advance(now float64) [MaxSlots]Slot {
	var out [MaxSlots]Slot
	for i := range m.slots {
		s := &m.slots[i]
		if !s.Active || now > s.EndMs {
			continue
		}
		fade := float32(1)
		if span := s.EndMs - s.StartMs; span > 0 {
			t := (now - s.StartMs) / span
			fade = float32(math.Max(0, 1-t))
		}
		out[i].PosRadius = [4]float32{s.Pos.X(), s.Pos.Y(), s.Pos.Z(), s.Radius}
		out[i].Strength = [4]float32{s.BaseStrength * fade, 0, 0, 0}
	}
	return out
}

// HasActive reports whether any slot is still contributing force at now.
func (m *Manager) HasActive(now float64) bool {
	return m.ActiveCount(now) > 0
}

// ActiveCount returns how many slots are still in flight at now,
// the sibling accessor to HasActive that returns a count instead of a bool.
func (m *Manager) ActiveCount(now float64) int {
	n := 0
	for _, s := range m.slots {
		if s.Active && now <= s.EndMs {
			n++
		}
	}
	return n
}

func clampf(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
