package impulse

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(rand.New(rand.NewSource(7)))
}

func TestApply_ReturnsActiveImpulseWithinWindow(t *testing.T) {
	m := newTestManager()
	slot, imp := m.Apply(64, 127, 400, 0, 64)

	require.GreaterOrEqual(t, slot, 0)
	require.Less(t, slot, MaxSlots)
	assert.True(t, imp.Active)
	assert.GreaterOrEqual(t, imp.EndMs, imp.StartMs)
	assert.Greater(t, imp.BaseStrength, float32(0))
	assert.Greater(t, imp.Radius, float32(0))
	for axis := 0; axis < 3; axis++ {
		assert.GreaterOrEqual(t, imp.Pos[axis], float32(1))
		assert.LessOrEqual(t, imp.Pos[axis], float32(63))
	}
}

// Fire 10 impulses back to back with durationMs=200. After the 10th
// call exactly 8 slots are in flight and the earliest two have been
// evicted.
func TestApply_PolyphonyEvictsOldestTwoAfterTen(t *testing.T) {
	m := newTestManager()
	now := 0.0
	var slots []int
	for i := 0; i < 10; i++ {
		slot, _ := m.Apply(60+i, 100, 200, now, 64)
		slots = append(slots, slot)
		now += 10 // calls arrive close together, well inside the 200ms window
	}

	assert.Equal(t, MaxSlots, m.ActiveCount(now))
	assert.True(t, m.HasActive(now))

	// The 9th and 10th calls reuse the slots of the 1st and 2nd.
	assert.Equal(t, slots[0], slots[8])
	assert.Equal(t, slots[1], slots[9])

	// All 8 physical slots should be occupied by some surviving impulse;
	// none should still be in its initial zero-value (inactive) state.
	for i := range m.slots {
		assert.True(t, m.slots[i].Active, "slot %d should have been (re)used", i)
	}
}

// An expired impulse decays to zero strength and no longer contributes
// force.
func TestAdvance_ExpiredImpulseMirrorsZeroStrength(t *testing.T) {
	m := newTestManager()
	_, imp := m.Apply(64, 127, 100, 0, 64)

	mirrorDuringWindow := m.Advance(50)
	activeSlot := -1
	for i, s := range mirrorDuringWindow {
		if s.Strength[0] != 0 {
			activeSlot = i
		}
	}
	require.NotEqual(t, -1, activeSlot, "expected one slot with nonzero strength mid-window")

	mirrorAfterExpiry := m.Advance(imp.EndMs + 1)
	for i, s := range mirrorAfterExpiry {
		assert.Equal(t, float32(0), s.Strength[0], "slot %d should have decayed to zero after expiry", i)
	}
	assert.False(t, m.HasActive(imp.EndMs+1))
}

func TestAdvance_FadeIsLinearAndMonotonicallyDecreasing(t *testing.T) {
	m := newTestManager()
	_, imp := m.Apply(64, 127, 400, 0, 64)

	span := imp.EndMs - imp.StartMs
	prevStrength := float32(1e9)
	for frac := 0.0; frac <= 1.0; frac += 0.1 {
		now := imp.StartMs + frac*span
		mirror := m.Advance(now)
		strength := mirror[slotOf(m, imp)].Strength[0]
		assert.LessOrEqual(t, strength, prevStrength+1e-6, "fade should be monotonically non-increasing")
		assert.InDelta(t, float64(imp.BaseStrength)*(1-frac), float64(strength), 1e-4, "fade should be linear in elapsed time")
		prevStrength = strength
	}
}

func slotOf(m *Manager, imp Impulse) int {
	for i, s := range m.slots {
		if s.StartMs == imp.StartMs && s.Pos == imp.Pos {
			return i
		}
	}
	return -1
}

func TestAllocateSlot_EvictsSmallestEndMsWhenFull(t *testing.T) {
	m := newTestManager()
	for i := 0; i < MaxSlots; i++ {
		m.Apply(i, 100, float64(100+i*50), 0, 64)
	}
	// Slot 0 has the smallest EndMs (100ms); the next Apply at t=0 should
	// evict it rather than any other slot.
	evicted, _ := m.Apply(1, 1, 1000, 0, 64)
	assert.Equal(t, 0, evicted)
}

func TestApply_AnnulusSamplingStaysNearPreviousCenterForShortRepeats(t *testing.T) {
	m := newTestManager()
	_, first := m.Apply(64, 100, 400, 0, 64)

	_, second := m.Apply(64, 100, 80, 1, 64) // durationMs < 150, prev center exists

	dx := second.Pos.X() - first.Pos.X()
	dz := second.Pos.Z() - first.Pos.Z()
	dist := dx*dx + dz*dz
	maxRadius := float32(64-2) * 0.45
	assert.LessOrEqual(t, dist, maxRadius*maxRadius*1.01)
}
