package gpu

import (
	"errors"
	"fmt"
)

// Error kinds a Simulator method can return. Wrapped with
// fmt.Errorf("...: %w", ...) at the call site rather than returned bare,
// so callers can still errors.Is against these sentinels.
var (
	// ErrAllocation covers GPU buffer/pipeline creation failures: out of
	// device memory, an unsupported buffer usage combination, or a failed
	// shader compile.
	ErrAllocation = errors.New("gpu: allocation failed")

	// ErrDeviceLost means the wgpu.Device reported a lost/invalid state
	// mid-step; the Simulator cannot continue without a fresh Init.
	ErrDeviceLost = errors.New("gpu: device lost")

	// ErrInvalidArgument covers caller-supplied values outside the valid
	// range: zero or negative grid size, MaxParticles/FixedPointMultiplier
	// overflow, out-of-range MIDI note/velocity.
	ErrInvalidArgument = errors.New("gpu: invalid argument")
)

func wrapInvalid(msg string) error {
	return fmt.Errorf("gpu: %s: %w", msg, ErrInvalidArgument)
}

func wrapInvalidf(format string, args ...any) error {
	return fmt.Errorf("gpu: %s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument)
}
