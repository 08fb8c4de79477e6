package gpu

import (
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/mlsmpm/sim/core"
	"github.com/gekko3d/mlsmpm/sim/impulse"
)

// Config configures a Simulator at construction time. Nothing here is
// read from a package-level variable; every tunable is either a Config
// field or a Parameters field passed to SetParameters.
type Config struct {
	MaxParticles uint32
	GridSize     uint32

	// WallThickness is the boundary layer, in cells, that updateGrid and
	// g2p treat as a stick wall. Defaults to 1 cell.
	WallThickness float32

	// FixedPointMultiplier is the grid accumulator's fixed-point scale
	// (M = 10^7 by default), validated against overflow at Init.
	FixedPointMultiplier float32

	// MaxExpectedWeightedMomentum bounds one particle's weighted momentum
	// contribution to a cell; Init validates MaxParticles times this value
	// against the accumulator's headroom. 50 is used when zero.
	MaxExpectedWeightedMomentum float32

	// Logger receives diagnostics; a no-op logger is used when nil.
	Logger Logger
}

// Parameters are the tunables SetParameters replaces wholesale each call.
type Parameters struct {
	GravityType      core.GravityType
	Gravity          mgl32.Vec3
	Stiffness        float32
	RestDensity      float32
	DynamicViscosity float32
	Noise            float32
	// Speed scales effectiveDt beyond the fixed 6x substep factor.
	Speed        float32
	HeatSpeedMin float32
	HeatSpeedMax float32
}

// DefaultParameters returns a reasonable starting Parameters set: vector
// gravity pointing down, moderate stiffness/viscosity, speed 1.
func DefaultParameters() Parameters {
	return Parameters{
		GravityType:      core.GravityVector,
		Gravity:          mgl32.Vec3{0, -9.8, 0},
		Stiffness:        3,
		RestDensity:      4,
		DynamicViscosity: 0.1,
		Noise:            0,
		Speed:            1,
		HeatSpeedMin:     0,
		HeatSpeedMax:     6,
	}
}

// ImpulseResult mirrors what ApplyImpulse reports back to the caller.
type ImpulseResult struct {
	Slot         int
	StartMs      float64
	EndMs        float64
	BaseStrength float32
	Radius       float32
	Pos          mgl32.Vec3
}

// Simulator is the host-side step scheduler: it owns a Manager's GPU
// resources and an impulse.Manager, and exposes the simulator's external
// API.
type Simulator struct {
	device *wgpu.Device
	mgr    *Manager
	logger Logger
	cfg    Config
	params Parameters

	impulses *impulse.Manager

	numParticles        uint32
	pendingNumParticles uint32
	numParticlesDirty   bool
}

// Init allocates GPU buffers, compiles kernels, and seeds the particle
// buffer. By default every particle in MaxParticles is considered
// active until SetNumParticles says otherwise.
func Init(device *wgpu.Device, cfg Config) (*Simulator, error) {
	cfg, err := resolveConfig(cfg)
	if err != nil {
		return nil, err
	}

	mgr, err := NewManager(device, cfg.MaxParticles, cfg.GridSize)
	if err != nil {
		return nil, err
	}
	if err := mgr.CreatePipelines(); err != nil {
		mgr.Release()
		return nil, err
	}

	particles := make([]core.Particle, cfg.MaxParticles)
	for i := range particles {
		particles[i] = core.ResetParticle(uint32(i), float32(cfg.GridSize))
	}
	mgr.WriteParticles(particles)

	s := &Simulator{
		device:       device,
		mgr:          mgr,
		logger:       cfg.Logger,
		cfg:          cfg,
		params:       DefaultParameters(),
		impulses:     impulse.NewManager(nil),
		numParticles: cfg.MaxParticles,
	}
	s.logger.Infof("simulator initialized: maxParticles=%d gridSize=%d", cfg.MaxParticles, cfg.GridSize)
	return s, nil
}

// Step runs one MLS-MPM frame. dtSeconds is the raw frame delta; nowMs
// is the same millisecond clock ApplyImpulse uses.
func (s *Simulator) Step(dtSeconds float64, nowMs float64) error {
	if math.IsNaN(dtSeconds) || math.IsInf(dtSeconds, 0) {
		return fmt.Errorf("gpu: dt is not finite: %w", ErrInvalidArgument)
	}

	dt := clampDt(dtSeconds)
	dtForUniform := effectiveDt(dt, s.params.Speed)

	if s.numParticlesDirty {
		s.numParticles = s.pendingNumParticles
		s.numParticlesDirty = false
		s.logger.Debugf("numParticles changed to %d, dispatch counts updated", s.numParticles)
	}

	slots := s.impulses.Advance(nowMs)
	var impulsePR, impulseS [impulse.MaxSlots]mgl32.Vec4
	for i, slot := range slots {
		impulsePR[i] = mgl32.Vec4{slot.PosRadius[0], slot.PosRadius[1], slot.PosRadius[2], slot.PosRadius[3]}
		impulseS[i] = mgl32.Vec4{slot.Strength[0], slot.Strength[1], slot.Strength[2], slot.Strength[3]}
	}

	u := s.frameUniforms(dtForUniform)
	u.ImpulsePR = impulsePR
	u.ImpulseS = impulseS
	s.mgr.WriteUniforms(u)

	encoder, err := s.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w: %v", ErrDeviceLost, err)
	}
	s.mgr.DispatchStep(encoder, s.numParticles)

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("gpu: finish command buffer: %w: %v", ErrDeviceLost, err)
	}
	s.mgr.Queue.Submit(cmdBuf)
	s.device.Poll(true, nil)
	return nil
}

// frameUniforms assembles the uniform block from the current Config and
// Parameters; impulse mirrors start zeroed and are filled in by Step.
func (s *Simulator) frameUniforms(dt float32) core.Uniforms {
	return core.Uniforms{
		Dt:                   dt,
		NumParticles:         s.numParticles,
		GridSize:             s.cfg.GridSize,
		GravityType:          s.params.GravityType,
		Gravity:              s.params.Gravity,
		Stiffness:            s.params.Stiffness,
		RestDensity:          s.params.RestDensity,
		DynamicViscosity:     s.params.DynamicViscosity,
		Noise:                s.params.Noise,
		HeatSpeedMin:         s.params.HeatSpeedMin,
		HeatSpeedMax:         s.params.HeatSpeedMax,
		WallThickness:        s.cfg.WallThickness,
		FixedPointMultiplier: s.cfg.FixedPointMultiplier,
	}
}

// Reset re-seeds every particle and wipes residual grid momentum:
// resetParticles, then clearGrid twice. Uniforms are pushed first so the
// kernels see the right grid size even if Step has never run.
func (s *Simulator) Reset() error {
	s.mgr.WriteUniforms(s.frameUniforms(0))

	encoder, err := s.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w: %v", ErrDeviceLost, err)
	}
	s.mgr.DispatchReset(encoder, s.cfg.MaxParticles)

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("gpu: finish reset command buffer: %w: %v", ErrDeviceLost, err)
	}
	s.mgr.Queue.Submit(cmdBuf)

	for i := 0; i < 2; i++ {
		encoder, err := s.device.CreateCommandEncoder(nil)
		if err != nil {
			return fmt.Errorf("gpu: create command encoder: %w: %v", ErrDeviceLost, err)
		}
		pass := encoder.BeginComputePass(nil)
		dispatch(pass, s.mgr.ClearGridPipeline, s.mgr.clearGridUniformsBG, s.mgr.clearGridDataBG, s.mgr.cellCount)
		pass.End()

		cmdBuf, err := encoder.Finish(nil)
		if err != nil {
			return fmt.Errorf("gpu: finish clearGrid command buffer: %w: %v", ErrDeviceLost, err)
		}
		s.mgr.Queue.Submit(cmdBuf)
	}
	s.device.Poll(true, nil)
	return nil
}

// SetNumParticles changes the active particle count; it takes effect on
// the next Step.
func (s *Simulator) SetNumParticles(n uint32) error {
	if n > s.cfg.MaxParticles {
		return fmt.Errorf("gpu: numParticles %d exceeds MaxParticles %d: %w", n, s.cfg.MaxParticles, ErrInvalidArgument)
	}
	s.pendingNumParticles = n
	s.numParticlesDirty = true
	return nil
}

// SetParameters replaces the tunable parameter set wholesale.
func (s *Simulator) SetParameters(p Parameters) {
	s.params = p
}

// ApplyImpulse injects a new decaying radial force. note and velocity
// are MIDI-style 0..127 values.
func (s *Simulator) ApplyImpulse(note, velocity int, durationMs, nowMs float64) (ImpulseResult, error) {
	if note < 0 || note > 127 || velocity < 0 || velocity > 127 {
		return ImpulseResult{}, fmt.Errorf("gpu: note/velocity must be in [0,127]: %w", ErrInvalidArgument)
	}
	slot, imp := s.impulses.Apply(note, velocity, durationMs, nowMs, float32(s.cfg.GridSize))
	s.logger.Debugf("impulse applied to slot %d (note=%d velocity=%d durationMs=%g)", slot, note, velocity, durationMs)
	return ImpulseResult{
		Slot:         slot,
		StartMs:      imp.StartMs,
		EndMs:        imp.EndMs,
		BaseStrength: imp.BaseStrength,
		Radius:       imp.Radius,
		Pos:          imp.Pos,
	}, nil
}

// HasActiveImpulse reports whether any impulse slot is still in flight
// at nowMs.
func (s *Simulator) HasActiveImpulse(nowMs float64) bool {
	return s.impulses.HasActive(nowMs)
}

// ActiveImpulseCount returns how many impulse slots are in flight at
// nowMs.
func (s *Simulator) ActiveImpulseCount(nowMs float64) int {
	return s.impulses.ActiveCount(nowMs)
}

// ParticleLayout exposes the particle record's byte layout so external
// renderers can build their own buffer views without touching Simulator
// internals.
func (s *Simulator) ParticleLayout() core.BufferLayout {
	return core.ParticleLayout()
}

// ParticlesBuffer returns the read-only GPU handle renderers bind as a
// vertex/storage buffer.
func (s *Simulator) ParticlesBuffer() *wgpu.Buffer {
	return s.mgr.ParticlesBuf
}

// Release frees every GPU resource owned by the simulator.
func (s *Simulator) Release() {
	s.mgr.Release()
}
