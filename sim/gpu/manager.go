// Package gpu owns every WebGPU resource the MLS-MPM simulator touches:
// particle/cell/uniform buffers, the six kernel pipelines, and the
// Simulator step scheduler that sequences them into one frame. One
// struct owns every *wgpu.Buffer/*wgpu.ComputePipeline, built up by
// small Create*/Dispatch* methods in sibling files.
package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/mlsmpm/sim/core"
)

// Manager owns the GPU-resident buffers and compute pipelines for one
// simulation instance. A fresh grid size or particle cap means a fresh
// Manager; buffers are never resized in place.
type Manager struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue

	MaxParticles uint32
	GridSize     uint32

	UniformsBuf   *wgpu.Buffer
	ParticlesBuf  *wgpu.Buffer
	CellsBuf      *wgpu.Buffer // atomic<i32> x4 per cell, accumulation target
	CellsFloatBuf *wgpu.Buffer // decoded vec4<f32> per cell, read by g2p

	ClearGridPipeline      *wgpu.ComputePipeline
	P2G1Pipeline           *wgpu.ComputePipeline
	P2G2Pipeline           *wgpu.ComputePipeline
	UpdateGridPipeline     *wgpu.ComputePipeline
	G2PPipeline            *wgpu.ComputePipeline
	ResetParticlesPipeline *wgpu.ComputePipeline

	clearGridUniformsBG  *wgpu.BindGroup
	clearGridDataBG      *wgpu.BindGroup
	p2g1UniformsBG       *wgpu.BindGroup
	p2g1DataBG           *wgpu.BindGroup
	p2g2UniformsBG       *wgpu.BindGroup
	p2g2DataBG           *wgpu.BindGroup
	updateGridUniformsBG *wgpu.BindGroup
	updateGridDataBG     *wgpu.BindGroup
	g2pUniformsBG        *wgpu.BindGroup
	g2pDataBG            *wgpu.BindGroup
	resetUniformsBG      *wgpu.BindGroup
	resetDataBG          *wgpu.BindGroup

	cellCount uint32
}

// NewManager allocates the fixed-size particle/cell/uniform buffers for a
// simulation of up to maxParticles particles over a gridSize^3 grid.
// Buffer sizes are derived from core's record layouts so the Go-side
// struct packing and the GPU buffer stride never drift apart.
func NewManager(device *wgpu.Device, maxParticles, gridSize uint32) (*Manager, error) {
	if maxParticles == 0 || gridSize == 0 {
		return nil, fmt.Errorf("gpu: maxParticles and gridSize must be positive: %w", ErrInvalidArgument)
	}

	m := &Manager{
		Device:       device,
		Queue:        device.GetQueue(),
		MaxParticles: maxParticles,
		GridSize:     gridSize,
		cellCount:    gridSize * gridSize * gridSize,
	}

	particleStride := core.ParticleLayout().Stride
	cellStride := core.CellLayout().Stride
	cellFloatStride := core.CellFloatLayout().Stride
	uniformsStride := core.UniformsLayout().Stride

	var err error
	m.ParticlesBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "mlsmpm particles",
		Size:  uint64(maxParticles) * particleStride,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create particles buffer: %w: %v", ErrAllocation, err)
	}

	m.CellsBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "mlsmpm cells (fixed point)",
		Size:  uint64(m.cellCount) * cellStride,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create cells buffer: %w: %v", ErrAllocation, err)
	}

	m.CellsFloatBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "mlsmpm cells (decoded)",
		Size:  uint64(m.cellCount) * cellFloatStride,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create cells-float buffer: %w: %v", ErrAllocation, err)
	}

	m.UniformsBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "mlsmpm uniforms",
		Size:  uniformsStride,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create uniforms buffer: %w: %v", ErrAllocation, err)
	}

	return m, nil
}

// WriteUniforms uploads one frame's Uniforms record. Called once per Step
// before the five kernels dispatch.
func (m *Manager) WriteUniforms(u core.Uniforms) {
	m.Queue.WriteBuffer(m.UniformsBuf, 0, core.Pack([]core.Uniforms{u}))
}

// WriteParticles uploads an initial or externally-reset particle set.
func (m *Manager) WriteParticles(particles []core.Particle) {
	m.Queue.WriteBuffer(m.ParticlesBuf, 0, core.Pack(particles))
}

// Release frees every GPU resource the manager owns. Safe to call once;
// the manager must not be used afterward.
func (m *Manager) Release() {
	for _, buf := range []*wgpu.Buffer{m.UniformsBuf, m.ParticlesBuf, m.CellsBuf, m.CellsFloatBuf} {
		if buf != nil {
			buf.Release()
		}
	}
	for _, p := range []*wgpu.ComputePipeline{
		m.ClearGridPipeline, m.P2G1Pipeline, m.P2G2Pipeline,
		m.UpdateGridPipeline, m.G2PPipeline, m.ResetParticlesPipeline,
	} {
		if p != nil {
			p.Release()
		}
	}
	for _, bg := range []*wgpu.BindGroup{
		m.clearGridUniformsBG, m.clearGridDataBG, m.p2g1UniformsBG, m.p2g1DataBG,
		m.p2g2UniformsBG, m.p2g2DataBG, m.updateGridUniformsBG, m.updateGridDataBG,
		m.g2pUniformsBG, m.g2pDataBG, m.resetUniformsBG, m.resetDataBG,
	} {
		if bg != nil {
			bg.Release()
		}
	}
}
