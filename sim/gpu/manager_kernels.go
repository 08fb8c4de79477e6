package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/mlsmpm/sim/shaders"
)

// CreatePipelines compiles the six kernels and wires their bind groups.
// Grouped as one call (rather than six public methods, unlike the
// engine's per-pass CreateXPipeline split) because every kernel in this
// module shares the same two-group layout: group(0) uniforms, group(1)
// storage buffers.
func (m *Manager) CreatePipelines() error {
	type kernel struct {
		label      string
		code       string
		entryPoint string
		pipeline   **wgpu.ComputePipeline
	}

	kernels := []kernel{
		{"clearGrid", shaders.ClearGridWGSL, "clear_grid", &m.ClearGridPipeline},
		{"p2g1", shaders.P2G1WGSL, "p2g1", &m.P2G1Pipeline},
		{"p2g2", shaders.P2G2WGSL, "p2g2", &m.P2G2Pipeline},
		{"updateGrid", shaders.UpdateGridWGSL, "update_grid", &m.UpdateGridPipeline},
		{"g2p", shaders.G2PWGSL, "g2p", &m.G2PPipeline},
		{"resetParticles", shaders.ResetParticlesWGSL, "reset_particles", &m.ResetParticlesPipeline},
	}

	for _, k := range kernels {
		module, err := m.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label:          k.label + " module",
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: k.code},
		})
		if err != nil {
			return fmt.Errorf("gpu: compile %s shader: %w: %v", k.label, ErrAllocation, err)
		}

		pipeline, err := m.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
			Label: k.label + " pipeline",
			Compute: wgpu.ProgrammableStageDescriptor{
				Module:     module,
				EntryPoint: k.entryPoint,
			},
		})
		module.Release()
		if err != nil {
			return fmt.Errorf("gpu: create %s pipeline: %w: %v", k.label, ErrAllocation, err)
		}
		*k.pipeline = pipeline
	}

	return m.createBindGroups()
}

func (m *Manager) createBindGroups() error {
	uniformsEntry := func(pipeline *wgpu.ComputePipeline) (*wgpu.BindGroup, error) {
		return m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Layout: pipeline.GetBindGroupLayout(0),
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: m.UniformsBuf, Size: wgpu.WholeSize},
			},
		})
	}

	var err error

	m.clearGridUniformsBG, err = uniformsEntry(m.ClearGridPipeline)
	if err != nil {
		return fmt.Errorf("gpu: clearGrid uniforms bind group: %w: %v", ErrAllocation, err)
	}
	m.clearGridDataBG, err = m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: m.ClearGridPipeline.GetBindGroupLayout(1),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: m.CellsBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: m.CellsFloatBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: clearGrid data bind group: %w: %v", ErrAllocation, err)
	}

	m.p2g1UniformsBG, err = uniformsEntry(m.P2G1Pipeline)
	if err != nil {
		return fmt.Errorf("gpu: p2g1 uniforms bind group: %w: %v", ErrAllocation, err)
	}
	m.p2g1DataBG, err = m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: m.P2G1Pipeline.GetBindGroupLayout(1),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: m.ParticlesBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: m.CellsBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: p2g1 data bind group: %w: %v", ErrAllocation, err)
	}

	m.p2g2UniformsBG, err = uniformsEntry(m.P2G2Pipeline)
	if err != nil {
		return fmt.Errorf("gpu: p2g2 uniforms bind group: %w: %v", ErrAllocation, err)
	}
	m.p2g2DataBG, err = m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: m.P2G2Pipeline.GetBindGroupLayout(1),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: m.ParticlesBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: m.CellsBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: p2g2 data bind group: %w: %v", ErrAllocation, err)
	}

	m.updateGridUniformsBG, err = uniformsEntry(m.UpdateGridPipeline)
	if err != nil {
		return fmt.Errorf("gpu: updateGrid uniforms bind group: %w: %v", ErrAllocation, err)
	}
	m.updateGridDataBG, err = m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: m.UpdateGridPipeline.GetBindGroupLayout(1),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: m.CellsBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: m.CellsFloatBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: updateGrid data bind group: %w: %v", ErrAllocation, err)
	}

	m.g2pUniformsBG, err = uniformsEntry(m.G2PPipeline)
	if err != nil {
		return fmt.Errorf("gpu: g2p uniforms bind group: %w: %v", ErrAllocation, err)
	}
	m.g2pDataBG, err = m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: m.G2PPipeline.GetBindGroupLayout(1),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: m.ParticlesBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: m.CellsFloatBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: g2p data bind group: %w: %v", ErrAllocation, err)
	}

	m.resetUniformsBG, err = uniformsEntry(m.ResetParticlesPipeline)
	if err != nil {
		return fmt.Errorf("gpu: resetParticles uniforms bind group: %w: %v", ErrAllocation, err)
	}
	m.resetDataBG, err = m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: m.ResetParticlesPipeline.GetBindGroupLayout(1),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: m.ParticlesBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: resetParticles data bind group: %w: %v", ErrAllocation, err)
	}

	return nil
}
