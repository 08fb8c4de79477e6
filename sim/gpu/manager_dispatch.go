package gpu

import "github.com/cogentcore/webgpu/wgpu"

const workgroupSize = 64

// workgroupCount returns the number of workgroups needed to cover count
// invocations at workgroupSize threads per group, the same ceil-div the
// engine's compression pass uses for its own 64-wide dispatches.
func workgroupCount(count uint32) uint32 {
	return (count + workgroupSize - 1) / workgroupSize
}

func dispatch(pass *wgpu.ComputePassEncoder, pipeline *wgpu.ComputePipeline, uniformsBG, dataBG *wgpu.BindGroup, count uint32) {
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, uniformsBG, nil)
	pass.SetBindGroup(1, dataBG, nil)
	pass.DispatchWorkgroups(workgroupCount(count), 1, 1)
}

// DispatchStep records one MLS-MPM frame's five kernels in order:
// clearGrid, p2g1, p2g2, updateGrid, g2p. All five share a single
// compute pass; WebGPU serializes dispatches within a pass on the same
// buffers, giving each kernel a consistent view of the previous one's
// writes.
func (m *Manager) DispatchStep(encoder *wgpu.CommandEncoder, numParticles uint32) {
	pass := encoder.BeginComputePass(nil)
	dispatch(pass, m.ClearGridPipeline, m.clearGridUniformsBG, m.clearGridDataBG, m.cellCount)
	dispatch(pass, m.P2G1Pipeline, m.p2g1UniformsBG, m.p2g1DataBG, numParticles)
	dispatch(pass, m.P2G2Pipeline, m.p2g2UniformsBG, m.p2g2DataBG, numParticles)
	dispatch(pass, m.UpdateGridPipeline, m.updateGridUniformsBG, m.updateGridDataBG, m.cellCount)
	dispatch(pass, m.G2PPipeline, m.g2pUniformsBG, m.g2pDataBG, numParticles)
	pass.End()
}

// DispatchReset records the resetParticles kernel, reseeding every
// particle in one pass.
func (m *Manager) DispatchReset(encoder *wgpu.CommandEncoder, numParticles uint32) {
	pass := encoder.BeginComputePass(nil)
	dispatch(pass, m.ResetParticlesPipeline, m.resetUniformsBG, m.resetDataBG, numParticles)
	pass.End()
}
