// Package shaders embeds the WGSL compute kernels that make up one
// MLS-MPM step.
package shaders

import _ "embed"

//go:embed clear_grid.wgsl
var ClearGridWGSL string

//go:embed p2g1.wgsl
var P2G1WGSL string

//go:embed p2g2.wgsl
var P2G2WGSL string

//go:embed update_grid.wgsl
var UpdateGridWGSL string

//go:embed g2p.wgsl
var G2PWGSL string

//go:embed reset_particles.wgsl
var ResetParticlesWGSL string
