package gpu

// clampDt enforces a dt ceiling: a frame slower than 60fps is simulated
// as if it were exactly 1/60s, trading accuracy for stability rather
// than taking an unbounded MLS-MPM substep.
func clampDt(dtSeconds float64) float64 {
	const maxDt = 1.0 / 60.0
	if dtSeconds > maxDt {
		return maxDt
	}
	return dtSeconds
}

// effectiveDt applies the fixed 6x substep scale and the caller-tunable
// speed multiplier.
func effectiveDt(clampedDt float64, speed float32) float32 {
	return float32(clampedDt) * 6 * speed
}
