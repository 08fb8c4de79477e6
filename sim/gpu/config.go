package gpu

import "github.com/gekko3d/mlsmpm/sim/core"

// resolveConfig fills in Config defaults and validates it: wall thickness
// and the fixed-point multiplier are both configurable, with the
// multiplier checked against accumulator overflow at init. Split out
// from Init so the validation logic is testable without a GPU device.
func resolveConfig(cfg Config) (Config, error) {
	if cfg.MaxParticles == 0 || cfg.GridSize == 0 {
		return cfg, wrapInvalid("MaxParticles and GridSize must be positive")
	}
	if cfg.WallThickness <= 0 {
		cfg.WallThickness = 1
	}
	if cfg.FixedPointMultiplier <= 0 {
		cfg.FixedPointMultiplier = core.DefaultFixedPointMultiplier
	}
	if cfg.MaxExpectedWeightedMomentum <= 0 {
		cfg.MaxExpectedWeightedMomentum = 50
	}
	if cfg.Logger == nil {
		cfg.Logger = NewNopLogger()
	}

	if !core.ValidateFixedPointHeadroom(int(cfg.MaxParticles), cfg.MaxExpectedWeightedMomentum, cfg.FixedPointMultiplier) {
		return cfg, wrapInvalidf("MaxParticles=%d at multiplier=%g would overflow the fixed-point accumulator",
			cfg.MaxParticles, cfg.FixedPointMultiplier)
	}
	return cfg, nil
}
