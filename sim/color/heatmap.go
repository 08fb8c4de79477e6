// Package color implements the motion-to-color heat-map mapping g2p.wgsl
// applies to every particle. It exists as a standalone, GPU-free package
// so the exact arithmetic can be unit tested without a device, and so
// the WGSL kernel's color stage can be hand-transcribed from (and
// checked against) a single source of truth.
package color

import "math"

// RGB is a linear-RGB color in [0,1]^3, the format Particle.Color stores.
type RGB struct {
	R, G, B float32
}

// Heat computes the smoothstep-and-power-biased heat scalar in [0,1] from
// a particle's per-step displacement magnitude. Biasing toward cool
// colors means a particle only reads "hot" under strong motion, not at
// the first hint of movement.
func Heat(moveMagnitude, heatSpeedMin, heatSpeedMax float32) float32 {
	var t0 float32
	if span := heatSpeedMax - heatSpeedMin; span != 0 {
		t0 = clamp01((moveMagnitude - heatSpeedMin) / span)
	}
	t := t0 * t0 * (3 - 2*t0) // smoothstep
	return clamp01(float32(math.Pow(float64(t), 1.8)))
}

// FromHeat converts a heat scalar to linear RGB via a branchless
// HSL->RGB formula: cool blue at rest, shifting toward warm red under
// motion.
func FromHeat(heat float32) RGB {
	hue := lerp(0.66, 0.0, heat)
	light := lerp(0.35, 0.55, heat)
	return hslToRGB(hue, 1.0, light)
}

// Of runs the full g2p heat-map pipeline: displacement magnitude,
// smoothstep/bias, HSL->RGB.
func Of(velocityMagnitude, dt, heatSpeedMin, heatSpeedMax float32) RGB {
	move := velocityMagnitude * dt
	return FromHeat(Heat(move, heatSpeedMin, heatSpeedMax))
}

func hslToRGB(hue, sat, light float32) RGB {
	c := (1 - abs32(2*light-1)) * sat
	offsets := [3]float32{0, 2.0 / 3.0, 1.0 / 3.0}
	var ch [3]float32
	for i, off := range offsets {
		hp := fract(hue+off) * 6
		base := clamp01(abs32(hp-3) - 1)
		ch[i] = clamp01((base-0.5)*c + light)
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func fract(x float32) float32 { return x - float32(math.Floor(float64(x))) }

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
