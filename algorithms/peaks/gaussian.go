package peaks

import "math"

// Defaults substituted when a peak's shape parameters are unset.
const (
	DefaultAmplitude = 1.0
	DefaultWidth     = 0.1 // eV
)

// fwhmToSigma converts the user-facing width (FWHM) to the Gaussian sigma,
// so that the curve at energy +- width/2 sits at half maximum.
var fwhmToSigma = 2.0 * math.Sqrt(2.0*math.Ln2)

// GaussianCurve evaluates amplitude * exp(-(e-energy)^2 / (2 sigma^2)) over
// the grid. The value at the center energy is exactly the amplitude.
// Non-positive amplitude or width fall back to the defaults.
func GaussianCurve(energy, amplitude, width float64, grid []float64) []float64 {
	if amplitude <= 0 || math.IsNaN(amplitude) {
		amplitude = DefaultAmplitude
	}
	if width <= 0 || math.IsNaN(width) {
		width = DefaultWidth
	}
	sigma := width / fwhmToSigma
	twoSigmaSq := 2.0 * sigma * sigma

	out := make([]float64, len(grid))
	for i, e := range grid {
		d := e - energy
		out[i] = amplitude * math.Exp(-(d*d)/twoSigmaSq)
	}
	return out
}

// Curve synthesizes the Gaussian for a peak record. Step pseudo-peaks have
// no Gaussian shape and yield nil.
func Curve(p Peak, grid []float64) []float64 {
	if p.IsStep {
		return nil
	}
	return GaussianCurve(p.Energy, p.Amplitude, p.Width, grid)
}

// Grid builds a dense n-point energy grid spanning [min, max], independent
// of the original sample spacing.
func Grid(min, max float64, n int) []float64 {
	if n <= 1 || min >= max {
		return []float64{min}
	}
	out := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	return out
}
