package peaks

import (
	"errors"
	"math"

	"github.com/maorshutman/lm"

	"github.com/carbonlab/nexafs-engine/spectrum"
)

// ErrInsufficientData reports too few samples for a three-parameter fit.
var ErrInsufficientData = errors.New("peaks: insufficient data for fit")

// FitResult is a refined Gaussian parameter set.
type FitResult struct {
	Energy    float64
	Amplitude float64
	Width     float64
	Residual  float64
	Converged bool
}

// RefineGaussian fits (energy, amplitude, width) of a peak's Gaussian to
// the measured series by Levenberg-Marquardt with a numeric Jacobian. The
// peak's current values seed the fit; unset shape parameters seed from the
// defaults. The solver can panic on singular systems, so it runs behind a
// recover and reports Converged=false instead.
func RefineGaussian(p Peak, points []spectrum.Point) (result FitResult, err error) {
	if len(points) < 4 {
		return FitResult{}, ErrInsufficientData
	}

	amplitude := p.Amplitude
	if amplitude <= 0 || math.IsNaN(amplitude) {
		amplitude = DefaultAmplitude
	}
	width := p.Width
	if width <= 0 || math.IsNaN(width) {
		width = DefaultWidth
	}

	energies := spectrum.Energies(points)
	observed := spectrum.Absorptions(points)

	fnc := func(dst, x []float64) {
		sigma := math.Abs(x[2]) / fwhmToSigma
		twoSigmaSq := 2.0 * sigma * sigma
		for i, e := range energies {
			d := e - x[0]
			dst[i] = x[1]*math.Exp(-(d*d)/twoSigmaSq) - observed[i]
		}
	}

	jac := lm.NumJac{Func: fnc}

	problem := lm.LMProblem{
		Dim:        3,
		Size:       len(points),
		Func:       fnc,
		Jac:        jac.Jac,
		InitParams: []float64{p.Energy, amplitude, width},
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}

	defer func() {
		if r := recover(); r != nil {
			result = FitResult{Energy: p.Energy, Amplitude: amplitude, Width: width, Converged: false}
			err = nil
		}
	}()

	res, lmErr := lm.LM(problem, &lm.Settings{Iterations: 200, ObjectiveTol: 1e-12})
	if lmErr != nil {
		return FitResult{Energy: p.Energy, Amplitude: amplitude, Width: width, Converged: false}, nil
	}

	residuals := make([]float64, len(points))
	fnc(residuals, res.X)
	sum := 0.0
	for _, r := range residuals {
		sum += r * r
	}

	return FitResult{
		Energy:    res.X[0],
		Amplitude: res.X[1],
		Width:     math.Abs(res.X[2]),
		Residual:  sum,
		Converged: true,
	}, nil
}
