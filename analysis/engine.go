// Package analysis is the orchestration facade over the spectral engine:
// one Engine wires the bare-atom calculator, normalization, peak list and
// difference spectra behind the API the UI layer consumes.
package analysis

import (
	"context"
	"math"
	"sync"

	"github.com/carbonlab/nexafs-engine/algorithms/bareatom"
	"github.com/carbonlab/nexafs-engine/algorithms/difference"
	"github.com/carbonlab/nexafs-engine/algorithms/normalize"
	"github.com/carbonlab/nexafs-engine/algorithms/peaks"
	"github.com/carbonlab/nexafs-engine/logging"
	"github.com/carbonlab/nexafs-engine/spectrum"
)

// Engine bundles the analysis components for one spectrum under curation.
// All numeric passes are pure; the mutable state is the peak list
// (mutex-guarded), the element cache inside the calculator and the last
// normalization result, so one engine is safe for concurrent use.
type Engine struct {
	config     *Config
	calculator *bareatom.Calculator
	normalizer *normalize.Engine
	peakList   *peaks.List
	logger     logging.Logger

	mu         sync.Mutex
	lastResult *normalize.Result
}

// NewEngine creates an engine from the given configuration. A nil config
// uses DefaultConfig.
func NewEngine(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}

	logger := logging.WithFields(logging.Fields{
		"component": "analysis_engine",
	})

	return &Engine{
		config:     config,
		calculator: bareatom.NewCalculator(config.Table),
		normalizer: normalize.NewEngine(config.NormalizationMode),
		peakList:   peaks.NewList(),
		logger:     logger,
	}
}

// PeakList exposes the engine's ordered peak collection.
func (e *Engine) PeakList() *peaks.List {
	return e.peakList
}

// BareAtom computes the bare-atom reference curve for a formula over the
// spectrum's energy grid.
func (e *Engine) BareAtom(ctx context.Context, formula string, points []spectrum.Point) ([]spectrum.BareAtomPoint, error) {
	curve, err := e.calculator.Calculate(ctx, formula, points)
	if err != nil {
		e.logger.Error(err, "bare-atom calculation failed", logging.Fields{"formula": formula})
		return nil, err
	}
	return curve, nil
}

// Normalize recomputes the normalization. A nil return means "not yet
// normalizable" (missing regions, empty selections or degenerate edges).
// When the result equals the previous one the previous instance is returned
// so downstream consumers can suppress redundant updates by identity.
func (e *Engine) Normalize(raw []spectrum.Point, bare []spectrum.BareAtomPoint, regions normalize.Regions) *normalize.Result {
	result := e.normalizer.Compute(raw, bare, regions)
	if result == nil {
		return nil
	}

	e.mu.Lock()
	if result.Equal(e.lastResult) {
		prev := e.lastResult
		e.mu.Unlock()
		return prev
	}
	e.lastResult = result
	e.mu.Unlock()

	e.logger.Debug("normalization recomputed", logging.Fields{
		"scale":  result.Scale,
		"offset": result.Offset,
		"points": len(result.Points),
	})
	return result
}

// DetectPeaks runs auto-detection on the series, optionally restricted to a
// geometry target, and replaces the auto subset of the peak list. Manual
// peaks survive re-runs. The replacement auto peaks are returned.
func (e *Engine) DetectPeaks(points []spectrum.Point, target spectrum.Target, opts *peaks.Options) []peaks.Peak {
	series := spectrum.FilterByGeometry(points, target)

	options := e.config.Detection
	if opts != nil {
		options = *opts
	}

	raw := peaks.Detect(series, options)
	added := e.peakList.ReplaceAuto(raw)
	e.logger.Debug("auto-detection completed", logging.Fields{
		"candidates": len(raw),
		"peaks":      e.peakList.Len(),
	})
	return added
}

// AddPeak inserts a manual peak at the given energy. When amplitude is
// unset it is estimated from the nearest point of the active (possibly
// geometry-filtered) series.
func (e *Engine) AddPeak(points []spectrum.Point, target spectrum.Target, energy float64, bond, transition string, amplitude, width float64) (peaks.Peak, error) {
	if amplitude <= 0 || math.IsNaN(amplitude) {
		series := spectrum.FilterByGeometry(points, target)
		if est := peaks.EstimateAmplitude(series, energy); !math.IsNaN(est) {
			amplitude = est
		}
	}
	return e.peakList.Add(peaks.Peak{
		Energy:     energy,
		Amplitude:  amplitude,
		Width:      width,
		Bond:       bond,
		Transition: transition,
	})
}

// UpdatePeakEnergy moves a peak; the list re-sorts and notifies any
// registered annotation tracker.
func (e *Engine) UpdatePeakEnergy(id string, energy float64) error {
	return e.peakList.UpdateEnergy(id, energy)
}

// DifferenceSpectra computes the difference family along an axis.
func (e *Engine) DifferenceSpectra(points []spectrum.Point, axis difference.Axis) []difference.Spectrum {
	return difference.Calculate(points, axis)
}

// PeakCurves synthesizes a Gaussian curve per non-step peak over a dense
// grid spanning [minEnergy, maxEnergy].
func (e *Engine) PeakCurves(minEnergy, maxEnergy float64) ([]float64, map[string][]float64) {
	grid := peaks.Grid(minEnergy, maxEnergy, e.config.CurvePoints)
	curves := make(map[string][]float64)
	for _, p := range e.peakList.Peaks() {
		if curve := peaks.Curve(p, grid); curve != nil {
			curves[p.ID] = curve
		}
	}
	return grid, curves
}

// RefinePeak fits a peak's Gaussian parameters to the measured series and
// stores the refined shape on success.
func (e *Engine) RefinePeak(id string, points []spectrum.Point) (peaks.FitResult, error) {
	p, ok := e.peakList.Get(id)
	if !ok {
		return peaks.FitResult{}, peaks.ErrPeakNotFound
	}

	fit, err := peaks.RefineGaussian(p, points)
	if err != nil {
		return peaks.FitResult{}, err
	}
	if fit.Converged {
		if err := e.peakList.UpdateShape(id, fit.Amplitude, fit.Width); err != nil {
			return peaks.FitResult{}, err
		}
		if err := e.peakList.UpdateEnergy(id, fit.Energy); err != nil {
			return peaks.FitResult{}, err
		}
	}
	return fit, nil
}
