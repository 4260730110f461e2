// Package peaks detects and models absorption peaks in NEXAFS spectra:
// prominence-based local-maximum detection, an ordered annotatable peak
// list, Gaussian curve synthesis and Levenberg-Marquardt refinement.
package peaks

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/carbonlab/nexafs-engine/algorithms/common"
	"github.com/carbonlab/nexafs-engine/spectrum"
)

// DefaultMinProminence is the prominence threshold applied when Options
// leaves MinProminence at its zero value, as a fraction of the series' max
// absorption.
const DefaultMinProminence = 0.05

// Options tunes peak detection. Filters activate only when their value is
// positive, except MinProminence: zero means DefaultMinProminence and a
// negative value disables the prominence filter.
type Options struct {
	// MinProminence is a fraction of the series' maximum absorption.
	MinProminence float64 `json:"min_prominence"`
	// MinDistance is the minimum energy separation between accepted peaks
	// in eV. Close clusters resolve by prominence, not position.
	MinDistance float64 `json:"min_distance"`
	// Height is an absolute absorption floor for accepted peaks.
	Height float64 `json:"height"`
	// Threshold is the minimum drop from a peak to its immediate neighbors.
	Threshold float64 `json:"threshold"`
	// Width is the minimum peak extent in eV, measured at half prominence.
	// It also seeds Width on peaks created from the surviving detections.
	Width float64 `json:"width"`
	// SmoothWindow applies a moving-average prefilter of this many samples
	// before the candidate search. Amplitudes still come from the raw
	// series.
	SmoothWindow int `json:"smooth_window"`
}

// RawPeak is one detected local maximum before conversion to an
// annotatable peak record.
type RawPeak struct {
	Index      int
	Energy     float64
	Absorption float64
	Prominence float64
	// Width carries the detection's width estimate (Options.Width) into the
	// converted peak record; zero means unset.
	Width float64
}

// Detect finds local absorption maxima in a series ordered by energy.
// Empty or too-short input returns an empty slice. Results ascend in
// energy.
func Detect(points []spectrum.Point, opts Options) []RawPeak {
	if len(points) < 3 {
		return []RawPeak{}
	}

	signal := spectrum.Absorptions(points)
	search := signal
	if opts.SmoothWindow > 1 {
		search = common.MovingAverage(signal, opts.SmoothWindow)
	}

	candidates := findCandidates(search)
	if len(candidates) == 0 {
		return []RawPeak{}
	}

	peaks := make([]RawPeak, 0, len(candidates))
	for _, idx := range candidates {
		peaks = append(peaks, RawPeak{
			Index:      idx,
			Energy:     points[idx].Energy,
			Absorption: signal[idx],
			Prominence: prominence(search, idx),
			Width:      opts.Width,
		})
	}

	minProm := opts.MinProminence
	if minProm == 0 {
		minProm = DefaultMinProminence
	}
	if minProm > 0 {
		// The fraction scales off the global maximum; for an all-nonpositive
		// series the fraction is taken as an absolute prominence in eV.
		scale := floats.Max(search)
		if scale <= 0 {
			scale = 1
		}
		floor := minProm * scale
		peaks = filterPeaks(peaks, func(p RawPeak) bool { return p.Prominence >= floor })
	}

	if opts.MinDistance > 0 {
		peaks = enforceDistance(peaks, opts.MinDistance)
	}
	if opts.Height > 0 {
		peaks = filterPeaks(peaks, func(p RawPeak) bool { return p.Absorption >= opts.Height })
	}
	if opts.Threshold > 0 {
		peaks = filterPeaks(peaks, func(p RawPeak) bool {
			return neighborDrop(search, p.Index) >= opts.Threshold
		})
	}
	if opts.Width > 0 {
		peaks = filterPeaks(peaks, func(p RawPeak) bool {
			return halfProminenceExtent(points, search, p.Index, p.Prominence) >= opts.Width
		})
	}

	sort.Slice(peaks, func(i, j int) bool { return peaks[i].Energy < peaks[j].Energy })
	return peaks
}

// findCandidates returns indices of strict local maxima. A plateau resolves
// to the first index of the flat run.
func findCandidates(signal []float64) []int {
	var out []int
	for i := 1; i < len(signal)-1; i++ {
		if signal[i] <= signal[i-1] {
			continue
		}
		// Walk a potential plateau; i stays its first index
		j := i
		for j < len(signal)-1 && signal[j+1] == signal[i] {
			j++
		}
		if j < len(signal)-1 && signal[j+1] < signal[i] {
			out = append(out, i)
		}
		i = j
	}
	return out
}

// prominence is the minimal vertical drop required to reach a higher sample
// or a series boundary, scanning left and right from the candidate.
func prominence(signal []float64, peakIndex int) float64 {
	peak := signal[peakIndex]

	leftMin := peak
	for i := peakIndex - 1; i >= 0; i-- {
		if signal[i] > peak {
			break
		}
		if signal[i] < leftMin {
			leftMin = signal[i]
		}
	}

	rightMin := peak
	for i := peakIndex + 1; i < len(signal); i++ {
		if signal[i] > peak {
			break
		}
		if signal[i] < rightMin {
			rightMin = signal[i]
		}
	}

	return peak - math.Max(leftMin, rightMin)
}

// halfProminenceExtent measures a peak's energy span at half its prominence,
// walking outward to the crossings and interpolating between samples. Spans
// reaching a series boundary extend to the boundary energy.
func halfProminenceExtent(points []spectrum.Point, signal []float64, peakIndex int, prom float64) float64 {
	level := signal[peakIndex] - prom/2

	left := points[0].Energy
	for i := peakIndex - 1; i >= 0; i-- {
		if signal[i] <= level {
			left = crossingEnergy(points[i].Energy, points[i+1].Energy, signal[i], signal[i+1], level)
			break
		}
	}

	right := points[len(points)-1].Energy
	for i := peakIndex + 1; i < len(signal); i++ {
		if signal[i] <= level {
			right = crossingEnergy(points[i-1].Energy, points[i].Energy, signal[i-1], signal[i], level)
			break
		}
	}
	return right - left
}

// crossingEnergy linearly interpolates the energy where the signal crosses
// level between two adjacent samples.
func crossingEnergy(e0, e1, v0, v1, level float64) float64 {
	if v1 == v0 {
		return e1
	}
	t := (level - v0) / (v1 - v0)
	return e0 + t*(e1-e0)
}

// neighborDrop is the smaller of the drops from a sample to its immediate
// neighbors.
func neighborDrop(signal []float64, i int) float64 {
	left := math.Inf(1)
	right := math.Inf(1)
	if i > 0 {
		left = signal[i] - signal[i-1]
	}
	if i < len(signal)-1 {
		right = signal[i] - signal[i+1]
	}
	return math.Min(left, right)
}

// enforceDistance keeps candidates greedily in descending prominence order,
// dropping any within minDistance (eV) of an already-kept peak.
func enforceDistance(peaks []RawPeak, minDistance float64) []RawPeak {
	byProminence := make([]RawPeak, len(peaks))
	copy(byProminence, peaks)
	sort.SliceStable(byProminence, func(i, j int) bool {
		return byProminence[i].Prominence > byProminence[j].Prominence
	})

	var kept []RawPeak
	for _, p := range byProminence {
		ok := true
		for _, k := range kept {
			if math.Abs(p.Energy-k.Energy) < minDistance {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, p)
		}
	}
	return kept
}

func filterPeaks(peaks []RawPeak, keep func(RawPeak) bool) []RawPeak {
	out := peaks[:0]
	for _, p := range peaks {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// EstimateAmplitude returns the absorption of the point nearest in energy
// within the series, ties broken by first-found. NaN for an empty series.
func EstimateAmplitude(points []spectrum.Point, energy float64) float64 {
	if len(points) == 0 {
		return math.NaN()
	}
	best := points[0].Absorption
	bestDist := math.Abs(points[0].Energy - energy)
	for _, p := range points[1:] {
		d := math.Abs(p.Energy - energy)
		if d < bestDist {
			bestDist = d
			best = p.Absorption
		}
	}
	return best
}
