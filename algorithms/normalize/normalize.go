// Package normalize implements edge-jump normalization of NEXAFS spectra:
// a measured absorption curve is scaled and offset so that the pre-edge
// region maps to 0 and the post-edge region to 1, either against a
// bare-atom reference curve or against the raw absorption alone.
package normalize

import (
	"math"

	"github.com/carbonlab/nexafs-engine/algorithms/common"
	"github.com/carbonlab/nexafs-engine/logging"
	"github.com/carbonlab/nexafs-engine/spectrum"
)

// degenerateEps guards the scale denominator: coincident or flat pre/post
// regions cannot be normalized.
const degenerateEps = 1e-10

// Mode selects the normalization arithmetic.
type Mode int

const (
	// ModeBareAtom subtracts the bare-atom reference before scaling; the
	// pre-edge difference maps to 0, the post-edge difference to 1.
	ModeBareAtom Mode = iota
	// ModeZeroOne scales raw absorption directly: pre-edge average maps to
	// 0, post-edge average to 1, no bare-atom subtraction.
	ModeZeroOne
)

func (m Mode) String() string {
	switch m {
	case ModeBareAtom:
		return "bare-atom"
	case ModeZeroOne:
		return "zero-one"
	default:
		return "unknown"
	}
}

// Range is a closed energy interval [Min, Max].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewRange builds a range from two endpoints in either order.
func NewRange(a, b float64) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Min: a, Max: b}
}

// Contains reports whether the energy lies inside the closed interval.
func (r Range) Contains(energy float64) bool {
	return energy >= r.Min && energy <= r.Max
}

// Regions holds the user-selected pre-edge and post-edge windows. A nil
// range means "not selected yet".
type Regions struct {
	Pre  *Range `json:"pre"`
	Post *Range `json:"post"`
}

// Result is one computed normalization. It is derived data: superseded by a
// new instance on any input change, never mutated in place.
type Result struct {
	Scale     float64          `json:"scale"`
	Offset    float64          `json:"offset"`
	PreRange  Range            `json:"pre_range"`
	PostRange Range            `json:"post_range"`
	Points    []spectrum.Point `json:"points"`
}

// Equal compares two results field by field so callers can suppress
// redundant downstream updates.
func (r *Result) Equal(other *Result) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.Scale != other.Scale || r.Offset != other.Offset ||
		r.PreRange != other.PreRange || r.PostRange != other.PostRange ||
		len(r.Points) != len(other.Points) {
		return false
	}
	for i := range r.Points {
		if !pointsEqual(r.Points[i], other.Points[i]) {
			return false
		}
	}
	return true
}

// pointsEqual treats the NaN angle sentinel as equal to itself so fixed
// geometry points compare equal.
func pointsEqual(a, b spectrum.Point) bool {
	return a.Energy == b.Energy && a.Absorption == b.Absorption &&
		angleEqual(a.Theta, b.Theta) && angleEqual(a.Phi, b.Phi)
}

func angleEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

// Engine computes normalizations for one selected mode. It holds no
// per-dataset state; Compute is a pure function of its inputs.
type Engine struct {
	mode   Mode
	logger logging.Logger
}

// NewEngine creates a normalization engine for the given mode.
func NewEngine(mode Mode) *Engine {
	return &Engine{
		mode:   mode,
		logger: logging.WithFields(logging.Fields{"component": "normalization", "mode": mode.String()}),
	}
}

// Mode returns the engine's normalization mode.
func (e *Engine) Mode() Mode { return e.mode }

// Compute normalizes raw points against the bare-atom curve and the edge
// regions. It returns nil - "not yet normalizable" rather than an error -
// when either region is unset or selects zero points, when the bare-atom
// curve does not align with the raw grid in bare-atom mode, or when the
// pre/post averages are degenerate. Identical inputs always produce
// bit-identical scale, offset and points.
func (e *Engine) Compute(raw []spectrum.Point, bare []spectrum.BareAtomPoint, regions Regions) *Result {
	if len(raw) == 0 || regions.Pre == nil || regions.Post == nil {
		return nil
	}
	if e.mode == ModeBareAtom && len(bare) != len(raw) {
		return nil
	}

	// The working series: raw minus bare-atom in bare-atom mode, raw alone
	// in zero-one mode. Point-wise arithmetic requires the aligned grid.
	values := make([]float64, len(raw))
	for i, p := range raw {
		values[i] = p.Absorption
		if e.mode == ModeBareAtom {
			values[i] -= bare[i].Absorption
		}
	}

	var preVals, postVals []float64
	for i, p := range raw {
		if regions.Pre.Contains(p.Energy) {
			preVals = append(preVals, values[i])
		}
		if regions.Post.Contains(p.Energy) {
			postVals = append(postVals, values[i])
		}
	}
	if len(preVals) == 0 || len(postVals) == 0 {
		return nil
	}

	preOffset := common.Mean(preVals)
	postOffset := common.Mean(postVals)
	denom := postOffset - preOffset
	if math.Abs(denom) < degenerateEps {
		e.logger.Debug("degenerate edge regions", logging.Fields{
			"pre_avg":  preOffset,
			"post_avg": postOffset,
		})
		return nil
	}

	scale := 1.0 / denom
	offset := -preOffset * scale

	points := make([]spectrum.Point, len(raw))
	for i, p := range raw {
		points[i] = p
		points[i].Absorption = values[i]*scale + offset
	}

	return &Result{
		Scale:     scale,
		Offset:    offset,
		PreRange:  *regions.Pre,
		PostRange: *regions.Post,
		Points:    points,
	}
}
