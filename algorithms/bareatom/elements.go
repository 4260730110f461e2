package bareatom

import (
	"context"
	"math"
	"sync"

	"github.com/carbonlab/nexafs-engine/algorithms/common"
)

// MuKnot is one tabulated mass-absorption sample for an element.
type MuKnot struct {
	EnergyEV float64
	Mu       float64 // cm^2/g
}

// Element holds the reference data needed for bare-atom absorption.
type Element struct {
	Symbol       string
	AtomicNumber int
	AtomicWeight float64
	// Knots sampled over the soft X-ray range, ascending in energy. K-edge
	// jumps appear as two knots straddling the edge energy.
	Knots []MuKnot

	// Log-space knots, built once at the first MuAt evaluation.
	logOnce sync.Once
	logE    []float64
	logMu   []float64
}

// MuAt evaluates the element's mass absorption at the given energy by
// log-log interpolation between knots, clamping beyond the tabulated span.
func (e *Element) MuAt(energyEV float64) float64 {
	if len(e.Knots) == 0 || energyEV <= 0 {
		return 0
	}
	if energyEV <= e.Knots[0].EnergyEV {
		return e.Knots[0].Mu
	}
	last := e.Knots[len(e.Knots)-1]
	if energyEV >= last.EnergyEV {
		return last.Mu
	}

	e.logOnce.Do(func() {
		e.logE = make([]float64, len(e.Knots))
		e.logMu = make([]float64, len(e.Knots))
		for i, k := range e.Knots {
			e.logE[i] = math.Log(k.EnergyEV)
			e.logMu[i] = math.Log(k.Mu)
		}
	})
	return math.Exp(common.Interpolate(e.logE, e.logMu, math.Log(energyEV)))
}

// TableSource supplies element reference data. Implementations may fetch
// lazily, which is why lookups take a context; retry/backoff belongs to the
// implementation, not the engine.
type TableSource interface {
	Lookup(ctx context.Context, symbol string) (*Element, error)
}

// EmbeddedTable is the built-in reference table covering the elements that
// occur in typical NEXAFS samples. Mass-absorption values approximate the
// Henke tabulation over 100-1300 eV.
type EmbeddedTable struct{}

// Lookup returns the embedded entry for a symbol, or *UnknownElementError.
func (EmbeddedTable) Lookup(ctx context.Context, symbol string) (*Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e, ok := embeddedElements[symbol]; ok {
		return e, nil
	}
	return nil, &UnknownElementError{Symbol: symbol}
}

var embeddedElements = map[string]*Element{
	"H": {Symbol: "H", AtomicNumber: 1, AtomicWeight: 1.008, Knots: []MuKnot{
		{100, 1.08e3}, {200, 1.32e2}, {300, 3.85e1}, {500, 8.20e0}, {800, 2.05e0}, {1300, 5.10e-1},
	}},
	"B": {Symbol: "B", AtomicNumber: 5, AtomicWeight: 10.811, Knots: []MuKnot{
		{100, 3.41e4}, {187.9, 5.52e3}, {188.1, 7.85e4}, {300, 2.64e4}, {500, 7.05e3}, {800, 2.02e3}, {1300, 5.35e2},
	}},
	"C": {Symbol: "C", AtomicNumber: 6, AtomicWeight: 12.011, Knots: []MuKnot{
		{100, 6.25e4}, {200, 1.06e4}, {284.1, 4.25e3}, {284.3, 9.30e4}, {320, 7.45e4}, {400, 4.52e4}, {600, 1.72e4}, {900, 5.85e3}, {1300, 2.26e3},
	}},
	"N": {Symbol: "N", AtomicNumber: 7, AtomicWeight: 14.007, Knots: []MuKnot{
		{100, 8.95e4}, {200, 1.68e4}, {300, 5.68e3}, {409.8, 2.48e3}, {410.0, 6.75e4}, {450, 5.74e4}, {600, 2.92e4}, {900, 1.02e4}, {1300, 3.95e3},
	}},
	"O": {Symbol: "O", AtomicNumber: 8, AtomicWeight: 15.999, Knots: []MuKnot{
		{100, 1.15e5}, {200, 2.45e4}, {300, 8.55e3}, {450, 2.88e3}, {543.0, 1.75e3}, {543.2, 5.25e4}, {600, 4.55e4}, {800, 2.32e4}, {1300, 6.45e3},
	}},
	"F": {Symbol: "F", AtomicNumber: 9, AtomicWeight: 18.998, Knots: []MuKnot{
		{100, 9.85e4}, {200, 3.25e4}, {300, 1.22e4}, {500, 3.32e3}, {686.9, 1.42e3}, {687.1, 4.15e4}, {800, 3.25e4}, {1300, 9.25e3},
	}},
	"Na": {Symbol: "Na", AtomicNumber: 11, AtomicWeight: 22.990, Knots: []MuKnot{
		{100, 4.65e4}, {200, 4.25e4}, {300, 1.95e4}, {500, 5.85e3}, {800, 1.98e3}, {1070.7, 9.45e2}, {1070.9, 2.18e4}, {1300, 1.55e4},
	}},
	"Mg": {Symbol: "Mg", AtomicNumber: 12, AtomicWeight: 24.305, Knots: []MuKnot{
		{100, 2.85e4}, {200, 4.95e4}, {300, 2.45e4}, {500, 7.65e3}, {800, 2.62e3}, {1300, 7.45e2},
	}},
	"Al": {Symbol: "Al", AtomicNumber: 13, AtomicWeight: 26.982, Knots: []MuKnot{
		{100, 2.15e4}, {200, 5.45e4}, {300, 2.95e4}, {500, 9.55e3}, {800, 3.35e3}, {1300, 9.65e2},
	}},
	"Si": {Symbol: "Si", AtomicNumber: 14, AtomicWeight: 28.086, Knots: []MuKnot{
		{100, 1.72e4}, {200, 5.85e4}, {300, 3.45e4}, {500, 1.18e4}, {800, 4.25e3}, {1300, 1.25e3},
	}},
	"P": {Symbol: "P", AtomicNumber: 15, AtomicWeight: 30.974, Knots: []MuKnot{
		{100, 1.35e4}, {200, 5.25e4}, {300, 3.85e4}, {500, 1.42e4}, {800, 5.25e3}, {1300, 1.58e3},
	}},
	"S": {Symbol: "S", AtomicNumber: 16, AtomicWeight: 32.065, Knots: []MuKnot{
		{100, 1.42e4}, {200, 4.55e4}, {300, 4.15e4}, {500, 1.68e4}, {800, 6.35e3}, {1300, 1.95e3},
	}},
	"Cl": {Symbol: "Cl", AtomicNumber: 17, AtomicWeight: 35.453, Knots: []MuKnot{
		{100, 1.55e4}, {200, 3.85e4}, {300, 4.35e4}, {500, 1.95e4}, {800, 7.55e3}, {1300, 2.35e3},
	}},
	"K": {Symbol: "K", AtomicNumber: 19, AtomicWeight: 39.098, Knots: []MuKnot{
		{100, 2.35e4}, {200, 2.75e4}, {300, 4.15e4}, {500, 2.45e4}, {800, 1.02e4}, {1300, 3.25e3},
	}},
	"Ca": {Symbol: "Ca", AtomicNumber: 20, AtomicWeight: 40.078, Knots: []MuKnot{
		{100, 2.85e4}, {200, 2.45e4}, {349.2, 3.65e4}, {349.4, 6.85e4}, {500, 2.75e4}, {800, 1.15e4}, {1300, 3.75e3},
	}},
	"Ti": {Symbol: "Ti", AtomicNumber: 22, AtomicWeight: 47.867, Knots: []MuKnot{
		{100, 3.85e4}, {200, 1.85e4}, {300, 2.35e4}, {453.7, 1.45e4}, {453.9, 4.35e4}, {600, 3.15e4}, {900, 1.35e4}, {1300, 5.15e3},
	}},
	"Fe": {Symbol: "Fe", AtomicNumber: 26, AtomicWeight: 55.845, Knots: []MuKnot{
		{100, 6.15e4}, {200, 1.75e4}, {300, 1.25e4}, {500, 9.85e3}, {706.9, 6.55e3}, {707.1, 3.25e4}, {900, 2.25e4}, {1300, 8.85e3},
	}},
	"Cu": {Symbol: "Cu", AtomicNumber: 29, AtomicWeight: 63.546, Knots: []MuKnot{
		{100, 5.45e4}, {200, 2.65e4}, {300, 1.15e4}, {500, 6.45e3}, {800, 4.85e3}, {932.6, 3.65e3}, {932.8, 1.85e4}, {1300, 1.25e4},
	}},
	"Zn": {Symbol: "Zn", AtomicNumber: 30, AtomicWeight: 65.38, Knots: []MuKnot{
		{100, 4.85e4}, {200, 3.15e4}, {300, 1.35e4}, {500, 6.15e3}, {800, 4.35e3}, {1021.7, 3.15e3}, {1021.9, 1.65e4}, {1300, 1.15e4},
	}},
}
