// Package bareatom computes theoretical bare-atom absorption curves from a
// molecule's elemental composition, ignoring molecular bonding effects.
// The curve is the reference against which measured NEXAFS spectra are
// normalized.
package bareatom

import (
	"context"
	"sync"

	"github.com/carbonlab/nexafs-engine/logging"
	"github.com/carbonlab/nexafs-engine/spectrum"
)

// Calculator turns chemical formulas into bare-atom absorption curves.
// Element lookups go through a TableSource and are cached, so the first
// calculation for a formula may fetch reference data while repeats are pure
// arithmetic.
type Calculator struct {
	source TableSource
	logger logging.Logger

	mu    sync.Mutex
	cache map[string]*Element
}

// NewCalculator creates a calculator over the given table source. A nil
// source uses the embedded table.
func NewCalculator(source TableSource) *Calculator {
	if source == nil {
		source = EmbeddedTable{}
	}
	return &Calculator{
		source: source,
		logger: logging.WithFields(logging.Fields{"component": "bareatom_calculator"}),
		cache:  make(map[string]*Element),
	}
}

// Calculate produces one bare-atom point per input point, same order and
// length, by the mass-fraction weighted mixture rule over the formula's
// composition. Empty input points yield an empty curve, not an error.
// Malformed formulas fail with *ParseError, unknown symbols with
// *UnknownElementError.
func (c *Calculator) Calculate(ctx context.Context, formula string, points []spectrum.Point) ([]spectrum.BareAtomPoint, error) {
	comp, err := ParseFormula(formula)
	if err != nil {
		return nil, err
	}

	elements := make([]*Element, len(comp))
	for i, ec := range comp {
		e, err := c.lookup(ctx, ec.Symbol)
		if err != nil {
			return nil, err
		}
		elements[i] = e
	}

	if len(points) == 0 {
		return []spectrum.BareAtomPoint{}, nil
	}

	totalWeight := 0.0
	for i, ec := range comp {
		totalWeight += float64(ec.Count) * elements[i].AtomicWeight
	}
	if totalWeight <= 0 {
		return nil, &ParseError{Formula: formula, Offset: 0, Msg: "zero total composition"}
	}

	c.logger.Debug("computing bare-atom curve", logging.Fields{
		"formula":  formula,
		"elements": len(comp),
		"points":   len(points),
	})

	curve := make([]spectrum.BareAtomPoint, len(points))
	for i, p := range points {
		mu := 0.0
		for j, ec := range comp {
			weight := float64(ec.Count) * elements[j].AtomicWeight
			mu += weight * elements[j].MuAt(p.Energy)
		}
		curve[i] = spectrum.BareAtomPoint{Energy: p.Energy, Absorption: mu / totalWeight}
	}

	return curve, nil
}

func (c *Calculator) lookup(ctx context.Context, symbol string) (*Element, error) {
	c.mu.Lock()
	if e, ok := c.cache[symbol]; ok {
		c.mu.Unlock()
		return e, nil
	}
	c.mu.Unlock()

	e, err := c.source.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[symbol] = e
	c.mu.Unlock()
	return e, nil
}
