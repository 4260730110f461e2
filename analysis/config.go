package analysis

import (
	"github.com/carbonlab/nexafs-engine/algorithms/bareatom"
	"github.com/carbonlab/nexafs-engine/algorithms/normalize"
	"github.com/carbonlab/nexafs-engine/algorithms/peaks"
)

// Config holds engine-wide settings supplied by the embedding application.
type Config struct {
	// NormalizationMode selects bare-atom or zero-one normalization.
	NormalizationMode normalize.Mode `json:"normalization_mode"`

	// Detection is the default parameter set for auto peak detection;
	// per-call options override it.
	Detection peaks.Options `json:"detection"`

	// CurvePoints is the density of synthesized Gaussian grids.
	CurvePoints int `json:"curve_points"`

	// Table supplies element reference data; nil uses the embedded table.
	Table bareatom.TableSource `json:"-"`
}

// DefaultConfig returns sensible defaults for interactive curation.
func DefaultConfig() *Config {
	return &Config{
		NormalizationMode: normalize.ModeBareAtom,
		Detection: peaks.Options{
			MinProminence: peaks.DefaultMinProminence,
		},
		CurvePoints: 500,
	}
}
