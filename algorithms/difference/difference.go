// Package difference computes angle-resolved difference spectra: the
// point-wise subtraction of geometry-grouped spectra used to reveal
// angle-dependent dichroism in oriented samples.
package difference

import (
	"fmt"
	"math"
	"sort"

	"github.com/carbonlab/nexafs-engine/algorithms/common"
	"github.com/carbonlab/nexafs-engine/spectrum"
)

// Axis selects which incidence angle family the spectra are paired along.
type Axis int

const (
	AxisTheta Axis = iota
	AxisPhi
)

func (a Axis) String() string {
	switch a {
	case AxisTheta:
		return "theta"
	case AxisPhi:
		return "phi"
	default:
		return "unknown"
	}
}

// Spectrum is one computed difference curve. At most one spectrum in a set
// is Preferred.
type Spectrum struct {
	Label     string           `json:"label"`
	Points    []spectrum.Point `json:"points"`
	Preferred bool             `json:"preferred,omitempty"`
}

type angleGroup struct {
	angle  float64
	points []spectrum.Point
}

// Calculate pairs each angle group along the axis against the reference
// group - the one at 0 degrees, or the lowest angle when no 0-degree group
// exists - interpolating the reference onto the group's energies and
// subtracting. Points lacking the axis angle are ignored; fewer than two
// distinct groups yield an empty slice, not an error.
func Calculate(points []spectrum.Point, axis Axis) []Spectrum {
	groups := groupByAxis(points, axis)
	if len(groups) < 2 {
		return []Spectrum{}
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].angle < groups[j].angle })

	ref := groups[0]
	for _, g := range groups {
		if math.Abs(g.angle) <= spectrum.AngleTolerance {
			ref = g
			break
		}
	}

	refEnergies := spectrum.Energies(ref.points)
	refAbs := spectrum.Absorptions(ref.points)
	refMin := refEnergies[0]
	refMax := refEnergies[len(refEnergies)-1]

	out := make([]Spectrum, 0, len(groups)-1)
	for _, g := range groups {
		if g.angle == ref.angle {
			continue
		}
		var diff []spectrum.Point
		for _, p := range g.points {
			if p.Energy < refMin || p.Energy > refMax {
				continue
			}
			refValue := common.Interpolate(refEnergies, refAbs, p.Energy)
			diff = append(diff, spectrum.Fixed(p.Energy, p.Absorption-refValue))
		}
		if len(diff) == 0 {
			continue
		}
		out = append(out, Spectrum{
			Label:  fmt.Sprintf("%s=%gdeg - %s=%gdeg", axis, g.angle, axis, ref.angle),
			Points: diff,
		})
	}
	return out
}

// groupByAxis partitions points by the exact value of the chosen axis
// angle, preserving first-seen order within each group.
func groupByAxis(points []spectrum.Point, axis Axis) []angleGroup {
	index := make(map[float64]int)
	var groups []angleGroup
	for _, p := range points {
		var angle float64
		switch axis {
		case AxisTheta:
			if !p.HasTheta() {
				continue
			}
			angle = p.Theta
		case AxisPhi:
			if !p.HasPhi() {
				continue
			}
			angle = p.Phi
		default:
			continue
		}
		i, ok := index[angle]
		if !ok {
			i = len(groups)
			index[angle] = i
			groups = append(groups, angleGroup{angle: angle})
		}
		groups[i].points = append(groups[i].points, p)
	}
	for i := range groups {
		sort.SliceStable(groups[i].points, func(a, b int) bool {
			return groups[i].points[a].Energy < groups[i].points[b].Energy
		})
	}
	return groups
}

// TogglePreferred flips the preferred flag of the spectrum at index and
// clears every other flag in the same pass, so no intermediate state ever
// has two preferred spectra. An already-preferred index toggles off. The
// input slice is returned for chaining.
func TogglePreferred(spectra []Spectrum, index int) []Spectrum {
	if index < 0 || index >= len(spectra) {
		return spectra
	}
	target := !spectra[index].Preferred
	for i := range spectra {
		spectra[i].Preferred = false
	}
	spectra[index].Preferred = target
	return spectra
}
