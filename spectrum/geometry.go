package spectrum

import (
	"math"
	"strconv"
)

// AngleTolerance is the tolerance in degrees used when matching a
// user-selected geometry against point geometries. Grouping uses exact
// equality instead: grouped values originate from the same upload and are
// never re-measured, so merging nearby angles would silently collapse
// distinct experimental geometries.
const AngleTolerance = 0.01

// FixedKey is the group key for points without incidence geometry.
const FixedKey = "fixed"

// Target describes a geometry selection. A NaN component is a wildcard.
type Target struct {
	Theta float64
	Phi   float64
}

// AnyGeometry returns a fully wildcard target.
func AnyGeometry() Target {
	return Target{Theta: math.NaN(), Phi: math.NaN()}
}

// ThetaTarget returns a target constraining only the polar angle.
func ThetaTarget(theta float64) Target {
	return Target{Theta: theta, Phi: math.NaN()}
}

// PhiTarget returns a target constraining only the azimuthal angle.
func PhiTarget(phi float64) Target {
	return Target{Theta: math.NaN(), Phi: phi}
}

// HasTheta reports whether the target constrains theta.
func (t Target) HasTheta() bool { return !math.IsNaN(t.Theta) }

// HasPhi reports whether the target constrains phi.
func (t Target) HasPhi() bool { return !math.IsNaN(t.Phi) }

// MatchesTarget reports whether a point satisfies a geometry target. Each
// defined target component must be within AngleTolerance of the point's
// finite angle; a fixed-geometry point matches only a fully wildcard target.
func MatchesTarget(p Point, t Target) bool {
	if t.HasTheta() {
		if !p.HasTheta() || math.Abs(p.Theta-t.Theta) > AngleTolerance {
			return false
		}
	}
	if t.HasPhi() {
		if !p.HasPhi() || math.Abs(p.Phi-t.Phi) > AngleTolerance {
			return false
		}
	}
	return true
}

// FilterByGeometry returns the points matching the target. Pure: the input
// slice is never modified.
func FilterByGeometry(points []Point, t Target) []Point {
	var out []Point
	for _, p := range points {
		if MatchesTarget(p, t) {
			out = append(out, p)
		}
	}
	return out
}

// GroupKey derives the exact geometry key for a point: "theta:phi" with
// shortest-float formatting, or FixedKey when the point has no geometry.
func GroupKey(p Point) string {
	if !p.HasGeometry() {
		return FixedKey
	}
	return formatAngle(p.Theta) + ":" + formatAngle(p.Phi)
}

func formatAngle(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Group is one geometry group: all points measured under the same exact
// incidence condition, in input order.
type Group struct {
	Key    string
	Theta  float64
	Phi    float64
	Points []Point
}

// GroupByGeometry partitions points into geometry groups. Groups are
// returned in first-seen order and each distinct key appears exactly once.
func GroupByGeometry(points []Point) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, p := range points {
		key := GroupKey(p)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key, Theta: p.Theta, Phi: p.Phi})
		}
		groups[i].Points = append(groups[i].Points, p)
	}
	return groups
}
