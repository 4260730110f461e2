// Package spectrum defines the point model shared by every analysis
// component: (energy, absorption) samples with optional incidence geometry.
package spectrum

import "math"

// Point is one measured NEXAFS sample. Energy is in eV, strictly increasing
// within one geometry group. Theta and Phi are incidence angles in degrees;
// NaN means the sample was measured at fixed geometry.
type Point struct {
	Energy     float64 `json:"energy"`
	Absorption float64 `json:"absorption"`
	Theta      float64 `json:"theta,omitempty"`
	Phi        float64 `json:"phi,omitempty"`
}

// BareAtomPoint is one sample of the theoretical bare-atom reference curve,
// aligned to the energy grid of the spectrum it was computed for.
type BareAtomPoint struct {
	Energy     float64 `json:"energy"`
	Absorption float64 `json:"absorption"`
}

// Fixed constructs a point without incidence geometry.
func Fixed(energy, absorption float64) Point {
	return Point{Energy: energy, Absorption: absorption, Theta: math.NaN(), Phi: math.NaN()}
}

// Angled constructs a point measured at the given theta/phi incidence.
func Angled(energy, absorption, theta, phi float64) Point {
	return Point{Energy: energy, Absorption: absorption, Theta: theta, Phi: phi}
}

// HasTheta reports whether the point carries a finite polar angle.
func (p Point) HasTheta() bool {
	return !math.IsNaN(p.Theta) && !math.IsInf(p.Theta, 0)
}

// HasPhi reports whether the point carries a finite azimuthal angle.
func (p Point) HasPhi() bool {
	return !math.IsNaN(p.Phi) && !math.IsInf(p.Phi, 0)
}

// HasGeometry reports whether the point carries any finite incidence angle.
func (p Point) HasGeometry() bool {
	return p.HasTheta() || p.HasPhi()
}

// Energies extracts the energy column.
func Energies(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Energy
	}
	return out
}

// Absorptions extracts the absorption column.
func Absorptions(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Absorption
	}
	return out
}
