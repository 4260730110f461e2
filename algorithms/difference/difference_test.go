package difference

import (
	"math"
	"strings"
	"testing"

	"github.com/carbonlab/nexafs-engine/spectrum"
)

// angledSeries builds one geometry group over a shared grid with a constant
// absorption offset.
func angledSeries(theta, phi, offset float64) []spectrum.Point {
	energies := []float64{280, 282, 284, 286, 288}
	base := []float64{0.1, 0.3, 0.8, 0.4, 0.2}
	points := make([]spectrum.Point, len(energies))
	for i := range energies {
		points[i] = spectrum.Angled(energies[i], base[i]+offset, theta, phi)
	}
	return points
}

func TestCalculateConstantOffset(t *testing.T) {
	points := append(angledSeries(0, 0, 0), angledSeries(45, 0, 0.05)...)

	spectra := Calculate(points, AxisTheta)
	if len(spectra) != 1 {
		t.Fatalf("expected one difference spectrum, got %d", len(spectra))
	}

	diff := spectra[0]
	if len(diff.Points) != 5 {
		t.Fatalf("expected 5 difference points, got %d", len(diff.Points))
	}
	for i, p := range diff.Points {
		if math.Abs(p.Absorption-0.05) > 1e-12 {
			t.Errorf("diff[%d] = %v, expected 0.05", i, p.Absorption)
		}
	}
	if !strings.Contains(diff.Label, "45") || !strings.Contains(diff.Label, "0") {
		t.Errorf("label %q should name both angles", diff.Label)
	}
}

func TestCalculateUsesLowestAngleWithoutNormal(t *testing.T) {
	// No 0-degree group: 20 degrees becomes the reference
	points := append(angledSeries(20, 0, 0), angledSeries(55, 0, 0.1)...)

	spectra := Calculate(points, AxisTheta)
	if len(spectra) != 1 {
		t.Fatalf("expected one spectrum, got %d", len(spectra))
	}
	for _, p := range spectra[0].Points {
		if math.Abs(p.Absorption-0.1) > 1e-12 {
			t.Errorf("difference against lowest angle = %v, expected 0.1", p.Absorption)
		}
	}
}

func TestCalculateInterpolatesMismatchedGrids(t *testing.T) {
	ref := []spectrum.Point{
		spectrum.Angled(280, 0.0, 0, 0),
		spectrum.Angled(284, 0.4, 0, 0),
		spectrum.Angled(288, 0.8, 0, 0),
	}
	other := []spectrum.Point{
		spectrum.Angled(282, 0.3, 45, 0), // ref interpolates to 0.2
		spectrum.Angled(286, 0.7, 45, 0), // ref interpolates to 0.6
		spectrum.Angled(295, 1.0, 45, 0), // outside the reference span
	}

	spectra := Calculate(append(ref, other...), AxisTheta)
	if len(spectra) != 1 {
		t.Fatalf("expected one spectrum, got %d", len(spectra))
	}
	diff := spectra[0].Points
	if len(diff) != 2 {
		t.Fatalf("out-of-span energies must be dropped, got %d points", len(diff))
	}
	if math.Abs(diff[0].Absorption-0.1) > 1e-12 || math.Abs(diff[1].Absorption-0.1) > 1e-12 {
		t.Errorf("interpolated differences = %v, %v; expected 0.1, 0.1", diff[0].Absorption, diff[1].Absorption)
	}
}

func TestCalculateRequiresTwoGroups(t *testing.T) {
	single := angledSeries(0, 0, 0)
	if got := Calculate(single, AxisTheta); len(got) != 0 {
		t.Errorf("one group should yield no spectra, got %d", len(got))
	}
	if got := Calculate(nil, AxisTheta); len(got) != 0 {
		t.Errorf("empty input should yield no spectra, got %d", len(got))
	}

	// Theta groups exist but phi is uniform
	points := append(angledSeries(0, 30, 0), angledSeries(45, 30, 0.05)...)
	if got := Calculate(points, AxisPhi); len(got) != 0 {
		t.Errorf("single phi group should yield no spectra along phi, got %d", len(got))
	}
}

func TestCalculatePhiAxis(t *testing.T) {
	points := append(angledSeries(54.7, 0, 0), angledSeries(54.7, 90, 0.2)...)

	spectra := Calculate(points, AxisPhi)
	if len(spectra) != 1 {
		t.Fatalf("expected one phi-family spectrum, got %d", len(spectra))
	}
	for _, p := range spectra[0].Points {
		if math.Abs(p.Absorption-0.2) > 1e-12 {
			t.Errorf("phi difference = %v, expected 0.2", p.Absorption)
		}
	}
}

func TestTogglePreferred(t *testing.T) {
	spectra := []Spectrum{{Label: "a"}, {Label: "b"}, {Label: "c"}}

	spectra = TogglePreferred(spectra, 1)
	if !spectra[1].Preferred || spectra[0].Preferred || spectra[2].Preferred {
		t.Errorf("expected only index 1 preferred: %+v", spectra)
	}

	// Switching moves the single flag atomically
	spectra = TogglePreferred(spectra, 2)
	if !spectra[2].Preferred || spectra[0].Preferred || spectra[1].Preferred {
		t.Errorf("expected only index 2 preferred: %+v", spectra)
	}

	count := 0
	for _, s := range spectra {
		if s.Preferred {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("at most one preferred spectrum allowed, got %d", count)
	}

	// Toggling the preferred one off leaves none preferred
	spectra = TogglePreferred(spectra, 2)
	for i, s := range spectra {
		if s.Preferred {
			t.Errorf("index %d still preferred after toggle-off", i)
		}
	}

	// Out-of-range indices are ignored
	spectra = TogglePreferred(spectra, 10)
	spectra = TogglePreferred(spectra, -1)
	for i, s := range spectra {
		if s.Preferred {
			t.Errorf("index %d preferred after out-of-range toggles", i)
		}
	}
}
