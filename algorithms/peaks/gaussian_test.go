package peaks

import (
	"math"
	"testing"
)

func TestGaussianCurveExactAtCenter(t *testing.T) {
	grid := []float64{284.0, 285.0, 286.0}
	curve := GaussianCurve(285.0, 0.75, 0.8, grid)

	if len(curve) != len(grid) {
		t.Fatalf("curve length %d, expected %d", len(curve), len(grid))
	}
	if math.Abs(curve[1]-0.75) > 1e-12 {
		t.Errorf("value at center = %v, expected exactly the amplitude 0.75", curve[1])
	}
	if curve[0] >= curve[1] || curve[2] >= curve[1] {
		t.Error("center must be the maximum")
	}
	if math.Abs(curve[0]-curve[2]) > 1e-12 {
		t.Error("curve must be symmetric about the center")
	}
}

func TestGaussianCurveHalfMaximumAtHalfWidth(t *testing.T) {
	const (
		center = 285.0
		amp    = 2.0
		width  = 1.2
	)
	grid := []float64{center - width/2, center, center + width/2}
	curve := GaussianCurve(center, amp, width, grid)

	for _, i := range []int{0, 2} {
		if math.Abs(curve[i]-amp/2) > 1e-9 {
			t.Errorf("value at center±width/2 = %v, expected half maximum %v", curve[i], amp/2)
		}
	}
}

func TestGaussianCurveDefaults(t *testing.T) {
	grid := []float64{285.0}

	if got := GaussianCurve(285.0, 0, 0, grid); math.Abs(got[0]-DefaultAmplitude) > 1e-12 {
		t.Errorf("unset amplitude should default to %v, got %v", DefaultAmplitude, got[0])
	}
	if got := GaussianCurve(285.0, math.NaN(), math.NaN(), grid); math.Abs(got[0]-DefaultAmplitude) > 1e-12 {
		t.Errorf("NaN parameters should fall back to defaults, got %v", got[0])
	}
}

func TestCurveSkipsStepPeaks(t *testing.T) {
	grid := Grid(280, 290, 11)

	step := Peak{Energy: 285, IsStep: true}
	if got := Curve(step, grid); got != nil {
		t.Error("step pseudo-peaks must not synthesize a Gaussian")
	}

	regular := Peak{Energy: 285, Amplitude: 1, Width: 0.5}
	if got := Curve(regular, grid); len(got) != len(grid) {
		t.Errorf("curve length %d, expected %d", len(got), len(grid))
	}
}

func TestGrid(t *testing.T) {
	grid := Grid(280, 290, 11)
	if len(grid) != 11 {
		t.Fatalf("grid length %d, expected 11", len(grid))
	}
	if grid[0] != 280 || grid[10] != 290 {
		t.Errorf("grid endpoints (%v, %v), expected (280, 290)", grid[0], grid[10])
	}
	if math.Abs(grid[1]-281) > 1e-12 {
		t.Errorf("grid step = %v, expected 1", grid[1]-grid[0])
	}

	if got := Grid(285, 285, 10); len(got) != 1 {
		t.Errorf("degenerate span should collapse to one point, got %d", len(got))
	}
}
