package common

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single", []float64{3}, 3},
		{"several", []float64{1, 2, 3, 4}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mean(tt.data); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Mean = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestInterpolate(t *testing.T) {
	x := []float64{280, 282, 284, 290}
	y := []float64{0.0, 1.0, 3.0, 3.0}

	tests := []struct {
		name     string
		xi       float64
		expected float64
	}{
		{"exact knot", 282, 1.0},
		{"midpoint", 281, 0.5},
		{"second interval", 283, 2.0},
		{"clamp below", 270, 0.0},
		{"clamp above", 300, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Interpolate(x, y, tt.xi); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Interpolate(%v) = %v, expected %v", tt.xi, got, tt.expected)
			}
		})
	}

	if got := Interpolate([]float64{1}, []float64{7}, 3); got != 7 {
		t.Errorf("single-knot Interpolate = %v, expected 7", got)
	}
	if got := Interpolate(x, y[:2], 283); got != 0 {
		t.Errorf("mismatched lengths should yield 0, got %v", got)
	}
}

func TestClampAndLerp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp high = %v", got)
	}
	if got := Clamp(-1, 0, 3); got != 0 {
		t.Errorf("Clamp low = %v", got)
	}
	if got := Lerp(2, 4, 0.5); got != 3 {
		t.Errorf("Lerp = %v", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) {
		t.Error("1.5 should be finite")
	}
	if IsFinite(math.NaN()) || IsFinite(math.Inf(1)) {
		t.Error("NaN/Inf should not be finite")
	}
}
