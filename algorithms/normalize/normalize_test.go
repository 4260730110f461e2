package normalize

import (
	"math"
	"testing"

	"github.com/carbonlab/nexafs-engine/spectrum"
)

// edgeJumpFixture builds a raw spectrum and a flat bare-atom curve where
// raw-bare averages 0 over the pre region [280,282] and 1 over the post
// region [300,302], with a half-height point at 290.
func edgeJumpFixture() ([]spectrum.Point, []spectrum.BareAtomPoint, Regions) {
	energies := []float64{280, 281, 282, 290, 300, 301, 302}
	diffs := []float64{0, 0, 0, 0.5, 1, 1, 1}

	raw := make([]spectrum.Point, len(energies))
	bare := make([]spectrum.BareAtomPoint, len(energies))
	for i, e := range energies {
		bare[i] = spectrum.BareAtomPoint{Energy: e, Absorption: 2.0}
		raw[i] = spectrum.Fixed(e, 2.0+diffs[i])
	}

	pre := NewRange(280, 282)
	post := NewRange(300, 302)
	return raw, bare, Regions{Pre: &pre, Post: &post}
}

func TestComputeBareAtom(t *testing.T) {
	raw, bare, regions := edgeJumpFixture()

	result := NewEngine(ModeBareAtom).Compute(raw, bare, regions)
	if result == nil {
		t.Fatal("expected a result")
	}

	if math.Abs(result.Scale-1.0) > 1e-12 {
		t.Errorf("scale = %v, expected 1.0", result.Scale)
	}
	if math.Abs(result.Offset) > 1e-12 {
		t.Errorf("offset = %v, expected 0.0", result.Offset)
	}
	if len(result.Points) != len(raw) {
		t.Fatalf("normalized length %d, expected %d", len(result.Points), len(raw))
	}

	// The half-height point normalizes to 0.5
	if got := result.Points[3].Absorption; math.Abs(got-0.5) > 1e-12 {
		t.Errorf("mid point normalized to %v, expected 0.5", got)
	}
	// Pre-edge maps to 0, post-edge to 1
	if got := result.Points[0].Absorption; math.Abs(got) > 1e-12 {
		t.Errorf("pre point normalized to %v, expected 0", got)
	}
	if got := result.Points[6].Absorption; math.Abs(got-1.0) > 1e-12 {
		t.Errorf("post point normalized to %v, expected 1", got)
	}
}

func TestComputeZeroOne(t *testing.T) {
	// Raw absorption 0.2 across the pre region, 1.2 across the post; no
	// bare-atom subtraction in this mode.
	energies := []float64{280, 281, 290, 300, 301}
	values := []float64{0.2, 0.2, 0.7, 1.2, 1.2}
	raw := make([]spectrum.Point, len(energies))
	for i, e := range energies {
		raw[i] = spectrum.Fixed(e, values[i])
	}
	pre := NewRange(280, 282)
	post := NewRange(300, 302)

	result := NewEngine(ModeZeroOne).Compute(raw, nil, Regions{Pre: &pre, Post: &post})
	if result == nil {
		t.Fatal("expected a result")
	}

	if math.Abs(result.Scale-1.0) > 1e-12 {
		t.Errorf("scale = %v, expected 1.0", result.Scale)
	}
	if got := result.Points[0].Absorption; math.Abs(got) > 1e-12 {
		t.Errorf("pre maps to %v, expected 0", got)
	}
	if got := result.Points[2].Absorption; math.Abs(got-0.5) > 1e-12 {
		t.Errorf("mid maps to %v, expected 0.5", got)
	}
	if got := result.Points[4].Absorption; math.Abs(got-1.0) > 1e-12 {
		t.Errorf("post maps to %v, expected 1", got)
	}
}

func TestComputeNotReady(t *testing.T) {
	raw, bare, regions := edgeJumpFixture()
	engine := NewEngine(ModeBareAtom)

	t.Run("missing pre region", func(t *testing.T) {
		if result := engine.Compute(raw, bare, Regions{Post: regions.Post}); result != nil {
			t.Error("expected nil without a pre region")
		}
	})

	t.Run("pre region selects zero points", func(t *testing.T) {
		empty := NewRange(100, 120)
		if result := engine.Compute(raw, bare, Regions{Pre: &empty, Post: regions.Post}); result != nil {
			t.Error("expected nil when the pre region selects no points")
		}
	})

	t.Run("empty raw points", func(t *testing.T) {
		if result := engine.Compute(nil, bare, regions); result != nil {
			t.Error("expected nil for empty input")
		}
	})

	t.Run("bare-atom length mismatch", func(t *testing.T) {
		if result := engine.Compute(raw, bare[:3], regions); result != nil {
			t.Error("expected nil on misaligned bare-atom curve")
		}
	})

	t.Run("degenerate regions", func(t *testing.T) {
		samePre := NewRange(280, 282)
		samePost := NewRange(280, 282)
		if result := engine.Compute(raw, bare, Regions{Pre: &samePre, Post: &samePost}); result != nil {
			t.Error("expected nil for coincident regions")
		}
	})
}

func TestComputeIdempotent(t *testing.T) {
	raw, bare, regions := edgeJumpFixture()
	engine := NewEngine(ModeBareAtom)

	first := engine.Compute(raw, bare, regions)
	second := engine.Compute(raw, bare, regions)
	if first == nil || second == nil {
		t.Fatal("expected results")
	}

	if first.Scale != second.Scale || first.Offset != second.Offset {
		t.Errorf("scale/offset differ: (%v, %v) vs (%v, %v)",
			first.Scale, first.Offset, second.Scale, second.Offset)
	}
	if !first.Equal(second) {
		t.Error("identical inputs must produce equal results")
	}
}

func TestResultEqual(t *testing.T) {
	raw, bare, regions := edgeJumpFixture()
	engine := NewEngine(ModeBareAtom)

	a := engine.Compute(raw, bare, regions)
	b := engine.Compute(raw, bare, regions)
	if !a.Equal(b) {
		t.Error("equal results reported unequal")
	}

	b.Points[0].Absorption += 1e-6
	if a.Equal(b) {
		t.Error("differing points reported equal")
	}

	var nilResult *Result
	if a.Equal(nilResult) {
		t.Error("non-nil equal to nil")
	}
	if !nilResult.Equal(nil) {
		t.Error("nil should equal nil")
	}
}

func TestNewRangeSortsEndpoints(t *testing.T) {
	r := NewRange(302, 300)
	if r.Min != 300 || r.Max != 302 {
		t.Errorf("range = %+v, expected sorted endpoints", r)
	}
	if !r.Contains(300) || !r.Contains(302) || r.Contains(299.9) {
		t.Error("closed-interval containment broken")
	}
}
