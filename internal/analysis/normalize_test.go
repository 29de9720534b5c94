package analysis

import (
	"math"
	"testing"
)

func TestPercentChange_BaselineBecomesOne(t *testing.T) {
	got := PercentChange([]float64{2.0, 3.0, 4.0})
	if got[0] != 1.0 {
		t.Fatalf("expected element 0 to be exactly 1.0, got %v", got[0])
	}
	if math.Abs(got[1]-1.5) > 1e-12 {
		t.Fatalf("expected 1.5, got %v", got[1])
	}
	if math.Abs(got[2]-2.0) > 1e-12 {
		t.Fatalf("expected 2.0, got %v", got[2])
	}
}

func TestPercentChange_NoisyBaselineReplaced(t *testing.T) {
	// Element 1 is smaller than the baseline sample, so it replaces the
	// baseline and normalizes to exactly 1.0.
	got := PercentChange([]float64{2.0, 1.5, 3.0})
	if got[0] != 1.0 {
		t.Fatalf("expected element 0 to be exactly 1.0, got %v", got[0])
	}
	if got[1] != 1.0 {
		t.Fatalf("expected element 1 to be exactly 1.0, got %v", got[1])
	}
	if math.Abs(got[2]-2.0) > 1e-12 {
		t.Fatalf("expected 2.0, got %v", got[2])
	}
}

func TestPercentChange_DoesNotModifyInput(t *testing.T) {
	in := []float64{2.0, 1.5, 3.0}
	PercentChange(in)
	if in[0] != 2.0 || in[1] != 1.5 || in[2] != 3.0 {
		t.Fatalf("input series was modified: %v", in)
	}
}

func TestPercentChange_Empty(t *testing.T) {
	if got := PercentChange(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestMax(t *testing.T) {
	if got := Max([]float64{0.5, 2.5, 1.0}); got != 2.5 {
		t.Fatalf("expected 2.5, got %v", got)
	}
	if got := Max(nil); got != 0 {
		t.Fatalf("expected 0 for empty series, got %v", got)
	}
}
