package services

import (
	"math"
	"testing"

	"github.com/caresight/caresight-backend/internal/types"
)

func TestTrendDirection_ShortSeriesIsStable(t *testing.T) {
	if got := TrendDirection(nil); got != types.TrendStable {
		t.Fatalf("expected stable for empty series, got %q", got)
	}
	if got := TrendDirection([]float64{5.0}); got != types.TrendStable {
		t.Fatalf("expected stable for single point, got %q", got)
	}
}

func TestTrendDirection_RisingHalvesAreImproving(t *testing.T) {
	values := []float64{10, 10, 10, 20, 20, 20}
	if got := TrendDirection(values); got != types.TrendImproving {
		t.Fatalf("expected improving, got %q", got)
	}
}

func TestTrendDirection_FallingHalvesAreDeclining(t *testing.T) {
	values := []float64{20, 20, 20, 10, 10, 10}
	if got := TrendDirection(values); got != types.TrendDeclining {
		t.Fatalf("expected declining, got %q", got)
	}
}

func TestTrendDirection_ChangeUnderTenPercentIsStable(t *testing.T) {
	// Half means 100 and 105: a 5% change stays stable.
	values := []float64{100, 100, 105, 105}
	if got := TrendDirection(values); got != types.TrendStable {
		t.Fatalf("expected stable, got %q", got)
	}
}

func TestTrendDirection_ZeroFirstHalfMeanIsStable(t *testing.T) {
	// No finite relative change exists against a zero baseline.
	if got := TrendDirection([]float64{0, 0, 10, 10}); got != types.TrendStable {
		t.Fatalf("expected stable for zero first-half mean, got %q", got)
	}
	// Both halves zero-mean but not identical: still stable, not declining.
	if got := TrendDirection([]float64{-1, 1, -2, 2}); got != types.TrendStable {
		t.Fatalf("expected stable for zero-mean halves, got %q", got)
	}
}

func TestTrendDirection_OddLengthSecondHalfAbsorbsMiddle(t *testing.T) {
	// 5 points: first half is 2 points (mean 10), second half is 3 (mean 20).
	values := []float64{10, 10, 20, 20, 20}
	if got := TrendDirection(values); got != types.TrendImproving {
		t.Fatalf("expected improving, got %q", got)
	}
}

func TestTrendStrength_ShortSeriesIsZero(t *testing.T) {
	if got := TrendStrength([]float64{1, 2}); got != 0.0 {
		t.Fatalf("expected 0 for 2 points, got %v", got)
	}
}

func TestTrendStrength_ConstantSeriesIsOne(t *testing.T) {
	values := []float64{7, 7, 7, 7}
	if got := TrendStrength(values); got != 1.0 {
		t.Fatalf("expected 1.0 for constant series, got %v", got)
	}
}

func TestTrendStrength_ZeroMeanIsZero(t *testing.T) {
	values := []float64{-1, 0, 1}
	if got := TrendStrength(values); got != 0.0 {
		t.Fatalf("expected 0 for zero-mean series, got %v", got)
	}
}

func TestTrendStrength_NoisySeriesIsClampedToUnitRange(t *testing.T) {
	// CV well above 1: clamp to 0 rather than going negative.
	values := []float64{1, 100, 1, 100, 1}
	got := TrendStrength(values)
	if got < 0.0 || got > 1.0 {
		t.Fatalf("expected result in [0,1], got %v", got)
	}
}

func TestTrendStrength_UsesSampleStandardDeviation(t *testing.T) {
	values := []float64{10, 12, 14}
	// mean 12, sample stdev 2, cv 1/6.
	want := 1.0 - 2.0/12.0
	got := TrendStrength(values)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
