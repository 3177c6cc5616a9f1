package services

import (
	"errors"
	"math"

	"github.com/caresight/caresight-backend/internal/types"
)

// ErrInsufficientData is returned when a series has fewer than the 3 points
// needed for trend analysis.
var ErrInsufficientData = errors.New("insufficient data points for trend analysis")

// TrendPoint is one (timestamp, value) observation of a metric.
type TrendPoint struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// TrendDirection splits the series into halves (second half absorbs the odd
// element), compares the half means, and calls the change stable when it is
// under 10% of the first-half mean. Fewer than 2 points, or a zero first-half
// mean, degrades to stable.
func TrendDirection(values []float64) string {
	if len(values) < 2 {
		return types.TrendStable
	}

	mid := len(values) / 2
	var firstSum, secondSum float64
	for _, v := range values[:mid] {
		firstSum += v
	}
	for _, v := range values[mid:] {
		secondSum += v
	}
	firstMean := firstSum / float64(mid)
	secondMean := secondSum / float64(len(values)-mid)

	// A zero first-half mean has no meaningful relative change; treat the
	// degenerate case as stable rather than dividing by zero.
	if firstMean == 0 {
		return types.TrendStable
	}

	relativeChange := math.Abs(secondMean-firstMean) / firstMean
	if relativeChange < 0.10 {
		return types.TrendStable
	}
	if secondMean > firstMean {
		return types.TrendImproving
	}
	return types.TrendDeclining
}

// TrendStrength is a 0-1 stability score: 1 minus the coefficient of variation,
// clamped. It is not a hypothesis-tested slope. A zero mean forces 0, which
// also zeroes out any zero-centered metric; a known edge case.
func TrendStrength(values []float64) float64 {
	if len(values) < 3 {
		return 0.0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return 0.0
	}

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	// Sample standard deviation (n-1).
	stdev := math.Sqrt(sq / float64(len(values)-1))

	cv := stdev / mean
	return math.Max(0.0, math.Min(1.0, 1.0-cv))
}
