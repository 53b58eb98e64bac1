package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// DefaultSlippageBaseline is the assumed per-fill slippage fraction used when
// the caller does not supply one.
const DefaultSlippageBaseline = 0.0005

// ErrLengthMismatch indicates expected/actual price sequences of different
// lengths.
var ErrLengthMismatch = errors.New("expected and actual price arrays must have the same length")

// ErrInvalidPrice indicates a non-positive expected price, for which relative
// slippage is undefined.
var ErrInvalidPrice = errors.New("expected prices must be positive")

// SlippageAnalysis holds the distribution of realized slippage across a set
// of fills, compared to the assumed baseline.
type SlippageAnalysis struct {
	Samples         int     `json:"samples"`
	Mean            float64 `json:"mean"`
	Median          float64 `json:"median"`
	StdDev          float64 `json:"std_dev"`
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
	Baseline        float64 `json:"baseline"`
	SlippageDiff    float64 `json:"slippage_diff"`
	SlippagePercent float64 `json:"slippage_percent"`
}

// AnalyzeSlippage compares expected against realized execution prices.
// Per-fill slippage is |actual-expected| / expected. Baseline <= 0 selects
// DefaultSlippageBaseline.
func AnalyzeSlippage(expected, actual []float64, baseline float64) (*SlippageAnalysis, error) {
	if len(expected) != len(actual) {
		return nil, fmt.Errorf("%w: expected %d, actual %d", ErrLengthMismatch, len(expected), len(actual))
	}
	if baseline <= 0 {
		baseline = DefaultSlippageBaseline
	}

	analysis := &SlippageAnalysis{Samples: len(expected), Baseline: baseline}
	if len(expected) == 0 {
		analysis.SlippageDiff = -baseline
		analysis.SlippagePercent = analysis.SlippageDiff / baseline * 100
		return analysis, nil
	}

	slippages := make([]float64, len(expected))
	sum := 0.0
	for i := range expected {
		if expected[i] <= 0 {
			return nil, fmt.Errorf("%w: got %v at index %d", ErrInvalidPrice, expected[i], i)
		}
		s := math.Abs(actual[i]-expected[i]) / expected[i]
		slippages[i] = s
		sum += s
	}
	sort.Float64s(slippages)

	analysis.Mean = sum / float64(len(slippages))
	analysis.Median = median(slippages)
	analysis.StdDev = stdDev(slippages, analysis.Mean)
	analysis.Min = slippages[0]
	analysis.Max = slippages[len(slippages)-1]
	analysis.SlippageDiff = analysis.Mean - baseline
	analysis.SlippagePercent = analysis.SlippageDiff / baseline * 100
	return analysis, nil
}

// median of an already sorted sequence.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// stdDev is the population standard deviation.
func stdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
