package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSlippage_LengthMismatch(t *testing.T) {
	_, err := AnalyzeSlippage([]float64{100, 101}, []float64{100}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestAnalyzeSlippage_EqualArrays(t *testing.T) {
	prices := []float64{100, 200, 300}
	analysis, err := AnalyzeSlippage(prices, prices, 0)
	require.NoError(t, err)

	assert.Zero(t, analysis.Mean)
	assert.Zero(t, analysis.Median)
	assert.Zero(t, analysis.StdDev)
	assert.Zero(t, analysis.Min)
	assert.Zero(t, analysis.Max)
	assert.Equal(t, DefaultSlippageBaseline, analysis.Baseline)
	assert.InDelta(t, -DefaultSlippageBaseline, analysis.SlippageDiff, 1e-12)
	assert.InDelta(t, -100.0, analysis.SlippagePercent, 1e-9)
}

func TestAnalyzeSlippage_KnownDistribution(t *testing.T) {
	expected := []float64{100, 100, 100, 100}
	actual := []float64{100.1, 100.2, 99.7, 100.4}
	// slippages: 0.001, 0.002, 0.003, 0.004

	analysis, err := AnalyzeSlippage(expected, actual, 0.0005)
	require.NoError(t, err)

	assert.Equal(t, 4, analysis.Samples)
	assert.InDelta(t, 0.0025, analysis.Mean, 1e-9)
	assert.InDelta(t, 0.0025, analysis.Median, 1e-9)
	assert.InDelta(t, 0.001, analysis.Min, 1e-9)
	assert.InDelta(t, 0.004, analysis.Max, 1e-9)
	// population stddev of {1,2,3,4}/1000 = sqrt(1.25)/1000
	assert.InDelta(t, 0.0011180339887, analysis.StdDev, 1e-9)
	assert.InDelta(t, 0.002, analysis.SlippageDiff, 1e-9)
	assert.InDelta(t, 400.0, analysis.SlippagePercent, 1e-6)
}

func TestAnalyzeSlippage_OddMedian(t *testing.T) {
	expected := []float64{100, 100, 100}
	actual := []float64{100.1, 100.5, 100.2}

	analysis, err := AnalyzeSlippage(expected, actual, 0.001)
	require.NoError(t, err)
	assert.InDelta(t, 0.002, analysis.Median, 1e-9)
	assert.Equal(t, 0.001, analysis.Baseline)
}

func TestAnalyzeSlippage_NonPositiveExpectedPrice(t *testing.T) {
	_, err := AnalyzeSlippage([]float64{100, 0}, []float64{100, 1}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = AnalyzeSlippage([]float64{-50}, []float64{50}, 0)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestAnalyzeSlippage_EmptyInput(t *testing.T) {
	analysis, err := AnalyzeSlippage(nil, nil, 0)
	require.NoError(t, err)
	assert.Zero(t, analysis.Samples)
	assert.Zero(t, analysis.Mean)
}
