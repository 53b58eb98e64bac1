package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paperrun/paperrun/internal/paper"
)

func trade(pnl, pnlPercent float64) paper.Trade {
	return paper.Trade{Symbol: "BTC-USD", PnL: pnl, PnLPercent: pnlPercent}
}

func TestCalculate_EmptyLedger(t *testing.T) {
	m := Calculate(nil)

	assert.Zero(t, m.TotalTrades)
	assert.Zero(t, m.WinRate)
	assert.Zero(t, m.ProfitFactor)
	assert.Zero(t, m.Expectancy)
	assert.Zero(t, m.TotalReturn)
}

func TestCalculate_MixedLedger(t *testing.T) {
	trades := []paper.Trade{
		trade(100, 0.02),
		trade(-50, -0.01),
		trade(200, 0.04),
		trade(-150, -0.03),
	}

	m := Calculate(trades)

	assert.Equal(t, 4, m.TotalTrades)
	assert.Equal(t, 0.5, m.WinRate)
	assert.InDelta(t, 0.02, m.TotalReturn, 1e-9)
	assert.InDelta(t, 150.0, m.AvgWin, 1e-9)
	assert.InDelta(t, 100.0, m.AvgLoss, 1e-9)
	assert.InDelta(t, 300.0/200.0, m.ProfitFactor, 1e-9)
	// expectancy = 0.5*150 - 0.5*100
	assert.InDelta(t, 25.0, m.Expectancy, 1e-9)
}

func TestCalculate_WinRateBounds(t *testing.T) {
	allWins := []paper.Trade{trade(10, 0.01), trade(20, 0.02)}
	allLosses := []paper.Trade{trade(-10, -0.01), trade(-20, -0.02)}

	assert.Equal(t, 1.0, Calculate(allWins).WinRate)
	assert.Equal(t, 0.0, Calculate(allLosses).WinRate)
}

func TestCalculate_ProfitFactorInfinity(t *testing.T) {
	m := Calculate([]paper.Trade{trade(10, 0.01), trade(25, 0.02)})
	assert.True(t, math.IsInf(m.ProfitFactor, 1), "no losses and positive profit must yield +Inf")
}

func TestCalculate_ProfitFactorZeroOnBreakeven(t *testing.T) {
	m := Calculate([]paper.Trade{trade(0, 0), trade(0, 0)})
	assert.Zero(t, m.ProfitFactor)
	assert.Zero(t, m.WinRate)
	assert.Zero(t, m.Expectancy)
}

func TestCalculate_AllLosses(t *testing.T) {
	m := Calculate([]paper.Trade{trade(-10, -0.01), trade(-30, -0.03)})

	assert.Zero(t, m.ProfitFactor)
	assert.Zero(t, m.AvgWin)
	assert.InDelta(t, 20.0, m.AvgLoss, 1e-9)
	assert.InDelta(t, -20.0, m.Expectancy, 1e-9)
}

func TestAvgAbsSlippage(t *testing.T) {
	assert.Zero(t, AvgAbsSlippage(nil))

	trades := []paper.Trade{
		{Slippage: 0.001},
		{Slippage: -0.003},
		{Slippage: 0.002},
	}
	assert.InDelta(t, 0.002, AvgAbsSlippage(trades), 1e-9)
}
