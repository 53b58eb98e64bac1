// Package stats derives aggregate performance statistics from a session's
// trade ledger. Everything here is a pure function over immutable trade
// records.
package stats

import (
	"math"

	"github.com/paperrun/paperrun/internal/paper"
)

// Metrics summarizes the performance of a trade ledger.
type Metrics struct {
	TotalTrades  int     `json:"total_trades"`
	WinningCount int     `json:"winning_count"`
	LosingCount  int     `json:"losing_count"`
	WinRate      float64 `json:"win_rate"`
	TotalReturn  float64 `json:"total_return"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	GrossProfit  float64 `json:"gross_profit"`
	GrossLoss    float64 `json:"gross_loss"`
	ProfitFactor float64 `json:"profit_factor"`
	Expectancy   float64 `json:"expectancy"`
}

// Calculate derives metrics from the ledger. An empty ledger yields the zero
// Metrics: winRate, profitFactor and expectancy are all defined as 0.
func Calculate(trades []paper.Trade) Metrics {
	m := Metrics{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return m
	}

	for _, trade := range trades {
		m.TotalReturn += trade.PnLPercent
		switch {
		case trade.PnL > 0:
			m.WinningCount++
			m.GrossProfit += trade.PnL
		case trade.PnL < 0:
			m.LosingCount++
			m.GrossLoss += -trade.PnL
		}
	}

	m.WinRate = float64(m.WinningCount) / float64(m.TotalTrades)
	if m.WinningCount > 0 {
		m.AvgWin = m.GrossProfit / float64(m.WinningCount)
	}
	if m.LosingCount > 0 {
		m.AvgLoss = m.GrossLoss / float64(m.LosingCount)
	}

	switch {
	case m.GrossLoss > 0:
		m.ProfitFactor = m.GrossProfit / m.GrossLoss
	case m.GrossProfit > 0:
		m.ProfitFactor = math.Inf(1)
	default:
		m.ProfitFactor = 0
	}

	m.Expectancy = m.WinRate*m.AvgWin - (1-m.WinRate)*m.AvgLoss
	return m
}

// AvgAbsSlippage returns the mean of |trade.slippage| across the ledger, or
// 0 for an empty ledger.
func AvgAbsSlippage(trades []paper.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	sum := 0.0
	for _, trade := range trades {
		sum += math.Abs(trade.Slippage)
	}
	return sum / float64(len(trades))
}
