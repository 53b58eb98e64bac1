package validate

import (
	"fmt"
	"math"

	"github.com/paperrun/paperrun/internal/stats"
)

// Comparison is the result of the quick backtest-vs-paper comparison. Unlike
// the full report it carries raw differences plus flat error/warning lists.
type Comparison struct {
	ReturnDiff    float64  `json:"return_diff"`
	WinRateDiff   float64  `json:"win_rate_diff"`
	AvgSlippage   float64  `json:"avg_slippage"`
	DrawdownRatio float64  `json:"drawdown_ratio"`
	Warnings      []string `json:"warnings"`
	Errors        []string `json:"errors"`
	Passed        bool     `json:"passed"`
}

// Compare runs the quick comparison between a backtest result and a paper
// trading snapshot. Return and win-rate deviations beyond their limits
// produce warnings; only an excessive drawdown is an error. The comparison
// passes with no errors and at most two warnings.
//
// This is intentionally a separate, looser entry point than Validate and the
// two threshold tables must not be unified.
func (e *Engine) Compare(backtest *BacktestMetrics, paperSnap *ModeSnapshot) *Comparison {
	cmp := &Comparison{
		Warnings: []string{},
		Errors:   []string{},
	}
	if backtest == nil {
		cmp.Errors = append(cmp.Errors, "backtest results are required for comparison")
		return cmp
	}
	if paperSnap == nil {
		cmp.Errors = append(cmp.Errors, "paper trading results are required for comparison")
		return cmp
	}

	t := e.thresholds
	paperMetrics := stats.Calculate(paperSnap.Trades)

	cmp.ReturnDiff = math.Abs(paperSnap.Portfolio.TotalPnLPercent - backtest.TotalReturn)
	if cmp.ReturnDiff > t.CompareReturnWarn {
		cmp.Warnings = append(cmp.Warnings, fmt.Sprintf(
			"return differs from backtest by %.1f%% (limit %.1f%%)",
			cmp.ReturnDiff*100, t.CompareReturnWarn*100))
	}

	cmp.WinRateDiff = math.Abs(paperMetrics.WinRate - backtest.WinRate)
	if cmp.WinRateDiff > t.CompareWinRateWarn {
		cmp.Warnings = append(cmp.Warnings, fmt.Sprintf(
			"win rate differs from backtest by %.1f%% (limit %.1f%%)",
			cmp.WinRateDiff*100, t.CompareWinRateWarn*100))
	}

	cmp.AvgSlippage = stats.AvgAbsSlippage(paperSnap.Trades)
	// The ratio is reported only when it is defined; a zero backtest drawdown
	// would make it infinite, which JSON cannot carry. The error check below
	// still fires for any paper drawdown against a flat backtest curve.
	if backtest.MaxDrawdown > 0 {
		cmp.DrawdownRatio = paperSnap.Portfolio.MaxDrawdown / backtest.MaxDrawdown
	}
	if paperSnap.Portfolio.MaxDrawdown > t.CompareDrawdownMult*backtest.MaxDrawdown {
		cmp.Errors = append(cmp.Errors, fmt.Sprintf(
			"max drawdown %.2f%% exceeds %.1fx the backtest drawdown %.2f%%",
			paperSnap.Portfolio.MaxDrawdown*100, t.CompareDrawdownMult, backtest.MaxDrawdown*100))
	}

	cmp.Passed = len(cmp.Errors) == 0 && len(cmp.Warnings) <= 2
	return cmp
}
