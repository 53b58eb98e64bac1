package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperrun/paperrun/internal/paper"
)

func baselineBacktest() *BacktestMetrics {
	return &BacktestMetrics{TotalReturn: 0.10, WinRate: 0.5, MaxDrawdown: 0.05}
}

// paperSnapshot builds a snapshot whose ledger yields the given win rate
// across n trades.
func paperSnapshot(totalPnLPercent, maxDrawdown float64, n int, winRate float64) *ModeSnapshot {
	wins := int(winRate * float64(n))
	trades := make([]paper.Trade, 0, n)
	for i := 0; i < n; i++ {
		if i < wins {
			trades = append(trades, paper.Trade{PnL: 100, PnLPercent: 0.01})
		} else {
			trades = append(trades, paper.Trade{PnL: -100, PnLPercent: -0.01})
		}
	}
	return &ModeSnapshot{
		Portfolio: paper.Portfolio{TotalPnLPercent: totalPnLPercent, MaxDrawdown: maxDrawdown},
		Trades:    trades,
	}
}

func criterionByName(t *testing.T, report *Report, name string) Criterion {
	t.Helper()
	for _, c := range report.Criteria {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("criterion %q not found in report", name)
	return Criterion{}
}

func TestValidate_BacktestRequired(t *testing.T) {
	engine := NewEngine(nil)

	report := engine.Validate(nil, paperSnapshot(0.1, 0.05, 10, 0.5), nil)

	assert.Equal(t, StatusFail, report.Overall)
	require.Len(t, report.Criteria, 1)
	assert.Equal(t, "Backtest Required", report.Criteria[0].Name)
	assert.Equal(t, StatusFail, report.Criteria[0].Status)
}

func TestValidate_MatchingPaperPasses(t *testing.T) {
	engine := NewEngine(nil)

	report := engine.Validate(baselineBacktest(), paperSnapshot(0.10, 0.05, 10, 0.5), nil)

	require.Len(t, report.Criteria, 3)
	assert.Equal(t, StatusPass, criterionByName(t, report, "Return Consistency").Status)
	assert.Equal(t, StatusPass, criterionByName(t, report, "Win Rate Consistency").Status)
	assert.Equal(t, StatusPass, criterionByName(t, report, "Drawdown Consistency").Status)
	assert.Equal(t, StatusPass, report.Overall)

	// 10 trades is below the live-promotion bar, so no recommendation.
	assert.Empty(t, report.Recommendations)
}

func TestValidate_LargeReturnDivergenceFails(t *testing.T) {
	engine := NewEngine(nil)

	report := engine.Validate(baselineBacktest(), paperSnapshot(-0.50, 0.05, 10, 0.5), nil)

	assert.Equal(t, StatusFail, criterionByName(t, report, "Return Consistency").Status)
	assert.Equal(t, StatusFail, report.Overall)
	require.NotEmpty(t, report.Recommendations)
	assert.Contains(t, report.Recommendations[len(report.Recommendations)-1], "do not promote")
}

func TestValidate_WarningTier(t *testing.T) {
	engine := NewEngine(nil)

	// Return diff 0.25 sits between the 0.20 and 0.30 tiers.
	report := engine.Validate(baselineBacktest(), paperSnapshot(0.35, 0.05, 10, 0.5), nil)

	assert.Equal(t, StatusWarning, criterionByName(t, report, "Return Consistency").Status)
	assert.Equal(t, StatusWarning, report.Overall)
	require.NotEmpty(t, report.Recommendations)
	assert.Contains(t, strings.Join(report.Recommendations, " "), "monitoring")
}

func TestValidate_DrawdownTiers(t *testing.T) {
	engine := NewEngine(nil)

	cases := []struct {
		name     string
		paperMax float64
		want     Status
	}{
		{"equal drawdown passes", 0.05, StatusPass},
		{"at 1.5x still passes", 0.075, StatusPass},
		{"between 1.5x and 2x warns", 0.09, StatusWarning},
		{"beyond 2x fails", 0.11, StatusFail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := engine.Validate(baselineBacktest(), paperSnapshot(0.10, tc.paperMax, 10, 0.5), nil)
			assert.Equal(t, tc.want, criterionByName(t, report, "Drawdown Consistency").Status)
		})
	}
}

func TestValidate_WinRateTier(t *testing.T) {
	engine := NewEngine(nil)

	// Paper win rate 0.8 vs backtest 0.5: diff 0.30 > 0.15 fails.
	report := engine.Validate(baselineBacktest(), paperSnapshot(0.10, 0.05, 10, 0.8), nil)
	assert.Equal(t, StatusFail, criterionByName(t, report, "Win Rate Consistency").Status)

	// Diff 0.10 is exactly the pass boundary.
	report = engine.Validate(baselineBacktest(), paperSnapshot(0.10, 0.05, 10, 0.6), nil)
	assert.Equal(t, StatusPass, criterionByName(t, report, "Win Rate Consistency").Status)
}

func TestValidate_SlippageRecommendation(t *testing.T) {
	engine := NewEngine(nil)

	snap := paperSnapshot(0.10, 0.05, 4, 0.5)
	for i := range snap.Trades {
		snap.Trades[i].Slippage = 0.005
	}

	report := engine.Validate(baselineBacktest(), snap, nil)
	require.NotEmpty(t, report.Recommendations)
	assert.Contains(t, report.Recommendations[0], "limit orders")
}

func TestValidate_LiveLooserThresholds(t *testing.T) {
	engine := NewEngine(nil)

	// Diff 0.22: fails the paper tier but passes the live tier.
	live := &ModeSnapshot{Portfolio: paper.Portfolio{TotalPnLPercent: 0.32, MaxDrawdown: 0.05}}
	report := engine.Validate(baselineBacktest(), nil, live)

	require.Len(t, report.Criteria, 1)
	assert.Equal(t, "Live Return Consistency", report.Criteria[0].Name)
	assert.Equal(t, StatusPass, report.Criteria[0].Status)
}

func TestValidate_PaperLiveGapRecommendation(t *testing.T) {
	engine := NewEngine(nil)

	paperSnap := paperSnapshot(0.10, 0.05, 10, 0.5)
	live := &ModeSnapshot{Portfolio: paper.Portfolio{TotalPnLPercent: 0.30, MaxDrawdown: 0.05}}

	report := engine.Validate(baselineBacktest(), paperSnap, live)
	assert.Contains(t, strings.Join(report.Recommendations, " "), "execution model")
}

func TestValidate_PassWithEnoughTradesRecommendsLive(t *testing.T) {
	engine := NewEngine(nil)

	report := engine.Validate(baselineBacktest(), paperSnapshot(0.10, 0.05, 20, 0.5), nil)

	assert.Equal(t, StatusPass, report.Overall)
	require.NotEmpty(t, report.Recommendations)
	assert.Contains(t, report.Recommendations[0], "minimal position size")
}

func TestValidate_ZeroBacktestDrawdown(t *testing.T) {
	engine := NewEngine(nil)
	backtest := &BacktestMetrics{TotalReturn: 0.10, WinRate: 0.5, MaxDrawdown: 0}

	report := engine.Validate(backtest, paperSnapshot(0.10, 0, 10, 0.5), nil)
	assert.Equal(t, StatusPass, criterionByName(t, report, "Drawdown Consistency").Status)

	report = engine.Validate(backtest, paperSnapshot(0.10, 0.01, 10, 0.5), nil)
	assert.Equal(t, StatusFail, criterionByName(t, report, "Drawdown Consistency").Status)
}
