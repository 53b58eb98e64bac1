// Package validate compares the performance of a strategy across its three
// modes of operation: backtest, paper trading and live trading. The full
// engine produces a tiered pass/warning/fail report; Compare is a separate,
// looser quick-comparison entry point with its own thresholds.
package validate

import (
	"fmt"
	"math"
	"time"

	"github.com/paperrun/paperrun/internal/paper"
	"github.com/paperrun/paperrun/internal/stats"
)

// Status is the outcome of a single criterion or of the whole report.
type Status string

const (
	StatusPass    Status = "pass"
	StatusWarning Status = "warning"
	StatusFail    Status = "fail"
)

// statusRank orders statuses from best to worst for the overall roll-up.
var statusRank = map[Status]int{
	StatusPass:    0,
	StatusWarning: 1,
	StatusFail:    2,
}

// BacktestMetrics is the stored result of a prior backtest run, the anchor
// every other mode is judged against.
type BacktestMetrics struct {
	TotalReturn  float64 `json:"total_return"`
	WinRate      float64 `json:"win_rate"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	ProfitFactor float64 `json:"profit_factor,omitempty"`
	TotalTrades  int     `json:"total_trades,omitempty"`
}

// ModeSnapshot is the observed state of one paper or live run: its portfolio
// and trade ledger.
type ModeSnapshot struct {
	Portfolio paper.Portfolio `json:"portfolio"`
	Trades    []paper.Trade   `json:"trades"`
}

// Criterion is one evaluated row of a validation report.
type Criterion struct {
	Name      string  `json:"name"`
	Status    Status  `json:"status"`
	Expected  float64 `json:"expected"`
	Actual    float64 `json:"actual"`
	Threshold float64 `json:"threshold"`
	Message   string  `json:"message"`
}

// Report is the outcome of a full validation: per-criterion rows, the worst
// status observed, and free-text recommendations.
type Report struct {
	GeneratedAt     time.Time   `json:"generated_at"`
	Criteria        []Criterion `json:"criteria"`
	Overall         Status      `json:"overall"`
	Recommendations []string    `json:"recommendations"`
}

// Thresholds holds every tunable limit of the engine. The two-tier pairs
// read as: pass if the measured value is <= Warn, warning if <= Fail,
// fail beyond that.
type Thresholds struct {
	PaperReturnWarn   float64 `yaml:"paper_return_warn"`
	PaperReturnFail   float64 `yaml:"paper_return_fail"`
	PaperWinRateWarn  float64 `yaml:"paper_win_rate_warn"`
	PaperWinRateFail  float64 `yaml:"paper_win_rate_fail"`
	DrawdownRatioWarn float64 `yaml:"drawdown_ratio_warn"`
	DrawdownRatioFail float64 `yaml:"drawdown_ratio_fail"`
	LiveReturnWarn    float64 `yaml:"live_return_warn"`
	LiveReturnFail    float64 `yaml:"live_return_fail"`

	// Recommendation triggers.
	PaperLiveReturnGap float64 `yaml:"paper_live_return_gap"`
	SlippageAlert      float64 `yaml:"slippage_alert"`
	MinTradesForLive   int     `yaml:"min_trades_for_live"`

	// Quick-comparison limits, deliberately distinct from the tiered set.
	CompareReturnWarn   float64 `yaml:"compare_return_warn"`
	CompareWinRateWarn  float64 `yaml:"compare_win_rate_warn"`
	CompareDrawdownMult float64 `yaml:"compare_drawdown_mult"`
}

// DefaultThresholds returns the standard threshold table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PaperReturnWarn:   0.20,
		PaperReturnFail:   0.30,
		PaperWinRateWarn:  0.10,
		PaperWinRateFail:  0.15,
		DrawdownRatioWarn: 1.5,
		DrawdownRatioFail: 2.0,
		LiveReturnWarn:    0.25,
		LiveReturnFail:    0.35,

		PaperLiveReturnGap: 0.15,
		SlippageAlert:      0.002,
		MinTradesForLive:   20,

		CompareReturnWarn:   0.20,
		CompareWinRateWarn:  0.10,
		CompareDrawdownMult: 1.5,
	}
}

// Engine evaluates cross-mode consistency against a threshold table.
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates a validation engine. A nil thresholds argument selects
// DefaultThresholds.
func NewEngine(thresholds *Thresholds) *Engine {
	t := DefaultThresholds()
	if thresholds != nil {
		t = *thresholds
	}
	return &Engine{thresholds: t}
}

// Validate produces the full cross-mode report. Backtest is required: without
// it the report short-circuits to a single failing criterion. Paper and live
// snapshots are optional; a missing mode simply contributes no rows.
func (e *Engine) Validate(backtest *BacktestMetrics, paperSnap, liveSnap *ModeSnapshot) *Report {
	report := &Report{
		GeneratedAt:     time.Now().UTC(),
		Criteria:        []Criterion{},
		Overall:         StatusPass,
		Recommendations: []string{},
	}

	if backtest == nil {
		report.Criteria = append(report.Criteria, Criterion{
			Name:    "Backtest Required",
			Status:  StatusFail,
			Message: "Validation requires stored backtest results as the baseline",
		})
		report.Overall = StatusFail
		return report
	}

	if paperSnap != nil {
		e.evaluatePaper(report, backtest, paperSnap)
	}
	if liveSnap != nil {
		e.evaluateLive(report, backtest, paperSnap, liveSnap)
	}

	for _, c := range report.Criteria {
		if statusRank[c.Status] > statusRank[report.Overall] {
			report.Overall = c.Status
		}
	}

	e.appendTailRecommendations(report, paperSnap)
	return report
}

// evaluatePaper appends the three paper-vs-backtest criteria plus the
// slippage recommendation.
func (e *Engine) evaluatePaper(report *Report, backtest *BacktestMetrics, snap *ModeSnapshot) {
	t := e.thresholds

	returnDiff := math.Abs(snap.Portfolio.TotalPnLPercent - backtest.TotalReturn)
	report.Criteria = append(report.Criteria, Criterion{
		Name:      "Return Consistency",
		Status:    tier(returnDiff, t.PaperReturnWarn, t.PaperReturnFail),
		Expected:  backtest.TotalReturn,
		Actual:    snap.Portfolio.TotalPnLPercent,
		Threshold: t.PaperReturnWarn,
		Message:   fmt.Sprintf("Paper return deviates %.1f%% from backtest", returnDiff*100),
	})

	paperMetrics := stats.Calculate(snap.Trades)
	winRateDiff := math.Abs(paperMetrics.WinRate - backtest.WinRate)
	report.Criteria = append(report.Criteria, Criterion{
		Name:      "Win Rate Consistency",
		Status:    tier(winRateDiff, t.PaperWinRateWarn, t.PaperWinRateFail),
		Expected:  backtest.WinRate,
		Actual:    paperMetrics.WinRate,
		Threshold: t.PaperWinRateWarn,
		Message:   fmt.Sprintf("Paper win rate deviates %.1f%% from backtest", winRateDiff*100),
	})

	ratio := drawdownRatio(snap.Portfolio.MaxDrawdown, backtest.MaxDrawdown)
	report.Criteria = append(report.Criteria, Criterion{
		Name:      "Drawdown Consistency",
		Status:    tier(ratio, t.DrawdownRatioWarn, t.DrawdownRatioFail),
		Expected:  backtest.MaxDrawdown,
		Actual:    snap.Portfolio.MaxDrawdown,
		Threshold: t.DrawdownRatioWarn,
		Message:   fmt.Sprintf("Paper max drawdown is %.2fx the backtest drawdown", ratio),
	})

	if avgSlip := stats.AvgAbsSlippage(snap.Trades); avgSlip > t.SlippageAlert {
		report.Recommendations = append(report.Recommendations, fmt.Sprintf(
			"Average slippage %.4f exceeds %.4f: reduce position size or prefer limit orders",
			avgSlip, t.SlippageAlert))
	}
}

// evaluateLive appends the live-vs-backtest return criterion. The live
// thresholds are looser than the paper ones: live fills carry real execution
// noise a paper simulation does not.
func (e *Engine) evaluateLive(report *Report, backtest *BacktestMetrics, paperSnap, liveSnap *ModeSnapshot) {
	t := e.thresholds

	returnDiff := math.Abs(liveSnap.Portfolio.TotalPnLPercent - backtest.TotalReturn)
	report.Criteria = append(report.Criteria, Criterion{
		Name:      "Live Return Consistency",
		Status:    tier(returnDiff, t.LiveReturnWarn, t.LiveReturnFail),
		Expected:  backtest.TotalReturn,
		Actual:    liveSnap.Portfolio.TotalPnLPercent,
		Threshold: t.LiveReturnWarn,
		Message:   fmt.Sprintf("Live return deviates %.1f%% from backtest", returnDiff*100),
	})

	if paperSnap != nil {
		gap := math.Abs(liveSnap.Portfolio.TotalPnLPercent - paperSnap.Portfolio.TotalPnLPercent)
		if gap > t.PaperLiveReturnGap {
			report.Recommendations = append(report.Recommendations, fmt.Sprintf(
				"Live return diverges %.1f%% from paper trading: review the execution model", gap*100))
		}
	}
}

// appendTailRecommendations adds the promotion guidance keyed off the overall
// status.
func (e *Engine) appendTailRecommendations(report *Report, paperSnap *ModeSnapshot) {
	switch report.Overall {
	case StatusPass:
		if paperSnap != nil && len(paperSnap.Trades) >= e.thresholds.MinTradesForLive {
			report.Recommendations = append(report.Recommendations,
				"Validation passed: consider starting live trading with minimal position size")
		}
	case StatusWarning:
		report.Recommendations = append(report.Recommendations,
			"Validation produced warnings: continue paper trading under close monitoring")
	case StatusFail:
		report.Recommendations = append(report.Recommendations,
			"Validation failed: do not promote this strategy to live trading")
	}
}

// tier maps a measured value onto the two-tier threshold ladder.
func tier(value, warn, fail float64) Status {
	switch {
	case value <= warn:
		return StatusPass
	case value <= fail:
		return StatusWarning
	default:
		return StatusFail
	}
}

// drawdownRatio guards the division for a zero backtest drawdown: matching
// zero is a perfect pass, any paper drawdown against a flat backtest curve
// is unbounded.
func drawdownRatio(paperMax, backtestMax float64) float64 {
	if backtestMax > 0 {
		return paperMax / backtestMax
	}
	if paperMax == 0 {
		return 0
	}
	return math.Inf(1)
}
