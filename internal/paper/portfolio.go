package paper

// Position side constants.
const (
	SideLong  = "long"
	SideShort = "short"
)

// Position represents a single open position inside a portfolio.
type Position struct {
	Symbol        string  `json:"symbol"`
	Side          string  `json:"side"`
	Size          float64 `json:"size"`
	EntryPrice    float64 `json:"entry_price"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
}

// Portfolio is the mutable state of one paper trading session. Equity is
// balance plus the unrealized P&L of open positions; peak equity and the two
// drawdown fields track the equity curve.
type Portfolio struct {
	Balance         float64    `json:"balance"`
	Equity          float64    `json:"equity"`
	Positions       []Position `json:"positions"`
	TotalPnL        float64    `json:"total_pnl"`
	TotalPnLPercent float64    `json:"total_pnl_percent"`
	PeakEquity      float64    `json:"peak_equity"`
	CurrentDrawdown float64    `json:"current_drawdown"`
	MaxDrawdown     float64    `json:"max_drawdown"`
}

// NewPortfolio returns a portfolio funded with the initial balance and no
// open positions.
func NewPortfolio(initialBalance float64) Portfolio {
	return Portfolio{
		Balance:    initialBalance,
		Equity:     initialBalance,
		PeakEquity: initialBalance,
		Positions:  []Position{},
	}
}

// Observe re-derives the equity-curve fields after a state change, enforcing
// the invariants peakEquity >= equity and maxDrawdown >= currentDrawdown.
// A snapshot that arrives with a stale peak or drawdown is corrected here
// rather than rejected.
func (p *Portfolio) Observe() {
	if p.Equity > p.PeakEquity {
		p.PeakEquity = p.Equity
	}
	if p.PeakEquity > 0 {
		p.CurrentDrawdown = (p.PeakEquity - p.Equity) / p.PeakEquity
	} else {
		p.CurrentDrawdown = 0
	}
	if p.CurrentDrawdown < 0 {
		p.CurrentDrawdown = 0
	}
	if p.CurrentDrawdown > p.MaxDrawdown {
		p.MaxDrawdown = p.CurrentDrawdown
	}
}

// Clone returns a deep copy so callers and the registry never alias the same
// positions slice.
func (p Portfolio) Clone() Portfolio {
	out := p
	out.Positions = append([]Position(nil), p.Positions...)
	return out
}
