package paper

import "time"

// Trade is one closed trade in a session's ledger. Records are immutable once
// appended; the ledger only ever changes by whole-ledger replacement during a
// session update.
type Trade struct {
	Symbol     string    `json:"symbol"`
	Side       string    `json:"side"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Size       float64   `json:"size"`
	PnL        float64   `json:"pnl"`
	PnLPercent float64   `json:"pnl_percent"`
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	Slippage   float64   `json:"slippage,omitempty"`
}

// CloneTrades deep-copies a ledger slice.
func CloneTrades(trades []Trade) []Trade {
	if trades == nil {
		return []Trade{}
	}
	return append([]Trade(nil), trades...)
}
