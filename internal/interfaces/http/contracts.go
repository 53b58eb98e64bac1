package http

import (
	"time"

	"github.com/paperrun/paperrun/internal/paper"
	"github.com/paperrun/paperrun/internal/validate"
)

// Request/response contracts for the paperrun API. All payloads are JSON.

// StartSessionRequest carries the caller's config overrides; unset fields
// keep the server defaults.
type StartSessionRequest struct {
	Config paper.ConfigPatch `json:"config"`
}

// StartSessionResponse returns the new session id and the effective config
// after defaults were applied.
type StartSessionResponse struct {
	SessionID string       `json:"session_id"`
	Config    paper.Config `json:"config"`
}

// UpdateSessionRequest wholesale-replaces the session's portfolio and/or
// trade ledger. Absent fields leave the current state untouched.
type UpdateSessionRequest struct {
	Portfolio *paper.Portfolio `json:"portfolio,omitempty"`
	Trades    []paper.Trade    `json:"trades,omitempty"`
}

// AckResponse acknowledges a state-changing call.
type AckResponse struct {
	OK        bool   `json:"ok"`
	SessionID string `json:"session_id,omitempty"`
}

// SessionListResponse wraps the session list.
type SessionListResponse struct {
	Sessions []*paper.Session `json:"sessions"`
	Count    int              `json:"count"`
}

// ValidateRequest carries the inputs of a full validation run.
type ValidateRequest struct {
	Backtest *validate.BacktestMetrics `json:"backtest,omitempty"`
	Paper    *validate.ModeSnapshot    `json:"paper,omitempty"`
	Live     *validate.ModeSnapshot    `json:"live,omitempty"`
}

// CompareRequest carries the inputs of the quick comparison.
type CompareRequest struct {
	Backtest *validate.BacktestMetrics `json:"backtest,omitempty"`
	Paper    *validate.ModeSnapshot    `json:"paper,omitempty"`
}

// SlippageRequest carries expected/actual fill prices for analysis. Baseline
// is optional; zero selects the default.
type SlippageRequest struct {
	Expected []float64 `json:"expected"`
	Actual   []float64 `json:"actual"`
	Baseline float64   `json:"baseline,omitempty"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	ActiveSessions int       `json:"active_sessions"`
	TotalSessions  int       `json:"total_sessions"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}
