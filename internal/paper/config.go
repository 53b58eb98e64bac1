package paper

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates a session configuration with out-of-range fields.
var ErrInvalidConfig = errors.New("invalid session config")

// Config holds the immutable configuration of a paper trading session.
// All fractions are expressed as decimals (0.02 == 2%).
type Config struct {
	Symbols           []string `json:"symbols" yaml:"symbols"`
	InitialBalance    float64  `json:"initial_balance" yaml:"initial_balance"`
	MaxPositionSize   float64  `json:"max_position_size" yaml:"max_position_size"`
	MaxOpenPositions  int      `json:"max_open_positions" yaml:"max_open_positions"`
	RiskPerTrade      float64  `json:"risk_per_trade" yaml:"risk_per_trade"`
	StopLossPercent   float64  `json:"stop_loss_percent" yaml:"stop_loss_percent"`
	TakeProfitPercent float64  `json:"take_profit_percent" yaml:"take_profit_percent"`
	FeeRate           float64  `json:"fee_rate" yaml:"fee_rate"`
	Slippage          float64  `json:"slippage" yaml:"slippage"`
}

// ConfigPatch carries caller-supplied overrides for a session config. Nil
// fields keep the default; set fields replace it individually.
type ConfigPatch struct {
	Symbols           []string `json:"symbols,omitempty"`
	InitialBalance    *float64 `json:"initial_balance,omitempty"`
	MaxPositionSize   *float64 `json:"max_position_size,omitempty"`
	MaxOpenPositions  *int     `json:"max_open_positions,omitempty"`
	RiskPerTrade      *float64 `json:"risk_per_trade,omitempty"`
	StopLossPercent   *float64 `json:"stop_loss_percent,omitempty"`
	TakeProfitPercent *float64 `json:"take_profit_percent,omitempty"`
	FeeRate           *float64 `json:"fee_rate,omitempty"`
	Slippage          *float64 `json:"slippage,omitempty"`
}

// DefaultConfig returns the built-in session defaults.
func DefaultConfig() Config {
	return Config{
		Symbols:           []string{"BTC-USD", "ETH-USD"},
		InitialBalance:    10000.0,
		MaxPositionSize:   0.1,
		MaxOpenPositions:  3,
		RiskPerTrade:      0.02,
		StopLossPercent:   0.02,
		TakeProfitPercent: 0.04,
		FeeRate:           0.001,
		Slippage:          0.0005,
	}
}

// Apply overlays the patch onto c field by field and returns the result.
func (c Config) Apply(patch ConfigPatch) Config {
	if len(patch.Symbols) > 0 {
		c.Symbols = append([]string(nil), patch.Symbols...)
	} else {
		c.Symbols = append([]string(nil), c.Symbols...)
	}
	if patch.InitialBalance != nil {
		c.InitialBalance = *patch.InitialBalance
	}
	if patch.MaxPositionSize != nil {
		c.MaxPositionSize = *patch.MaxPositionSize
	}
	if patch.MaxOpenPositions != nil {
		c.MaxOpenPositions = *patch.MaxOpenPositions
	}
	if patch.RiskPerTrade != nil {
		c.RiskPerTrade = *patch.RiskPerTrade
	}
	if patch.StopLossPercent != nil {
		c.StopLossPercent = *patch.StopLossPercent
	}
	if patch.TakeProfitPercent != nil {
		c.TakeProfitPercent = *patch.TakeProfitPercent
	}
	if patch.FeeRate != nil {
		c.FeeRate = *patch.FeeRate
	}
	if patch.Slippage != nil {
		c.Slippage = *patch.Slippage
	}
	return c
}

// Validate checks the config against its allowed ranges.
func (c Config) Validate() error {
	if c.InitialBalance <= 0 {
		return fmt.Errorf("%w: initial_balance must be positive, got %v", ErrInvalidConfig, c.InitialBalance)
	}
	if c.MaxPositionSize <= 0 || c.MaxPositionSize > 1 {
		return fmt.Errorf("%w: max_position_size must be in (0, 1], got %v", ErrInvalidConfig, c.MaxPositionSize)
	}
	if c.MaxOpenPositions < 1 {
		return fmt.Errorf("%w: max_open_positions must be at least 1, got %d", ErrInvalidConfig, c.MaxOpenPositions)
	}
	if c.RiskPerTrade <= 0 || c.RiskPerTrade > 1 {
		return fmt.Errorf("%w: risk_per_trade must be in (0, 1], got %v", ErrInvalidConfig, c.RiskPerTrade)
	}
	if c.StopLossPercent < 0 || c.TakeProfitPercent < 0 {
		return fmt.Errorf("%w: stop-loss and take-profit percentages must be non-negative", ErrInvalidConfig)
	}
	if c.FeeRate < 0 || c.Slippage < 0 {
		return fmt.Errorf("%w: fee_rate and slippage must be non-negative", ErrInvalidConfig)
	}
	return nil
}
