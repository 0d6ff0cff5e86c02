package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TradePosition is the direction of a trade.
type TradePosition string

const (
	PositionLong  TradePosition = "long"
	PositionShort TradePosition = "short"
)

// TradeStatus tracks whether a trade is still open.
type TradeStatus string

const (
	TradeOpen   TradeStatus = "open"
	TradeClosed TradeStatus = "closed"
)

// Trade is a single journal entry. A trade is closed exactly when both
// ExitPrice and ExitTime are recorded; only then is its P&L defined.
// Prices are stored as plain numbers; P&L arithmetic runs in decimal to
// keep sums exact.
type Trade struct {
	ID             string        `json:"id" yaml:"id" toml:"id" validate:"required,uuid4"`
	Asset          string        `json:"asset" yaml:"asset" toml:"asset" validate:"required,min=1,max=32"`
	Position       TradePosition `json:"position" yaml:"position" toml:"position" validate:"required,oneof=long short"`
	EntryTime      time.Time     `json:"entryTime" yaml:"entryTime" toml:"entryTime" validate:"required"`
	ExitTime       *time.Time    `json:"exitTime,omitempty" yaml:"exitTime,omitempty" toml:"exitTime,omitempty"`
	EntryPrice     float64       `json:"entryPrice" yaml:"entryPrice" toml:"entryPrice" validate:"gt=0"`
	ExitPrice      *float64      `json:"exitPrice,omitempty" yaml:"exitPrice,omitempty" toml:"exitPrice,omitempty" validate:"omitempty,gt=0"`
	Quantity       float64       `json:"quantity" yaml:"quantity" toml:"quantity" validate:"gt=0"`
	Strategy       string        `json:"strategy,omitempty" yaml:"strategy,omitempty" toml:"strategy,omitempty"`
	Reflection     string        `json:"reflection,omitempty" yaml:"reflection,omitempty" toml:"reflection,omitempty"`
	RiskPercentage *float64      `json:"riskPercentage,omitempty" yaml:"riskPercentage,omitempty" toml:"riskPercentage,omitempty" validate:"omitempty,gt=0"`
	Status         TradeStatus   `json:"status" yaml:"status" toml:"status" validate:"required,oneof=open closed"`
	CreatedAt      time.Time     `json:"createdAt" yaml:"createdAt" toml:"createdAt" validate:"required"`
	UpdatedAt      time.Time     `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt" validate:"required"`
}

// NewTrade opens a trade with fresh timestamps. Field constraints are
// covered by the validate tags and checked at the store boundary.
func NewTrade(id, asset string, position TradePosition, entryTime time.Time, entryPrice, quantity float64) Trade {
	now := time.Now().UTC()
	return Trade{
		ID:         id,
		Asset:      asset,
		Position:   position,
		EntryTime:  entryTime,
		EntryPrice: entryPrice,
		Quantity:   quantity,
		Status:     TradeOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsClosed reports whether the trade has a defined P&L.
func (t Trade) IsClosed() bool {
	return t.Status == TradeClosed && t.ExitPrice != nil && t.ExitTime != nil
}

// Close records the exit fill and transitions the trade to closed.
// Exit must not precede entry and the exit price must be positive.
func (t Trade) Close(exitTime time.Time, exitPrice float64, now time.Time) (Trade, error) {
	if t.Status == TradeClosed {
		return Trade{}, fmt.Errorf("trade %s is already closed", t.ID)
	}
	if exitPrice <= 0 {
		return Trade{}, fmt.Errorf("exit price must be positive, got %v", exitPrice)
	}
	if exitTime.Before(t.EntryTime) {
		return Trade{}, fmt.Errorf("exit time %s precedes entry time %s", exitTime.Format(time.RFC3339), t.EntryTime.Format(time.RFC3339))
	}
	t.ExitTime = &exitTime
	t.ExitPrice = &exitPrice
	t.Status = TradeClosed
	t.UpdatedAt = now
	return t, nil
}

// PnL derives the profit or loss of a closed trade:
// long  -> (exit - entry) * quantity
// short -> (entry - exit) * quantity
// The second return value is false for trades that are not closed.
func (t Trade) PnL() (decimal.Decimal, bool) {
	if !t.IsClosed() {
		return decimal.Zero, false
	}
	entry := decimal.NewFromFloat(t.EntryPrice)
	exit := decimal.NewFromFloat(*t.ExitPrice)
	qty := decimal.NewFromFloat(t.Quantity)
	if t.Position == PositionShort {
		return entry.Sub(exit).Mul(qty), true
	}
	return exit.Sub(entry).Mul(qty), true
}
