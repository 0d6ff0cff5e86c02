package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func openedTrade(position TradePosition, entryPrice, quantity float64) Trade {
	entry := time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC)
	return NewTrade(uuid.NewString(), "BTC", position, entry, entryPrice, quantity)
}

func TestTradePnL(t *testing.T) {
	tests := []struct {
		name     string
		position TradePosition
		entry    float64
		exit     float64
		qty      float64
		want     string
	}{
		{"long profit", PositionLong, 100, 110, 5, "50"},
		{"long loss", PositionLong, 100, 90, 5, "-50"},
		{"short profit", PositionShort, 100, 90, 5, "50"},
		{"short loss", PositionShort, 100, 110, 5, "-50"},
		{"breakeven", PositionLong, 100, 100, 5, "0"},
		{"fractional quantity", PositionLong, 100, 101, 0.5, "0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trade := openedTrade(tt.position, tt.entry, tt.qty)
			closed, err := trade.Close(trade.EntryTime.Add(time.Hour), tt.exit, time.Now())
			if err != nil {
				t.Fatalf("close: %v", err)
			}
			pnl, ok := closed.PnL()
			if !ok {
				t.Fatal("closed trade reported no P&L")
			}
			if !pnl.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("got %s, want %s", pnl, tt.want)
			}
		})
	}
}

func TestTradePnLUndefinedWhileOpen(t *testing.T) {
	trade := openedTrade(PositionLong, 100, 1)
	if _, ok := trade.PnL(); ok {
		t.Error("open trade must have no P&L")
	}
}

func TestTradePnLUndefinedForPartialCloseRecord(t *testing.T) {
	// Closed status with exit fields missing: no P&L rather than a bogus one.
	trade := openedTrade(PositionLong, 100, 1)
	trade.Status = TradeClosed
	if _, ok := trade.PnL(); ok {
		t.Error("closed trade without exit fill must have no P&L")
	}
}

func TestTradeClose(t *testing.T) {
	trade := openedTrade(PositionLong, 100, 2)
	exitTime := trade.EntryTime.Add(2 * time.Hour)
	now := time.Now()

	closed, err := trade.Close(exitTime, 105, now)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if !closed.IsClosed() {
		t.Error("trade not closed after Close")
	}
	if closed.ExitPrice == nil || *closed.ExitPrice != 105 {
		t.Error("exit price not recorded")
	}
	if closed.ExitTime == nil || !closed.ExitTime.Equal(exitTime) {
		t.Error("exit time not recorded")
	}
	if trade.Status != TradeOpen {
		t.Error("receiver was mutated")
	}
}

func TestTradeCloseRejections(t *testing.T) {
	trade := openedTrade(PositionLong, 100, 2)
	later := trade.EntryTime.Add(time.Hour)
	now := time.Now()

	if _, err := trade.Close(later, 0, now); err == nil {
		t.Error("zero exit price accepted")
	}
	if _, err := trade.Close(later, -5, now); err == nil {
		t.Error("negative exit price accepted")
	}
	if _, err := trade.Close(trade.EntryTime.Add(-time.Minute), 105, now); err == nil {
		t.Error("exit before entry accepted")
	}

	closed, err := trade.Close(later, 105, now)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := closed.Close(later.Add(time.Hour), 110, now); err == nil {
		t.Error("double close accepted")
	}
}

func TestTradeValidation(t *testing.T) {
	valid := openedTrade(PositionLong, 100, 1)
	if err := ValidateStruct(valid); err != nil {
		t.Fatalf("valid trade rejected: %v", err)
	}

	bad := valid
	bad.EntryPrice = 0
	if err := ValidateStruct(bad); err == nil {
		t.Error("zero entry price accepted")
	}

	bad = valid
	bad.Position = "sideways"
	if err := ValidateStruct(bad); err == nil {
		t.Error("unknown position accepted")
	}

	bad = valid
	bad.Quantity = -1
	if err := ValidateStruct(bad); err == nil {
		t.Error("negative quantity accepted")
	}
}
