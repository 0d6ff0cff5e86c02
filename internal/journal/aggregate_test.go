package journal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prohubhq/prohub/models"
)

func closedTrade(asset string, position models.TradePosition, entry, exit, qty float64, exitTime time.Time) models.Trade {
	return models.Trade{
		ID:         asset + exitTime.Format(time.RFC3339),
		Asset:      asset,
		Position:   position,
		EntryTime:  exitTime.Add(-time.Hour),
		ExitTime:   &exitTime,
		EntryPrice: entry,
		ExitPrice:  &exit,
		Quantity:   qty,
		Status:     models.TradeClosed,
	}
}

func openTrade(asset string, entry, qty float64) models.Trade {
	return models.Trade{
		ID:         asset,
		Asset:      asset,
		Position:   models.PositionLong,
		EntryTime:  time.Now(),
		EntryPrice: entry,
		Quantity:   qty,
		Status:     models.TradeOpen,
	}
}

func decEq(t *testing.T, got decimal.Decimal, want string, label string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: got %s, want %s", label, got, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	stats := Summarize(nil)
	if stats.WinRate != 0 {
		t.Errorf("win rate over no trades must be 0, got %v", stats.WinRate)
	}
	decEq(t, stats.TotalPnL, "0", "total")
	decEq(t, stats.AverageWin, "0", "average win")
	decEq(t, stats.AverageLoss, "0", "average loss")
}

func TestSummarize_MixedTrades(t *testing.T) {
	exit := time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		closedTrade("BTC", models.PositionLong, 100, 110, 5, exit),  // +50
		closedTrade("ETH", models.PositionShort, 100, 90, 5, exit),  // +50
		closedTrade("SOL", models.PositionLong, 100, 90, 5, exit),   // -50
		closedTrade("DOGE", models.PositionLong, 100, 100, 5, exit), // 0, breakeven
		openTrade("ADA", 50, 1),
	}

	stats := Summarize(trades)
	if stats.ClosedTrades != 4 {
		t.Fatalf("closed trades: got %d, want 4", stats.ClosedTrades)
	}
	if stats.Wins != 2 || stats.Losses != 1 {
		t.Errorf("wins/losses: got %d/%d, want 2/1", stats.Wins, stats.Losses)
	}
	decEq(t, stats.TotalPnL, "50", "total")
	decEq(t, stats.AverageWin, "50", "average win")
	decEq(t, stats.AverageLoss, "-50", "average loss")
	if stats.WinRate != 0.5 {
		t.Errorf("win rate: got %v, want 0.5", stats.WinRate)
	}
}

func TestSummarize_MalformedClosedTradeCountsZero(t *testing.T) {
	// Closed status without exit fields: reduced as zero, never an error.
	broken := models.Trade{
		ID:         "broken",
		Asset:      "BTC",
		Position:   models.PositionLong,
		EntryPrice: 100,
		Quantity:   1,
		Status:     models.TradeClosed,
	}
	stats := Summarize([]models.Trade{broken})
	if stats.ClosedTrades != 1 {
		t.Fatalf("closed trades: got %d, want 1", stats.ClosedTrades)
	}
	decEq(t, stats.TotalPnL, "0", "total")
	if stats.Wins != 0 || stats.Losses != 0 {
		t.Errorf("zero-P&L trade counted as win or loss: %d/%d", stats.Wins, stats.Losses)
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		ref  time.Time
		want time.Time
	}{
		{
			"wednesday",
			time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC),
			time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			"monday is its own start",
			time.Date(2026, 8, 24, 0, 0, 1, 0, time.UTC),
			time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday belongs to the preceding monday",
			time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC),
			time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.ref); !got.Equal(tt.want) {
				t.Errorf("WeekStart(%s) = %s, want %s", tt.ref, got, tt.want)
			}
		})
	}
}

func TestWeeklyInsightsFor_EmptyWeek(t *testing.T) {
	ref := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	insights := WeeklyInsightsFor(nil, ref)

	if len(insights.PnLByDay) != 7 {
		t.Fatalf("PnLByDay length: got %d, want 7", len(insights.PnLByDay))
	}
	for i, pnl := range insights.PnLByDay {
		if !pnl.IsZero() {
			t.Errorf("day %s: got %s, want 0", Weekdays[i], pnl)
		}
	}
	if insights.BestAsset != "N/A" || insights.MostUsedStrategy != "N/A" {
		t.Errorf("empty week defaults: asset=%q strategy=%q", insights.BestAsset, insights.MostUsedStrategy)
	}
	if insights.WinRate != 0 {
		t.Errorf("win rate over empty week: got %v", insights.WinRate)
	}
}

func TestWeeklyInsightsFor_WindowEdges(t *testing.T) {
	ref := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) // Wednesday
	mondayStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	sundayEnd := time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC)
	nextMonday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	prevSunday := time.Date(2026, 8, 23, 23, 59, 59, 0, time.UTC)

	trades := []models.Trade{
		closedTrade("IN1", models.PositionLong, 100, 110, 1, mondayStart), // +10
		closedTrade("IN2", models.PositionLong, 100, 120, 1, sundayEnd),   // +20
		closedTrade("OUT1", models.PositionLong, 100, 200, 1, nextMonday),
		closedTrade("OUT2", models.PositionLong, 100, 200, 1, prevSunday),
	}

	insights := WeeklyInsightsFor(trades, ref)
	decEq(t, insights.TotalPnL, "30", "weekly total")
	decEq(t, insights.PnLByDay[0], "10", "Monday bucket")
	decEq(t, insights.PnLByDay[6], "20", "Sunday bucket")
	if insights.WinningTrades != 2 || insights.LosingTrades != 0 {
		t.Errorf("wins/losses: got %d/%d", insights.WinningTrades, insights.LosingTrades)
	}
}

func TestWeeklyInsightsFor_BestAssetAndStrategy(t *testing.T) {
	ref := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	eth1 := closedTrade("ETH", models.PositionLong, 100, 105, 1, tuesday) // +5
	eth1.Strategy = "breakout"
	eth2 := closedTrade("ETH", models.PositionLong, 100, 110, 1, tuesday.Add(time.Hour)) // +10
	eth2.Strategy = "breakout"
	btc := closedTrade("BTC", models.PositionLong, 100, 108, 1, tuesday) // +8
	btc.Strategy = "scalp"
	noStrategy := closedTrade("SOL", models.PositionLong, 100, 101, 1, tuesday)

	insights := WeeklyInsightsFor([]models.Trade{btc, eth1, eth2, noStrategy}, ref)
	if insights.BestAsset != "ETH" {
		t.Errorf("best asset: got %q, want ETH (summed +15 beats BTC's +8)", insights.BestAsset)
	}
	if insights.MostUsedStrategy != "breakout" {
		t.Errorf("most used strategy: got %q, want breakout", insights.MostUsedStrategy)
	}
}

func TestWeeklyInsightsFor_TiesGoToFirstEncountered(t *testing.T) {
	ref := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	a := closedTrade("AAA", models.PositionLong, 100, 110, 1, tuesday)
	a.Strategy = "alpha"
	b := closedTrade("BBB", models.PositionLong, 100, 110, 1, tuesday.Add(time.Hour))
	b.Strategy = "beta"

	insights := WeeklyInsightsFor([]models.Trade{a, b}, ref)
	if insights.BestAsset != "AAA" {
		t.Errorf("asset tie: got %q, want first-encountered AAA", insights.BestAsset)
	}
	if insights.MostUsedStrategy != "alpha" {
		t.Errorf("strategy tie: got %q, want first-encountered alpha", insights.MostUsedStrategy)
	}
}
