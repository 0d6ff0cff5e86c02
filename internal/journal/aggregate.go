// Package journal reduces trade records into summary statistics and a
// per-week breakdown. The reducers are total over their input: malformed
// records contribute zero instead of failing the whole aggregation.
package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prohubhq/prohub/models"
)

// SummaryStats are the all-time numbers over closed trades.
type SummaryStats struct {
	TotalPnL     decimal.Decimal `json:"totalPnl"`
	WinRate      float64         `json:"winRate"`
	AverageWin   decimal.Decimal `json:"averageWin"`
	AverageLoss  decimal.Decimal `json:"averageLoss"`
	ClosedTrades int             `json:"closedTrades"`
	Wins         int             `json:"wins"`
	Losses       int             `json:"losses"`
}

// WeeklyInsights covers the Monday-to-Sunday week containing a reference
// date. PnLByDay always has seven entries, Monday first, zero-filled for
// days without closed trades.
type WeeklyInsights struct {
	TotalPnL         decimal.Decimal   `json:"totalPnl"`
	WinRate          float64           `json:"winRate"`
	WinningTrades    int               `json:"winningTrades"`
	LosingTrades     int               `json:"losingTrades"`
	BestAsset        string            `json:"bestAsset"`
	MostUsedStrategy string            `json:"mostUsedStrategy"`
	PnLByDay         []decimal.Decimal `json:"pnlByDay"`
}

// tradePnL reads the derived P&L of a trade marked closed. A closed
// trade missing its exit fields counts as zero, never as an error.
func tradePnL(t models.Trade) decimal.Decimal {
	pnl, ok := t.PnL()
	if !ok {
		return decimal.Zero
	}
	return pnl
}

// Summarize reduces all closed trades to summary statistics. Open trades
// are ignored. Ratios over an empty closed set are defined as zero.
func Summarize(trades []models.Trade) SummaryStats {
	stats := SummaryStats{
		TotalPnL:    decimal.Zero,
		AverageWin:  decimal.Zero,
		AverageLoss: decimal.Zero,
	}
	sumWins := decimal.Zero
	sumLosses := decimal.Zero

	for _, t := range trades {
		if t.Status != models.TradeClosed {
			continue
		}
		stats.ClosedTrades++
		pnl := tradePnL(t)
		stats.TotalPnL = stats.TotalPnL.Add(pnl)
		switch {
		case pnl.IsPositive():
			stats.Wins++
			sumWins = sumWins.Add(pnl)
		case pnl.IsNegative():
			stats.Losses++
			sumLosses = sumLosses.Add(pnl)
		}
	}

	if stats.ClosedTrades > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.ClosedTrades)
	}
	if stats.Wins > 0 {
		stats.AverageWin = sumWins.Div(decimal.NewFromInt(int64(stats.Wins)))
	}
	if stats.Losses > 0 {
		// Kept negative; magnitude is a display concern.
		stats.AverageLoss = sumLosses.Div(decimal.NewFromInt(int64(stats.Losses)))
	}
	return stats
}

// WeekStart returns midnight of the Monday of the week containing ref,
// in ref's location.
func WeekStart(ref time.Time) time.Time {
	daysSinceMonday := (int(ref.Weekday()) + 6) % 7
	y, m, d := ref.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())
	return midnight.AddDate(0, 0, -daysSinceMonday)
}

// Weekdays lists the PnLByDay labels in bucket order.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeeklyInsightsFor reduces the closed trades whose exit falls inside
// the week containing referenceDate. BestAsset is the asset with the
// highest summed P&L, MostUsedStrategy the most frequent non-empty
// strategy value; both are "N/A" when the window has nothing to report,
// and ties go to the value encountered first.
func WeeklyInsightsFor(trades []models.Trade, referenceDate time.Time) WeeklyInsights {
	start := WeekStart(referenceDate)
	end := start.AddDate(0, 0, 7)

	insights := WeeklyInsights{
		TotalPnL:         decimal.Zero,
		BestAsset:        "N/A",
		MostUsedStrategy: "N/A",
		PnLByDay:         make([]decimal.Decimal, 7),
	}
	for i := range insights.PnLByDay {
		insights.PnLByDay[i] = decimal.Zero
	}

	closed := 0
	assetPnL := map[string]decimal.Decimal{}
	assetOrder := []string{}
	strategyCount := map[string]int{}
	strategyOrder := []string{}

	for _, t := range trades {
		if t.Status != models.TradeClosed || t.ExitTime == nil {
			continue
		}
		exit := t.ExitTime.In(referenceDate.Location())
		if exit.Before(start) || !exit.Before(end) {
			continue
		}
		closed++
		pnl := tradePnL(t)
		insights.TotalPnL = insights.TotalPnL.Add(pnl)

		day := (int(exit.Weekday()) + 6) % 7 // Monday = 0
		insights.PnLByDay[day] = insights.PnLByDay[day].Add(pnl)

		switch {
		case pnl.IsPositive():
			insights.WinningTrades++
		case pnl.IsNegative():
			insights.LosingTrades++
		}

		if _, seen := assetPnL[t.Asset]; !seen {
			assetOrder = append(assetOrder, t.Asset)
		}
		assetPnL[t.Asset] = assetPnL[t.Asset].Add(pnl)

		if t.Strategy != "" {
			if _, seen := strategyCount[t.Strategy]; !seen {
				strategyOrder = append(strategyOrder, t.Strategy)
			}
			strategyCount[t.Strategy]++
		}
	}

	if closed > 0 {
		insights.WinRate = float64(insights.WinningTrades) / float64(closed)
	}

	for i, asset := range assetOrder {
		if i == 0 || assetPnL[asset].GreaterThan(assetPnL[insights.BestAsset]) {
			insights.BestAsset = asset
		}
	}
	best := 0
	for _, strategy := range strategyOrder {
		if strategyCount[strategy] > best {
			best = strategyCount[strategy]
			insights.MostUsedStrategy = strategy
		}
	}
	return insights
}
