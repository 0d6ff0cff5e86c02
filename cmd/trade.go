package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/prohubhq/prohub/internal/journal"
	"github.com/prohubhq/prohub/models"
)

var (
	tradePosition   string
	tradePrice      float64
	tradeQty        float64
	tradeStrategy   string
	tradeRisk       float64
	tradeTime       string
	tradeReflection string
	tradeWeekDate   string
)

// tradeCmd groups the trade journal subcommands.
var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Manage the trade journal",
	Long: `Record trades and review performance. A trade opens with an entry
fill and closes with an exit fill; P&L, win rate and weekly insights are
computed over closed trades only.`,
}

var tradeOpenCmd = &cobra.Command{
	Use:   "open <asset>",
	Short: "Open a trade",
	Long: `Record a new open trade.

Example:
  prohub trade open BTCUSD --position long --price 64250.50 --qty 0.25 --strategy breakout`,
	Args: cobra.ExactArgs(1),
	RunE: runTradeOpen,
}

var tradeCloseCmd = &cobra.Command{
	Use:   "close <trade-id>",
	Short: "Close a trade with its exit fill",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeClose,
}

var tradeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades",
	Args:  cobra.NoArgs,
	RunE:  runTradeList,
}

var tradeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show all-time P&L statistics",
	Args:  cobra.NoArgs,
	RunE:  runTradeStats,
}

var tradeWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show insights for one trading week",
	Long:  `Show P&L, win rate, best asset, most used strategy and a Monday-to-Sunday per-day breakdown for the week containing --date (default today).`,
	Args:  cobra.NoArgs,
	RunE:  runTradeWeek,
}

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeOpenCmd, tradeCloseCmd, tradeListCmd, tradeStatsCmd, tradeWeekCmd)

	tradeOpenCmd.Flags().StringVar(&tradePosition, "position", "long", "long or short")
	tradeOpenCmd.Flags().Float64Var(&tradePrice, "price", 0, "entry price")
	tradeOpenCmd.Flags().Float64Var(&tradeQty, "qty", 0, "quantity")
	tradeOpenCmd.Flags().StringVar(&tradeStrategy, "strategy", "", "strategy label")
	tradeOpenCmd.Flags().Float64Var(&tradeRisk, "risk", 0, "risk percentage")
	tradeOpenCmd.Flags().StringVar(&tradeTime, "time", "", "entry time (RFC3339, default now)")
	_ = tradeOpenCmd.MarkFlagRequired("price")
	_ = tradeOpenCmd.MarkFlagRequired("qty")

	tradeCloseCmd.Flags().Float64Var(&tradePrice, "price", 0, "exit price")
	tradeCloseCmd.Flags().StringVar(&tradeTime, "time", "", "exit time (RFC3339, default now)")
	tradeCloseCmd.Flags().StringVar(&tradeReflection, "reflection", "", "what went right or wrong")
	_ = tradeCloseCmd.MarkFlagRequired("price")

	tradeWeekCmd.Flags().StringVar(&tradeWeekDate, "date", "", "reference date (YYYY-MM-DD, default today)")
}

func parseTradeTime(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (want RFC3339, e.g. 2026-08-30T14:30:00Z): %w", value, err)
	}
	return t, nil
}

func runTradeOpen(cmd *cobra.Command, args []string) error {
	position := models.TradePosition(tradePosition)
	if position != models.PositionLong && position != models.PositionShort {
		return fmt.Errorf("invalid position %q (want long or short)", tradePosition)
	}
	entryTime, err := parseTradeTime(tradeTime)
	if err != nil {
		return err
	}

	trade := models.NewTrade("", strings.ToUpper(args[0]), position, entryTime, tradePrice, tradeQty)
	trade.Strategy = tradeStrategy
	if tradeRisk > 0 {
		risk := tradeRisk
		trade.RiskPercentage = &risk
	}

	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	created, err := st.CreateTrade(trade)
	if err != nil {
		return fmt.Errorf("failed to open trade: %w", err)
	}
	cmd.Printf("Opened %s %s @ %v x %v (ID: %s)\n", created.Position, created.Asset, created.EntryPrice, created.Quantity, created.ID)
	return nil
}

func runTradeClose(cmd *cobra.Command, args []string) error {
	exitTime, err := parseTradeTime(tradeTime)
	if err != nil {
		return err
	}

	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	updated, err := st.UpdateTrade(args[0], func(t models.Trade) (models.Trade, error) {
		closed, err := t.Close(exitTime, tradePrice, time.Now().UTC())
		if err != nil {
			return models.Trade{}, err
		}
		if tradeReflection != "" {
			closed.Reflection = tradeReflection
		}
		return closed, nil
	})
	if err != nil {
		return fmt.Errorf("failed to close trade: %w", err)
	}

	pnl, _ := updated.PnL()
	cmd.Printf("Closed %s %s, P&L %s\n", updated.Position, updated.Asset, pnl.StringFixed(2))
	return nil
}

func runTradeList(cmd *cobra.Command, args []string) error {
	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	trades, err := st.ListTrades()
	if err != nil {
		return fmt.Errorf("failed to list trades: %w", err)
	}
	if len(trades) == 0 {
		cmd.Println("No trades recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tASSET\tPOS\tENTRY\tEXIT\tQTY\tPNL\tSTRATEGY\tID")
	for _, t := range trades {
		exit := "-"
		if t.ExitPrice != nil {
			exit = fmt.Sprintf("%v", *t.ExitPrice)
		}
		pnlLabel := "-"
		if pnl, ok := t.PnL(); ok {
			pnlLabel = pnl.StringFixed(2)
		}
		strategy := t.Strategy
		if strategy == "" {
			strategy = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\t%v\t%s\t%s\t%s\n",
			t.Status, t.Asset, t.Position, t.EntryPrice, exit, t.Quantity, pnlLabel, strategy, t.ID)
	}
	return w.Flush()
}

func runTradeStats(cmd *cobra.Command, args []string) error {
	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	trades, err := st.ListTrades()
	if err != nil {
		return fmt.Errorf("failed to list trades: %w", err)
	}

	stats := journal.Summarize(trades)
	cmd.Printf("Closed trades: %d (%d wins, %d losses)\n", stats.ClosedTrades, stats.Wins, stats.Losses)
	cmd.Printf("Total P&L:     %s\n", stats.TotalPnL.StringFixed(2))
	cmd.Printf("Win rate:      %.1f%%\n", stats.WinRate*100)
	cmd.Printf("Average win:   %s\n", stats.AverageWin.StringFixed(2))
	cmd.Printf("Average loss:  %s\n", stats.AverageLoss.Abs().StringFixed(2))
	return nil
}

func runTradeWeek(cmd *cobra.Command, args []string) error {
	reference := time.Now()
	if tradeWeekDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", tradeWeekDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", tradeWeekDate, err)
		}
		reference = parsed
	}

	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	trades, err := st.ListTrades()
	if err != nil {
		return fmt.Errorf("failed to list trades: %w", err)
	}

	insights := journal.WeeklyInsightsFor(trades, reference)
	start := journal.WeekStart(reference)
	cmd.Printf("Week of %s\n", start.Format("2006-01-02"))
	cmd.Printf("Total P&L: %s  Win rate: %.1f%% (%d wins, %d losses)\n",
		insights.TotalPnL.StringFixed(2), insights.WinRate*100, insights.WinningTrades, insights.LosingTrades)
	cmd.Printf("Best asset: %s  Most used strategy: %s\n", insights.BestAsset, insights.MostUsedStrategy)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for i, day := range journal.Weekdays {
		fmt.Fprintf(w, "%s\t%s\n", day, insights.PnLByDay[i].StringFixed(2))
	}
	return w.Flush()
}
