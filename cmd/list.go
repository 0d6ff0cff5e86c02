package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/prohubhq/prohub/internal/rank"
	"github.com/prohubhq/prohub/models"
)

var listView string

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks in their display order",
	Long: `List tasks under a view filter, in the canonical order: pending before
completed, AI-prioritized first, then declared priority and due date.

Views: all, high, due-today, completed

Examples:
  prohub list
  prohub list --view high
  prohub list --view due-today`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listView, "view", string(rank.ViewAll), "view filter (all, high, due-today, completed)")
}

func runList(cmd *cobra.Command, args []string) error {
	view, err := rank.ParseView(listView)
	if err != nil {
		return err
	}

	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	tasks, err := st.ListTasks()
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	ordered := rank.Rank(tasks, view, time.Now())
	if len(ordered) == 0 {
		cmd.Println("No tasks found.")
		cmd.Println("Add one with: prohub add \"Your task here\"")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tPRIORITY\tAI\tDUE\tTITLE\tID")
	for _, t := range ordered {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Status, priorityLabel(t.Priority), aiLabel(t), dueLabel(t), t.Title, t.ID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, t := range ordered {
		if t.AIPriority != nil && t.AIReason != "" {
			cmd.Printf("  #%d %s: %s\n", *t.AIPriority, t.Title, t.AIReason)
		}
	}
	return nil
}

func priorityLabel(p models.TaskPriority) string {
	if p == models.PriorityNone {
		return "-"
	}
	return string(p)
}

func aiLabel(t models.Task) string {
	if t.AIPriority == nil {
		return "-"
	}
	return fmt.Sprintf("#%d", *t.AIPriority)
}

func dueLabel(t models.Task) string {
	if t.DueDate == nil {
		return "-"
	}
	return t.DueDate.Format("2006-01-02")
}

// joinTags renders a tag list for display.
func joinTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ",")
}
