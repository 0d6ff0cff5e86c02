package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prohubhq/prohub/models"
	"github.com/prohubhq/prohub/store"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as completed",
	Long: `Mark a pending task as completed. Without an ID argument, an
interactive picker lists the pending tasks. Completing a task clears any
AI prioritization it carried.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDone,
}

// reopenCmd represents the reopen command
var reopenCmd = &cobra.Command{
	Use:   "reopen [task-id]",
	Short: "Reopen a completed task",
	Long:  `Move a completed task back to pending. Without an ID argument, an interactive picker lists the completed tasks.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReopen,
}

func init() {
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(reopenCmd)
}

func runDone(cmd *cobra.Command, args []string) error {
	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := resolveTaskID(st, args, models.StatusPending, "Select a task to complete")
	if err != nil {
		return err
	}

	task, err := st.MarkTaskDone(id)
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	cmd.Printf("Completed %q\n", task.Title)
	return nil
}

func runReopen(cmd *cobra.Command, args []string) error {
	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := resolveTaskID(st, args, models.StatusCompleted, "Select a task to reopen")
	if err != nil {
		return err
	}

	task, err := st.ReopenTask(id)
	if err != nil {
		return fmt.Errorf("failed to reopen task: %w", err)
	}
	cmd.Printf("Reopened %q\n", task.Title)
	return nil
}

// resolveTaskID returns the explicit argument when present, otherwise
// prompts for a task in the wanted status.
func resolveTaskID(st store.Store, args []string, wanted models.TaskStatus, label string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	task, err := selectTaskInteractive(st, func(t models.Task) bool { return t.Status == wanted }, label)
	if err != nil {
		return "", err
	}
	return task.ID, nil
}
