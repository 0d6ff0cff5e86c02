package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/prohubhq/prohub/models"
)

var (
	addDescription string
	addDue         string
	addPriority    string
	addTags        []string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Long: `Add a new pending task.

Examples:
  prohub add "Ship the quarterly report" --priority high --due 2026-09-04
  prohub add "Refill coffee" --tags home,errands`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addDescription, "desc", "d", "", "task description")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "declared priority (low, medium, high)")
	addCmd.Flags().StringSliceVarP(&addTags, "tags", "t", nil, "comma-separated tags")
}

func runAdd(cmd *cobra.Command, args []string) error {
	task := models.NewTask("", args[0])
	task.Description = addDescription
	task.Tags = models.NormalizeTags(addTags)

	if addPriority != "" {
		switch p := models.TaskPriority(addPriority); p {
		case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
			task.Priority = p
		default:
			return fmt.Errorf("invalid priority %q (want low, medium or high)", addPriority)
		}
	}
	if addDue != "" {
		due, err := time.ParseInLocation("2006-01-02", addDue, time.Local)
		if err != nil {
			return fmt.Errorf("invalid due date %q (want YYYY-MM-DD): %w", addDue, err)
		}
		task.DueDate = &due
	}

	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	created, err := st.CreateTask(task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	cmd.Printf("Added task %q (ID: %s)\n", created.Title, created.ID)
	return nil
}
