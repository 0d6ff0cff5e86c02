package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/prohubhq/prohub/models"
)

var (
	editTitle       string
	editDescription string
	editDue         string
	editPriority    string
	editTags        []string
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit a task's fields",
	Long: `Change a task's title, description, due date, priority or tags.
Only the flags you pass are changed. Pass --due none or --priority none
to clear those fields. Without an ID argument, an interactive picker
lists all tasks.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	editCmd.Flags().StringVarP(&editDescription, "desc", "d", "", "new description")
	editCmd.Flags().StringVar(&editDue, "due", "", "new due date (YYYY-MM-DD), or 'none' to clear")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "new priority (low, medium, high), or 'none' to clear")
	editCmd.Flags().StringSliceVarP(&editTags, "tags", "t", nil, "replacement tag list")
}

func runEdit(cmd *cobra.Command, args []string) error {
	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		task, err := selectTaskInteractive(st, nil, "Select a task to edit")
		if err != nil {
			return err
		}
		id = task.ID
	}

	flags := cmd.Flags()
	updated, err := st.UpdateTask(id, func(t models.Task) (models.Task, error) {
		if flags.Changed("title") {
			t.Title = editTitle
		}
		if flags.Changed("desc") {
			t.Description = editDescription
		}
		if flags.Changed("tags") {
			t.Tags = models.NormalizeTags(editTags)
		}
		if flags.Changed("priority") {
			switch p := models.TaskPriority(editPriority); p {
			case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
				t.Priority = p
			case "none":
				t.Priority = models.PriorityNone
			default:
				return models.Task{}, fmt.Errorf("invalid priority %q (want low, medium, high or none)", editPriority)
			}
		}
		if flags.Changed("due") {
			if editDue == "none" {
				t.DueDate = nil
			} else {
				due, err := time.ParseInLocation("2006-01-02", editDue, time.Local)
				if err != nil {
					return models.Task{}, fmt.Errorf("invalid due date %q (want YYYY-MM-DD): %w", editDue, err)
				}
				t.DueDate = &due
			}
		}
		t.UpdatedAt = time.Now().UTC()
		return t, nil
	})
	if err != nil {
		return fmt.Errorf("failed to edit task: %w", err)
	}

	cmd.Printf("Updated %q\n", updated.Title)
	return nil
}
