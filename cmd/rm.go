package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// rmCmd represents the rm command
var rmCmd = &cobra.Command{
	Use:   "rm [task-id]",
	Short: "Delete a task",
	Long:  `Delete a task permanently. Without an ID argument, an interactive picker lists all tasks.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var id, title string
	if len(args) > 0 {
		id = args[0]
		task, err := st.GetTask(id)
		if err != nil {
			return err
		}
		title = task.Title
	} else {
		task, err := selectTaskInteractive(st, nil, "Select a task to delete")
		if err != nil {
			return err
		}
		id, title = task.ID, task.Title
	}

	if err := st.DeleteTask(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	cmd.Printf("Deleted %q\n", title)
	return nil
}
