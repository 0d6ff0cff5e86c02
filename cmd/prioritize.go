package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/prohubhq/prohub/internal/rank"
	"github.com/prohubhq/prohub/llm"
	"github.com/prohubhq/prohub/prompts"
)

// prioritizeInFlight blocks a second prioritization while one is
// outstanding. One attempt per invocation, no retry.
var prioritizeInFlight bool

// newProvider is swappable for tests.
var newProvider = llm.NewProvider

// prioritizeCmd represents the prioritize command
var prioritizeCmd = &cobra.Command{
	Use:   "prioritize",
	Short: "Rank pending tasks with the AI oracle",
	Long: `Send the pending tasks to the configured LLM provider and fold the
returned ranking back into the list. Completed tasks are never sent. If
the call fails, the task list is left exactly as it was.`,
	Args: cobra.NoArgs,
	RunE: runPrioritize,
}

func init() {
	rootCmd.AddCommand(prioritizeCmd)
}

func runPrioritize(cmd *cobra.Command, args []string) error {
	if prioritizeInFlight {
		return fmt.Errorf("a prioritization request is already in flight")
	}
	prioritizeInFlight = true
	defer func() { prioritizeInFlight = false }()

	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	tasks, err := st.ListTasks()
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	now := time.Now()
	items := rank.BuildOracleRequest(tasks, now)
	if len(items) == 0 {
		cmd.Println("No pending tasks to prioritize.")
		return nil
	}

	config := GetConfig()
	provider, err := newProvider(&config.LLM)
	if err != nil {
		return fmt.Errorf("cannot construct LLM provider: %w", err)
	}

	systemPrompt, err := prompts.GetPrompt(prompts.KeyPrioritizeTasks, GetTemplatesDirPath())
	if err != nil {
		return fmt.Errorf("failed to load prioritization prompt: %w", err)
	}

	cmd.Printf("Prioritizing %d pending task(s) with %s...\n", len(items), config.LLM.ModelName)

	result, err := provider.PrioritizeTasks(
		cmd.Context(),
		systemPrompt,
		items,
		config.LLM.ModelName,
		config.LLM.APIKey,
		config.LLM.MaxOutputTokens,
		config.LLM.Temperature,
	)
	if err != nil {
		// Task state is untouched; prior AI annotations survive.
		return err
	}

	merged := rank.MergeAIResult(tasks, result)
	if err := st.ReplaceTasks(merged); err != nil {
		return fmt.Errorf("failed to persist prioritized tasks: %w", err)
	}

	cmd.Println("Done. New order:")
	for _, t := range merged {
		if t.AIPriority == nil {
			continue
		}
		cmd.Printf("  #%d %s", *t.AIPriority, t.Title)
		if t.AIReason != "" {
			cmd.Printf(": %s", t.AIReason)
		}
		cmd.Println()
	}
	return nil
}
