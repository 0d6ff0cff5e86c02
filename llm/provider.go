package llm

import (
	"context"

	"github.com/prohubhq/prohub/types"
)

// Provider is the prioritization oracle boundary. Implementations rank
// a batch of pending tasks; they never see or mutate local task state.
type Provider interface {
	// PrioritizeTasks sends the flattened pending tasks to the model and
	// returns them annotated with a 1-based priority and a reason, highest
	// priority first. At most one attempt is made per call; any failure is
	// returned as a *types.OracleError and the caller keeps its prior state.
	PrioritizeTasks(ctx context.Context, systemPrompt string, items []types.PrioritizeItem, modelName string, apiKey string, maxTokens int, temperature float64) ([]types.PrioritizedTask, error)
}
