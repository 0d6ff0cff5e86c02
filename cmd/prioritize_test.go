package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/prohubhq/prohub/llm"
	"github.com/prohubhq/prohub/models"
	"github.com/prohubhq/prohub/types"
)

// stubProvider satisfies llm.Provider with a canned result or error.
type stubProvider struct {
	result []types.PrioritizedTask
	err    error
}

func (s *stubProvider) PrioritizeTasks(ctx context.Context, systemPrompt string, items []types.PrioritizeItem, modelName string, apiKey string, maxTokens int, temperature float64) ([]types.PrioritizedTask, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// setupPrioritizeTest points the global config at a temp directory and
// swaps the provider factory for a stub. Both are restored on cleanup.
func setupPrioritizeTest(t *testing.T, provider llm.Provider) {
	t.Helper()

	prevConfig := GlobalAppConfig
	GlobalAppConfig = types.AppConfig{
		Project: types.ProjectConfig{
			RootDir:      t.TempDir(),
			DataDir:      "data",
			TemplatesDir: "templates",
		},
		Data: types.DataConfig{File: "prohub.json", Format: "json"},
		LLM:  types.LLMConfig{Provider: "openai", ModelName: "gpt-4o-mini", APIKey: "test-key"},
	}

	prevFactory := newProvider
	newProvider = func(config *types.LLMConfig) (llm.Provider, error) {
		return provider, nil
	}

	t.Cleanup(func() {
		GlobalAppConfig = prevConfig
		newProvider = prevFactory
	})
}

// seedAnnotatedTasks creates one task that already carries an AI
// annotation from an earlier run, plus one plain pending task.
func seedAnnotatedTasks(t *testing.T) (annotatedID string) {
	t.Helper()
	st, err := GetStore()
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer func() { _ = st.Close() }()

	annotated, err := st.CreateTask(models.Task{Title: "Ship release", Status: models.StatusPending})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := st.CreateTask(models.Task{Title: "Water plants", Status: models.StatusPending}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = st.UpdateTask(annotated.ID, func(task models.Task) (models.Task, error) {
		one := 1
		task.AIPriority = &one
		task.AIReason = "earlier run"
		return task, nil
	})
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	return annotated.ID
}

func TestRunPrioritizeFailureLeavesStoreUntouched(t *testing.T) {
	setupPrioritizeTest(t, &stubProvider{err: types.NewOracleError("openai", "service unavailable", nil)})
	annotatedID := seedAnnotatedTasks(t)

	before, err := os.ReadFile(GetDataFilePath())
	if err != nil {
		t.Fatalf("read data file: %v", err)
	}

	cmd := prioritizeCmd
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	if err := runPrioritize(cmd, nil); err == nil {
		t.Fatal("expected the oracle failure to surface")
	}

	after, err := os.ReadFile(GetDataFilePath())
	if err != nil {
		t.Fatalf("read data file: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("failed prioritization changed the persisted data file")
	}

	st, err := GetStore()
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer func() { _ = st.Close() }()
	task, err := st.GetTask(annotatedID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if task.AIPriority == nil || *task.AIPriority != 1 || task.AIReason != "earlier run" {
		t.Errorf("prior AI annotation did not survive the failed call: %+v", task)
	}
}

func TestRunPrioritizeSuccessPersistsMerge(t *testing.T) {
	setupPrioritizeTest(t, &stubProvider{result: []types.PrioritizedTask{
		{Title: "Water plants", Priority: 1, Reason: "they are wilting"},
	}})
	seedAnnotatedTasks(t)

	cmd := prioritizeCmd
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)

	if err := runPrioritize(cmd, nil); err != nil {
		t.Fatalf("prioritize: %v", err)
	}

	st, err := GetStore()
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer func() { _ = st.Close() }()

	tasks, err := st.ListTasks()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, task := range tasks {
		switch task.Title {
		case "Water plants":
			if task.AIPriority == nil || *task.AIPriority != 1 || task.AIReason != "they are wilting" {
				t.Errorf("new ranking not persisted: %+v", task)
			}
		case "Ship release":
			if task.AIPriority != nil || task.AIReason != "" {
				t.Errorf("stale annotation survived a successful merge: %+v", task)
			}
		}
	}
}

func TestRunPrioritizeRejectsReentrantCall(t *testing.T) {
	setupPrioritizeTest(t, &stubProvider{err: errors.New("unused")})

	prioritizeInFlight = true
	defer func() { prioritizeInFlight = false }()

	cmd := prioritizeCmd
	cmd.SetOut(new(bytes.Buffer))
	if err := runPrioritize(cmd, nil); err == nil {
		t.Fatal("expected re-entrant prioritization to be rejected")
	}
}
