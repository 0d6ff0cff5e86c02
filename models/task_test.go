package models

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func validTask() Task {
	return NewTask(uuid.NewString(), "Write report")
}

func TestTaskValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr string
	}{
		{"valid", nil, ""},
		{"missing id", func(t *Task) { t.ID = "" }, "ID"},
		{"non-uuid id", func(t *Task) { t.ID = "not-a-uuid" }, "uuid4"},
		{"empty title", func(t *Task) { t.Title = "" }, "Title"},
		{"title too long", func(t *Task) { t.Title = strings.Repeat("x", 256) }, "max"},
		{"bad priority", func(t *Task) { t.Priority = "urgent" }, "oneof"},
		{"bad status", func(t *Task) { t.Status = "paused" }, "oneof"},
		{"zero ai priority", func(t *Task) { zero := 0; t.AIPriority = &zero }, "min"},
		{"valid with optionals", func(t *Task) {
			t.Priority = PriorityHigh
			one := 1
			t.AIPriority = &one
			due := time.Now().AddDate(0, 0, 1)
			t.DueDate = &due
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			if tt.mutate != nil {
				tt.mutate(&task)
			}
			err := ValidateStruct(task)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestTaskCompleteClearsAIFields(t *testing.T) {
	task := validTask()
	two := 2
	task.AIPriority = &two
	task.AIReason = "urgent"

	now := time.Now()
	done := task.Complete(now)

	if done.Status != StatusCompleted {
		t.Errorf("status: got %s", done.Status)
	}
	if done.CompletedAt == nil || !done.CompletedAt.Equal(now) {
		t.Error("CompletedAt not set to transition time")
	}
	if done.AIPriority != nil || done.AIReason != "" {
		t.Error("AI annotation survived completion")
	}
	if task.Status != StatusPending {
		t.Error("receiver was mutated")
	}
}

func TestTaskReopenClearsCompletionAndAIFields(t *testing.T) {
	task := validTask().Complete(time.Now())
	three := 3
	task.AIPriority = &three
	task.AIReason = "stale"

	reopened := task.Reopen(time.Now())
	if reopened.Status != StatusPending {
		t.Errorf("status: got %s", reopened.Status)
	}
	if reopened.CompletedAt != nil {
		t.Error("CompletedAt survived reopen")
	}
	if reopened.AIPriority != nil || reopened.AIReason != "" {
		t.Error("AI annotation survived reopen")
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"lowercased", []string{"Work", "GO"}, []string{"work", "go"}},
		{"deduplicated keeping first order", []string{"b", "a", "B", "a"}, []string{"b", "a"}},
		{"blank entries dropped", []string{" ", "", "ok"}, []string{"ok"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTags(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
