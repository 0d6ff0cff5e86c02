package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TaskStatus represents the possible statuses of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

// TaskPriority represents the user-declared priority of a task.
// The empty string means no priority was declared; it ranks below low.
type TaskPriority string

const (
	PriorityNone   TaskPriority = ""
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task represents a unit of work.
//
// AIPriority and AIReason are set only by a successful prioritization run
// against a pending task; any status transition clears them. Smaller
// AIPriority means higher rank (1 is the top item).
type Task struct {
	ID          string       `json:"id" yaml:"id" toml:"id" validate:"required,uuid4"`
	Title       string       `json:"title" yaml:"title" toml:"title" validate:"required,min=1,max=255"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	DueDate     *time.Time   `json:"dueDate,omitempty" yaml:"dueDate,omitempty" toml:"dueDate,omitempty"`
	Priority    TaskPriority `json:"priority,omitempty" yaml:"priority,omitempty" toml:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Status      TaskStatus   `json:"status" yaml:"status" toml:"status" validate:"required,oneof=pending completed"`
	AIPriority  *int         `json:"aiPriority,omitempty" yaml:"aiPriority,omitempty" toml:"aiPriority,omitempty" validate:"omitempty,min=1"`
	AIReason    string       `json:"aiReason,omitempty" yaml:"aiReason,omitempty" toml:"aiReason,omitempty"`
	Tags        []string     `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	CreatedAt   time.Time    `json:"createdAt" yaml:"createdAt" toml:"createdAt" validate:"required"`
	UpdatedAt   time.Time    `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt" validate:"required"`
	CompletedAt *time.Time   `json:"completedAt,omitempty" yaml:"completedAt,omitempty" toml:"completedAt,omitempty"`
}

// NewTask creates a pending task with the given id and title and fresh timestamps.
func NewTask(id, title string) Task {
	now := time.Now().UTC()
	return Task{
		ID:        id,
		Title:     title,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsPending reports whether the task has not been completed.
func (t Task) IsPending() bool { return t.Status == StatusPending }

// Complete returns a copy of the task transitioned to completed.
// CompletedAt is set and any AI annotation is dropped, so AI fields
// cannot survive a status change.
func (t Task) Complete(now time.Time) Task {
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.AIPriority = nil
	t.AIReason = ""
	t.UpdatedAt = now
	return t
}

// Reopen returns a copy of the task transitioned back to pending.
// CompletedAt and the AI annotation are cleared.
func (t Task) Reopen(now time.Time) Task {
	t.Status = StatusPending
	t.CompletedAt = nil
	t.AIPriority = nil
	t.AIReason = ""
	t.UpdatedAt = now
	return t
}

// NormalizeTags lowercases and de-duplicates a tag list, preserving first
// occurrence order. Empty entries are dropped.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}
