// Package rank owns the display order of tasks: the multi-key comparator
// applied to every view, and the merge of oracle-supplied priorities back
// into a task collection. All functions are pure; they take collections
// and return new ones.
package rank

import (
	"fmt"
	"slices"
	"time"

	"github.com/prohubhq/prohub/models"
	"github.com/prohubhq/prohub/types"
)

// View selects which subset of tasks a listing shows. The ordering rule
// is the same for every view.
type View string

const (
	ViewAll       View = "all"
	ViewHigh      View = "high"
	ViewDueToday  View = "due-today"
	ViewCompleted View = "completed"
)

// ParseView converts a CLI/UI string into a View.
func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewAll, ViewHigh, ViewDueToday, ViewCompleted:
		return View(s), nil
	default:
		return "", fmt.Errorf("unknown view %q (want all, high, due-today or completed)", s)
	}
}

// declaredRank maps the user-declared priority to a sort key.
// Unset priority ranks below low.
func declaredRank(p models.TaskPriority) int {
	switch p {
	case models.PriorityHigh:
		return 0
	case models.PriorityMedium:
		return 1
	case models.PriorityLow:
		return 2
	default:
		return 3
	}
}

// Compare is the canonical task ordering, a strict weak order suitable
// for a stable sort. Precedence:
//
//  1. pending before completed, regardless of any other field
//  2. among pending: AI-prioritized before plain, then ascending AIPriority
//  3. among plain pending: declared priority high > medium > low > unset
//  4. ties broken by ascending due date, tasks without one last
//  5. among completed: most recently completed first, missing CompletedAt
//     treated as the epoch
func Compare(a, b models.Task) int {
	if a.IsPending() != b.IsPending() {
		if a.IsPending() {
			return -1
		}
		return 1
	}

	if !a.IsPending() {
		return completedAt(b).Compare(completedAt(a))
	}

	switch {
	case a.AIPriority != nil && b.AIPriority == nil:
		return -1
	case a.AIPriority == nil && b.AIPriority != nil:
		return 1
	case a.AIPriority != nil && b.AIPriority != nil:
		if c := *a.AIPriority - *b.AIPriority; c != 0 {
			return c
		}
		return 0
	}

	if c := declaredRank(a.Priority) - declaredRank(b.Priority); c != 0 {
		return c
	}

	switch {
	case a.DueDate != nil && b.DueDate == nil:
		return -1
	case a.DueDate == nil && b.DueDate != nil:
		return 1
	case a.DueDate != nil && b.DueDate != nil:
		return a.DueDate.Compare(*b.DueDate)
	}
	return 0
}

func completedAt(t models.Task) time.Time {
	if t.CompletedAt != nil {
		return *t.CompletedAt
	}
	return time.Time{}
}

// Rank filters tasks to the given view and returns them in canonical
// order. The input slice is not modified. now supplies "today" for the
// due-today view, evaluated in its own location.
func Rank(tasks []models.Task, view View, now time.Time) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if inView(t, view, now) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, Compare)
	return out
}

func inView(t models.Task, view View, now time.Time) bool {
	switch view {
	case ViewHigh:
		return t.IsPending() && t.Priority == models.PriorityHigh
	case ViewDueToday:
		if !t.IsPending() || t.DueDate == nil {
			return false
		}
		y1, m1, d1 := t.DueDate.In(now.Location()).Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case ViewCompleted:
		return !t.IsPending()
	case ViewAll:
		return true
	default:
		// Unrecognized views match nothing; ParseView is the gate.
		return false
	}
}

// defaultDeadlineDays is how far out a missing due date is projected in
// the oracle request.
const defaultDeadlineDays = 7

// BuildOracleRequest flattens the pending subset of tasks into the
// oracle request shape. Missing due dates default to a week out; a
// missing or unknown declared priority is sent as "medium".
func BuildOracleRequest(tasks []models.Task, now time.Time) []types.PrioritizeItem {
	items := make([]types.PrioritizeItem, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsPending() {
			continue
		}
		deadline := now.AddDate(0, 0, defaultDeadlineDays)
		if t.DueDate != nil {
			deadline = *t.DueDate
		}
		importance := string(t.Priority)
		switch t.Priority {
		case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		default:
			importance = string(models.PriorityMedium)
		}
		items = append(items, types.PrioritizeItem{
			Title:       t.Title,
			Description: t.Description,
			Deadline:    deadline.Format("2006-01-02"),
			Importance:  importance,
		})
	}
	return items
}

// MergeAIResult folds a successful oracle response into the collection
// and returns it re-sorted. Matching is by exact title and the first
// response entry for a title wins, so duplicate task titles collide
// silently. Pending tasks with no match, and every non-pending task,
// end up with no AI annotation.
//
// Callers must not invoke this on a failed oracle call: failure leaves
// the prior collection (including earlier AI annotations) untouched.
func MergeAIResult(tasks []models.Task, result []types.PrioritizedTask) []models.Task {
	byTitle := make(map[string]types.PrioritizedTask, len(result))
	for _, r := range result {
		if _, ok := byTitle[r.Title]; !ok {
			byTitle[r.Title] = r
		}
	}

	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		t.AIPriority = nil
		t.AIReason = ""
		if t.IsPending() {
			if match, ok := byTitle[t.Title]; ok {
				p := match.Priority
				t.AIPriority = &p
				t.AIReason = match.Reason
			}
		}
		out[i] = t
	}
	slices.SortStableFunc(out, Compare)
	return out
}
