package notes

import (
	"slices"
	"testing"
	"time"

	"github.com/prohubhq/prohub/models"
)

var testEpoch = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func note(title string, ageMinutes int, mutate func(*models.Note)) models.Note {
	n := models.Note{
		ID:        title,
		Title:     title,
		CreatedAt: testEpoch,
		UpdatedAt: testEpoch.Add(-time.Duration(ageMinutes) * time.Minute),
	}
	if mutate != nil {
		mutate(&n)
	}
	return n
}

func noteTitles(notes []models.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}

func sampleNotes() []models.Note {
	return []models.Note{
		note("plain", 3, nil),
		note("starred", 2, func(n *models.Note) { n.IsStarred = true }),
		note("archived", 1, func(n *models.Note) { n.IsArchived = true }),
		note("trashed", 0, func(n *models.Note) { n.IsTrashed = true }),
		note("tagged", 4, func(n *models.Note) { n.Tags = []string{"work", "go"} }),
	}
}

func TestFilter_Lifecycle(t *testing.T) {
	all := sampleNotes()
	tests := []struct {
		filter string
		want   []string
	}{
		{FilterAll, []string{"starred", "plain", "tagged"}},
		{FilterStarred, []string{"starred"}},
		{FilterArchived, []string{"archived"}},
		{FilterTrash, []string{"trashed"}},
		{"work", []string{"tagged"}},
		{"nonexistent-tag", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			got := noteTitles(Filter(all, tt.filter, ""))
			if !slices.Equal(got, tt.want) {
				t.Errorf("filter %q: got %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestFilter_TrashedNoteOnlyInTrash(t *testing.T) {
	// A note that is simultaneously starred, archived, tagged and trashed
	// surfaces only under the trash filter.
	n := note("everything", 0, func(n *models.Note) {
		n.IsStarred = true
		n.IsArchived = true
		n.IsTrashed = true
		n.Tags = []string{"work"}
	})
	all := []models.Note{n}

	for _, filter := range []string{FilterAll, FilterStarred, FilterArchived, "work"} {
		if got := Filter(all, filter, ""); len(got) != 0 {
			t.Errorf("trashed note leaked into filter %q", filter)
		}
	}
	if got := Filter(all, FilterTrash, ""); len(got) != 1 {
		t.Error("trashed note missing from trash filter")
	}
}

func TestFilter_ArchivedNoteNotUnderTagFilter(t *testing.T) {
	n := note("parked", 0, func(n *models.Note) {
		n.IsArchived = true
		n.Tags = []string{"work"}
	})
	if got := Filter([]models.Note{n}, "work", ""); len(got) != 0 {
		t.Error("archived note must not match its tag filter")
	}
}

func TestFilter_Search(t *testing.T) {
	all := []models.Note{
		note("Grocery run", 0, func(n *models.Note) { n.Content = "milk and eggs" }),
		note("Standup", 1, func(n *models.Note) { n.Tags = []string{"meeting"} }),
		note("Unrelated", 2, nil),
	}

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"title match is case-insensitive", "GROCERY", []string{"Grocery run"}},
		{"content match", "eggs", []string{"Grocery run"}},
		{"tag match", "meet", []string{"Standup"}},
		{"term with inner space", "and eggs", []string{"Grocery run"}},
		{"whitespace-only term still searches", " ", []string{"Grocery run"}},
		{"no match", "zzz", []string{}},
		{"empty term matches all", "", []string{"Grocery run", "Standup", "Unrelated"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := noteTitles(Filter(all, FilterAll, tt.term))
			if !slices.Equal(got, tt.want) {
				t.Errorf("search %q: got %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}

func TestFilter_OrderedByUpdatedAtDescending(t *testing.T) {
	all := []models.Note{
		note("oldest", 30, nil),
		note("newest", 0, nil),
		note("middle", 10, nil),
	}
	got := noteTitles(Filter(all, FilterAll, ""))
	want := []string{"newest", "middle", "oldest"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTags(t *testing.T) {
	all := []models.Note{
		note("a", 0, func(n *models.Note) { n.Tags = []string{"work", "go"} }),
		note("b", 1, func(n *models.Note) { n.Tags = []string{"work", "home"} }),
		note("archived", 2, func(n *models.Note) {
			n.IsArchived = true
			n.Tags = []string{"hidden"}
		}),
		note("trashed", 3, func(n *models.Note) {
			n.IsTrashed = true
			n.Tags = []string{"gone"}
		}),
	}
	got := Tags(all)
	want := []string{"go", "home", "work"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
