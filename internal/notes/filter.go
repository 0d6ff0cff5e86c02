// Package notes filters and searches a note collection. Everything here
// is a pure pass over the input slice; ordering of results is always
// most-recently-updated first.
package notes

import (
	"slices"
	"sort"
	"strings"

	"github.com/prohubhq/prohub/models"
)

// Reserved filter names. Any other filter string is treated as a tag.
const (
	FilterAll      = "all"
	FilterStarred  = "starred"
	FilterArchived = "archived"
	FilterTrash    = "trash"
)

// matches applies the lifecycle predicate for a filter. Trashed notes
// are visible only under the trash filter; archived notes only under
// archived.
func matches(n models.Note, filter string) bool {
	switch filter {
	case FilterAll:
		return !n.IsArchived && !n.IsTrashed
	case FilterStarred:
		return n.IsStarred && !n.IsArchived && !n.IsTrashed
	case FilterArchived:
		return n.IsArchived && !n.IsTrashed
	case FilterTrash:
		return n.IsTrashed
	default:
		return slices.Contains(n.Tags, filter) && !n.IsArchived && !n.IsTrashed
	}
}

// matchesSearch is a case-insensitive substring match against title,
// content, or any tag.
func matchesSearch(n models.Note, term string) bool {
	if strings.Contains(strings.ToLower(n.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(n.Content), term) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// Filter returns the notes passing the active filter and, when
// searchTerm is non-empty, the free-text search, ordered by descending
// UpdatedAt. The term is matched verbatim apart from case folding, so a
// whitespace-only term still searches. The input slice is not modified.
func Filter(all []models.Note, activeFilter, searchTerm string) []models.Note {
	term := strings.ToLower(searchTerm)
	out := make([]models.Note, 0, len(all))
	for _, n := range all {
		if !matches(n, activeFilter) {
			continue
		}
		if term != "" && !matchesSearch(n, term) {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Tags enumerates the distinct tags across notes that are neither
// archived nor trashed, sorted alphabetically. This feeds the tag
// filter menu.
func Tags(all []models.Note) []string {
	seen := map[string]struct{}{}
	for _, n := range all {
		if n.IsArchived || n.IsTrashed {
			continue
		}
		for _, tag := range n.Tags {
			seen[tag] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
