package models

import "time"

// Note represents a markdown note with three lifecycle flags.
//
// The flags are not independent: a note is either active (optionally
// starred), archived, or trashed. All flag changes go through the
// transition methods below, which keep that exclusivity intact; callers
// never flip the booleans directly.
type Note struct {
	ID         string    `json:"id" yaml:"id" toml:"id" validate:"required,uuid4"`
	Title      string    `json:"title" yaml:"title" toml:"title" validate:"required,min=1,max=255"`
	Content    string    `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
	Tags       []string  `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	IsStarred  bool      `json:"isStarred,omitempty" yaml:"isStarred,omitempty" toml:"isStarred,omitempty"`
	IsArchived bool      `json:"isArchived,omitempty" yaml:"isArchived,omitempty" toml:"isArchived,omitempty"`
	IsTrashed  bool      `json:"isTrashed,omitempty" yaml:"isTrashed,omitempty" toml:"isTrashed,omitempty"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt" toml:"createdAt" validate:"required"`
	UpdatedAt  time.Time `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt" validate:"required"`
}

// NoteState is the derived lifecycle state of a note.
type NoteState string

const (
	NoteActive   NoteState = "active"
	NoteArchived NoteState = "archived"
	NoteTrashed  NoteState = "trashed"
)

// NewNote creates an active note with all lifecycle flags clear.
func NewNote(id, title, content string, tags []string) Note {
	now := time.Now().UTC()
	return Note{
		ID:        id,
		Title:     title,
		Content:   content,
		Tags:      NormalizeTags(tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// State reports the lifecycle state. Trashed wins over archived so that
// legacy records with both flags set still resolve to a single state.
func (n Note) State() NoteState {
	switch {
	case n.IsTrashed:
		return NoteTrashed
	case n.IsArchived:
		return NoteArchived
	default:
		return NoteActive
	}
}

// ToggleStar flips the starred flag. Starring is only meaningful on an
// active note; on archived or trashed notes it is a no-op.
func (n Note) ToggleStar(now time.Time) Note {
	if n.State() != NoteActive {
		return n
	}
	n.IsStarred = !n.IsStarred
	n.UpdatedAt = now
	return n
}

// Archive moves the note to the archived state, clearing the starred and
// trashed flags.
func (n Note) Archive(now time.Time) Note {
	n.IsArchived = true
	n.IsTrashed = false
	n.IsStarred = false
	n.UpdatedAt = now
	return n
}

// Trash moves the note to the trash, clearing the starred and archived
// flags. The second return value reports whether the note was already
// trashed: trashing twice means permanent deletion, which the store (not
// this transition) carries out.
func (n Note) Trash(now time.Time) (Note, bool) {
	if n.IsTrashed {
		return n, true
	}
	n.IsTrashed = true
	n.IsArchived = false
	n.IsStarred = false
	n.UpdatedAt = now
	return n, false
}

// Restore returns the note to the active state from archive or trash.
func (n Note) Restore(now time.Time) Note {
	n.IsArchived = false
	n.IsTrashed = false
	n.UpdatedAt = now
	return n
}

// Touch records a content edit.
func (n Note) Touch(now time.Time) Note {
	n.UpdatedAt = now
	return n
}
