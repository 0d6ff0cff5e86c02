package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/prohubhq/prohub/internal/notes"
	"github.com/prohubhq/prohub/models"
)

var (
	noteContent string
	noteTags    []string
	noteFilter  string
	noteSearch  string
)

// noteCmd groups the note subcommands.
var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
	Long: `Manage the note collection: create notes, star them, move them
through archive and trash, and filter or search the list.

Trashing a note that is already in the trash deletes it permanently.`,
}

var noteAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteAdd,
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Long: `List notes, most recently updated first.

The --filter flag accepts all, starred, archived, trash, or any tag name.
The --search flag matches title, content and tags case-insensitively.`,
	Args: cobra.NoArgs,
	RunE: runNoteList,
}

var noteStarCmd = &cobra.Command{
	Use:   "star <note-id>",
	Short: "Toggle a note's star",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteStar,
}

var noteArchiveCmd = &cobra.Command{
	Use:   "archive <note-id>",
	Short: "Move a note to the archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteArchive,
}

var noteTrashCmd = &cobra.Command{
	Use:   "trash <note-id>",
	Short: "Move a note to the trash (again to delete permanently)",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteTrash,
}

var noteRestoreCmd = &cobra.Command{
	Use:   "restore <note-id>",
	Short: "Restore a note from archive or trash",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteRestore,
}

var noteTagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the tags of active notes",
	Args:  cobra.NoArgs,
	RunE:  runNoteTags,
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteAddCmd, noteListCmd, noteStarCmd, noteArchiveCmd, noteTrashCmd, noteRestoreCmd, noteTagsCmd)

	noteAddCmd.Flags().StringVarP(&noteContent, "content", "m", "", "markdown content")
	noteAddCmd.Flags().StringSliceVarP(&noteTags, "tags", "t", nil, "comma-separated tags")

	noteListCmd.Flags().StringVarP(&noteFilter, "filter", "f", notes.FilterAll, "all, starred, archived, trash, or a tag name")
	noteListCmd.Flags().StringVarP(&noteSearch, "search", "s", "", "free-text search term")
}

func runNoteAdd(cmd *cobra.Command, args []string) error {
	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	created, err := st.CreateNote(models.NewNote("", args[0], noteContent, noteTags))
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	cmd.Printf("Added note %q (ID: %s)\n", created.Title, created.ID)
	return nil
}

func runNoteList(cmd *cobra.Command, args []string) error {
	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	all, err := st.ListNotes()
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	filtered := notes.Filter(all, noteFilter, noteSearch)
	if len(filtered) == 0 {
		cmd.Println("No notes found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATE\tUPDATED\tTAGS\tTITLE\tID")
	for _, n := range filtered {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			noteStateLabel(n), n.UpdatedAt.Local().Format("2006-01-02 15:04"), joinTags(n.Tags), n.Title, n.ID)
	}
	return w.Flush()
}

func noteStateLabel(n models.Note) string {
	label := string(n.State())
	if n.IsStarred {
		label = "* " + label
	}
	return label
}

func runNoteStar(cmd *cobra.Command, args []string) error {
	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	updated, err := st.UpdateNote(args[0], func(n models.Note) (models.Note, error) {
		if n.State() != models.NoteActive {
			return models.Note{}, fmt.Errorf("only active notes can be starred; %q is %s", n.Title, n.State())
		}
		return n.ToggleStar(time.Now().UTC()), nil
	})
	if err != nil {
		return err
	}
	if updated.IsStarred {
		cmd.Printf("Starred %q\n", updated.Title)
	} else {
		cmd.Printf("Unstarred %q\n", updated.Title)
	}
	return nil
}

func runNoteArchive(cmd *cobra.Command, args []string) error {
	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	updated, err := st.UpdateNote(args[0], func(n models.Note) (models.Note, error) {
		return n.Archive(time.Now().UTC()), nil
	})
	if err != nil {
		return err
	}
	cmd.Printf("Archived %q\n", updated.Title)
	return nil
}

func runNoteTrash(cmd *cobra.Command, args []string) error {
	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	note, deleted, err := st.TrashNote(args[0])
	if err != nil {
		return err
	}
	if deleted {
		cmd.Println("Note permanently deleted.")
		return nil
	}
	cmd.Printf("Moved %q to trash. Trash it again to delete permanently.\n", note.Title)
	return nil
}

func runNoteRestore(cmd *cobra.Command, args []string) error {
	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	updated, err := st.UpdateNote(args[0], func(n models.Note) (models.Note, error) {
		return n.Restore(time.Now().UTC()), nil
	})
	if err != nil {
		return err
	}
	cmd.Printf("Restored %q\n", updated.Title)
	return nil
}

func runNoteTags(cmd *cobra.Command, args []string) error {
	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	all, err := st.ListNotes()
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	tags := notes.Tags(all)
	if len(tags) == 0 {
		cmd.Println("No tags.")
		return nil
	}
	cmd.Println(strings.Join(tags, "\n"))
	return nil
}
