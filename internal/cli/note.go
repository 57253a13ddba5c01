package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/calendarly/internal/model"
	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage day notes",
	Long: `Manage the note bubbles attached to a day.

Examples:
  calendarly note add "Buy groceries"
  calendarly note add --date 2026-03-14 "Dentist"
  calendarly note ls --date tomorrow
  calendarly note color 3f2a "red"
  calendarly note rm 3f2a`,
}

var noteAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a note to a day",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNoteAdd,
}

var noteListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List a day's notes",
	RunE:    runNoteList,
}

var noteColorCmd = &cobra.Command{
	Use:   "color [id] [color]",
	Short: "Change a note's color",
	Args:  cobra.ExactArgs(2),
	RunE:  runNoteColor,
}

var noteRemoveCmd = &cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"remove"},
	Short:   "Delete a note",
	Args:    cobra.ExactArgs(1),
	RunE:    runNoteRemove,
}

var (
	noteDate  string
	noteColor string
)

func init() {
	noteCmd.PersistentFlags().StringVarP(&noteDate, "date", "d", "", "Day (YYYY-MM-DD, 'today', 'tomorrow')")
	noteAddCmd.Flags().StringVarP(&noteColor, "color", "c", "", "Bubble color")

	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteColorCmd)
	noteCmd.AddCommand(noteRemoveCmd)
}

func runNoteAdd(cmd *cobra.Command, args []string) error {
	day, err := resolveDay(noteDate)
	if err != nil {
		return err
	}

	db, st, err := openData()
	if err != nil {
		return err
	}
	defer db.Close()

	note, err := st.AddNote(day, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if noteColor != "" {
		if err := st.SetNoteColor(day, note.ID, model.ParseColor(noteColor)); err != nil {
			return err
		}
	}

	if err := db.Save(st); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}

	fmt.Printf("✓ Added note to %s: \"%s\"\n", day, note.Text)
	pushAfterChange(db, st)
	return nil
}

func runNoteList(cmd *cobra.Command, args []string) error {
	day, err := resolveDay(noteDate)
	if err != nil {
		return err
	}

	db, st, err := openData()
	if err != nil {
		return err
	}
	defer db.Close()

	notes := st.NotesOn(day)
	if len(notes) == 0 {
		fmt.Printf("No notes on %s.\n", day)
		return nil
	}

	important := ""
	if st.Important[day] {
		important = " ★"
	}
	fmt.Printf("\n📅 %s%s\n", day, important)
	fmt.Println(strings.Repeat("─", 50))
	for _, n := range notes {
		fmt.Printf("  %-8s  %-30s  [%s]\n", shortID(n.ID), n.Text, n.Color)
	}
	fmt.Println()
	return nil
}

func runNoteColor(cmd *cobra.Command, args []string) error {
	day, err := resolveDay(noteDate)
	if err != nil {
		return err
	}

	db, st, err := openData()
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := expandNoteID(st.NotesOn(day), args[0])
	if err != nil {
		return err
	}

	if err := st.SetNoteColor(day, id, model.ParseColor(args[1])); err != nil {
		return err
	}
	if err := db.Save(st); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}

	fmt.Printf("✓ Note recolored to %s\n", model.ParseColor(args[1]))
	pushAfterChange(db, st)
	return nil
}

func runNoteRemove(cmd *cobra.Command, args []string) error {
	day, err := resolveDay(noteDate)
	if err != nil {
		return err
	}

	db, st, err := openData()
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := expandNoteID(st.NotesOn(day), args[0])
	if err != nil {
		return err
	}

	if err := st.DeleteNote(day, id); err != nil {
		return err
	}
	if err := db.Save(st); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}

	fmt.Println("✓ Note deleted")
	pushAfterChange(db, st)
	return nil
}

// shortID trims an id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// expandNoteID resolves a possibly-shortened id against the day's notes.
func expandNoteID(notes []model.Note, prefix string) (string, error) {
	var match string
	for _, n := range notes {
		if strings.HasPrefix(n.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("id %q is ambiguous", prefix)
			}
			match = n.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no note with id %q on that day", prefix)
	}
	return match, nil
}
