package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/calendarly/internal/model"
	"github.com/existflow/calendarly/internal/timeutil"
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage the daily timeline",
	Long: `Manage time-ranged events on a day's timeline.

End times typed without am/pm resolve to the interpretation closest after
the start time; an end before the start means the event crosses midnight.

Examples:
  calendarly schedule add "Standup" 9:30 10
  calendarly schedule add --date tomorrow "Dinner" "6 pm" 8
  calendarly schedule edit 3f2a --start 10:00 --end 11:00
  calendarly schedule rm 3f2a`,
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add [text] [start] [end]",
	Short: "Add an event",
	Args:  cobra.ExactArgs(3),
	RunE:  runScheduleAdd,
}

var scheduleListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List a day's events",
	RunE:    runScheduleList,
}

var scheduleEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit an event in place",
	Args:  cobra.ExactArgs(1),
	RunE:  runScheduleEdit,
}

var scheduleRemoveCmd = &cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"remove"},
	Short:   "Delete an event",
	Args:    cobra.ExactArgs(1),
	RunE:    runScheduleRemove,
}

var (
	scheduleDate  string
	scheduleColor string
	editText      string
	editStart     string
	editEnd       string
	editColor     string
	flipMeridiem  bool
)

func init() {
	scheduleCmd.PersistentFlags().StringVarP(&scheduleDate, "date", "d", "", "Day (YYYY-MM-DD, 'today', 'tomorrow')")
	scheduleAddCmd.Flags().StringVarP(&scheduleColor, "color", "c", "", "Bubble color")
	scheduleAddCmd.Flags().BoolVar(&flipMeridiem, "flip", false, "Invert the am/pm guess for an ambiguous end time")

	scheduleEditCmd.Flags().StringVar(&editText, "text", "", "New text")
	scheduleEditCmd.Flags().StringVar(&editStart, "start", "", "New start time")
	scheduleEditCmd.Flags().StringVar(&editEnd, "end", "", "New end time")
	scheduleEditCmd.Flags().StringVar(&editColor, "color", "", "New color")

	scheduleCmd.AddCommand(scheduleAddCmd)
	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleEditCmd)
	scheduleCmd.AddCommand(scheduleRemoveCmd)
}

func runScheduleAdd(cmd *cobra.Command, args []string) error {
	day, err := resolveDay(scheduleDate)
	if err != nil {
		return err
	}

	text, startRaw, endRaw := args[0], args[1], args[2]

	start, ok := timeutil.ParseTimeInput(startRaw)
	if !ok {
		return fmt.Errorf("unparseable start time %q", startRaw)
	}
	end, ok := timeutil.FindClosestTime(start, endRaw, flipMeridiem)
	if !ok {
		return fmt.Errorf("unparseable end time %q", endRaw)
	}

	db, st, err := openData()
	if err != nil {
		return err
	}
	defer db.Close()

	item, err := st.AddScheduleItem(day, text, start, end, model.ParseColor(scheduleColor))
	if err != nil {
		return err
	}
	if err := db.Save(st); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}

	use24 := st.Prefs.Use24HourTime
	fmt.Printf("✓ Scheduled on %s: \"%s\" %s–%s\n", day, item.Text,
		timeutil.FormatTime(item.Start, use24, true),
		timeutil.FormatTime(item.End, use24, true))
	if item.CrossesMidnight() {
		fmt.Println("  (runs past midnight into the next day)")
	}
	pushAfterChange(db, st)
	return nil
}

func runScheduleList(cmd *cobra.Command, args []string) error {
	day, err := resolveDay(scheduleDate)
	if err != nil {
		return err
	}

	db, st, err := openData()
	if err != nil {
		return err
	}
	defer db.Close()

	items := st.ScheduleOn(day)
	if len(items) == 0 {
		fmt.Printf("Nothing scheduled on %s.\n", day)
		return nil
	}

	use24 := st.Prefs.Use24HourTime
	fmt.Printf("\n🕐 %s\n", day)
	fmt.Println(strings.Repeat("─", 50))
	for _, item := range items {
		marker := " "
		if item.CrossesMidnight() {
			marker = "↷"
		}
		fmt.Printf("  %-8s  %s–%s %s %-24s [%s]\n", shortID(item.ID),
			timeutil.FormatTime(item.Start, use24, true),
			timeutil.FormatTime(item.End, use24, true),
			marker, item.Text, item.Color)
	}
	fmt.Println()
	return nil
}

func runScheduleEdit(cmd *cobra.Command, args []string) error {
	day, err := resolveDay(scheduleDate)
	if err != nil {
		return err
	}

	db, st, err := openData()
	if err != nil {
		return err
	}
	defer db.Close()

	item, err := findScheduleItem(st.ScheduleOn(day), args[0])
	if err != nil {
		return err
	}

	text := item.Text
	if cmd.Flags().Changed("text") {
		text = editText
	}
	start := item.Start
	if cmd.Flags().Changed("start") {
		start = editStart
	}
	end := item.End
	if cmd.Flags().Changed("end") {
		end = editEnd
	}
	color := item.Color
	if cmd.Flags().Changed("color") {
		color = model.ParseColor(editColor)
	}

	if err := st.UpdateScheduleItem(day, item.ID, text, start, end, color); err != nil {
		return err
	}
	if err := db.Save(st); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}

	fmt.Println("✓ Event updated")
	pushAfterChange(db, st)
	return nil
}

func runScheduleRemove(cmd *cobra.Command, args []string) error {
	day, err := resolveDay(scheduleDate)
	if err != nil {
		return err
	}

	db, st, err := openData()
	if err != nil {
		return err
	}
	defer db.Close()

	item, err := findScheduleItem(st.ScheduleOn(day), args[0])
	if err != nil {
		return err
	}

	if err := st.DeleteScheduleItem(day, item.ID); err != nil {
		return err
	}
	if err := db.Save(st); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}

	fmt.Println("✓ Event deleted")
	pushAfterChange(db, st)
	return nil
}

// findScheduleItem resolves a possibly-shortened id against the day's events.
func findScheduleItem(items []model.ScheduleItem, prefix string) (model.ScheduleItem, error) {
	var match model.ScheduleItem
	found := false
	for _, item := range items {
		if strings.HasPrefix(item.ID, prefix) {
			if found {
				return model.ScheduleItem{}, fmt.Errorf("id %q is ambiguous", prefix)
			}
			match = item
			found = true
		}
	}
	if !found {
		return model.ScheduleItem{}, fmt.Errorf("no event with id %q on that day", prefix)
	}
	return match, nil
}
