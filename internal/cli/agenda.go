package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/existflow/calendarly/internal/timeline"
	"github.com/existflow/calendarly/internal/timeutil"
	"github.com/spf13/cobra"
)

var agendaCmd = &cobra.Command{
	Use:   "agenda [date]",
	Short: "Print a day's full agenda",
	Long: `Print a day's notes and timeline in chronological order. Events that
started the previous evening and run past midnight appear at the top,
clipped to 00:00.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAgenda,
}

func runAgenda(cmd *cobra.Command, args []string) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	day, err := resolveDay(arg)
	if err != nil {
		return err
	}

	db, st, err := openData()
	if err != nil {
		return err
	}
	defer db.Close()

	date, err := timeutil.ParseDateKey(day)
	if err != nil {
		return err
	}
	prevDay := timeutil.DateKey(date.AddDate(0, 0, -1))

	important := ""
	if st.Important[day] {
		important = " ★"
	}
	fmt.Printf("\n📅 %s%s\n", day, important)
	fmt.Println(strings.Repeat("─", 50))

	notes := st.NotesOn(day)
	for _, n := range notes {
		fmt.Printf("  • %s\n", n.Text)
	}
	if len(notes) > 0 {
		fmt.Println()
	}

	use24 := st.Prefs.Use24HourTime
	type row struct {
		start, end, text string
		carried          bool
	}
	var rows []row
	for _, p := range timeline.Bleed(st.ScheduleOn(prevDay)) {
		rows = append(rows, row{p.Start, p.End, p.Text, true})
	}
	for _, item := range st.ScheduleOn(day) {
		rows = append(rows, row{item.Start, item.End, item.Text, false})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].start < rows[j].start })

	if len(rows) == 0 && len(notes) == 0 {
		fmt.Println("  (nothing planned)")
	}
	for _, r := range rows {
		marker := " "
		if r.carried {
			marker = "↷"
		}
		fmt.Printf("  %s–%s %s %s\n",
			timeutil.FormatTime(r.start, use24, true),
			timeutil.FormatTime(r.end, use24, true),
			marker, r.text)
	}
	fmt.Println()
	return nil
}
