package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/calendarly/internal/bubblefit"
	"github.com/existflow/calendarly/internal/timeline"
	"github.com/existflow/calendarly/internal/timeutil"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.view {
	case ViewMonth:
		content = m.renderMonth()
	case ViewDay:
		content = m.renderDay()
	case ViewTimeline:
		content = m.renderTimeline()
	case ViewSettings:
		content = m.renderSettings()
	}

	if m.mode == ModeHelp {
		content = m.renderHelp()
	}
	if m.mode != ModeNormal && m.mode != ModeHelp {
		content = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			m.renderModal(),
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatusBar())
}

func (m Model) renderMonth() string {
	t := m.styles()
	cellWidth := (m.width - 2) / 7
	if cellWidth < 8 {
		cellWidth = 8
	}

	first := m.month
	offset := int(first.Weekday()) // Sunday-based column of day 1
	daysInMonth := first.AddDate(0, 1, -1).Day()
	weeks := (offset + daysInMonth + 6) / 7

	cellHeight := (m.height - 5) / weeks
	if cellHeight < 3 {
		cellHeight = 3
	}
	innerHeight := cellHeight - 2 // minus borders

	var s string
	s += t.Header.Render(first.Format("January 2006")) + "\n"

	var weekdayCells []string
	for _, wd := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		weekdayCells = append(weekdayCells, t.Help.Render(pad(" "+wd, cellWidth)))
	}
	s += lipgloss.JoinHorizontal(lipgloss.Top, weekdayCells...) + "\n"

	today := timeutil.DateKey(time.Now())
	prevMonthDays := first.AddDate(0, 0, -1).Day()
	day := 1
	for w := 0; w < weeks; w++ {
		var cells []string
		for col := 0; col < 7; col++ {
			idx := w*7 + col
			// Leading and trailing cells show the neighbor month's day
			// numbers, faded and inert.
			if idx < offset || day > daysInMonth {
				n := prevMonthDays - offset + idx + 1
				if idx >= offset {
					n = idx - offset - daysInMonth + 1
				}
				cells = append(cells, t.Cell.Width(cellWidth-2).Height(innerHeight).
					Render(t.Faded.Render(fmt.Sprintf("%d", n))))
				continue
			}
			date := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, first.Location())
			cells = append(cells, m.renderDayCell(t, date, cellWidth, innerHeight, today))
			day++
		}
		s += lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n"
	}
	return s
}

// renderDayCell draws one month-grid cell: the day number, an importance
// star, and as many note bubbles as the fit engine allows.
func (m Model) renderDayCell(t theme, date time.Time, cellWidth, innerHeight int, today string) string {
	key := timeutil.DateKey(date)
	notes := m.st.NotesOn(key)

	style := t.Cell
	switch {
	case key == m.day():
		style = t.CellSelected
	case key == today:
		style = t.CellToday
	}

	head := fmt.Sprintf("%d", date.Day())
	if m.st.Important[key] {
		head += " " + lipgloss.NewStyle().Foreground(t.Important).Render("★")
	}
	if len(m.st.ScheduleOn(key)) > 0 {
		head += " " + t.Help.Render("•")
	}

	lines := []string{head}
	fit := m.fitter.Fit(len(notes), float64(innerHeight-1)) // one row for the header
	for i := 0; i < fit.Visible && i < len(notes); i++ {
		n := notes[i]
		lines = append(lines, bubbleStyle(n.Color).Render(truncate(n.Text, cellWidth-4)))
		if fit.Tier == bubblefit.TierLarge {
			lines = append(lines, "")
		}
	}
	if fit.More > 0 {
		lines = append(lines, t.Help.Render(fmt.Sprintf("+%d more", fit.More)))
	}

	return style.Width(cellWidth - 2).Height(innerHeight).Render(strings.Join(lines, "\n"))
}

func (m Model) renderDay() string {
	t := m.styles()
	notes := m.st.NotesOn(m.day())

	header := m.cursor.Format("Monday, January 2 2006")
	if m.st.Important[m.day()] {
		header += " " + lipgloss.NewStyle().Foreground(t.Important).Render("★")
	}

	var s string
	s += t.Header.Render(header) + "\n"
	s += lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", min(m.width-2, 60))) + "\n\n"

	if len(notes) == 0 {
		s += t.Help.Render("  No notes. Press 'a' to add one.") + "\n"
	}
	for i, n := range notes {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.noteCursor {
			cursor = "❯ "
			style = t.ItemSelected
		}
		dot := bubbleStyle(n.Color).Render("●")
		s += style.Render(cursor+dot+" "+truncate(n.Text, m.width-10)) + "\n"
	}

	events := m.st.ScheduleOn(m.day())
	if len(events) > 0 {
		s += "\n" + t.Help.Render(fmt.Sprintf("  %d scheduled (press t for timeline)", len(events))) + "\n"
	}

	return lipgloss.NewStyle().Padding(1, 2).Height(m.height - 3).Render(s)
}

// renderTimeline draws the day column: one terminal row per chunk of the
// 48-slot day, events overlaid at their computed spans, and cross-midnight
// bleed-overs from the previous day pinned faded at the top.
func (m Model) renderTimeline() string {
	t := m.styles()
	rows := m.height - 6
	if rows < 12 {
		rows = 12
	}
	col := timeline.Column{Height: float64(rows)}
	use24 := m.st.Prefs.Use24HourTime

	gutter := make([]string, rows)
	body := make([]string, rows)
	lastSlot := -1
	for r := 0; r < rows; r++ {
		slot := col.SlotAt(float64(r))
		label := ""
		if slot != lastSlot && slot%2 == 0 {
			label = timeutil.FormatTime(timeline.SlotStart(slot), use24, true)
		}
		lastSlot = slot
		gutter[r] = pad(label, 9)
	}

	type drawn struct {
		text  string
		span  timeline.Span
		style lipgloss.Style
	}
	var toDraw []drawn

	for _, p := range timeline.Bleed(m.st.ScheduleOn(m.prevDay())) {
		span, err := col.Position(p.Start, p.End)
		if err != nil {
			continue
		}
		label := fmt.Sprintf("%s (from %s)", p.Text, m.prevDay())
		toDraw = append(toDraw, drawn{text: label, span: span, style: t.Faded})
	}

	items := m.st.ScheduleOn(m.day())
	for i, item := range items {
		span, err := col.Position(item.Start, item.End)
		if err != nil {
			continue
		}
		label := fmt.Sprintf("%s  %s–%s", item.Text,
			timeutil.FormatTime(item.Start, use24, false),
			timeutil.FormatTime(item.End, use24, true))
		style := bubbleStyle(item.Color)
		if i == m.eventCursor {
			style = style.Bold(true).Underline(true)
		}
		toDraw = append(toDraw, drawn{text: label, span: span, style: style})
	}

	for _, d := range toDraw {
		startRow := int(d.span.Top)
		endRow := int(d.span.Top + d.span.Height)
		if endRow <= startRow {
			endRow = startRow + 1
		}
		for r := startRow; r < endRow && r < rows; r++ {
			if r < 0 {
				continue
			}
			if r == startRow {
				body[r] = d.style.Render("▐ " + truncate(d.text, m.width-16))
			} else if body[r] == "" {
				body[r] = d.style.Render("▐")
			}
		}
	}

	var s string
	s += t.Header.Render("Timeline - "+m.cursor.Format("Mon, Jan 2 2006")) + "\n"
	for r := 0; r < rows; r++ {
		s += t.Help.Render(gutter[r]) + "│ " + body[r] + "\n"
	}
	return s
}

func (m Model) renderSettings() string {
	t := m.styles()

	theme := m.st.Prefs.Theme
	clock := "12-hour"
	if m.st.Prefs.Use24HourTime {
		clock = "24-hour"
	}
	autostart := "off"
	if m.sh.AutostartEnabled() {
		autostart = "on"
	}

	rows := []string{
		fmt.Sprintf("Theme          %s", theme),
		fmt.Sprintf("Time format    %s", clock),
		fmt.Sprintf("Autostart      %s", autostart),
	}

	var s string
	s += t.Header.Render("Settings") + "\n"
	s += lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", 30)) + "\n\n"
	for i, row := range rows {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.settingsCursor {
			cursor = "❯ "
			style = t.ItemSelected
		}
		s += style.Render(cursor+row) + "\n"
	}

	s += "\n"
	if dir, err := m.sh.DataDir(); err == nil {
		s += t.Help.Render("Data: "+dir) + "\n"
	}
	if m.syncClient != nil && m.syncClient.IsLoggedIn() {
		_, userID, _ := m.syncClient.Status()
		s += t.Help.Render("Sync: logged in as "+userID) + "\n"
	} else {
		s += t.Help.Render("Sync: not logged in") + "\n"
	}

	return lipgloss.NewStyle().Padding(1, 2).Height(m.height - 3).Render(s)
}

func (m Model) renderStatusBar() string {
	t := m.styles()

	var help string
	switch m.view {
	case ViewMonth:
		help = "hjkl:move  [/]:month  g:today  enter:day  t:timeline  a:note  !:important  s:settings  ?:help  q:quit"
	case ViewDay:
		help = "jk:move  h/l:day  a:add  e:edit  c:color  d:del  !:important  t:timeline  esc:back"
	case ViewTimeline:
		help = "jk:move  h/l:day  a:add  e:edit  c:color  d:del  esc:back"
	case ViewSettings:
		help = "jk:move  enter:toggle  esc:back"
	}
	if m.message != "" {
		help = m.message
	}

	syncMsg := ""
	if m.autoSync != nil && m.autoSync.IsPending() {
		syncMsg = "Syncing..."
	}
	if syncMsg != "" {
		avail := m.width - len(help) - len(syncMsg) - 2
		if avail > 0 {
			help += strings.Repeat(" ", avail) + syncMsg
		} else {
			help += " " + syncMsg
		}
	}

	return t.StatusBar.Width(m.width).Render(help)
}

func (m Model) renderModal() string {
	t := m.styles()

	title := ""
	hint := "Enter:save  Esc:cancel"
	switch m.mode {
	case ModeAddNote:
		title = "Add Note - " + m.day()
	case ModeEditNote:
		title = "Edit Note"
	case ModeEventText:
		title = "New Event - " + m.day()
		if m.draft.id != "" {
			title = "Edit Event"
		}
	case ModeEventStart:
		title = "Start Time"
		hint = "Enter:next  Esc:cancel"
	case ModeEventEnd:
		title = "End Time"
		hint = "Enter:save  Tab:flip am/pm  Esc:cancel"
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n"

	if m.mode == ModeEventEnd {
		if end, ok := timeutil.FindClosestTime(m.draft.start, m.input.Value(), m.draft.flip); ok {
			preview := timeutil.FormatTime(end, m.st.Prefs.Use24HourTime, true)
			if end < m.draft.start {
				preview += " (next day)"
			}
			content += t.Help.Render("→ "+preview) + "\n"
		}
	}

	content += "\n" + t.Help.Render(hint)
	return t.Modal.Render(content)
}

func (m Model) renderHelp() string {
	help := `
╭──── Keyboard Shortcuts ────╮
│                            │
│  Month grid                │
│  ──────────                │
│  hjkl/←↓↑→  Move day       │
│  [ ]        Change month   │
│  g          Jump to today  │
│  Enter      Open day       │
│  t          Timeline       │
│  !          Important      │
│  s          Settings       │
│                            │
│  Day / timeline            │
│  ──────────────            │
│  a          Add            │
│  e          Edit           │
│  c          Cycle color    │
│  d          Delete         │
│  h/l        Prev/next day  │
│                            │
│  Other                     │
│  ─────                     │
│  R          Sync now       │
│  ?          Toggle help    │
│  q          Quit           │
│                            │
╰────────────────────────────╯

      Press any key to close
`
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, help)
}
