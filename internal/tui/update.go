package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/calendarly/internal/model"
	"github.com/existflow/calendarly/internal/sync"
	"github.com/existflow/calendarly/internal/timeutil"
)

// resizeDebounce is how long after the last size change the layout refits.
const resizeDebounce = 150 * time.Millisecond

// syncRefreshMsg carries a remote record delivered by the subscription
type syncRefreshMsg struct {
	rec *sync.Record
}

// resizeMsg fires after the resize debounce window
type resizeMsg struct {
	seq int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.waitForSyncRefresh()
}

// waitForSyncRefresh listens for records handed over by the subscription
func (m Model) waitForSyncRefresh() tea.Cmd {
	if m.syncRefreshChan == nil {
		return nil
	}
	return func() tea.Msg {
		return syncRefreshMsg{rec: <-m.syncRefreshChan}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncRefreshMsg:
		// Apply the remote record here: Update owns the state, so no other
		// goroutine ever mutates it.
		if m.syncEngine != nil && msg.rec != nil {
			applied, err := m.syncEngine.Apply(m.st, msg.rec)
			switch {
			case err != nil:
				m.message = "Sync failed: " + err.Error()
			case applied:
				m.clampCursors()
				m.message = "Synced from cloud"
			}
		}
		return m, m.waitForSyncRefresh()

	case tea.WindowSizeMsg:
		// Debounce: refit only after the size has settled
		m.pendingWidth = msg.Width
		m.pendingHeight = msg.Height
		m.resizeSeq++
		seq := m.resizeSeq
		if m.width == 0 {
			m.width = msg.Width
			m.height = msg.Height
		}
		return m, tea.Tick(resizeDebounce, func(time.Time) tea.Msg {
			return resizeMsg{seq: seq}
		})

	case resizeMsg:
		if msg.seq == m.resizeSeq {
			m.width = m.pendingWidth
			m.height = m.pendingHeight
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeAddNote, ModeEditNote:
			return m.updateNoteInput(msg)
		case ModeEventText, ModeEventStart, ModeEventEnd:
			return m.updateEventInput(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if m.autoSync != nil {
			_ = m.autoSync.PushNowIfPending()
			m.autoSync.Stop()
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, keys.Refresh):
		if m.autoSync != nil {
			m.autoSync.TriggerPush(m.st.Snapshot())
			m.message = "Sync scheduled"
		} else if m.syncClient != nil {
			m.message = "Encrypted sync runs through 'calendarly sync push'"
		} else {
			m.message = "Not logged in - use 'calendarly auth login' first"
		}
		return m, nil
	}

	switch m.view {
	case ViewMonth:
		return m.handleMonthKeys(msg)
	case ViewDay:
		return m.handleDayKeys(msg)
	case ViewTimeline:
		return m.handleTimelineKeys(msg)
	case ViewSettings:
		return m.handleSettingsKeys(msg)
	}
	return m, nil
}

func (m Model) handleMonthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Left):
		m.moveCursor(0, 0, -1)
	case key.Matches(msg, keys.Right):
		m.moveCursor(0, 0, 1)
	case key.Matches(msg, keys.Up):
		m.moveCursor(0, 0, -7)
	case key.Matches(msg, keys.Down):
		m.moveCursor(0, 0, 7)
	case key.Matches(msg, keys.PrevMonth):
		m.moveCursor(0, -1, 0)
	case key.Matches(msg, keys.NextMonth):
		m.moveCursor(0, 1, 0)
	case key.Matches(msg, keys.Today):
		now := time.Now()
		m.cursor = now
		m.month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case key.Matches(msg, keys.Enter):
		m.view = ViewDay
		m.noteCursor = 0
	case key.Matches(msg, keys.Timeline):
		m.view = ViewTimeline
		m.eventCursor = 0
	case key.Matches(msg, keys.Important):
		m.toggleImportant()
	case key.Matches(msg, keys.Add):
		return m.startAddNote()
	case key.Matches(msg, keys.Settings):
		m.view = ViewSettings
		m.settingsCursor = 0
	}
	return m, nil
}

// moveCursor shifts the selected day and follows it across month boundaries.
func (m *Model) moveCursor(years, months, days int) {
	m.cursor = m.cursor.AddDate(years, months, days)
	m.month = time.Date(m.cursor.Year(), m.cursor.Month(), 1, 0, 0, 0, 0, m.cursor.Location())
	m.clampCursors()
}

func (m *Model) toggleImportant() {
	flagged, err := m.st.ToggleImportant(m.day())
	if err != nil {
		m.message = err.Error()
		return
	}
	m.persist()
	if flagged {
		m.message = "Marked important"
	} else {
		m.message = "Importance cleared"
	}
}

func (m Model) handleDayKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	notes := m.st.NotesOn(m.day())

	switch {
	case key.Matches(msg, keys.Escape):
		m.view = ViewMonth
	case key.Matches(msg, keys.Up):
		if m.noteCursor > 0 {
			m.noteCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.noteCursor < len(notes)-1 {
			m.noteCursor++
		}
	case key.Matches(msg, keys.Left):
		m.moveCursor(0, 0, -1)
	case key.Matches(msg, keys.Right):
		m.moveCursor(0, 0, 1)
	case key.Matches(msg, keys.Add):
		return m.startAddNote()
	case key.Matches(msg, keys.Edit):
		if m.noteCursor < len(notes) {
			m.mode = ModeEditNote
			m.input.SetValue(notes[m.noteCursor].Text)
			m.input.Placeholder = "Edit note..."
			m.input.Focus()
			m.input.CursorEnd()
			return m, textinput.Blink
		}
	case key.Matches(msg, keys.Delete):
		if m.noteCursor < len(notes) {
			if err := m.st.DeleteNote(m.day(), notes[m.noteCursor].ID); err != nil {
				m.message = err.Error()
			} else {
				m.persist()
				m.clampCursors()
				m.message = "Note deleted"
			}
		}
	case key.Matches(msg, keys.Color):
		if m.noteCursor < len(notes) {
			n := notes[m.noteCursor]
			if err := m.st.SetNoteColor(m.day(), n.ID, n.Color.Next()); err != nil {
				m.message = err.Error()
			} else {
				m.persist()
			}
		}
	case key.Matches(msg, keys.Important):
		m.toggleImportant()
	case key.Matches(msg, keys.Timeline):
		m.view = ViewTimeline
		m.eventCursor = 0
	}
	return m, nil
}

func (m Model) handleTimelineKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.st.ScheduleOn(m.day())

	switch {
	case key.Matches(msg, keys.Escape):
		m.view = ViewMonth
	case key.Matches(msg, keys.Up):
		if m.eventCursor > 0 {
			m.eventCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.eventCursor < len(items)-1 {
			m.eventCursor++
		}
	case key.Matches(msg, keys.Left):
		m.moveCursor(0, 0, -1)
	case key.Matches(msg, keys.Right):
		m.moveCursor(0, 0, 1)
	case key.Matches(msg, keys.Add):
		m.draft = eventDraft{}
		m.mode = ModeEventText
		m.input.SetValue("")
		m.input.Placeholder = "Event..."
		m.input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, keys.Edit):
		if m.eventCursor < len(items) {
			item := items[m.eventCursor]
			m.draft = eventDraft{id: item.ID, text: item.Text, start: item.Start}
			m.mode = ModeEventText
			m.input.SetValue(item.Text)
			m.input.Placeholder = "Event..."
			m.input.Focus()
			m.input.CursorEnd()
			return m, textinput.Blink
		}
	case key.Matches(msg, keys.Delete):
		if m.eventCursor < len(items) {
			if err := m.st.DeleteScheduleItem(m.day(), items[m.eventCursor].ID); err != nil {
				m.message = err.Error()
			} else {
				m.persist()
				m.clampCursors()
				m.message = "Event deleted"
			}
		}
	case key.Matches(msg, keys.Color):
		if m.eventCursor < len(items) {
			item := items[m.eventCursor]
			err := m.st.UpdateScheduleItem(m.day(), item.ID, item.Text, item.Start, item.End, item.Color.Next())
			if err != nil {
				m.message = err.Error()
			} else {
				m.persist()
			}
		}
	case key.Matches(msg, keys.Enter):
		m.view = ViewDay
		m.noteCursor = 0
	}
	return m, nil
}

func (m Model) handleSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	const settingsCount = 3

	switch {
	case key.Matches(msg, keys.Escape):
		m.view = ViewMonth
	case key.Matches(msg, keys.Up):
		if m.settingsCursor > 0 {
			m.settingsCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.settingsCursor < settingsCount-1 {
			m.settingsCursor++
		}
	case key.Matches(msg, keys.Enter), msg.String() == " ":
		switch m.settingsCursor {
		case 0:
			next := model.ThemeDark
			if m.st.Prefs.Theme == model.ThemeDark {
				next = model.ThemeLight
			}
			if err := m.st.SetTheme(next); err == nil {
				m.persist()
			}
		case 1:
			m.st.SetUse24HourTime(!m.st.Prefs.Use24HourTime)
			m.persist()
		case 2:
			enabled := m.sh.AutostartEnabled()
			if err := m.sh.SetAutostart(!enabled); err != nil {
				m.message = err.Error()
			} else if enabled {
				m.message = "Autostart disabled"
			} else {
				m.message = "Autostart enabled"
			}
		}
	}
	return m, nil
}

func (m Model) startAddNote() (tea.Model, tea.Cmd) {
	m.mode = ModeAddNote
	m.input.SetValue("")
	m.input.Placeholder = "Enter note..."
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) updateNoteInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		return m, nil

	case key.Matches(msg, keys.Enter):
		value := m.input.Value()
		if value == "" {
			m.mode = ModeNormal
			return m, nil
		}

		switch m.mode {
		case ModeAddNote:
			if _, err := m.st.AddNote(m.day(), value); err != nil {
				m.message = err.Error()
			} else {
				m.persist()
				m.message = fmt.Sprintf("Added: %s", value)
			}
		case ModeEditNote:
			notes := m.st.NotesOn(m.day())
			if m.noteCursor < len(notes) {
				n := notes[m.noteCursor]
				if err := m.st.DeleteNote(m.day(), n.ID); err == nil {
					if added, err := m.st.AddNote(m.day(), value); err == nil {
						_ = m.st.SetNoteColor(m.day(), added.ID, n.Color)
					}
					m.persist()
					m.message = fmt.Sprintf("Updated: %s", value)
				}
			}
		}
		m.mode = ModeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateEventInput walks the three-step event prompt: text, start, end. On
// the end prompt Tab flips the am/pm guess for an ambiguous time.
func (m Model) updateEventInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.draft = eventDraft{}
		return m, nil

	case key.Matches(msg, keys.Tab) && m.mode == ModeEventEnd:
		m.draft.flip = !m.draft.flip
		return m, nil

	case key.Matches(msg, keys.Enter):
		value := m.input.Value()

		switch m.mode {
		case ModeEventText:
			if value == "" {
				m.mode = ModeNormal
				return m, nil
			}
			m.draft.text = value
			m.mode = ModeEventStart
			m.input.SetValue(m.draft.start)
			m.input.Placeholder = "Start (e.g. 9:30 am)"
			m.input.CursorEnd()
			return m, nil

		case ModeEventStart:
			start, ok := timeutil.ParseTimeInput(value)
			if !ok {
				m.message = fmt.Sprintf("Unparseable time %q", value)
				return m, nil
			}
			m.draft.start = start
			m.mode = ModeEventEnd
			m.input.SetValue("")
			m.input.Placeholder = "End (tab flips am/pm)"
			return m, nil

		case ModeEventEnd:
			end, ok := timeutil.FindClosestTime(m.draft.start, value, m.draft.flip)
			if !ok {
				m.message = fmt.Sprintf("Unparseable time %q", value)
				return m, nil
			}
			m.commitEvent(end)
			m.mode = ModeNormal
			m.draft = eventDraft{}
			return m, nil
		}

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) commitEvent(end string) {
	if m.draft.id != "" {
		items := m.st.ScheduleOn(m.day())
		var color model.Color
		for _, item := range items {
			if item.ID == m.draft.id {
				color = item.Color
			}
		}
		err := m.st.UpdateScheduleItem(m.day(), m.draft.id, m.draft.text, m.draft.start, end, color)
		if err != nil {
			m.message = err.Error()
			return
		}
		m.persist()
		m.message = "Event updated"
		return
	}

	item, err := m.st.AddScheduleItem(m.day(), m.draft.text, m.draft.start, end, model.ColorGray)
	if err != nil {
		m.message = err.Error()
		return
	}
	m.persist()
	if item.CrossesMidnight() {
		m.message = fmt.Sprintf("Scheduled %s (runs past midnight)", item.Text)
	} else {
		m.message = fmt.Sprintf("Scheduled %s", item.Text)
	}
}
