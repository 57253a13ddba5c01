package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/calendarly/internal/bubblefit"
	"github.com/existflow/calendarly/internal/logger"
	"github.com/existflow/calendarly/internal/shell"
	"github.com/existflow/calendarly/internal/state"
	"github.com/existflow/calendarly/internal/store"
	"github.com/existflow/calendarly/internal/sync"
	"github.com/existflow/calendarly/internal/timeutil"
)

// View represents which screen is showing
type View int

const (
	ViewMonth View = iota
	ViewDay
	ViewTimeline
	ViewSettings
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddNote
	ModeEditNote
	ModeEventText
	ModeEventStart
	ModeEventEnd
	ModeHelp
)

// eventDraft accumulates the staged event-creation inputs across the three
// text/start/end prompts.
type eventDraft struct {
	id    string // non-empty when editing an existing event
	text  string
	start string
	flip  bool // invert the am/pm guess for the ambiguous end time
}

// Model is the main TUI model
type Model struct {
	db *store.Store
	st *state.State
	sh shell.Shell

	// Sync
	syncClient      *sync.Client
	syncEngine      *sync.Engine
	autoSync        *sync.AutoSync
	syncRefreshChan chan *sync.Record // remote records awaiting application in Update

	// UI state
	width          int
	height         int
	view           View
	mode           Mode
	cursor         time.Time // selected day
	month          time.Time // first of the displayed month
	noteCursor     int
	eventCursor    int
	settingsCursor int

	// Pending window size, applied after the resize debounce
	pendingWidth  int
	pendingHeight int
	resizeSeq     int

	fitter *bubblefit.Fitter

	// Input
	input textinput.Model
	draft eventDraft

	message string
}

// NewModel creates a new TUI model
func NewModel(db *store.Store, st *state.State, sh shell.Shell) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.Placeholder = "Enter note..."
	ti.CharLimit = 256
	ti.Width = 50

	now := time.Now()
	m := Model{
		db:              db,
		st:              st,
		sh:              sh,
		view:            ViewMonth,
		mode:            ModeNormal,
		cursor:          now,
		month:           time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		input:           ti,
		fitter:          bubblefit.New(termBubbleRows, bubblefit.TierLarge, bubblefit.TierMedium),
		syncRefreshChan: make(chan *sync.Record, 1), // Buffered to avoid blocking
	}

	// Initialize sync
	sClient, err := sync.NewClient()
	if err == nil && sClient.IsLoggedIn() {
		m.syncClient = sClient
		// Encrypted payloads need a password prompt the TUI does not have;
		// those sessions sync through the CLI sync commands instead.
		if crypto, cerr := sClient.Crypto(""); cerr == nil && crypto == nil {
			logger.Info("Sync client initialized and logged in")
			m.syncEngine = sync.NewEngine(sClient, db)

			// The subscription goroutine only hands records over; they are
			// applied inside Update, where the state's owner runs. The
			// channel keeps the newest record when the UI lags behind.
			refresh := m.syncRefreshChan
			m.autoSync = sync.NewAutoSync(m.syncEngine, func(rec *sync.Record) {
				logger.Debug("Remote record received")
				select {
				case <-refresh:
				default:
				}
				refresh <- rec
			})
		} else {
			logger.Info("Payload encryption configured, auto-sync disabled")
		}
	} else if err != nil {
		logger.Debug("Sync client not initialized", logger.F("error", err))
	} else {
		logger.Debug("Sync client not logged in")
	}

	return m
}

// termBubbleRows measures bubbles in terminal rows: large bubbles take a text
// row plus a spacer, medium and below a single row.
func termBubbleRows(tier bubblefit.Tier, count int) float64 {
	if tier == bubblefit.TierLarge {
		return float64(count * 2)
	}
	return float64(count)
}

// day returns the selected day's key.
func (m *Model) day() string {
	return timeutil.DateKey(m.cursor)
}

// prevDay returns the key of the day before the selected one, for bleed-over
// projections.
func (m *Model) prevDay() string {
	return timeutil.DateKey(m.cursor.AddDate(0, 0, -1))
}

// persist writes the state through the store and schedules a background push.
func (m *Model) persist() {
	if err := m.db.Save(m.st); err != nil {
		logger.Error("Failed to save", logger.F("error", err))
		m.message = "Save failed: " + err.Error()
		return
	}
	if m.autoSync != nil {
		m.autoSync.TriggerPush(m.st.Snapshot())
	}
}

// clampCursors keeps the list cursors inside the selected day's data.
func (m *Model) clampCursors() {
	if n := len(m.st.NotesOn(m.day())); m.noteCursor >= n {
		m.noteCursor = n - 1
	}
	if m.noteCursor < 0 {
		m.noteCursor = 0
	}
	if n := len(m.st.ScheduleOn(m.day())); m.eventCursor >= n {
		m.eventCursor = n - 1
	}
	if m.eventCursor < 0 {
		m.eventCursor = 0
	}
}
