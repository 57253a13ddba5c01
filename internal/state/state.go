// Package state holds the application's calendar data as an explicit object
// passed to every operation. Mutations are keyed by entity id, validate their
// inputs, and bump the snapshot timestamp used by sync.
package state

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/existflow/calendarly/internal/model"
	"github.com/existflow/calendarly/internal/timeutil"
)

// Mutation errors.
var (
	ErrNotFound   = errors.New("entry not found")
	ErrBadDateKey = errors.New("invalid date key")
	ErrBadTime    = errors.New("unparseable time")
	ErrEmptyText  = errors.New("text must not be empty")
)

// State aggregates all day-keyed data and preferences. A day with no notes,
// no schedule items and no importance flag has no key at all; absence always
// implies emptiness.
type State struct {
	Notes     map[string][]model.Note
	Important map[string]bool
	Schedule  map[string][]model.ScheduleItem
	Prefs     model.Preferences

	// UpdatedAt is the millisecond timestamp of the last local mutation.
	UpdatedAt int64

	now func() time.Time // injectable for tests
}

// New returns an empty state with default preferences.
func New() *State {
	return &State{
		Notes:     make(map[string][]model.Note),
		Important: make(map[string]bool),
		Schedule:  make(map[string][]model.ScheduleItem),
		Prefs:     model.DefaultPreferences(),
		now:       time.Now,
	}
}

func (s *State) touch() {
	if s.now == nil {
		s.now = time.Now
	}
	s.UpdatedAt = s.now().UnixMilli()
}

func checkDay(day string) error {
	if _, err := timeutil.ParseDateKey(day); err != nil {
		return fmt.Errorf("%w: %q", ErrBadDateKey, day)
	}
	return nil
}

// AddNote appends a note to the day's sequence, creating it if absent.
func (s *State) AddNote(day, text string) (model.Note, error) {
	if err := checkDay(day); err != nil {
		return model.Note{}, err
	}
	if text == "" {
		return model.Note{}, ErrEmptyText
	}

	note := model.NewNote(text)
	s.Notes[day] = append(s.Notes[day], note)
	s.touch()
	return note, nil
}

// SetNoteColor changes the color of the identified note in place.
func (s *State) SetNoteColor(day, id string, color model.Color) error {
	if !color.Valid() {
		return fmt.Errorf("unknown color %q", color)
	}
	for i, n := range s.Notes[day] {
		if n.ID == id {
			s.Notes[day][i].Color = color
			s.touch()
			return nil
		}
	}
	return fmt.Errorf("note %s on %s: %w", id, day, ErrNotFound)
}

// DeleteNote removes the identified note. When the day's sequence becomes
// empty its key is removed entirely. Deleting an unknown id is ErrNotFound,
// so a repeated delete is a guarded no-op for the caller.
func (s *State) DeleteNote(day, id string) error {
	notes := s.Notes[day]
	for i, n := range notes {
		if n.ID == id {
			s.Notes[day] = append(notes[:i], notes[i+1:]...)
			if len(s.Notes[day]) == 0 {
				delete(s.Notes, day)
			}
			s.touch()
			return nil
		}
	}
	return fmt.Errorf("note %s on %s: %w", id, day, ErrNotFound)
}

// AddScheduleItem appends a timeline event to the day. Start and end must be
// parseable clock values; an end preceding the start is legal and means the
// event crosses midnight.
func (s *State) AddScheduleItem(day, text, start, end string, color model.Color) (model.ScheduleItem, error) {
	if err := checkDay(day); err != nil {
		return model.ScheduleItem{}, err
	}
	if text == "" {
		return model.ScheduleItem{}, ErrEmptyText
	}
	startClock, ok := timeutil.ParseTimeInput(start)
	if !ok {
		return model.ScheduleItem{}, fmt.Errorf("start %q: %w", start, ErrBadTime)
	}
	endClock, ok := timeutil.ParseTimeInput(end)
	if !ok {
		return model.ScheduleItem{}, fmt.Errorf("end %q: %w", end, ErrBadTime)
	}
	if !color.Valid() {
		color = model.ColorGray
	}

	item := model.NewScheduleItem(text, startClock, endClock, color)
	s.Schedule[day] = append(s.Schedule[day], item)
	s.touch()
	return item, nil
}

// UpdateScheduleItem replaces the identified event's fields in place.
func (s *State) UpdateScheduleItem(day, id, text, start, end string, color model.Color) error {
	if text == "" {
		return ErrEmptyText
	}
	startClock, ok := timeutil.ParseTimeInput(start)
	if !ok {
		return fmt.Errorf("start %q: %w", start, ErrBadTime)
	}
	endClock, ok := timeutil.ParseTimeInput(end)
	if !ok {
		return fmt.Errorf("end %q: %w", end, ErrBadTime)
	}

	for i, item := range s.Schedule[day] {
		if item.ID == id {
			s.Schedule[day][i].Text = text
			s.Schedule[day][i].Start = startClock
			s.Schedule[day][i].End = endClock
			if color.Valid() {
				s.Schedule[day][i].Color = color
			}
			s.touch()
			return nil
		}
	}
	return fmt.Errorf("schedule item %s on %s: %w", id, day, ErrNotFound)
}

// DeleteScheduleItem removes the identified event, dropping the day key when
// the sequence empties.
func (s *State) DeleteScheduleItem(day, id string) error {
	items := s.Schedule[day]
	for i, item := range items {
		if item.ID == id {
			s.Schedule[day] = append(items[:i], items[i+1:]...)
			if len(s.Schedule[day]) == 0 {
				delete(s.Schedule, day)
			}
			s.touch()
			return nil
		}
	}
	return fmt.Errorf("schedule item %s on %s: %w", id, day, ErrNotFound)
}

// ToggleImportant flips the day's importance flag and reports the new state.
func (s *State) ToggleImportant(day string) (bool, error) {
	if err := checkDay(day); err != nil {
		return false, err
	}
	if s.Important[day] {
		delete(s.Important, day)
		s.touch()
		return false, nil
	}
	s.Important[day] = true
	s.touch()
	return true, nil
}

// SetTheme sets the display theme.
func (s *State) SetTheme(theme string) error {
	if theme != model.ThemeLight && theme != model.ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	s.Prefs.Theme = theme
	s.touch()
	return nil
}

// SetUse24HourTime sets the time-format preference.
func (s *State) SetUse24HourTime(use24 bool) {
	s.Prefs.Use24HourTime = use24
	s.touch()
}

// ImportantDays returns the flagged day keys in sorted order.
func (s *State) ImportantDays() []string {
	days := make([]string, 0, len(s.Important))
	for day := range s.Important {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

// NotesOn returns the day's note sequence, nil when the day has none.
func (s *State) NotesOn(day string) []model.Note {
	return s.Notes[day]
}

// ScheduleOn returns the day's timeline events, nil when the day has none.
func (s *State) ScheduleOn(day string) []model.ScheduleItem {
	return s.Schedule[day]
}
