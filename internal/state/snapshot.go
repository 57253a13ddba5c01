package state

import (
	"encoding/json"
	"fmt"

	"github.com/existflow/calendarly/internal/model"
)

// Snapshot captures the state in the persisted-record shape used for
// export/import and as the sync payload.
func (s *State) Snapshot() model.Snapshot {
	notes := make(map[string][]model.Note, len(s.Notes))
	for day, list := range s.Notes {
		notes[day] = append([]model.Note(nil), list...)
	}
	schedule := make(map[string][]model.ScheduleItem, len(s.Schedule))
	for day, list := range s.Schedule {
		schedule[day] = append([]model.ScheduleItem(nil), list...)
	}

	return model.Snapshot{
		Notes:         notes,
		Important:     s.ImportantDays(),
		Schedule:      schedule,
		Theme:         s.Prefs.Theme,
		Use24HourTime: s.Prefs.Use24HourTime,
		UpdatedAt:     s.UpdatedAt,
	}
}

// Restore fully replaces the state with the snapshot's contents. Missing
// inner fields default to empty; entries without ids (older exports) are
// assigned fresh ones.
func (s *State) Restore(snap model.Snapshot) {
	s.Notes = make(map[string][]model.Note)
	for day, list := range snap.Notes {
		for _, n := range list {
			if n.ID == "" {
				color := n.Color
				n = model.NewNote(n.Text)
				n.Color = color
			}
			if !n.Color.Valid() {
				n.Color = model.ColorGray
			}
			s.Notes[day] = append(s.Notes[day], n)
		}
	}

	s.Important = make(map[string]bool, len(snap.Important))
	for _, day := range snap.Important {
		s.Important[day] = true
	}

	s.Schedule = make(map[string][]model.ScheduleItem)
	for day, list := range snap.Schedule {
		for _, item := range list {
			if item.ID == "" {
				item = model.NewScheduleItem(item.Text, item.Start, item.End, item.Color)
			}
			if !item.Color.Valid() {
				item.Color = model.ColorGray
			}
			s.Schedule[day] = append(s.Schedule[day], item)
		}
	}

	s.Prefs = model.Preferences{
		Theme:         snap.Theme,
		Use24HourTime: snap.Use24HourTime,
	}
	if s.Prefs.Theme != model.ThemeLight && s.Prefs.Theme != model.ThemeDark {
		s.Prefs.Theme = model.ThemeDark
	}

	s.UpdatedAt = snap.UpdatedAt
}

// Export serializes the state as formatted JSON with the schema field set.
func (s *State) Export() ([]byte, error) {
	snap := s.Snapshot()
	snap.Schema = model.SnapshotSchema
	snap.UpdatedAt = 0
	return json.MarshalIndent(snap, "", "  ")
}

// Import parses exported JSON and fully replaces the state. Only the outer
// value is validated; malformed inner fields silently default to empty. No
// partial import occurs: a parse error leaves the state untouched.
func (s *State) Import(data []byte) error {
	var outer any
	if err := json.Unmarshal(data, &outer); err != nil {
		return fmt.Errorf("invalid import data: %w", err)
	}
	if _, ok := outer.(map[string]any); !ok {
		return fmt.Errorf("invalid import data: expected an object")
	}

	var snap model.Snapshot
	_ = json.Unmarshal(data, &snap)

	s.Restore(snap)
	s.touch()
	return nil
}
