package store

import (
	"path/filepath"
	"testing"

	"github.com/existflow/calendarly/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "calendarly.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadFreshDatabase(t *testing.T) {
	s := openTestStore(t)

	st, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Notes) != 0 || len(st.Schedule) != 0 || len(st.Important) != 0 {
		t.Fatalf("expected empty state")
	}
	if st.Prefs != model.DefaultPreferences() {
		t.Fatalf("expected default preferences, got %+v", st.Prefs)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	st, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const day = "2026-03-14"
	n, _ := st.AddNote(day, "persist me")
	_ = st.SetNoteColor(day, n.ID, model.ColorOrange)
	_, _ = st.AddScheduleItem(day, "late", "23:00", "01:00", model.ColorBlue)
	_, _ = st.ToggleImportant(day)
	_ = st.SetTheme(model.ThemeLight)
	st.SetUse24HourTime(true)

	if err := s.Save(st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	notes := got.NotesOn(day)
	if len(notes) != 1 || notes[0].ID != n.ID || notes[0].Color != model.ColorOrange {
		t.Fatalf("notes not round-tripped: %+v", notes)
	}
	items := got.ScheduleOn(day)
	if len(items) != 1 || items[0].Start != "23:00" || items[0].End != "01:00" {
		t.Fatalf("schedule not round-tripped: %+v", items)
	}
	if !got.Important[day] {
		t.Fatalf("importance not round-tripped")
	}
	if got.Prefs.Theme != model.ThemeLight || !got.Prefs.Use24HourTime {
		t.Fatalf("preferences not round-tripped: %+v", got.Prefs)
	}
	if got.UpdatedAt != st.UpdatedAt {
		t.Fatalf("timestamp not round-tripped: %d != %d", got.UpdatedAt, st.UpdatedAt)
	}
}

func TestSavePreservesNoteOrder(t *testing.T) {
	s := openTestStore(t)
	st, _ := s.Load()

	const day = "2026-03-14"
	for _, text := range []string{"first", "second", "third"} {
		if _, err := st.AddNote(day, text); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := s.Save(st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := s.Load()
	notes := got.NotesOn(day)
	if len(notes) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(notes))
	}
	for i, want := range []string{"first", "second", "third"} {
		if notes[i].Text != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, notes[i].Text)
		}
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	st, _ := s.Load()
	_, _ = st.AddNote("2026-03-14", "doomed")
	if err := s.Save(st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := s.Load()
	if len(got.Notes) != 0 {
		t.Fatalf("expected empty state after reset")
	}
	if got.Prefs != model.DefaultPreferences() {
		t.Fatalf("expected default preferences after reset")
	}
}
