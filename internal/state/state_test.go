package state

import (
	"errors"
	"testing"
	"time"

	"github.com/existflow/calendarly/internal/model"
)

const day = "2026-03-14"

func newTestState() *State {
	s := New()
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	return s
}

func TestAddNoteCreatesDayKey(t *testing.T) {
	s := newTestState()

	n, err := s.AddNote(day, "buy milk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if n.Color != model.ColorGray {
		t.Fatalf("expected gray default, got %s", n.Color)
	}
	if len(s.NotesOn(day)) != 1 {
		t.Fatalf("expected 1 note, got %d", len(s.NotesOn(day)))
	}
	if s.UpdatedAt == 0 {
		t.Fatalf("expected mutation timestamp")
	}
}

func TestAddNoteValidation(t *testing.T) {
	s := newTestState()

	if _, err := s.AddNote("2026-3-14", "x"); !errors.Is(err, ErrBadDateKey) {
		t.Fatalf("expected ErrBadDateKey, got %v", err)
	}
	if _, err := s.AddNote(day, ""); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestDeleteLastNoteRemovesDayKey(t *testing.T) {
	s := newTestState()
	n, _ := s.AddNote(day, "only one")

	if err := s.DeleteNote(day, n.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.Notes[day]; ok {
		t.Fatalf("expected day key to be removed")
	}

	// Deleting again is a guarded no-op for the caller.
	if err := s.DeleteNote(day, n.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteKeepsSiblingNotes(t *testing.T) {
	s := newTestState()
	a, _ := s.AddNote(day, "first")
	b, _ := s.AddNote(day, "second")

	if err := s.DeleteNote(day, a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	notes := s.NotesOn(day)
	if len(notes) != 1 || notes[0].ID != b.ID {
		t.Fatalf("expected only %s to remain", b.ID)
	}
}

func TestSetNoteColor(t *testing.T) {
	s := newTestState()
	n, _ := s.AddNote(day, "paint me")

	if err := s.SetNoteColor(day, n.ID, model.ColorRed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.NotesOn(day)[0].Color != model.ColorRed {
		t.Fatalf("color not applied")
	}
	if err := s.SetNoteColor(day, n.ID, model.Color("magenta")); err == nil {
		t.Fatalf("expected error for unknown color")
	}
	if err := s.SetNoteColor(day, "nope", model.ColorRed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestToggleImportant(t *testing.T) {
	s := newTestState()

	flagged, err := s.ToggleImportant(day)
	if err != nil || !flagged {
		t.Fatalf("expected flagged=true, err=nil; got %v %v", flagged, err)
	}
	if !s.Important[day] {
		t.Fatalf("day not flagged")
	}

	flagged, err = s.ToggleImportant(day)
	if err != nil || flagged {
		t.Fatalf("expected flagged=false, err=nil; got %v %v", flagged, err)
	}
	if _, ok := s.Important[day]; ok {
		t.Fatalf("expected key removed after untoggle")
	}
}

func TestScheduleItemLifecycle(t *testing.T) {
	s := newTestState()

	item, err := s.AddScheduleItem(day, "standup", "9:30", "10", model.ColorBlue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Start != "09:30" || item.End != "10:00" {
		t.Fatalf("expected normalized times, got %s-%s", item.Start, item.End)
	}

	err = s.UpdateScheduleItem(day, item.ID, "standup (moved)", "10:00", "10:30", model.ColorGreen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := s.ScheduleOn(day)[0]
	if got.Text != "standup (moved)" || got.Start != "10:00" || got.Color != model.ColorGreen {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := s.DeleteScheduleItem(day, item.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.Schedule[day]; ok {
		t.Fatalf("expected day key removed")
	}
}

func TestAddScheduleItemRejectsBadTimes(t *testing.T) {
	s := newTestState()

	if _, err := s.AddScheduleItem(day, "x", "25:00", "10:00", model.ColorBlue); !errors.Is(err, ErrBadTime) {
		t.Fatalf("expected ErrBadTime, got %v", err)
	}
	if _, err := s.AddScheduleItem(day, "x", "9", "later", model.ColorBlue); !errors.Is(err, ErrBadTime) {
		t.Fatalf("expected ErrBadTime, got %v", err)
	}
}

func TestUpdateScheduleItemRejectsEmptyText(t *testing.T) {
	s := newTestState()

	item, err := s.AddScheduleItem(day, "standup", "9:00", "9:30", model.ColorBlue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.UpdateScheduleItem(day, item.ID, "", "9:00", "9:30", model.ColorBlue); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if got := s.ScheduleOn(day)[0]; got.Text != "standup" {
		t.Fatalf("rejected update must leave the item untouched, got %q", got.Text)
	}
}

func TestAddScheduleItemAllowsMidnightCrossing(t *testing.T) {
	s := newTestState()

	item, err := s.AddScheduleItem(day, "night shift", "23:00", "01:00", model.ColorPurple)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !item.CrossesMidnight() {
		t.Fatalf("expected a midnight-crossing item")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s := newTestState()
	n, _ := s.AddNote(day, "note")
	_ = s.SetNoteColor(day, n.ID, model.ColorTeal)
	_, _ = s.AddScheduleItem(day, "meet", "14:00", "15:00", model.ColorPink)
	_, _ = s.ToggleImportant(day)
	_ = s.SetTheme(model.ThemeLight)
	s.SetUse24HourTime(true)

	data, err := s.Export()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	restored := newTestState()
	if err := restored.Import(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(restored.NotesOn(day)) != 1 || restored.NotesOn(day)[0].Color != model.ColorTeal {
		t.Fatalf("notes not restored: %+v", restored.NotesOn(day))
	}
	if len(restored.ScheduleOn(day)) != 1 {
		t.Fatalf("schedule not restored")
	}
	if !restored.Important[day] {
		t.Fatalf("importance not restored")
	}
	if restored.Prefs.Theme != model.ThemeLight || !restored.Prefs.Use24HourTime {
		t.Fatalf("preferences not restored: %+v", restored.Prefs)
	}
}

func TestImportRejectsMalformedData(t *testing.T) {
	s := newTestState()
	_, _ = s.AddNote(day, "keep me")

	if err := s.Import([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
	if err := s.Import([]byte(`[1,2,3]`)); err == nil {
		t.Fatalf("expected error for non-object JSON")
	}
	if len(s.NotesOn(day)) != 1 {
		t.Fatalf("failed import must leave state untouched")
	}
}

func TestImportMintsMissingIDs(t *testing.T) {
	s := newTestState()
	payload := []byte(`{
		"notes": {"2026-03-14": [{"text": "legacy", "color": "red"}]},
		"important": [],
		"schedule": {"2026-03-14": [{"text": "old", "start": "09:00", "end": "10:00"}]},
		"theme": "nonsense"
	}`)

	if err := s.Import(payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n := s.NotesOn(day)[0]
	if n.ID == "" {
		t.Fatalf("expected a minted note id")
	}
	if n.Color != model.ColorRed {
		t.Fatalf("expected color preserved, got %s", n.Color)
	}
	if s.ScheduleOn(day)[0].ID == "" {
		t.Fatalf("expected a minted schedule id")
	}
	if s.Prefs.Theme != model.ThemeDark {
		t.Fatalf("expected theme fallback to dark, got %s", s.Prefs.Theme)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := newTestState()
	_, _ = s.AddNote(day, "original")

	snap := s.Snapshot()
	snap.Notes[day][0].Text = "mutated"

	if s.NotesOn(day)[0].Text != "original" {
		t.Fatalf("snapshot mutation leaked into state")
	}
}

func TestSetTheme(t *testing.T) {
	s := newTestState()
	if err := s.SetTheme("sepia"); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
	if err := s.SetTheme(model.ThemeLight); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
