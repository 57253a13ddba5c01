package timeline

import (
	"testing"

	"github.com/existflow/calendarly/internal/model"
)

func TestSlotIndex(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"00:29", 0},
		{"00:30", 1},
		{"09:00", 18},
		{"09:30", 19},
		{"23:30", 47},
	}
	for _, c := range cases {
		if got := SlotIndex(c.in); got != c.want {
			t.Fatalf("%q: expected slot %d, got %d", c.in, c.want, got)
		}
	}
}

func TestEndSlotIndexRoundsUp(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"10:00", 20},
		{"10:15", 21},
		{"10:30", 21},
		{"10:45", 22},
	}
	for _, c := range cases {
		if got := EndSlotIndex(c.in); got != c.want {
			t.Fatalf("%q: expected slot %d, got %d", c.in, c.want, got)
		}
	}
}

func TestPositionScalesWithColumnHeight(t *testing.T) {
	// 960 units over 48 slots is 20 units per slot: an event at 09:00
	// lasting 90 minutes sits at top 360 with height 60.
	col := Column{Height: 960}
	span, err := col.Position("09:00", "10:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if span.Top != 360 {
		t.Fatalf("expected top 360, got %v", span.Top)
	}
	if span.Height != 60 {
		t.Fatalf("expected height 60, got %v", span.Height)
	}
}

func TestPositionMidnightRollover(t *testing.T) {
	col := Column{Height: 960}
	span, err := col.Position("23:00", "01:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if span.Top != 920 {
		t.Fatalf("expected top 920, got %v", span.Top)
	}
	// 2 hours = 4 slots, extending 40 units past the column bottom.
	if span.Height != 80 {
		t.Fatalf("expected height 80, got %v", span.Height)
	}
	if span.Top+span.Height <= col.Height {
		t.Fatalf("rollover span should bleed past the column bottom")
	}
}

func TestPositionZeroLengthKeepsMinHeight(t *testing.T) {
	// Equal start and end counts as a full-day rollover per the end<=start
	// rule; a genuinely tiny event keeps at least half a slot.
	col := Column{Height: 96}
	span, err := col.Position("09:00", "09:10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if span.Height < col.SlotHeight()/2 {
		t.Fatalf("height %v below the half-slot floor", span.Height)
	}
}

func TestPositionEmptyColumn(t *testing.T) {
	col := Column{}
	if _, err := col.Position("09:00", "10:00"); err == nil {
		t.Fatalf("expected error for unmeasured column")
	}
}

func TestSlotAtClamps(t *testing.T) {
	col := Column{Height: 96}
	if got := col.SlotAt(-5); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if got := col.SlotAt(1000); got != SlotsPerDay-1 {
		t.Fatalf("expected clamp to %d, got %d", SlotsPerDay-1, got)
	}
	if got := col.SlotAt(48); got != 24 {
		t.Fatalf("expected slot 24, got %d", got)
	}
}

func TestSlotStartWraps(t *testing.T) {
	if got := SlotStart(19); got != "09:30" {
		t.Fatalf("expected 09:30, got %s", got)
	}
	if got := SlotStart(50); got != "01:00" {
		t.Fatalf("expected wrap to 01:00, got %s", got)
	}
}

func TestFormTopFlipsAtBottom(t *testing.T) {
	col := Column{Height: 100}
	if got := col.FormTop(10, 30); got != 10 {
		t.Fatalf("expected form at click point, got %v", got)
	}
	// Near the bottom the form flips above the click.
	if got := col.FormTop(90, 30); got != 60 {
		t.Fatalf("expected flipped form at 60, got %v", got)
	}
	if got := col.FormTop(5, 30); got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}

func TestBleedProjectsOnlyMidnightCrossers(t *testing.T) {
	prev := []model.ScheduleItem{
		{ID: "a", Text: "late show", Start: "23:00", End: "01:30", Color: model.ColorRed},
		{ID: "b", Text: "dinner", Start: "18:00", End: "19:00", Color: model.ColorBlue},
	}
	got := Bleed(prev)
	if len(got) != 1 {
		t.Fatalf("expected 1 projection, got %d", len(got))
	}
	p := got[0]
	if p.SourceID != "a" {
		t.Fatalf("expected source a, got %s", p.SourceID)
	}
	if p.Start != "00:00" || p.End != "01:30" {
		t.Fatalf("expected clip to 00:00-01:30, got %s-%s", p.Start, p.End)
	}
}

func TestBleedEmpty(t *testing.T) {
	if got := Bleed(nil); got != nil {
		t.Fatalf("expected no projections, got %v", got)
	}
}
