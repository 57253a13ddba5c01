package model

import "testing"

func TestParseColorDefaultsToGray(t *testing.T) {
	if got := ParseColor("RED"); got != ColorRed {
		t.Fatalf("expected red, got %s", got)
	}
	if got := ParseColor("magenta"); got != ColorGray {
		t.Fatalf("expected gray fallback, got %s", got)
	}
	if got := ParseColor(""); got != ColorGray {
		t.Fatalf("expected gray fallback, got %s", got)
	}
}

func TestColorNextWraps(t *testing.T) {
	palette := Colors()
	if got := palette[len(palette)-1].Next(); got != palette[0] {
		t.Fatalf("expected wrap to %s, got %s", palette[0], got)
	}
	if got := ColorBlue.Next(); got != ColorRed {
		t.Fatalf("expected red after blue, got %s", got)
	}
}

func TestNewNoteAssignsID(t *testing.T) {
	a := NewNote("one")
	b := NewNote("one")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty ids")
	}
	if a.Color != ColorGray {
		t.Fatalf("expected gray default, got %s", a.Color)
	}
}

func TestCrossesMidnight(t *testing.T) {
	cases := []struct {
		start, end string
		want       bool
	}{
		{"09:00", "10:00", false},
		{"23:00", "01:00", true},
		{"23:30", "23:00", true},
		{"00:00", "23:59", false},
	}
	for _, c := range cases {
		item := NewScheduleItem("x", c.start, c.end, ColorBlue)
		if got := item.CrossesMidnight(); got != c.want {
			t.Fatalf("%s-%s: expected %v, got %v", c.start, c.end, c.want, got)
		}
	}
}
