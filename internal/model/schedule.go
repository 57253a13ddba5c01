package model

import "github.com/google/uuid"

// ScheduleItem is a time-ranged entry on a day's timeline. Start and End are
// 24-hour "HH:MM" clock strings. An End that precedes Start denotes an event
// crossing midnight into the following day.
type ScheduleItem struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Start string `json:"start"`
	End   string `json:"end"`
	Color Color  `json:"color"`
}

// NewScheduleItem creates a schedule item with a fresh id.
func NewScheduleItem(text, start, end string, color Color) ScheduleItem {
	return ScheduleItem{
		ID:    uuid.New().String(),
		Text:  text,
		Start: start,
		End:   end,
		Color: color,
	}
}

// CrossesMidnight reports whether the item spills into the next day.
func (s ScheduleItem) CrossesMidnight() bool {
	return s.End < s.Start
}
