// Package timeline positions time-ranged events on a fixed 48-slot day
// column. Each slot covers 30 minutes; an event whose end clock-time precedes
// its start is treated as rolling over midnight into the following day.
package timeline

import (
	"errors"
	"fmt"

	"github.com/existflow/calendarly/internal/model"
	"github.com/existflow/calendarly/internal/timeutil"
)

// SlotsPerDay is the number of 30-minute slots in one day column.
const SlotsPerDay = 48

// SlotMinutes is the duration covered by one slot.
const SlotMinutes = 30

// ErrEmptyColumn is returned when positioning against a column with no
// measured height.
var ErrEmptyColumn = errors.New("timeline: column height not set")

// Span is the vertical extent of an event within a day column, in the same
// unit as the column height.
type Span struct {
	Top    float64
	Height float64
}

// Column is one rendered day. Height is the live measured height of the slot
// column and must be refreshed on every render, since slot height depends on
// the current layout.
type Column struct {
	Height float64
}

// SlotHeight is the height of a single 30-minute slot.
func (c Column) SlotHeight() float64 {
	return c.Height / SlotsPerDay
}

// SlotIndex maps a "HH:MM" start time to its slot: hour*2, plus one past the
// half hour.
func SlotIndex(hhmm string) int {
	hour, minute := timeutil.SplitClock(hhmm)
	idx := hour * 2
	if minute >= 30 {
		idx++
	}
	return idx
}

// EndSlotIndex maps a "HH:MM" end time to its exclusive slot boundary,
// rounding the end minute up to the next slot edge.
func EndSlotIndex(hhmm string) int {
	hour, minute := timeutil.SplitClock(hhmm)
	idx := hour * 2
	switch {
	case minute > 30:
		idx += 2
	case minute > 0:
		idx++
	}
	return idx
}

// SlotStart returns the "HH:MM" start time of a slot index. Indexes past the
// end of the day wrap into the next day's clock.
func SlotStart(index int) string {
	index = ((index % SlotsPerDay) + SlotsPerDay) % SlotsPerDay
	return fmt.Sprintf("%02d:%02d", index/2, (index%2)*SlotMinutes)
}

// Position computes the vertical span of an event from its start and end
// times. An end slot at or before the start slot means the event crosses
// midnight and is extended by a full day so it bleeds past the bottom of the
// column. Height never drops below half a slot, so zero-length events stay
// visible.
func (c Column) Position(start, end string) (Span, error) {
	if c.Height <= 0 {
		return Span{}, ErrEmptyColumn
	}

	startSlot := SlotIndex(start)
	endSlot := EndSlotIndex(end)
	if endSlot <= startSlot {
		endSlot += SlotsPerDay
	}

	slotHeight := c.SlotHeight()
	height := float64(endSlot-startSlot) * slotHeight
	if min := slotHeight / 2; height < min {
		height = min
	}

	return Span{
		Top:    float64(startSlot) * slotHeight,
		Height: height,
	}, nil
}

// SlotAt maps a vertical offset within the column to the slot it falls in,
// clamped to the day. Used to pre-seed the creation form from a click.
func (c Column) SlotAt(y float64) int {
	if c.Height <= 0 {
		return 0
	}
	slot := int(y / c.SlotHeight())
	if slot < 0 {
		slot = 0
	}
	if slot >= SlotsPerDay {
		slot = SlotsPerDay - 1
	}
	return slot
}

// FormTop places a creation form of the given height at the click point,
// flipping it above the click when it would overflow the bottom of the
// column.
func (c Column) FormTop(clickY, formHeight float64) float64 {
	top := clickY
	if top+formHeight > c.Height {
		top = clickY - formHeight
	}
	if top < 0 {
		top = 0
	}
	return top
}

// Projection is a read-only copy of a previous day's cross-midnight item,
// clipped to start at 00:00 of the current day. It renders de-emphasized and
// takes no edits; changes apply only to the source item on its owning day.
type Projection struct {
	SourceID string
	Text     string
	Start    string
	End      string
	Color    model.Color
}

// Bleed scans the previous day's schedule and synthesizes projections for
// every item that crosses midnight into the current day.
func Bleed(prevDay []model.ScheduleItem) []Projection {
	var out []Projection
	for _, item := range prevDay {
		if !item.CrossesMidnight() {
			continue
		}
		out = append(out, Projection{
			SourceID: item.ID,
			Text:     item.Text,
			Start:    "00:00",
			End:      item.End,
			Color:    item.Color,
		})
	}
	return out
}
