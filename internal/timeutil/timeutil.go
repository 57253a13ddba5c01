// Package timeutil converts between calendar dates, 24-hour clock strings and
// 12-hour display strings, and parses free-form time input.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateKeyLayout is the canonical day-key format used across all day-indexed
// data.
const DateKeyLayout = "2006-01-02"

// DateKey formats a time as the canonical zero-padded local YYYY-MM-DD key.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a canonical day key back into a local midnight time.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

var timeInputRe = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)

// ParseTimeInput parses free-form time text into a 24-hour "HH:MM" string.
// Accepted forms are "H[:MM] [am|pm]" (case-insensitive) and bare 24-hour
// "H[:MM]". Returns ok=false when the text does not parse; callers must treat
// that as unparseable, not as midnight.
func ParseTimeInput(text string) (string, bool) {
	m := timeInputRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(text)))
	if m == nil {
		return "", false
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if minute > 59 {
		return "", false
	}

	switch m[3] {
	case "am":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour > 23 {
			return "", false
		}
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// SplitClock breaks a "HH:MM" string into hour and minute. Malformed input
// yields 0:00.
func SplitClock(hhmm string) (hour, minute int) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	hour, _ = strconv.Atoi(parts[0])
	minute, _ = strconv.Atoi(parts[1])
	return hour, minute
}

// MinutesOf returns the minutes-from-midnight value of a "HH:MM" string.
func MinutesOf(hhmm string) int {
	h, m := SplitClock(hhmm)
	return h*60 + m
}

// FormatTime renders a 24-hour "HH:MM" value per the current time-format
// preference. In 12-hour mode hour 0 renders as 12 and hours 13-23 drop 12;
// the am/pm suffix is appended only when showMeridiem is set.
func FormatTime(hhmm string, use24 bool, showMeridiem bool) string {
	if use24 {
		return hhmm
	}

	hour, minute := SplitClock(hhmm)
	meridiem := "am"
	if hour >= 12 {
		meridiem = "pm"
	}

	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour > 12:
		display = hour - 12
	}

	out := fmt.Sprintf("%d:%02d", display, minute)
	if showMeridiem {
		out += " " + meridiem
	}
	return out
}

// FindClosestTime disambiguates an end-time entry typed without an explicit
// meridiem. For an ambiguous 1-12 hour it picks whichever of the AM/PM
// interpretations lands strictly after start with the smaller forward
// wrap-around distance in minutes; flipped inverts the choice. Hours of 13 or
// more are treated as already-unambiguous 24-hour input. The two candidates
// sit 12 hours apart on the wheel, so their forward distances always differ
// and a tie cannot occur.
func FindClosestTime(start, raw string, flipped bool) (string, bool) {
	parsed, ok := ParseTimeInput(raw)
	if !ok {
		return "", false
	}

	lower := strings.ToLower(raw)
	explicit := strings.Contains(lower, "am") || strings.Contains(lower, "pm")
	hour, minute := SplitClock(parsed)
	if explicit || hour == 0 || hour > 12 {
		return parsed, true
	}

	amHour := hour % 12
	pmHour := amHour + 12
	am := fmt.Sprintf("%02d:%02d", amHour, minute)
	pm := fmt.Sprintf("%02d:%02d", pmHour, minute)

	startMin := MinutesOf(start)
	closest, farthest := am, pm
	if forwardDistance(startMin, MinutesOf(pm)) < forwardDistance(startMin, MinutesOf(am)) {
		closest, farthest = pm, am
	}

	if flipped {
		return farthest, true
	}
	return closest, true
}

// forwardDistance is the strictly-forward distance in minutes from a to b on
// a 24-hour wheel; b equal to a counts as a full day ahead.
func forwardDistance(a, b int) int {
	const day = 24 * 60
	d := (b - a) % day
	if d <= 0 {
		d += day
	}
	return d
}
