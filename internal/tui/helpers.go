package tui

// truncate shortens a string to max length with ellipsis
func truncate(s string, max int) string {
	if max <= 3 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// pad right-pads a string with spaces to the given width
func pad(s string, width int) string {
	for len([]rune(s)) < width {
		s += " "
	}
	return s
}
