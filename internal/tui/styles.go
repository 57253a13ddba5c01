package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/calendarly/internal/model"
)

// bubblePalette maps the data-model colors onto terminal colors.
var bubblePalette = map[model.Color]lipgloss.Color{
	model.ColorBlue:   lipgloss.Color("#4ECDC4"),
	model.ColorRed:    lipgloss.Color("#FF6B6B"),
	model.ColorGreen:  lipgloss.Color("#95E1A3"),
	model.ColorYellow: lipgloss.Color("#FFE66D"),
	model.ColorPurple: lipgloss.Color("#B39DDB"),
	model.ColorOrange: lipgloss.Color("#FFB347"),
	model.ColorPink:   lipgloss.Color("#F48FB1"),
	model.ColorTeal:   lipgloss.Color("#26C6DA"),
	model.ColorGray:   lipgloss.Color("#9E9E9E"),
	model.ColorBrown:  lipgloss.Color("#BCAAA4"),
}

// theme is the resolved style set for the active display theme.
type theme struct {
	Primary   lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	Surface   lipgloss.Color
	Border    lipgloss.Color
	Important lipgloss.Color

	Header       lipgloss.Style
	Cell         lipgloss.Style
	CellSelected lipgloss.Style
	CellToday    lipgloss.Style
	ItemSelected lipgloss.Style
	Done         lipgloss.Style
	StatusBar    lipgloss.Style
	Modal        lipgloss.Style
	Help         lipgloss.Style
	Faded        lipgloss.Style
}

func darkTheme() theme {
	t := theme{
		Primary:   lipgloss.Color("#4ECDC4"),
		Text:      lipgloss.Color("#FFFFFF"),
		TextMuted: lipgloss.Color("#888888"),
		Surface:   lipgloss.Color("#16213e"),
		Border:    lipgloss.Color("#333333"),
		Important: lipgloss.Color("#FFE66D"),
	}
	return t.build()
}

func lightTheme() theme {
	t := theme{
		Primary:   lipgloss.Color("#00897B"),
		Text:      lipgloss.Color("#1a1a2e"),
		TextMuted: lipgloss.Color("#6C757D"),
		Surface:   lipgloss.Color("#E0E0E0"),
		Border:    lipgloss.Color("#BBBBBB"),
		Important: lipgloss.Color("#F57F17"),
	}
	return t.build()
}

func (t theme) build() theme {
	t.Header = lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1)
	t.Cell = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border)
	t.CellSelected = t.Cell.BorderForeground(t.Primary)
	t.CellToday = t.Cell.BorderForeground(t.Important)
	t.ItemSelected = lipgloss.NewStyle().Background(t.Surface).Bold(true)
	t.Done = lipgloss.NewStyle().Foreground(t.TextMuted).Strikethrough(true)
	t.StatusBar = lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(t.Border)
	t.Modal = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2)
	t.Help = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.Faded = lipgloss.NewStyle().Foreground(t.TextMuted).Faint(true)
	return t
}

// styles resolves the theme from the current preference.
func (m Model) styles() theme {
	if m.st.Prefs.Theme == model.ThemeLight {
		return lightTheme()
	}
	return darkTheme()
}

// bubbleStyle renders a note or event bubble in its palette color.
func bubbleStyle(c model.Color) lipgloss.Style {
	color, ok := bubblePalette[c]
	if !ok {
		color = bubblePalette[model.ColorGray]
	}
	return lipgloss.NewStyle().Foreground(color)
}
