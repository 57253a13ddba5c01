package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
	Enter     key.Binding
	Timeline  key.Binding
	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Color     key.Binding
	Important key.Binding
	Settings  key.Binding
	Tab       key.Binding
	Help      key.Binding
	Quit      key.Binding
	Escape    key.Binding
	Refresh   key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	PrevMonth: key.NewBinding(key.WithKeys("[", "pgup"), key.WithHelp("[", "prev month")),
	NextMonth: key.NewBinding(key.WithKeys("]", "pgdown"), key.WithHelp("]", "next month")),
	Today:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "today")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open day")),
	Timeline:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "timeline")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Color:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cycle color")),
	Important: key.NewBinding(key.WithKeys("!"), key.WithHelp("!", "toggle important")),
	Settings:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
	Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "flip am/pm")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back/cancel")),
	Refresh:   key.NewBinding(key.WithKeys("R", "r"), key.WithHelp("R", "sync now")),
}
