package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Dashboard key.Binding
	Profile   key.Binding
	Settings  key.Binding
	Back      key.Binding
	Logout    key.Binding
	Refresh   key.Binding
	PrevDay   key.Binding
	NextDay   key.Binding
	Up        key.Binding
	Down      key.Binding
	Delete    key.Binding
	Advise    key.Binding
	Edit      key.Binding
	AddFood   key.Binding
	Health    key.Binding
	Register  key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var keys = keyMap{
	Dashboard: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
	Profile:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "profile")),
	Settings:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "settings")),
	Back:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "back")),
	Logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	PrevDay:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous day")),
	NextDay:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next day")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
	Delete:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete entry")),
	Advise:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "advisor")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	AddFood:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "add food")),
	Health:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "log health")),
	Register:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "sign up")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
	Quit:      key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
}

// ShortHelp returns keybindings to be shown in the mini help view. It's part
// of the key.Map interface.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Dashboard, k.Profile, k.Settings, k.Refresh, k.Quit, k.Help}
}

// FullHelp returns keybindings for the expanded help view. It's part of the
// key.Map interface.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Dashboard, k.Profile, k.Settings, k.Back},
		{k.PrevDay, k.NextDay, k.Up, k.Down},
		{k.AddFood, k.Health, k.Delete, k.Advise},
		{k.Edit, k.Refresh},
		{k.Logout, k.Help, k.Quit},
	}
}
