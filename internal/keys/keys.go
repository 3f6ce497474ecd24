// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// PagerKeyMap defines the keybindings of the pager. It implements
// help.KeyMap.
type PagerKeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	// Themes
	NextTheme key.Binding
	PrevTheme key.Binding
	SaveTheme key.Binding

	// General
	ToggleLogs key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// Pager is the default pager key map.
var Pager = DefaultPagerKeyMap()

// DefaultPagerKeyMap returns the default pager keybindings.
func DefaultPagerKeyMap() PagerKeyMap {
	return PagerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("b/pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "f", " "),
			key.WithHelp("f/pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		NextTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "next theme"),
		),
		PrevTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "previous theme"),
		),
		SaveTheme: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save theme"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "logs"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k PagerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTheme, k.SaveTheme, k.ToggleLogs, k.Help, k.Quit}
}

// FullHelp returns every binding grouped in columns.
func (k PagerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.NextTheme, k.PrevTheme, k.SaveTheme},
		{k.ToggleLogs, k.Help, k.Quit},
	}
}
