package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/chmouel/lazycommit/internal/app/screen"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Toggle  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "Up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "Down")),
		Top:     key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "Top")),
		Bottom:  key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "Bottom")),
		Toggle:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "Fold")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Refresh")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "Quit")),
	}
}

// footerBindings are the hints shown on the last line.
func (k keyMap) footerBindings() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Toggle, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) helpEntries() []screen.HelpEntry {
	all := []key.Binding{k.Down, k.Up, k.Top, k.Bottom, k.Toggle, k.Refresh, k.Help, k.Quit}
	entries := make([]screen.HelpEntry, 0, len(all))
	for _, b := range all {
		h := b.Help()
		entries = append(entries, screen.HelpEntry{Key: h.Key, Description: h.Desc})
	}
	return entries
}

func legendEntries() []screen.HelpEntry {
	return []screen.HelpEntry{
		{Key: glyphModified, Description: "modified"},
		{Key: glyphAdded, Description: "added"},
		{Key: glyphUnknown, Description: "untracked, deleted, renamed or conflicted"},
		{Key: glyphSynced, Description: "in sync with the last commit"},
	}
}
