package screen

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazycommit/internal/theme"
)

// HelpEntry is one key binding shown on the help screen.
type HelpEntry struct {
	Key         string
	Description string
}

// HelpScreen lists key bindings and the meaning of the status glyphs.
type HelpScreen struct {
	Entries []HelpEntry
	Legend  []HelpEntry
	Thm     *theme.Theme
}

// NewHelpScreen creates a help overlay.
func NewHelpScreen(entries, legend []HelpEntry, thm *theme.Theme) *HelpScreen {
	return &HelpScreen{Entries: entries, Legend: legend, Thm: thm}
}

// Type returns the screen type.
func (s *HelpScreen) Type() Type {
	return TypeHelp
}

// Update closes the overlay on any dismiss key.
func (s *HelpScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyEnter, keyEsc, keyEscRaw, keyQ, "?":
		return nil, nil
	}
	return s, nil
}

// View renders the bindings in two aligned columns.
func (s *HelpScreen) View() string {
	keyStyle := lipgloss.NewStyle().Foreground(s.Thm.Accent).Bold(true).Width(12)
	descStyle := lipgloss.NewStyle().Foreground(s.Thm.TextFg)
	sectionStyle := lipgloss.NewStyle().Foreground(s.Thm.MutedFg)

	var b strings.Builder
	for _, e := range s.Entries {
		fmt.Fprintf(&b, "%s%s\n", keyStyle.Render(e.Key), descStyle.Render(e.Description))
	}
	if len(s.Legend) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Status") + "\n")
		for _, e := range s.Legend {
			fmt.Fprintf(&b, "%s%s\n", keyStyle.Render(e.Key), descStyle.Render(e.Description))
		}
	}

	return boxStyle(s.Thm.Accent).Render(
		renderTitle("Help", s.Thm, modalWidth-4) + strings.TrimRight(b.String(), "\n"),
	)
}
