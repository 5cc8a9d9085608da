package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/chmouel/lazycommit/internal/theme"
)

// Key constants for navigation.
const (
	keyEnter    = "enter"
	keyEsc      = "esc"
	keyEscRaw   = "\x1b" // Raw escape byte for terminals that send ESC as a rune
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyQ        = "q"
	keyCtrlC    = "ctrl+c"
)

const (
	modalWidth = 72
	// maxMessageLines caps the body of a modal; long file listings are elided.
	maxMessageLines = 16
)

// WrapMessage wraps message to width columns and keeps at most maxLines lines,
// replacing the rest with a "... N more lines" marker.
func WrapMessage(message string, width, maxLines int) string {
	if width < 1 {
		width = 1
	}
	wrapped := wrap.String(wordwrap.String(message, width), width)
	lines := strings.Split(strings.TrimRight(wrapped, "\n"), "\n")
	if maxLines > 0 && len(lines) > maxLines {
		hidden := len(lines) - maxLines + 1
		lines = append(lines[:maxLines-1], fmt.Sprintf("... %d more lines", hidden))
	}
	return strings.Join(lines, "\n")
}

func renderTitle(title string, thm *theme.Theme, width int) string {
	if title == "" {
		return ""
	}
	return lipgloss.NewStyle().
		Width(width).
		Foreground(thm.Accent).
		Bold(true).
		Render(title) + "\n\n"
}

func boxStyle(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(modalWidth)
}

func messageStyle(thm *theme.Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(modalWidth - 4).
		Foreground(thm.TextFg)
}
