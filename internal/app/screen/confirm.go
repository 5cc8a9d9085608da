package screen

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazycommit/internal/theme"
)

// ConfirmScreen displays a modal confirmation prompt with Yes/No buttons.
type ConfirmScreen struct {
	Title          string
	Message        string
	SelectedButton int // 0 = Yes, 1 = No
	Thm            *theme.Theme

	// Callbacks
	OnConfirm func() tea.Cmd
	OnCancel  func() tea.Cmd
}

// NewConfirmScreen creates a confirm screen with the Yes button focused.
func NewConfirmScreen(title, message string, thm *theme.Theme) *ConfirmScreen {
	return &ConfirmScreen{
		Title:          title,
		Message:        message,
		SelectedButton: 0,
		Thm:            thm,
	}
}

// Type returns the screen type.
func (s *ConfirmScreen) Type() Type {
	return TypeConfirm
}

// Update processes keyboard events for the confirmation dialog.
// Returns nil to signal that the screen should be closed.
func (s *ConfirmScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyTab, "right", "l":
		s.SelectedButton = (s.SelectedButton + 1) % 2
	case keyShiftTab, "left", "h":
		s.SelectedButton = (s.SelectedButton - 1 + 2) % 2
	case "y", "Y":
		return nil, s.confirm()
	case "n", "N":
		return nil, s.cancel()
	case keyEnter:
		if s.SelectedButton == 0 {
			return nil, s.confirm()
		}
		return nil, s.cancel()
	case keyEsc, keyEscRaw, keyQ, keyCtrlC:
		return nil, s.cancel()
	}
	return s, nil
}

func (s *ConfirmScreen) confirm() tea.Cmd {
	if s.OnConfirm != nil {
		return s.OnConfirm()
	}
	return nil
}

func (s *ConfirmScreen) cancel() tea.Cmd {
	if s.OnCancel != nil {
		return s.OnCancel()
	}
	return nil
}

// View renders the confirmation UI box with focused button highlighting.
func (s *ConfirmScreen) View() string {
	buttonWidth := (modalWidth - 6) / 2

	focusedYesStyle := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(s.Thm.AccentFg).
		Background(s.Thm.SuccessFg).
		Bold(true)

	focusedNoStyle := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(s.Thm.AccentFg).
		Background(s.Thm.Accent).
		Bold(true)

	unfocusedButtonStyle := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(s.Thm.MutedFg).
		Background(s.Thm.AccentDim)

	var yesButton, noButton string
	if s.SelectedButton == 0 {
		yesButton = focusedYesStyle.Render("[Yes]")
		noButton = unfocusedButtonStyle.Render("[No]")
	} else {
		yesButton = unfocusedButtonStyle.Render("[Yes]")
		noButton = focusedNoStyle.Render("[No]")
	}

	content := fmt.Sprintf("%s%s\n\n%s  %s",
		renderTitle(s.Title, s.Thm, modalWidth-4),
		messageStyle(s.Thm).Render(WrapMessage(s.Message, modalWidth-4, maxMessageLines)),
		yesButton,
		noButton,
	)

	return boxStyle(s.Thm.Accent).Render(content)
}

// SetTheme updates the theme for this screen.
func (s *ConfirmScreen) SetTheme(thm *theme.Theme) {
	s.Thm = thm
}
