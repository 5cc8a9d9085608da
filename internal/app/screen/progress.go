package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazycommit/internal/theme"
)

// ProgressStepMsg tells a progress screen that step Step has started.
type ProgressStepMsg struct{ Step int }

// ProgressDoneMsg tells a progress screen that all work has finished.
type ProgressDoneMsg struct{}

// ProgressScreen shows a labelled list of steps and a progress bar. It
// ignores keys: it closes when the work it tracks finishes.
type ProgressScreen struct {
	Title   string
	Steps   []string
	Current int // index of the running step, -1 before the first
	Done    bool
	Thm     *theme.Theme

	bar progress.Model
}

// NewProgressScreen creates a progress modal for steps.
func NewProgressScreen(title string, steps []string, thm *theme.Theme) *ProgressScreen {
	bar := progress.New(
		progress.WithGradient(string(thm.Accent), string(thm.SuccessFg)),
		progress.WithWidth(modalWidth-8),
	)
	return &ProgressScreen{
		Title:   title,
		Steps:   steps,
		Current: -1,
		Thm:     thm,
		bar:     bar,
	}
}

// Type returns the screen type.
func (s *ProgressScreen) Type() Type {
	return TypeProgress
}

// Update ignores keys while work is running.
func (s *ProgressScreen) Update(_ tea.KeyMsg) (Screen, tea.Cmd) {
	return s, nil
}

// Advance marks step as running. Out-of-range steps are ignored.
func (s *ProgressScreen) Advance(step int) {
	if step < 0 || step >= len(s.Steps) || step < s.Current {
		return
	}
	s.Current = step
}

// Finish marks every step as complete.
func (s *ProgressScreen) Finish() {
	s.Done = true
	s.Current = len(s.Steps)
}

// Percent is the completed fraction: steps before Current count as done.
func (s *ProgressScreen) Percent() float64 {
	if len(s.Steps) == 0 || s.Done {
		return 1
	}
	if s.Current <= 0 {
		return 0
	}
	return float64(s.Current) / float64(len(s.Steps))
}

// View renders the step list and the bar.
func (s *ProgressScreen) View() string {
	doneStyle := lipgloss.NewStyle().Foreground(s.Thm.SuccessFg)
	runningStyle := lipgloss.NewStyle().Foreground(s.Thm.Accent).Bold(true)
	pendingStyle := lipgloss.NewStyle().Foreground(s.Thm.MutedFg)

	lines := make([]string, 0, len(s.Steps))
	for i, step := range s.Steps {
		switch {
		case s.Done || i < s.Current:
			lines = append(lines, doneStyle.Render("✓ "+step))
		case i == s.Current:
			lines = append(lines, runningStyle.Render("› "+step))
		default:
			lines = append(lines, pendingStyle.Render("  "+step))
		}
	}

	content := fmt.Sprintf("%s%s\n\n%s",
		renderTitle(s.Title, s.Thm, modalWidth-4),
		strings.Join(lines, "\n"),
		s.bar.ViewAs(s.Percent()),
	)
	return boxStyle(s.Thm.Accent).Render(content)
}
