package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazycommit/internal/app/screen"
	"github.com/chmouel/lazycommit/internal/log"
	"github.com/chmouel/lazycommit/internal/theme"
)

// TeaPrompter asks questions with short-lived Bubble Tea programs, one per
// prompt. Every method blocks until its program exits.
type TeaPrompter struct {
	Theme *theme.Theme
	// ProgramOptions are passed to every program (tests set input and output).
	ProgramOptions []tea.ProgramOption
}

// NewTeaPrompter returns a prompter drawing with thm, on the alternate screen.
func NewTeaPrompter(thm *theme.Theme) *TeaPrompter {
	if thm == nil {
		thm = theme.Dracula()
	}
	return &TeaPrompter{
		Theme:          thm,
		ProgramOptions: []tea.ProgramOption{tea.WithAltScreen()},
	}
}

// Confirm shows a Yes/No modal and reports whether Yes was chosen.
func (p *TeaPrompter) Confirm(title, message string) bool {
	confirmed := false
	s := screen.NewConfirmScreen(title, message, p.Theme)
	s.OnConfirm = func() tea.Cmd {
		confirmed = true
		return nil
	}
	if err := p.run(newModalModel(s)); err != nil {
		log.Printf("prompter: confirm: %v", err)
		return false
	}
	return confirmed
}

// Notify shows message until it is acknowledged.
func (p *TeaPrompter) Notify(title, message string) {
	s := screen.NewInfoScreen(title, message, p.Theme)
	if err := p.run(newModalModel(s)); err != nil {
		log.Printf("prompter: notify: %v", err)
	}
}

// WithProgress shows the steps while body runs. body always runs to
// completion, even if the program cannot start.
func (p *TeaPrompter) WithProgress(title string, steps []string, body func(advance func(step int))) {
	s := screen.NewProgressScreen(title, steps, p.Theme)
	program := tea.NewProgram(newModalModel(s), p.ProgramOptions...)

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		body(func(step int) {
			program.Send(screen.ProgressStepMsg{Step: step})
		})
		program.Send(screen.ProgressDoneMsg{})
	}()

	if _, err := program.Run(); err != nil {
		log.Printf("prompter: progress: %v", err)
	}
	<-finished
}

func (p *TeaPrompter) run(model tea.Model) error {
	_, err := tea.NewProgram(model, p.ProgramOptions...).Run()
	return err
}

// modalModel hosts a single screen and quits when the screen closes.
type modalModel struct {
	screen screen.Screen
	width  int
	height int
	closed bool
}

func newModalModel(s screen.Screen) *modalModel {
	return &modalModel{screen: s, width: defaultWidth, height: defaultHeight}
}

func (m *modalModel) Init() tea.Cmd {
	return nil
}

func (m *modalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		next, cmd := m.screen.Update(msg)
		if next == nil {
			m.closed = true
			return m, tea.Sequence(cmd, tea.Quit)
		}
		m.screen = next
		return m, cmd
	case screen.ProgressStepMsg:
		if ps, ok := m.screen.(*screen.ProgressScreen); ok {
			ps.Advance(msg.Step)
		}
	case screen.ProgressDoneMsg:
		if ps, ok := m.screen.(*screen.ProgressScreen); ok {
			ps.Finish()
		}
		m.closed = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *modalModel) View() string {
	if m.closed {
		return ""
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.screen.View())
}
