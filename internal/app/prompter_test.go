package app

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazycommit/internal/app/screen"
	"github.com/chmouel/lazycommit/internal/theme"
)

func testPrompter(input string) *TeaPrompter {
	p := NewTeaPrompter(theme.Dracula())
	p.ProgramOptions = []tea.ProgramOption{
		tea.WithInput(strings.NewReader(input)),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
	}
	return p
}

func TestModalModelClosesWithScreen(t *testing.T) {
	confirmed := false
	s := screen.NewConfirmScreen("Title", "Body", theme.Dracula())
	s.OnConfirm = func() tea.Cmd { confirmed = true; return nil }
	m := newModalModel(s)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Contains(t, m.View(), "Body")

	_, cmd := m.Update(keyMsg("x"))
	assert.Nil(t, cmd)
	assert.False(t, m.closed)

	_, cmd = m.Update(keyMsg("y"))
	require.NotNil(t, cmd)
	assert.True(t, m.closed)
	assert.True(t, confirmed)
	assert.Empty(t, m.View())
}

func TestModalModelProgressMessages(t *testing.T) {
	ps := screen.NewProgressScreen("Sending", []string{"a", "b"}, theme.Dracula())
	m := newModalModel(ps)

	m.Update(screen.ProgressStepMsg{Step: 1})
	assert.Equal(t, 1, ps.Current)

	_, cmd := m.Update(screen.ProgressDoneMsg{})
	require.NotNil(t, cmd)
	assert.True(t, ps.Done)
	assert.True(t, m.closed)

	// progress messages are ignored by other screens
	info := newModalModel(screen.NewInfoScreen("", "hi", theme.Dracula()))
	info.Update(screen.ProgressStepMsg{Step: 0})
	assert.False(t, info.closed)
}

func TestTeaPrompterConfirm(t *testing.T) {
	assert.True(t, testPrompter("y").Confirm("Unsent changes", "Send?"))
	assert.False(t, testPrompter("n").Confirm("Unsent changes", "Send?"))
}

func TestTeaPrompterNotify(t *testing.T) {
	done := make(chan struct{})
	go func() {
		testPrompter("\r").Notify("Done", "Updates sent successfully!")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("notify did not return after enter")
	}
}

func TestTeaPrompterWithProgressRunsBody(t *testing.T) {
	var advanced []int
	ran := false
	testPrompter("").WithProgress("Sending", []string{"a", "b", "c"}, func(advance func(int)) {
		for i := 0; i < 3; i++ {
			advance(i)
			advanced = append(advanced, i)
		}
		ran = true
	})

	assert.True(t, ran)
	assert.Equal(t, []int{0, 1, 2}, advanced)
}

func TestNotices(t *testing.T) {
	n := NewNotices()
	msg, sev := n.Latest()
	assert.Empty(t, msg)
	assert.Empty(t, sev)

	n.NotifyOnce("k", "first", "error")
	n.NotifyOnce("k", "second", "error")
	msg, sev = n.Latest()
	assert.Equal(t, "first", msg)
	assert.Equal(t, "error", sev)

	n.Notify("plain", "info")
	msg, _ = n.Latest()
	assert.Equal(t, "plain", msg)
}

func TestStateGlyphsAndIcons(t *testing.T) {
	assert.Equal(t, "", iconWithSpace(""))
	assert.Equal(t, "x ", iconWithSpace("x"))
	assert.Equal(t, "", deviconForName("", false))
	assert.NotEmpty(t, deviconForName("main.go", false))
}
