package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazycommit/internal/app/screen"
	"github.com/chmouel/lazycommit/internal/config"
	"github.com/chmouel/lazycommit/internal/git"
	"github.com/chmouel/lazycommit/internal/models"
)

type fakeRepo struct {
	mu     sync.Mutex
	status string
	branch string
	calls  int
}

func (f *fakeRepo) StatusShort(context.Context) git.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return git.Result{Stdout: f.status}
}

func (f *fakeRepo) CurrentBranch(context.Context) string {
	return f.branch
}

func (f *fakeRepo) statusCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testConfig() *config.AppConfig {
	cfg := config.DefaultConfig()
	cfg.AutoRefresh = false
	cfg.Watch = false
	cfg.ShowIcons = false
	cfg.Theme = "dracula"
	return cfg
}

// writeTree creates files under a fresh directory and returns its slash-separated root.
func writeTree(t *testing.T, names ...string) string {
	t.Helper()
	root, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)
	for _, name := range names {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(name), 0o600))
	}
	return filepath.ToSlash(root)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runRefresh executes the refresh command synchronously and feeds its result back.
func runRefresh(t *testing.T, m *Model) {
	t.Helper()
	cmd := m.refreshCmd()
	require.NotNil(t, cmd)
	m.Update(cmd())
}

func TestNewModelDefaults(t *testing.T) {
	root := writeTree(t)
	m := NewModel(Options{Root: root})

	assert.NotNil(t, m.config)
	assert.Equal(t, root, m.Root())
	assert.Equal(t, root, m.Cache().Root())
	assert.False(t, m.Quitting())
	assert.Equal(t, 0, m.Cache().Snapshot().Len())
	m.Close()
	m.Close()
}

func TestModelRefreshBuildsTreeWithStates(t *testing.T) {
	root := writeTree(t, "src/main.go", "src/util.go", "README.md", "new.txt")
	repo := &fakeRepo{status: " M src/main.go\nA  README.md\n?? new.txt\n D gone.go\n", branch: "main"}
	m := NewModel(Options{Config: testConfig(), Repo: repo, Root: root})

	runRefresh(t, m)

	assert.Equal(t, 1, repo.statusCalls())
	assert.Equal(t, "main", m.branch)
	assert.False(t, m.refreshing)

	var rels []string
	for _, n := range m.tree.TreeFlat {
		rels = append(rels, n.Rel)
	}
	assert.Equal(t, []string{"src", "src/main.go", "src/util.go", "README.md", "gone.go", "new.txt"}, rels)

	assert.Equal(t, models.StateModified, m.fileState(root+"/src/main.go"))
	assert.Equal(t, models.StateUnmodified, m.fileState(root+"/src/util.go"))
	assert.Equal(t, models.StateAdded, m.fileState(root+"/README.md"))
	assert.Equal(t, models.StateUnknown, m.fileState(root+"/new.txt"))
	assert.Equal(t, models.StateUnknown, m.fileState(root+"/gone.go"))

	view := m.View()
	assert.Contains(t, view, "lazycommit")
	assert.Contains(t, view, "main.go")
	assert.Contains(t, view, glyphModified+" 1 modified")
	assert.Contains(t, view, glyphAdded+" 1 added")
	assert.Contains(t, view, glyphUnknown+" 2 unknown")
}

func TestModelUntrackedDirectoryStateIsInherited(t *testing.T) {
	root := writeTree(t, "newdir/a.go", "newdir/deep/b.go", "kept.go")
	repo := &fakeRepo{status: "?? newdir/\n"}
	m := NewModel(Options{Config: testConfig(), Repo: repo, Root: root})

	runRefresh(t, m)

	assert.Equal(t, models.StateUnknown, m.fileState(root+"/newdir/a.go"))
	assert.Equal(t, models.StateUnknown, m.fileState(root+"/newdir/deep/b.go"))
	assert.Equal(t, models.StateUnmodified, m.fileState(root+"/kept.go"))
}

func TestModelNavigationAndCollapse(t *testing.T) {
	root := writeTree(t, "src/main.go", "src/util.go", "z.txt")
	m := NewModel(Options{Config: testConfig(), Repo: &fakeRepo{}, Root: root})
	runRefresh(t, m)
	require.Len(t, m.tree.TreeFlat, 4)

	m.Update(keyMsg("j"))
	assert.Equal(t, "src/main.go", m.tree.SelectedPath())
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "src/util.go", m.tree.SelectedPath())
	m.Update(keyMsg("k"))
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "src", m.tree.SelectedPath())
	m.Update(keyMsg("G"))
	assert.Equal(t, "z.txt", m.tree.SelectedPath())
	m.Update(keyMsg("g"))
	assert.Equal(t, "src", m.tree.SelectedPath())

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, m.tree.TreeFlat, 2)
	assert.Contains(t, m.View(), glyphDirClosed)
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	assert.Len(t, m.tree.TreeFlat, 4)

	// toggling a file does nothing
	m.Update(keyMsg("j"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, m.tree.TreeFlat, 4)
}

func TestModelRestoresLayoutBetweenSessions(t *testing.T) {
	root := writeTree(t, "src/main.go", "src/util.go", "z.txt")
	stateDir := t.TempDir()

	first := NewModel(Options{Config: testConfig(), Repo: &fakeRepo{}, Root: root, StateDir: stateDir})
	runRefresh(t, first)
	first.Update(tea.KeyMsg{Type: tea.KeyEnter})
	first.Update(keyMsg("G"))
	require.Equal(t, "z.txt", first.tree.SelectedPath())
	first.Close()

	second := NewModel(Options{Config: testConfig(), Repo: &fakeRepo{}, Root: root, StateDir: stateDir})
	runRefresh(t, second)
	defer second.Close()

	assert.True(t, second.tree.CollapsedDirs["src"])
	assert.Len(t, second.tree.TreeFlat, 2)
	assert.Equal(t, "z.txt", second.tree.SelectedPath())
}

func TestModelRefreshKeyPicksUpNewStatus(t *testing.T) {
	root := writeTree(t, "a.go")
	repo := &fakeRepo{}
	m := NewModel(Options{Config: testConfig(), Repo: repo, Root: root})
	runRefresh(t, m)
	assert.Equal(t, models.StateUnmodified, m.fileState(root+"/a.go"))

	repo.mu.Lock()
	repo.status = " M a.go\n"
	repo.mu.Unlock()

	_, cmd := m.Update(keyMsg("r"))
	require.NotNil(t, cmd)
	_, second := m.Update(keyMsg("r"))
	assert.Nil(t, second, "only one refresh in flight")
	m.Update(cmd())

	assert.Equal(t, models.StateModified, m.fileState(root+"/a.go"))
	assert.Equal(t, 2, repo.statusCalls())
}

func TestModelRepaintSignal(t *testing.T) {
	root := writeTree(t, "a.go")
	m := NewModel(Options{Config: testConfig(), Repo: &fakeRepo{}, Root: root})
	var sent []tea.Msg
	m.send = func(msg tea.Msg) { sent = append(sent, msg) }

	m.Cache().RefreshFromRaw("M  a.go\n")

	require.Len(t, sent, 1)
	msg, ok := sent[0].(statusRefreshedMsg)
	require.True(t, ok)
	assert.Equal(t, 1, msg.snapshot.Len())
	_, cmd := m.Update(msg)
	assert.Nil(t, cmd)
}

func TestModelHelpScreen(t *testing.T) {
	m := NewModel(Options{Config: testConfig(), Repo: &fakeRepo{}, Root: writeTree(t, "a.go")})
	runRefresh(t, m)

	m.Update(keyMsg("?"))
	require.Equal(t, screen.TypeHelp, m.screens.Current().Type())
	assert.Contains(t, m.View(), "Refresh")

	// keys go to the help screen, not the tree
	m.Update(keyMsg("q"))
	assert.False(t, m.quitting)
	assert.False(t, m.screens.IsActive())
}

func TestModelQuit(t *testing.T) {
	m := NewModel(Options{Config: testConfig(), Repo: &fakeRepo{}, Root: writeTree(t)})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, m.Quitting())
	assert.Empty(t, m.View())
}

func TestModelFooterShowsNotices(t *testing.T) {
	notices := NewNotices()
	m := NewModel(Options{Config: testConfig(), Repo: &fakeRepo{}, Root: writeTree(t), Notices: notices})
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 20})

	m.Update(errMsg{err: errors.New("watch failed")})
	assert.Contains(t, m.View(), "watch failed")

	notices.NotifyOnce("cmd_missing:git", "Command not found: git", "error")
	assert.Contains(t, m.View(), "Command not found: git")
}

func TestModelWindowResizeKeepsSelectionVisible(t *testing.T) {
	names := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		names = append(names, filepath.Join("f", string(rune('a'+i%26))+strings.Repeat("x", i/26)+".txt"))
	}
	m := NewModel(Options{Config: testConfig(), Repo: &fakeRepo{}, Root: writeTree(t, names...)})
	runRefresh(t, m)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: headerHeight + footerHeight + 5})
	assert.Equal(t, 5, m.viewport.Height)

	m.Update(keyMsg("G"))
	last := len(m.tree.TreeFlat) - 1
	assert.Equal(t, last-4, m.viewport.YOffset)
	m.Update(keyMsg("g"))
	assert.Equal(t, 0, m.viewport.YOffset)
}

func TestAutoRefreshSettings(t *testing.T) {
	cfg := testConfig()
	m := NewModel(Options{Config: cfg, Repo: &fakeRepo{}, Root: writeTree(t)})
	assert.Nil(t, m.startAutoRefresh())
	assert.Nil(t, m.startWatcher())

	cfg.AutoRefresh = true
	cfg.RefreshInterval = 3
	assert.Equal(t, 3*time.Second, m.autoRefreshInterval())
	assert.NotNil(t, m.startAutoRefresh())
	assert.Nil(t, m.startAutoRefresh(), "started once")

	_, cmd := m.Update(autoRefreshTickMsg{})
	assert.NotNil(t, cmd)
}

func TestWatcherTriggersRefresh(t *testing.T) {
	cfg := testConfig()
	cfg.AutoRefresh = true
	cfg.Watch = true
	root := writeTree(t, "a.go")
	m := NewModel(Options{Config: cfg, Repo: &fakeRepo{}, Root: root})
	t.Cleanup(m.Close)

	wait := m.startWatcher()
	require.NotNil(t, wait)
	require.NotNil(t, m.watch)
	require.True(t, m.watch.Started)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.FromSlash(root), "b.go"), []byte("b"), 0o600))
	done := make(chan tea.Msg, 1)
	go func() { done <- wait() }()
	select {
	case msg := <-done:
		assert.IsType(t, worktreeChangedMsg{}, msg)
		_, cmd := m.Update(msg)
		assert.NotNil(t, cmd)
		assert.True(t, m.refreshing)
	case <-time.After(5 * time.Second):
		t.Fatal("expected a watcher event")
	}
}

func TestModelTeatestSession(t *testing.T) {
	root := writeTree(t, "cmd/main.go", "go.mod")
	repo := &fakeRepo{status: " M go.mod\n", branch: "feature"}
	m := NewModel(Options{Config: testConfig(), Repo: repo, Root: root})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("go.mod")) && bytes.Contains(b, []byte("feature"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(keyMsg("j"))
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Send(keyMsg("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final, ok := tm.FinalModel(t).(*Model)
	require.True(t, ok)
	assert.True(t, final.Quitting())
	assert.Equal(t, models.StateModified, final.fileState(root+"/go.mod"))
}
