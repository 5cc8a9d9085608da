// Package app implements the file-browser overlay: a Bubble Tea program that
// shows every working-tree file with its git status.
package app

import (
	"context"
	"path"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazycommit/internal/app/screen"
	"github.com/chmouel/lazycommit/internal/app/services"
	"github.com/chmouel/lazycommit/internal/config"
	"github.com/chmouel/lazycommit/internal/log"
	"github.com/chmouel/lazycommit/internal/models"
	"github.com/chmouel/lazycommit/internal/theme"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// headerHeight and footerHeight frame the tree viewport.
	headerHeight = 3
	footerHeight = 2
)

// Repository is what the browser reads from git.
type Repository interface {
	services.StatusSource
	CurrentBranch(ctx context.Context) string
}

// Options configures a Model.
type Options struct {
	Config  *config.AppConfig
	Repo    Repository
	Root    string
	Notices *Notices
	// StateDir keeps the browser layout between sessions. Empty disables it.
	StateDir string
}

// Model is the Bubble Tea model of the file browser.
type Model struct {
	config  *config.AppConfig
	theme   *theme.Theme
	ctx     context.Context
	cancel  context.CancelFunc
	repo    Repository
	root    string
	cache   *services.StatusCache
	tree    *services.FileTreeService
	watch   *services.WorktreeWatchService
	screens *screen.Manager
	notices *Notices
	keys    keyMap

	viewport viewport.Model
	send     func(tea.Msg)

	stateDir         string
	pendingSelection string

	width              int
	height             int
	branch             string
	lastErr            error
	refreshing         bool
	autoRefreshStarted bool
	quitting           bool
}

// NewModel creates the browser for the working tree at opts.Root.
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	root := opts.Root
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	root = filepath.ToSlash(filepath.Clean(root))

	notices := opts.Notices
	if notices == nil {
		notices = NewNotices()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		config:   cfg,
		theme:    theme.GetTheme(cfg.Theme),
		ctx:      ctx,
		cancel:   cancel,
		repo:     opts.Repo,
		root:     root,
		tree:     services.NewFileTreeService(),
		screens:  screen.NewManager(),
		notices:  notices,
		keys:     defaultKeyMap(),
		viewport: viewport.New(defaultWidth, defaultHeight-headerHeight-footerHeight),
		width:    defaultWidth,
		height:   defaultHeight,
		stateDir: opts.StateDir,
	}
	if m.stateDir != "" {
		st, err := services.LoadUIState(m.stateDir, services.RepoKey(root))
		if err != nil {
			m.debugf("ui state: %v", err)
		}
		m.pendingSelection = services.ApplyUIState(m.tree, st)
	}
	m.cache = services.NewStatusCache(opts.Repo, root, m.debugf)
	m.cache.OnRepaint(func(snap *models.StatusSnapshot) {
		if m.send != nil {
			m.send(statusRefreshedMsg{snapshot: snap})
		}
	})
	return m
}

// Attach routes repaint signals from the status cache into p.
func (m *Model) Attach(p *tea.Program) {
	if p == nil {
		return
	}
	m.send = p.Send
}

// Cache returns the status cache backing the browser.
func (m *Model) Cache() *services.StatusCache {
	return m.cache
}

// Root returns the normalised working-tree root.
func (m *Model) Root() string {
	return m.root
}

// Quitting reports whether the user asked to close the browser.
func (m *Model) Quitting() bool {
	return m.quitting
}

// Close stops background work and saves the browser layout. It is safe to
// call more than once.
func (m *Model) Close() {
	m.stopWatcher()
	m.cancel()
	if m.stateDir == "" || m.tree.Tree == nil {
		return
	}
	if err := services.SaveUIState(m.stateDir, services.RepoKey(m.root), services.UIStateFromTree(m.tree)); err != nil {
		m.debugf("ui state: %v", err)
	}
}

// Init starts the first refresh and the background refresh sources.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshCmd(),
		m.startAutoRefresh(),
		m.startWatcher(),
	)
}

// Update handles Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setWindowSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.screens.IsActive() {
			return m.handleScreenKey(msg)
		}
		return m.handleKey(msg)

	case refreshCompleteMsg:
		m.refreshing = false
		m.lastErr = msg.err
		m.branch = msg.branch
		if msg.err != nil {
			m.debugf("refresh: %v", msg.err)
		}
		m.tree.SetTree(services.BuildFileTree(m.root, msg.files))
		if m.pendingSelection != "" && len(msg.files) > 0 {
			m.tree.RestoreSelection(m.pendingSelection)
			m.pendingSelection = ""
		}
		if m.watch != nil {
			// git status touches the index; ignore the echo of our own refresh
			m.watch.LastRefresh = time.Now()
		}
		m.syncViewport()
		return m, nil

	case statusRefreshedMsg:
		m.syncViewport()
		return m, nil

	case autoRefreshTickMsg:
		return m, tea.Batch(m.refreshCmd(), m.autoRefreshTick())

	case worktreeChangedMsg:
		m.watch.ResetWaiting()
		var cmds []tea.Cmd
		if m.shouldRefreshWatchEvent(time.Now()) {
			cmds = append(cmds, m.refreshCmd())
		}
		cmds = append(cmds, m.waitForWatchEvent())
		return m, tea.Batch(cmds...)

	case errMsg:
		m.lastErr = msg.err
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.stopWatcher()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.tree.Move(1)
	case key.Matches(msg, m.keys.Up):
		m.tree.Move(-1)
	case key.Matches(msg, m.keys.Top):
		m.tree.Index = 0
		m.tree.ClampIndex()
	case key.Matches(msg, m.keys.Bottom):
		m.tree.Index = len(m.tree.TreeFlat) - 1
		m.tree.ClampIndex()
	case key.Matches(msg, m.keys.Toggle):
		if node := m.tree.Selected(); node != nil && node.IsDir() {
			m.tree.ToggleCollapse(node.Rel)
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.Help):
		m.screens.Push(screen.NewHelpScreen(m.keys.helpEntries(), legendEntries(), m.theme))
		return m, nil
	default:
		return m, nil
	}
	m.syncViewport()
	return m, nil
}

func (m *Model) handleScreenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next, cmd := m.screens.Current().Update(msg)
	if next == nil {
		m.screens.Pop()
	} else {
		m.screens.Set(next)
	}
	return m, cmd
}

// refreshCmd refreshes the status snapshot and re-lists the working tree.
// Only one refresh runs at a time.
func (m *Model) refreshCmd() tea.Cmd {
	if m.refreshing {
		return nil
	}
	m.refreshing = true
	ctx, cache, repo, root := m.ctx, m.cache, m.repo, m.root
	return func() tea.Msg {
		snap := cache.Refresh(ctx)
		files, err := services.CollectFiles(root)
		branch := ""
		if repo != nil {
			branch = repo.CurrentBranch(ctx)
		}
		return refreshCompleteMsg{
			files:  services.MergeStatusPaths(files, snap),
			branch: branch,
			err:    err,
		}
	}
}

// fileState classifies path, inheriting the state of a reported parent
// directory (git reports new directories as a single untracked entry).
func (m *Model) fileState(p string) models.FileState {
	snap := m.cache.Snapshot()
	if state := snap.Classify(p); state != models.StateUnmodified {
		return state
	}
	for dir := path.Dir(p); len(dir) > len(m.root); dir = path.Dir(dir) {
		if entry, ok := snap.Lookup(dir); ok {
			return entry.State
		}
	}
	return models.StateUnmodified
}

func (m *Model) setWindowSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(1, height-headerHeight-footerHeight)
	m.syncViewport()
}

func (m *Model) debugf(format string, args ...any) {
	log.Printf(format, args...)
}
