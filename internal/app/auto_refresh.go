package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazycommit/internal/app/services"
)

func (m *Model) startAutoRefresh() tea.Cmd {
	if m.autoRefreshStarted {
		return nil
	}
	interval := m.autoRefreshInterval()
	if interval <= 0 {
		return nil
	}
	m.autoRefreshStarted = true
	return m.autoRefreshTick()
}

func (m *Model) autoRefreshInterval() time.Duration {
	if m.config == nil || !m.config.AutoRefresh {
		return 0
	}
	if m.config.RefreshInterval <= 0 {
		return 0
	}
	return time.Duration(m.config.RefreshInterval) * time.Second
}

func (m *Model) autoRefreshTick() tea.Cmd {
	interval := m.autoRefreshInterval()
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return autoRefreshTickMsg{}
	})
}

func (m *Model) startWatcher() tea.Cmd {
	if m.config == nil || !m.config.AutoRefresh || !m.config.Watch {
		return nil
	}
	if m.watch != nil && m.watch.Started {
		return nil
	}
	if m.watch == nil {
		m.watch = services.NewWorktreeWatchService(m.root, m.debugf)
	}
	started, err := m.watch.Start()
	if err != nil {
		return func() tea.Msg {
			return errMsg{err: err}
		}
	}
	if !started {
		return nil
	}
	return m.waitForWatchEvent()
}

func (m *Model) stopWatcher() {
	if m.watch == nil || !m.watch.Started {
		return
	}
	m.watch.Stop()
}

func (m *Model) waitForWatchEvent() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	events := m.watch.NextEvent()
	if events == nil {
		return nil
	}
	done := m.watch.Done
	return func() tea.Msg {
		select {
		case _, ok := <-events:
			if !ok {
				return nil
			}
			return worktreeChangedMsg{}
		case <-done:
			return nil
		}
	}
}

func (m *Model) shouldRefreshWatchEvent(now time.Time) bool {
	if m.watch == nil {
		return false
	}
	return m.watch.ShouldRefresh(now)
}
