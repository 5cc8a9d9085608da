package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazycommit/internal/app/services"
	"github.com/chmouel/lazycommit/internal/models"
)

// View renders the header, the file tree and the footer, with any modal on top.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.screens.IsActive() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.screens.Current().View())
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderFooter(),
	)
}

func (m *Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	branchStyle := lipgloss.NewStyle().Foreground(m.theme.Cyan)

	title := titleStyle.Render("lazycommit") + " " + mutedStyle.Render(m.root)
	if m.branch != "" {
		title += "  " + branchStyle.Render(m.branch)
	}

	snap := m.cache.Snapshot()
	counts := snap.Counts()
	parts := make([]string, 0, 4)
	for _, state := range []models.FileState{models.StateModified, models.StateAdded, models.StateUnknown} {
		style := lipgloss.NewStyle().Foreground(m.theme.StateColor(state))
		parts = append(parts, style.Render(fmt.Sprintf("%s %d %s", stateGlyph(state), counts[state], state)))
	}
	if last := m.cache.LastRefresh(); !last.IsZero() {
		parts = append(parts, mutedStyle.Render("updated "+last.Format("15:04:05")))
	}
	summary := strings.Join(parts, "  ")

	rule := mutedStyle.Render(strings.Repeat("─", max(0, m.width)))
	return lipgloss.NewStyle().MaxWidth(m.width).Render(title + "\n" + summary + "\n" + rule)
}

func (m *Model) renderFooter() string {
	mutedStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	hints := make([]string, 0, len(m.keys.footerBindings()))
	for _, b := range m.keys.footerBindings() {
		hints = append(hints, m.renderKeyHint(b))
	}
	status := ""
	if notice, severity := m.notices.Latest(); notice != "" {
		style := lipgloss.NewStyle().Foreground(m.theme.WarnFg)
		if severity == "error" {
			style = style.Foreground(m.theme.ErrorFg)
		}
		status = style.Render(notice)
	} else if m.lastErr != nil {
		status = lipgloss.NewStyle().Foreground(m.theme.ErrorFg).Render(m.lastErr.Error())
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(
		mutedStyle.Render(strings.Repeat("─", max(0, m.width))) + "\n" +
			strings.Join(hints, "  ") + "  " + status,
	)
}

func (m *Model) renderKeyHint(b key.Binding) string {
	keyStyle := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	h := b.Help()
	return fmt.Sprintf("%s %s", keyStyle.Render(h.Key), labelStyle.Render(h.Desc))
}

// renderTree returns one line per visible node.
func (m *Model) renderTree() []string {
	if len(m.tree.TreeFlat) == 0 {
		return []string{lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render("No files.")}
	}
	lines := make([]string, 0, len(m.tree.TreeFlat))
	for i, node := range m.tree.TreeFlat {
		lines = append(lines, m.renderNode(node, i == m.tree.Index))
	}
	return lines
}

func (m *Model) renderNode(node *services.FileTreeNode, selected bool) string {
	indent := strings.Repeat("  ", node.Depth)
	var line string
	if node.IsDir() {
		glyph := glyphDirOpen
		if m.tree.CollapsedDirs[node.Rel] {
			glyph = glyphDirClosed
		}
		icon := ""
		if m.config.ShowIcons {
			icon = iconWithSpace(deviconForName(node.Name(), true))
		}
		style := lipgloss.NewStyle().Foreground(m.theme.TextFg).Bold(true)
		line = indent + style.Render(glyph+" "+icon+node.Name()+"/")
	} else {
		state := m.fileState(node.Path)
		stateStyle := lipgloss.NewStyle().Foreground(m.theme.StateColor(state))
		icon := ""
		if m.config.ShowIcons {
			icon = iconWithSpace(deviconForName(node.Name(), false))
		}
		nameStyle := lipgloss.NewStyle().Foreground(m.theme.TextFg)
		if state == models.StateUnmodified {
			nameStyle = nameStyle.Foreground(m.theme.MutedFg)
		}
		line = indent + stateStyle.Render(stateGlyph(state)) + " " + icon + nameStyle.Render(node.Name())
	}
	if selected {
		return lipgloss.NewStyle().
			Background(m.theme.AccentDim).
			Width(max(1, m.width)).
			Render(line)
	}
	return line
}

// syncViewport re-renders the tree and scrolls the selection into view.
func (m *Model) syncViewport() {
	m.viewport.SetContent(strings.Join(m.renderTree(), "\n"))
	idx := m.tree.Index
	switch {
	case idx < m.viewport.YOffset:
		m.viewport.SetYOffset(idx)
	case idx >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(idx - m.viewport.Height + 1)
	}
}
