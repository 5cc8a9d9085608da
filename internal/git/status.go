package git

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chmouel/lazycommit/internal/models"
)

// minStatusLineWidth is XY, the separating space and at least one path byte.
const minStatusLineWidth = 4

// statusPathOffset is where the path starts in a short-format status line.
const statusPathOffset = 3

// renameSeparator splits source and destination of renamed or copied entries.
const renameSeparator = " -> "

// ParseStatus turns `git status --short` output into a snapshot keyed by
// absolute paths under root. Malformed lines are skipped, later duplicates win.
func ParseStatus(root, raw string) *models.StatusSnapshot {
	lines := splitLines(raw)
	entries := make([]models.FileStatusEntry, 0, len(lines))
	for _, line := range lines {
		entry, ok := parseStatusLine(root, line)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return models.NewStatusSnapshot(entries)
}

func parseStatusLine(root, line string) (models.FileStatusEntry, bool) {
	if strings.TrimSpace(line) == "" || len(line) < minStatusLineWidth {
		return models.FileStatusEntry{}, false
	}
	code := line[:2]
	path := strings.TrimSpace(line[statusPathOffset:])
	if idx := strings.Index(path, renameSeparator); idx >= 0 && (code[0] == 'R' || code[0] == 'C') {
		path = strings.TrimSpace(path[idx+len(renameSeparator):])
	}
	path = unquotePath(path)
	if path == "" {
		return models.FileStatusEntry{}, false
	}
	return models.FileStatusEntry{
		Path:  NormalizePath(root, path),
		State: ClassifyCode(code),
		Code:  code,
	}, true
}

// ClassifyCode maps an XY status code to a file state: any M is Modified,
// otherwise any A is Added, anything else is Unknown.
func ClassifyCode(xy string) models.FileState {
	switch {
	case strings.ContainsRune(xy, 'M'):
		return models.StateModified
	case strings.ContainsRune(xy, 'A'):
		return models.StateAdded
	default:
		return models.StateUnknown
	}
}

// NormalizePath resolves path against root and returns a cleaned,
// forward-slash separated absolute path. Absolute paths ignore root.
func NormalizePath(root, path string) string {
	if path == "" {
		return ""
	}
	native := filepath.FromSlash(path)
	if !filepath.IsAbs(native) {
		native = filepath.Join(root, native)
	}
	if abs, err := filepath.Abs(native); err == nil {
		native = abs
	}
	return filepath.ToSlash(filepath.Clean(native))
}

// unquotePath undoes git's C-style quoting of unusual file names.
func unquotePath(path string) string {
	if len(path) < 2 || path[0] != '"' || path[len(path)-1] != '"' {
		return path
	}
	if unquoted, err := strconv.Unquote(path); err == nil {
		return unquoted
	}
	return path
}

// splitLines treats \r\n and a lone \r as line breaks.
func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	return strings.Split(raw, "\n")
}
