package app

import (
	"os"
	"time"

	devicons "github.com/epilande/go-devicons"

	"github.com/chmouel/lazycommit/internal/models"
)

type iconFileInfo struct {
	name  string
	isDir bool
}

func (i iconFileInfo) Name() string { return i.name }

func (i iconFileInfo) Size() int64 { return 0 }

func (i iconFileInfo) Mode() os.FileMode {
	if i.isDir {
		return os.ModeDir | 0o755
	}
	return 0
}

func (i iconFileInfo) ModTime() time.Time { return time.Time{} }

func (i iconFileInfo) IsDir() bool { return i.isDir }

func (i iconFileInfo) Sys() any { return nil }

// State glyphs drawn before every file.
const (
	glyphSynced   = "✓"
	glyphModified = "●"
	glyphAdded    = "+"
	glyphUnknown  = "?"

	glyphDirOpen   = "▾"
	glyphDirClosed = "▸"
)

func deviconForName(name string, isDir bool) string {
	if name == "" {
		return ""
	}
	style := devicons.IconForInfo(iconFileInfo{name: name, isDir: isDir})
	return style.Icon
}

func stateGlyph(state models.FileState) string {
	switch state {
	case models.StateModified:
		return glyphModified
	case models.StateAdded:
		return glyphAdded
	case models.StateUnknown:
		return glyphUnknown
	default:
		return glyphSynced
	}
}

func iconWithSpace(icon string) string {
	if icon == "" {
		return ""
	}
	return icon + " "
}
