package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chmouel/lazycommit/internal/utils"
)

const (
	defaultFilePerms = 0o600
	// UIStateFilename holds the browser layout of one repository.
	UIStateFilename = "ui_state.json"
)

// UIState is the browser layout restored when a repository is reopened.
type UIState struct {
	Collapsed []string `json:"collapsed"`
	Selected  string   `json:"selected,omitempty"`
}

// RepoKey names the state directory of the working tree at root.
func RepoKey(root string) string {
	clean := filepath.ToSlash(filepath.Clean(root))
	sum := sha256.Sum256([]byte(clean))
	name := strings.Trim(filepath.Base(clean), "/.")
	if name == "" {
		name = "root"
	}
	return name + "-" + hex.EncodeToString(sum[:6])
}

// LoadUIState loads the saved layout. A missing file yields an empty state.
func LoadUIState(stateDir, repoKey string) (*UIState, error) {
	statePath := filepath.Join(stateDir, repoKey, UIStateFilename)
	// #nosec G304 -- statePath is constructed from the config directory and a constant filename
	data, err := os.ReadFile(statePath)
	if err != nil {
		return &UIState{}, nil
	}

	var st UIState
	if err := json.Unmarshal(data, &st); err != nil {
		return &UIState{}, err
	}
	return &st, nil
}

// SaveUIState writes the layout to the state file.
func SaveUIState(stateDir, repoKey string, st *UIState) error {
	statePath := filepath.Join(stateDir, repoKey, UIStateFilename)
	if err := os.MkdirAll(filepath.Dir(statePath), utils.DefaultDirPerms); err != nil {
		return err
	}
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return os.WriteFile(statePath, data, defaultFilePerms)
}

// UIStateFromTree captures the collapsed directories and selection of s.
func UIStateFromTree(s *FileTreeService) *UIState {
	st := &UIState{Selected: s.SelectedPath()}
	for rel, collapsed := range s.CollapsedDirs {
		if collapsed {
			st.Collapsed = append(st.Collapsed, rel)
		}
	}
	sort.Strings(st.Collapsed)
	return st
}

// ApplyUIState collapses the saved directories of st on s and returns the
// selection to restore once the tree is built.
func ApplyUIState(s *FileTreeService, st *UIState) string {
	if st == nil {
		return ""
	}
	if s.CollapsedDirs == nil {
		s.CollapsedDirs = make(map[string]bool)
	}
	for _, rel := range st.Collapsed {
		s.CollapsedDirs[rel] = true
	}
	return st.Selected
}
