package models

import (
	"sort"
	"strings"
)

// FileState is the classification of a working-tree file.
type FileState int

// File states. The zero value is StateUnmodified so that a missing entry
// reads as "synced".
const (
	StateUnmodified FileState = iota
	StateModified
	StateAdded
	StateUnknown
)

// String returns the overlay name of the state.
func (s FileState) String() string {
	switch s {
	case StateUnmodified:
		return "synced"
	case StateModified:
		return "modified"
	case StateAdded:
		return "added"
	case StateUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// FileStatusEntry is one file reported by git status.
type FileStatusEntry struct {
	Path  string    // Absolute, cleaned, forward-slash separated
	State FileState // Derived from Code
	Code  string    // Raw XY status code (e.g. "M ", " A", "??")
}

// StatusSnapshot is an immutable point-in-time classification of changed files.
// Absence of a path means the file was not reported as changed.
type StatusSnapshot struct {
	entries map[string]FileStatusEntry
}

// NewStatusSnapshot builds a snapshot from entries; later entries for the same path win.
func NewStatusSnapshot(entries []FileStatusEntry) *StatusSnapshot {
	m := make(map[string]FileStatusEntry, len(entries))
	for _, e := range entries {
		m[e.Path] = e
	}
	return &StatusSnapshot{entries: m}
}

// EmptySnapshot returns a snapshot with no entries.
func EmptySnapshot() *StatusSnapshot {
	return &StatusSnapshot{entries: map[string]FileStatusEntry{}}
}

// Lookup returns the entry for path, if reported.
func (s *StatusSnapshot) Lookup(path string) (FileStatusEntry, bool) {
	if s == nil {
		return FileStatusEntry{}, false
	}
	e, ok := s.entries[path]
	return e, ok
}

// Classify returns the state of path, StateUnmodified when absent.
func (s *StatusSnapshot) Classify(path string) FileState {
	e, ok := s.Lookup(path)
	if !ok {
		return StateUnmodified
	}
	return e.State
}

// Len returns the number of reported paths.
func (s *StatusSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries returns all entries sorted by path.
func (s *StatusSnapshot) Entries() []FileStatusEntry {
	if s == nil {
		return nil
	}
	out := make([]FileStatusEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Counts returns the number of entries per state.
func (s *StatusSnapshot) Counts() map[FileState]int {
	counts := make(map[FileState]int, 3)
	if s == nil {
		return counts
	}
	for _, e := range s.entries {
		counts[e.State]++
	}
	return counts
}

// Equal reports whether both snapshots hold the same entries.
func (s *StatusSnapshot) Equal(other *StatusSnapshot) bool {
	if s == nil {
		return other.Len() == 0
	}
	if s.Len() != other.Len() {
		return false
	}
	for path, e := range s.entries {
		o, ok := other.Lookup(path)
		if !ok || o != e {
			return false
		}
	}
	return true
}

// ListingHeader prefixes the change listing in prompts and commit messages.
const ListingHeader = "Modified files:"

// ChangeSummary is the presentational digest of git status output.
type ChangeSummary struct {
	Count int
	Lines []string // Raw status lines, original order
}

// Listing renders the header followed by every line, each newline-terminated.
func (c ChangeSummary) Listing() string {
	var b strings.Builder
	b.WriteString(ListingHeader)
	b.WriteString("\n")
	for _, line := range c.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
