// Package models defines the data objects shared across lazycommit packages.
package models

import "time"

// CommitRequest carries the generated commit message for one workflow run.
type CommitRequest struct {
	Message   string
	CreatedAt time.Time
}

// WorkflowState is a state of the shutdown commit workflow.
type WorkflowState int

// Workflow states, in the order a successful run visits them.
const (
	WorkflowIdle WorkflowState = iota
	WorkflowConfirmPending
	WorkflowStaging
	WorkflowCommitting
	WorkflowPushing
	WorkflowDone
	WorkflowAborted
	WorkflowFailed
)

// String returns a human-readable name for the state.
func (s WorkflowState) String() string {
	switch s {
	case WorkflowIdle:
		return "idle"
	case WorkflowConfirmPending:
		return "confirm-pending"
	case WorkflowStaging:
		return "staging"
	case WorkflowCommitting:
		return "committing"
	case WorkflowPushing:
		return "pushing"
	case WorkflowDone:
		return "done"
	case WorkflowAborted:
		return "aborted"
	case WorkflowFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen from s.
func (s WorkflowState) Terminal() bool {
	return s == WorkflowDone || s == WorkflowAborted || s == WorkflowFailed
}

const (
	// ConfigDirName is the directory under the XDG config home holding config.yaml.
	ConfigDirName = "lazycommit"
	// RepoConfigFilename stores repository-scoped overrides at the repository root.
	RepoConfigFilename = ".lazycommit.yaml"
)
