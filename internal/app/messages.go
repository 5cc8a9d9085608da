package app

import "github.com/chmouel/lazycommit/internal/models"

// Message types for the Bubble Tea app
type (
	errMsg struct{ err error }
	// statusRefreshedMsg is posted by the status cache after every snapshot swap.
	statusRefreshedMsg struct {
		snapshot *models.StatusSnapshot
	}
	// refreshCompleteMsg carries the working-tree listing gathered alongside a refresh.
	refreshCompleteMsg struct {
		files  []string
		branch string
		err    error
	}
	autoRefreshTickMsg struct{}
	worktreeChangedMsg struct{}
)
