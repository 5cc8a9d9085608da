// Package cli implements the non-interactive lazycommit subcommands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chmouel/lazycommit/internal/app/services"
	"github.com/chmouel/lazycommit/internal/git"
	"github.com/chmouel/lazycommit/internal/log"
	"github.com/chmouel/lazycommit/internal/models"
	"github.com/chmouel/lazycommit/internal/workflow"
)

// ErrWorkflowFailed is returned by RunCommit when a repository step failed.
var ErrWorkflowFailed = errors.New("commit workflow failed")

// ErrWorkflowAborted is returned by RunCommit when the user declined.
var ErrWorkflowAborted = errors.New("commit workflow aborted")

type statusService interface {
	IsInsideWorkTree(ctx context.Context) bool
	StatusShort(ctx context.Context) git.Result
}

var _ statusService = (*git.Service)(nil)

type statusEntry struct {
	Path  string `json:"path"`
	Rel   string `json:"rel"`
	State string `json:"state"`
	Code  string `json:"code"`
}

type statusReport struct {
	Root    string         `json:"root"`
	Entries []statusEntry  `json:"entries"`
	Counts  map[string]int `json:"counts"`
}

func loadStatus(ctx context.Context, svc statusService, root string) (*models.StatusSnapshot, error) {
	if !svc.IsInsideWorkTree(ctx) {
		return nil, fmt.Errorf("%s: %w", root, workflow.ErrNotRepository)
	}
	res := svc.StatusShort(ctx)
	if err := git.CommandError("status --short", res); err != nil {
		return nil, err
	}
	cache := services.NewStatusCache(nil, root, log.Printf)
	return cache.RefreshFromRaw(res.Stdout), nil
}

func buildReport(root string, snap *models.StatusSnapshot) statusReport {
	prefix := strings.TrimSuffix(filepath.ToSlash(root), "/") + "/"
	report := statusReport{
		Root:    root,
		Entries: make([]statusEntry, 0, snap.Len()),
		Counts:  make(map[string]int),
	}
	for _, e := range snap.Entries() {
		report.Entries = append(report.Entries, statusEntry{
			Path:  e.Path,
			Rel:   strings.TrimPrefix(e.Path, prefix),
			State: e.State.String(),
			Code:  e.Code,
		})
	}
	for state, n := range snap.Counts() {
		report.Counts[state.String()] = n
	}
	return report
}

// RunStatus prints every changed file with its state, as text or JSON.
func RunStatus(ctx context.Context, svc statusService, root string, asJSON bool, out io.Writer) error {
	snap, err := loadStatus(ctx, svc, root)
	if err != nil {
		return err
	}
	report := buildReport(root, snap)

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if len(report.Entries) == 0 {
		fmt.Fprintln(out, "No changes.")
		return nil
	}
	for _, e := range report.Entries {
		fmt.Fprintf(out, "%-9s %-2s %s\n", e.State, e.Code, e.Rel)
	}
	fmt.Fprintf(out, "\n%d modified, %d added, %d unknown\n",
		report.Counts[models.StateModified.String()],
		report.Counts[models.StateAdded.String()],
		report.Counts[models.StateUnknown.String()],
	)
	return nil
}

// RunSummary prints the change listing that goes into commit messages.
func RunSummary(ctx context.Context, svc statusService, root string, out io.Writer) error {
	if !svc.IsInsideWorkTree(ctx) {
		return fmt.Errorf("%s: %w", root, workflow.ErrNotRepository)
	}
	res := svc.StatusShort(ctx)
	if err := git.CommandError("status --short", res); err != nil {
		return err
	}
	summary := git.Summarize(res.Stdout)
	fmt.Fprintf(out, "%d modified files\n\n%s", summary.Count, summary.Listing())
	return nil
}

// RunCommit runs the commit workflow once and turns its outcome into an error.
func RunCommit(ctx context.Context, opts workflow.Options) (workflow.Outcome, error) {
	outcome := workflow.NewCommitWorkflow(opts).Run(ctx)
	switch {
	case outcome.Err != nil:
		return outcome, outcome.Err
	case outcome.State == models.WorkflowAborted:
		return outcome, ErrWorkflowAborted
	case outcome.State == models.WorkflowFailed:
		errs := make([]error, 0, len(outcome.Failures))
		for _, f := range outcome.Failures {
			errs = append(errs, f)
		}
		return outcome, fmt.Errorf("%w: %w", ErrWorkflowFailed, errors.Join(errs...))
	}
	return outcome, nil
}
