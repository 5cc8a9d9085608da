package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/chmouel/lazycommit/internal/git"
	"github.com/chmouel/lazycommit/internal/models"
	"github.com/chmouel/lazycommit/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGitService struct {
	inside bool
	status git.Result
	add    git.Result
	commit git.Result
	push   git.Result
	calls  []string
}

func (f *fakeGitService) IsInsideWorkTree(context.Context) bool { return f.inside }

func (f *fakeGitService) StatusShort(context.Context) git.Result {
	f.calls = append(f.calls, "status")
	return f.status
}

func (f *fakeGitService) AddAll(context.Context) git.Result {
	f.calls = append(f.calls, "add")
	return f.add
}

func (f *fakeGitService) Commit(context.Context, string) git.Result {
	f.calls = append(f.calls, "commit")
	return f.commit
}

func (f *fakeGitService) Push(context.Context) git.Result {
	f.calls = append(f.calls, "push")
	return f.push
}

func TestRunStatusText(t *testing.T) {
	svc := &fakeGitService{inside: true, status: git.Result{Stdout: "M  a.go\nA  b.go\n?? c.go\n"}}
	var out bytes.Buffer

	require.NoError(t, RunStatus(context.Background(), svc, "/repo", false, &out))

	text := out.String()
	assert.Contains(t, text, "modified  M  a.go\n")
	assert.Contains(t, text, "added     A  b.go\n")
	assert.Contains(t, text, "unknown   ?? c.go\n")
	assert.Contains(t, text, "1 modified, 1 added, 1 unknown")
}

func TestRunStatusJSON(t *testing.T) {
	svc := &fakeGitService{inside: true, status: git.Result{Stdout: "M  a.go\n"}}
	var out bytes.Buffer

	require.NoError(t, RunStatus(context.Background(), svc, "/repo", true, &out))

	var report statusReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "/repo", report.Root)
	require.Len(t, report.Entries, 1)
	assert.Equal(t, "a.go", report.Entries[0].Rel)
	assert.Equal(t, "modified", report.Entries[0].State)
	assert.Equal(t, 1, report.Counts["modified"])
}

func TestRunStatusClean(t *testing.T) {
	svc := &fakeGitService{inside: true}
	var out bytes.Buffer

	require.NoError(t, RunStatus(context.Background(), svc, "/repo", false, &out))
	assert.Equal(t, "No changes.\n", out.String())
}

func TestRunStatusErrors(t *testing.T) {
	err := RunStatus(context.Background(), &fakeGitService{}, "/repo", false, io.Discard)
	require.ErrorIs(t, err, workflow.ErrNotRepository)

	svc := &fakeGitService{inside: true, status: git.Result{ExitCode: 128, Stderr: "fatal: bad"}}
	err = RunStatus(context.Background(), svc, "/repo", false, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fatal: bad")
}

func TestRunSummary(t *testing.T) {
	svc := &fakeGitService{inside: true, status: git.Result{Stdout: "M  f1.cs\n?? f2.cs\n"}}
	var out bytes.Buffer

	require.NoError(t, RunSummary(context.Background(), svc, "/repo", &out))

	assert.True(t, strings.HasPrefix(out.String(), "2 modified files\n\n"+models.ListingHeader))
	assert.Contains(t, out.String(), "?? f2.cs")

	err := RunSummary(context.Background(), &fakeGitService{}, "/repo", io.Discard)
	assert.ErrorIs(t, err, workflow.ErrNotRepository)
}

func TestRunCommit(t *testing.T) {
	withTerminal(t, false)

	t.Run("success", func(t *testing.T) {
		svc := &fakeGitService{inside: true, status: git.Result{Stdout: "M  a.go\n"}}
		outcome, err := RunCommit(context.Background(), workflow.Options{
			Repository: svc,
			Prompter:   NewStdioPrompter(strings.NewReader(""), io.Discard, true),
			Push:       true,
		})
		require.NoError(t, err)
		assert.Equal(t, models.WorkflowDone, outcome.State)
		assert.Equal(t, []string{"status", "add", "commit", "push"}, svc.calls)
	})

	t.Run("declined without terminal", func(t *testing.T) {
		svc := &fakeGitService{inside: true, status: git.Result{Stdout: "M  a.go\n"}}
		outcome, err := RunCommit(context.Background(), workflow.Options{
			Repository: svc,
			Prompter:   NewStdioPrompter(strings.NewReader("y\n"), io.Discard, false),
		})
		require.ErrorIs(t, err, ErrWorkflowAborted)
		assert.Equal(t, models.WorkflowAborted, outcome.State)
		assert.Equal(t, []string{"status"}, svc.calls)
	})

	t.Run("failed step", func(t *testing.T) {
		svc := &fakeGitService{
			inside: true,
			status: git.Result{Stdout: "M  a.go\n"},
			push:   git.Result{ExitCode: 1, Stderr: "rejected"},
		}
		outcome, err := RunCommit(context.Background(), workflow.Options{
			Repository: svc,
			Prompter:   NewStdioPrompter(strings.NewReader(""), io.Discard, true),
			Push:       true,
		})
		require.ErrorIs(t, err, ErrWorkflowFailed)
		assert.Equal(t, models.WorkflowFailed, outcome.State)
		assert.Contains(t, err.Error(), "rejected")
	})

	t.Run("not a repository", func(t *testing.T) {
		_, err := RunCommit(context.Background(), workflow.Options{
			Repository: &fakeGitService{},
			Prompter:   NewStdioPrompter(strings.NewReader(""), io.Discard, true),
		})
		assert.True(t, errors.Is(err, workflow.ErrNotRepository))
	})
}
