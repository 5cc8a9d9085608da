// Package workflow runs the commit-and-push sequence offered when the
// overlay shuts down.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chmouel/lazycommit/internal/git"
	"github.com/chmouel/lazycommit/internal/log"
	"github.com/chmouel/lazycommit/internal/models"
)

// User-facing texts.
const (
	TitleNotRepository = "Repository not found"
	TitleConfirm       = "Unsent changes"
	TitleProgress      = "Sending changes"
	TitleSuccess       = "Done"
	TitleFailure       = "Some steps failed"

	MessageNotRepository = "You need to create and configure a Git repository before committing changes."
	MessageSuccess       = "Updates sent successfully!"

	StepAdding     = "Adding files..."
	StepCommitting = "Committing..."
	StepPushing    = "Pushing..."
)

// ErrNotRepository is recorded when the working directory is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Repository is the subset of the git gateway the workflow drives.
type Repository interface {
	IsInsideWorkTree(ctx context.Context) bool
	StatusShort(ctx context.Context) git.Result
	AddAll(ctx context.Context) git.Result
	Commit(ctx context.Context, message string) git.Result
	Push(ctx context.Context) git.Result
}

// Prompter is how the workflow talks to the user.
type Prompter interface {
	// Confirm asks a yes/no question and blocks for the answer.
	Confirm(title, message string) bool
	// Notify shows a message and blocks until it is acknowledged.
	Notify(title, message string)
	// WithProgress shows the labelled steps while body runs. body calls
	// advance with the index of the step it is starting.
	WithProgress(title string, steps []string, body func(advance func(step int)))
}

// Options configures a CommitWorkflow.
type Options struct {
	Repository  Repository
	Prompter    Prompter
	Now         func() time.Time
	Description string
	Push        bool
	StopOnError bool
	// OnTransition observes every state change.
	OnTransition func(from, to models.WorkflowState)
}

// StepError records one failed repository step.
type StepError struct {
	Step   string
	Result git.Result
}

func (e StepError) Error() string {
	if err := git.CommandError(e.Step, e.Result); err != nil {
		return err.Error()
	}
	return e.Step + ": ok"
}

// Unwrap exposes the launch error, if any.
func (e StepError) Unwrap() error {
	return e.Result.Err
}

// Outcome is the result of a workflow run.
type Outcome struct {
	State    models.WorkflowState
	Summary  models.ChangeSummary
	Request  *models.CommitRequest
	Failures []StepError
	Err      error
}

// CommitWorkflow offers to stage, commit, and push pending changes. It runs at most once.
type CommitWorkflow struct {
	opts Options

	mu      sync.Mutex
	state   models.WorkflowState
	once    sync.Once
	outcome Outcome
}

// NewCommitWorkflow creates a workflow in the Idle state.
func NewCommitWorkflow(opts Options) *CommitWorkflow {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &CommitWorkflow{opts: opts, state: models.WorkflowIdle}
}

// State returns the current state.
func (w *CommitWorkflow) State() models.WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Run executes the workflow. Later calls return the first outcome without
// touching the repository.
func (w *CommitWorkflow) Run(ctx context.Context) Outcome {
	w.once.Do(func() {
		w.outcome = w.run(ctx)
	})
	return w.outcome
}

func (w *CommitWorkflow) run(ctx context.Context) Outcome {
	repo := w.opts.Repository
	prompter := w.opts.Prompter
	out := Outcome{}

	w.transition(models.WorkflowConfirmPending)

	if repo == nil || !repo.IsInsideWorkTree(ctx) {
		log.Printf("workflow: %v", ErrNotRepository)
		notify(prompter, TitleNotRepository, MessageNotRepository)
		out.Err = ErrNotRepository
		out.State = w.transition(models.WorkflowDone)
		return out
	}

	res := repo.StatusShort(ctx)
	if err := git.CommandError("status --short", res); err != nil {
		log.Printf("workflow: %v", err)
	}
	out.Summary = git.Summarize(res.Stdout)

	if len(out.Summary.Lines) == 0 {
		log.Printf("workflow: no changes to send")
		out.State = w.transition(models.WorkflowDone)
		return out
	}

	if prompter == nil || !prompter.Confirm(TitleConfirm, ConfirmMessage(out.Summary)) {
		log.Printf("workflow: user declined to send %d files", out.Summary.Count)
		out.State = w.transition(models.WorkflowAborted)
		return out
	}

	now := w.opts.Now()
	out.Request = &models.CommitRequest{
		Message:   git.BuildCommitMessage(now, w.opts.Description, out.Summary.Listing()),
		CreatedAt: now,
	}

	steps := []string{StepAdding, StepCommitting}
	if w.opts.Push {
		steps = append(steps, StepPushing)
	}
	prompter.WithProgress(TitleProgress, steps, func(advance func(step int)) {
		out.Failures = w.execute(ctx, out.Request.Message, advance)
	})

	if len(out.Failures) > 0 {
		out.State = w.transition(models.WorkflowFailed)
		prompter.Notify(TitleFailure, FailureMessage(out.Failures))
		return out
	}
	out.State = w.transition(models.WorkflowDone)
	prompter.Notify(TitleSuccess, MessageSuccess)
	return out
}

func (w *CommitWorkflow) execute(ctx context.Context, message string, advance func(int)) []StepError {
	repo := w.opts.Repository
	type step struct {
		state models.WorkflowState
		name  string
		call  func() git.Result
	}
	plan := []step{
		{models.WorkflowStaging, "add .", func() git.Result { return repo.AddAll(ctx) }},
		{models.WorkflowCommitting, "commit", func() git.Result { return repo.Commit(ctx, message) }},
	}
	if w.opts.Push {
		plan = append(plan, step{models.WorkflowPushing, "push", func() git.Result { return repo.Push(ctx) }})
	}

	var failures []StepError
	for i, s := range plan {
		w.transition(s.state)
		if advance != nil {
			advance(i)
		}
		res := s.call()
		if !res.Failed() {
			continue
		}
		failure := StepError{Step: s.name, Result: res}
		log.Printf("workflow: %v", failure)
		failures = append(failures, failure)
		if w.opts.StopOnError {
			break
		}
	}
	return failures
}

func (w *CommitWorkflow) transition(to models.WorkflowState) models.WorkflowState {
	w.mu.Lock()
	from := w.state
	w.state = to
	w.mu.Unlock()

	log.Printf("workflow: %s -> %s", from, to)
	if w.opts.OnTransition != nil {
		w.opts.OnTransition(from, to)
	}
	return to
}

// ConfirmMessage is the question shown before anything is sent.
func ConfirmMessage(summary models.ChangeSummary) string {
	return fmt.Sprintf("You have %d modified files. Do you want to send the changes to the remote before closing?\n\n%s",
		summary.Count, summary.Listing())
}

// FailureMessage lists the failed steps with the output git gave for each.
func FailureMessage(failures []StepError) string {
	var b strings.Builder
	b.WriteString("The changes were not sent completely:\n")
	for _, f := range failures {
		b.WriteString("\n- ")
		b.WriteString(f.Error())
	}
	return b.String()
}

func notify(p Prompter, title, message string) {
	if p == nil {
		return
	}
	p.Notify(title, message)
}
