package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycleRunsHooksOnceInOrder(t *testing.T) {
	lc := NewLifecycle()
	var order []string
	lc.OnShutdown("first", func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	lc.OnShutdown("nil", nil)
	lc.OnShutdown("second", func(context.Context) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, lc.Shutdown(context.Background()))
	require.NoError(t, lc.Shutdown(context.Background()))

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestLifecycleJoinsErrors(t *testing.T) {
	lc := NewLifecycle()
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	ran := 0
	lc.OnShutdown("a", func(context.Context) error { ran++; return errA })
	lc.OnShutdown("ok", func(context.Context) error { ran++; return nil })
	lc.OnShutdown("b", func(context.Context) error { ran++; return errB })

	err := lc.Shutdown(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Contains(t, err.Error(), "a: a failed")
	assert.Equal(t, 3, ran)

	assert.Equal(t, err, lc.Shutdown(context.Background()))
	assert.Equal(t, 3, ran)
}

func TestLifecycleRunsWorkflowOnShutdown(t *testing.T) {
	repo := twoFileRepo()
	prompter := &scriptedPrompter{answer: false}
	wf := NewCommitWorkflow(Options{Repository: repo, Prompter: prompter, Push: true})
	lc := NewLifecycle()
	lc.OnShutdown("commit-workflow", func(ctx context.Context) error {
		wf.Run(ctx)
		return nil
	})

	require.NoError(t, lc.Shutdown(context.Background()))
	require.NoError(t, lc.Shutdown(context.Background()))

	assert.Len(t, prompter.confirms, 1)
	assert.Empty(t, repo.mutations())
}
