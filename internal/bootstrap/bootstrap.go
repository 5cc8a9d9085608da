// Package bootstrap wires configuration, the git gateway and the user
// interfaces into the lazycommit command line.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazycommit/internal/app"
	"github.com/chmouel/lazycommit/internal/buildinfo"
	"github.com/chmouel/lazycommit/internal/cli"
	"github.com/chmouel/lazycommit/internal/config"
	"github.com/chmouel/lazycommit/internal/log"
	"github.com/chmouel/lazycommit/internal/theme"
	"github.com/chmouel/lazycommit/internal/workflow"
	urfavecli "github.com/urfave/cli/v3"
)

// programOptions are passed to the overlay program. Tests replace them to
// drive the overlay without a terminal.
var programOptions = []tea.ProgramOption{tea.WithAltScreen()}

// newTUIPrompter builds the prompter used by the shutdown workflow.
var newTUIPrompter = func(thm *theme.Theme) workflow.Prompter {
	return app.NewTeaPrompter(thm)
}

// Run parses args, runs the selected command and returns the exit code.
func Run(ctx context.Context, args []string) int {
	buildinfo.Enrich()
	cmd := NewCommand()
	if err := cmd.Run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		_ = log.Close()
		return 1
	}
	if err := log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing debug log: %v\n", err)
	}
	return 0
}

// NewCommand returns the root lazycommit command.
func NewCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:                  "lazycommit",
		Usage:                 "Browse working-tree changes and send them before leaving",
		Version:               buildinfo.String(),
		EnableShellCompletion: true,
		Flags:                 globalFlags(),
		Commands: []*urfavecli.Command{
			statusCommand(),
			summaryCommand(),
			commitCommand(),
		},
		Action: runTUI,
		ShellComplete: func(_ context.Context, cmd *urfavecli.Command) {
			for _, sub := range cmd.Commands {
				if !sub.Hidden {
					fmt.Fprintln(cmd.Root().Writer, sub.Name)
				}
			}
			outputAllFlags(cmd)
		},
	}
}

// runTUI is the default action: the file overlay, then the shutdown hooks.
func runTUI(ctx context.Context, cmd *urfavecli.Command) error {
	notices := app.NewNotices()
	sess, err := openSession(ctx, cmd, notices.Notify, notices.NotifyOnce)
	if err != nil {
		return err
	}

	lifecycle := workflow.NewLifecycle()
	if sess.cfg.ConfirmOnExit {
		prompter := newTUIPrompter(theme.GetTheme(sess.cfg.Theme))
		lifecycle.OnShutdown("commit workflow", commitHook(sess, prompter))
	}

	model := app.NewModel(app.Options{
		Config:   sess.cfg,
		Repo:     sess.git,
		Root:     sess.root,
		Notices:  notices,
		StateDir: config.ConfigBase(),
	})
	p := tea.NewProgram(model, programOptions...)
	model.Attach(p)

	_, runErr := p.Run()
	model.Close()
	if runErr != nil {
		runErr = fmt.Errorf("error running app: %w", runErr)
	}

	return errors.Join(runErr, lifecycle.Shutdown(ctx))
}

// commitHook runs the commit workflow when the overlay closes. Declining and
// running outside a repository are reported to the user, not as errors.
func commitHook(sess *session, prompter workflow.Prompter) workflow.Hook {
	return func(ctx context.Context) error {
		_, err := cli.RunCommit(ctx, sess.workflowOptions(prompter))
		if errors.Is(err, cli.ErrWorkflowAborted) || errors.Is(err, workflow.ErrNotRepository) {
			return nil
		}
		return err
	}
}
