package bootstrap

import (
	"context"
	"errors"

	"github.com/chmouel/lazycommit/internal/cli"
	urfavecli "github.com/urfave/cli/v3"
)

func statusCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "status",
		Usage: "Print every changed file with its state",
		Flags: statusFlags(),
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			notify, notifyOnce := cliNotifiers(cmd.Root().ErrWriter)
			sess, err := openSession(ctx, cmd, notify, notifyOnce)
			if err != nil {
				return err
			}
			return cli.RunStatus(ctx, sess.git, sess.root, cmd.Bool("json"), cmd.Root().Writer)
		},
	}
}

func summaryCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "summary",
		Usage: "Print the change listing used in commit messages",
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			notify, notifyOnce := cliNotifiers(cmd.Root().ErrWriter)
			sess, err := openSession(ctx, cmd, notify, notifyOnce)
			if err != nil {
				return err
			}
			return cli.RunSummary(ctx, sess.git, sess.root, cmd.Root().Writer)
		},
	}
}

func commitCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "commit",
		Usage: "Stage, commit and push every change after confirmation",
		Flags: commitFlags(),
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			stderr := cmd.Root().ErrWriter
			notify, notifyOnce := cliNotifiers(stderr)
			sess, err := openSession(ctx, cmd, notify, notifyOnce)
			if err != nil {
				return err
			}

			prompter := cli.NewStdioPrompter(cmd.Root().Reader, stderr, cmd.Bool("yes"))
			opts := sess.workflowOptions(prompter)
			if cmd.Bool("no-push") {
				opts.Push = false
			}

			_, err = cli.RunCommit(ctx, opts)
			if errors.Is(err, cli.ErrWorkflowAborted) {
				return nil
			}
			return err
		},
	}
}
