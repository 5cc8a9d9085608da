// Package bootstrap provides CLI flag definitions for lazycommit.
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/chmouel/lazycommit/internal/config"
	"github.com/chmouel/lazycommit/internal/theme"
	urfavecli "github.com/urfave/cli/v3"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via Command.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Working tree to open (default: current directory)",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the UI theme (" + strings.Join(theme.AvailableThemes(), ", ") + ")",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=" + config.OverridePrefix + "key=value",
		},
	}
}

func statusFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.BoolFlag{
			Name:  "json",
			Usage: "Print the status as JSON",
		},
	}
}

func commitFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Send the changes without asking",
		},
		&urfavecli.BoolFlag{
			Name:  "no-push",
			Usage: "Stage and commit but do not push",
		},
	}
}

// outputAllFlags prints every visible flag of cmd in completion format.
func outputAllFlags(cmd *urfavecli.Command) {
	for _, flag := range cmd.Flags {
		name := flag.Names()[0]
		usage := ""
		if df, ok := flag.(urfavecli.DocGenerationFlag); ok {
			usage = df.GetUsage()
		}
		prefix := "--"
		if len(name) == 1 {
			prefix = "-"
		}
		if usage != "" {
			fmt.Fprintf(cmd.Root().Writer, "%s%s:%s\n", prefix, name, usage)
		} else {
			fmt.Fprintf(cmd.Root().Writer, "%s%s\n", prefix, name)
		}
	}
}
