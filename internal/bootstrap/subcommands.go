package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/chmouel/lazycommit/internal/config"
	"github.com/chmouel/lazycommit/internal/git"
	"github.com/chmouel/lazycommit/internal/log"
	"github.com/chmouel/lazycommit/internal/models"
	"github.com/chmouel/lazycommit/internal/theme"
	"github.com/chmouel/lazycommit/internal/utils"
	"github.com/chmouel/lazycommit/internal/workflow"
	urfavecli "github.com/urfave/cli/v3"
)

// detectTheme picks a theme when none is configured. Tests replace it to
// avoid querying the terminal.
var detectTheme = theme.Detect

// session is the resolved configuration and gateway shared by every command.
type session struct {
	cfg  *config.AppConfig
	git  *git.Service
	root string
}

// openSession resolves configuration in precedence order: config file,
// repository file, -C overrides, then dedicated flags.
func openSession(ctx context.Context, cmd *urfavecli.Command, notify git.NotifyFn, notifyOnce git.NotifyOnceFn) (*session, error) {
	debugFlag := cmd.String("debug-log")
	if debugFlag != "" {
		setDebugLog(debugFlag, cmd.Root().ErrWriter)
	}

	overrides := cmd.StringSlice("config")
	cfg, err := loadCLIConfig(cmd.String("config-file"), cmd.Root().ErrWriter)
	if err != nil {
		return nil, err
	}

	root, err := resolveRepoDir(cmd.String("repo"))
	if err != nil {
		return nil, err
	}

	probeCfg := *cfg
	if err := config.ApplyCLIOverrides(&probeCfg, overrides); err != nil {
		return nil, fmt.Errorf("error applying config overrides: %w", err)
	}
	if top, err := newGitService(root, probeCfg.GitExecutable, notify, notifyOnce).ShowTopLevel(ctx); err == nil {
		root = filepath.Clean(top)
	} else {
		log.Printf("bootstrap: %s is not inside a working tree: %v", root, err)
	}

	repoCfg, repoCfgPath, err := config.LoadRepoConfig(root)
	switch {
	case err != nil:
		fmt.Fprintf(cmd.Root().ErrWriter, "Error loading repository config: %v\n", err)
	case repoCfg != nil:
		log.Printf("bootstrap: applying %s", repoCfgPath)
		repoCfg.Apply(cfg)
	}

	// -C overrides win over the repository file.
	if err := config.ApplyCLIOverrides(cfg, overrides); err != nil {
		return nil, fmt.Errorf("error applying config overrides: %w", err)
	}
	if err := applyThemeConfig(cfg, cmd.String("theme")); err != nil {
		return nil, err
	}
	cfg.ResolveTheme(detectTheme)

	if debugFlag != "" {
		if expanded, err := utils.ExpandPath(debugFlag); err == nil {
			cfg.DebugLog = expanded
		} else {
			cfg.DebugLog = debugFlag
		}
	} else {
		setDebugLog(cfg.DebugLog, cmd.Root().ErrWriter)
	}

	return &session{
		cfg:  cfg,
		git:  newGitService(root, cfg.GitExecutable, notify, notifyOnce),
		root: root,
	}, nil
}

// workflowOptions builds the commit workflow options from the session.
func (s *session) workflowOptions(prompter workflow.Prompter) workflow.Options {
	return workflow.Options{
		Repository:  s.git,
		Prompter:    prompter,
		Description: s.cfg.CommitDescription,
		Push:        s.cfg.Push,
		StopOnError: s.cfg.StopOnError,
		OnTransition: func(from, to models.WorkflowState) {
			log.Printf("bootstrap: workflow %s -> %s", from, to)
		},
	}
}

// loadCLIConfig loads the user configuration. A broken file is reported and
// replaced by the defaults; a missing explicit file is an error.
func loadCLIConfig(configFileFlag string, stderr io.Writer) (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(configFileFlag)
	if err != nil {
		if configFileFlag != "" && errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	return cfg, nil
}

// resolveRepoDir returns the absolute directory named by --repo, or the
// current directory.
func resolveRepoDir(repoFlag string) (string, error) {
	dir := repoFlag
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error resolving current directory: %w", err)
		}
		dir = wd
	}
	expanded, err := utils.ExpandPath(dir)
	if err != nil {
		return "", fmt.Errorf("error expanding repo: %w", err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("error expanding repo: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("repo %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("repo %s: not a directory", abs)
	}
	return abs, nil
}

// applyThemeConfig applies theme configuration from command line flag.
func applyThemeConfig(cfg *config.AppConfig, themeName string) error {
	if themeName == "" {
		return nil
	}
	normalized := theme.Normalize(themeName)
	if normalized == "" {
		return fmt.Errorf("unknown theme %q", themeName)
	}
	cfg.Theme = normalized
	return nil
}

// setDebugLog points the debug logger at path, or discards buffered output
// when path is empty.
func setDebugLog(path string, stderr io.Writer) {
	if path == "" {
		_ = log.SetFile("")
		return
	}
	if expanded, err := utils.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(stderr, "Error opening debug log file %q: %v\n", path, err)
	}
}

// newGitService creates the gateway for the working tree at root.
func newGitService(root, executable string, notify git.NotifyFn, notifyOnce git.NotifyOnceFn) *git.Service {
	return git.NewService(root, executable, notify, notifyOnce)
}

// cliNotifiers returns notification callbacks writing to w, for commands
// without a TUI.
func cliNotifiers(w io.Writer) (git.NotifyFn, git.NotifyOnceFn) {
	notify := func(message, severity string) {
		if severity == "error" {
			fmt.Fprintf(w, "Error: %s\n", message)
			return
		}
		fmt.Fprintf(w, "%s\n", message)
	}
	notifyOnce := func(_, message, severity string) {
		notify(message, severity)
	}
	return notify, notifyOnce
}
