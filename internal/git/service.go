// Package git wraps the git executable and parses its status output for lazycommit.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	log "github.com/chmouel/lazycommit/internal/log"
)

// DefaultExecutable is the git binary looked up in PATH when none is configured.
const DefaultExecutable = "git"

// ErrLaunch marks a command that could not be started at all.
var ErrLaunch = errors.New("unable to launch command")

// NotifyFn receives ongoing notifications.
type NotifyFn func(message string, severity string)

// NotifyOnceFn reports deduplicated notification messages.
type NotifyOnceFn func(key string, message string, severity string)

// Result is the captured outcome of one git invocation.
// A non-zero exit is not an error: callers inspect ExitCode and Stderr.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int   // -1 when the process never ran
	Err      error // wraps ErrLaunch when the process never ran
}

// Failed reports whether the command did not run or exited non-zero.
func (r Result) Failed() bool {
	return r.Err != nil || r.ExitCode != 0
}

// Service runs git inside one repository.
type Service struct {
	executable string
	root       string
	notify     NotifyFn
	notifyOnce NotifyOnceFn
	mu         sync.Mutex
}

// NewService constructs a Service rooted at root. Empty executable means DefaultExecutable.
func NewService(root, executable string, notify NotifyFn, notifyOnce NotifyOnceFn) *Service {
	executable = strings.TrimSpace(executable)
	if executable == "" {
		executable = DefaultExecutable
	}
	if notify == nil {
		notify = func(string, string) {}
	}
	if notifyOnce == nil {
		notifyOnce = func(_, message, severity string) { notify(message, severity) }
	}
	return &Service{
		executable: executable,
		root:       root,
		notify:     notify,
		notifyOnce: notifyOnce,
	}
}

// Root returns the repository root commands run in.
func (s *Service) Root() string {
	return s.root
}

// Executable returns the configured git binary.
func (s *Service) Executable() string {
	return s.executable
}

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

// allowedSubcommands are the only git subcommands lazycommit ever issues.
var allowedSubcommands = map[string]bool{
	"rev-parse": true,
	"status":    true,
	"add":       true,
	"commit":    true,
	"push":      true,
}

func (s *Service) prepareAllowedCommand(ctx context.Context, args []string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command provided")
	}
	if !allowedSubcommands[args[0]] {
		return nil, fmt.Errorf("unsupported git subcommand %q", args[0])
	}
	// #nosec G204 -- arguments are an argv built by this package, never shell interpolated
	return exec.CommandContext(ctx, s.executable, args...), nil
}

// Run executes git with args in cwd (the repository root when empty) and
// waits for both output streams to drain.
func (s *Service) Run(ctx context.Context, args []string, cwd string) Result {
	if cwd == "" {
		cwd = s.root
	}
	command := s.executable + " " + strings.Join(args, " ")
	s.debugf("run: %s (cwd=%s)", command, cwd)

	cmd, err := s.prepareAllowedCommand(ctx, args)
	if err != nil {
		s.debugf("error: %s: %v", command, err)
		return Result{ExitCode: -1, Stderr: err.Error(), Err: fmt.Errorf("%w: %w", ErrLaunch, err)}
	}
	cmd.Dir = cwd

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// git is not safe to drive concurrently against the same index.
	s.mu.Lock()
	err = cmd.Run()
	s.mu.Unlock()

	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if res.Stdout != "" {
		s.debugf("stdout: %s", strings.TrimRight(res.Stdout, "\n"))
	}
	if res.Stderr != "" {
		s.debugf("stderr: %s", strings.TrimRight(res.Stderr, "\n"))
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			s.debugf("error: %s (exit %d)", command, res.ExitCode)
			return res
		}
		res.ExitCode = -1
		res.Stdout = ""
		res.Err = fmt.Errorf("%w: %s: %w", ErrLaunch, s.executable, err)
		if res.Stderr == "" {
			res.Stderr = res.Err.Error()
		}
		key := fmt.Sprintf("cmd_missing:%s", s.executable)
		s.notifyOnce(key, fmt.Sprintf("Command not found: %s", s.executable), "error")
		s.debugf("error: %v", res.Err)
		return res
	}

	s.debugf("ok: %s", command)
	return res
}

// IsInsideWorkTree reports whether the root is inside a git working tree.
func (s *Service) IsInsideWorkTree(ctx context.Context) bool {
	res := s.Run(ctx, []string{"rev-parse", "--is-inside-work-tree"}, "")
	return !res.Failed() && strings.TrimSpace(res.Stdout) == "true"
}

// ShowTopLevel returns the absolute top-level directory of the working tree.
func (s *Service) ShowTopLevel(ctx context.Context) (string, error) {
	res := s.Run(ctx, []string{"rev-parse", "--show-toplevel"}, "")
	if res.Failed() {
		return "", commandError("rev-parse --show-toplevel", res)
	}
	top := strings.TrimSpace(res.Stdout)
	if top == "" {
		return "", fmt.Errorf("rev-parse --show-toplevel: empty output")
	}
	return top, nil
}

// CurrentBranch returns the checked-out branch, or an empty string when detached or unknown.
func (s *Service) CurrentBranch(ctx context.Context) string {
	res := s.Run(ctx, []string{"rev-parse", "--abbrev-ref", "HEAD"}, "")
	branch := strings.TrimSpace(res.Stdout)
	if res.Failed() || branch == "HEAD" {
		return ""
	}
	return branch
}

// StatusShort runs `git status --short`.
func (s *Service) StatusShort(ctx context.Context) Result {
	return s.Run(ctx, []string{"status", "--short"}, "")
}

// AddAll stages every working-tree change.
func (s *Service) AddAll(ctx context.Context) Result {
	return s.Run(ctx, []string{"add", "."}, "")
}

// Commit records the staged changes with message.
func (s *Service) Commit(ctx context.Context, message string) Result {
	return s.Run(ctx, []string{"commit", "-m", message}, "")
}

// Push pushes the current branch to its configured remote.
func (s *Service) Push(ctx context.Context) Result {
	return s.Run(ctx, []string{"push"}, "")
}

func commandError(command string, res Result) error {
	if res.Err != nil {
		return fmt.Errorf("%s: %w", command, res.Err)
	}
	detail := strings.TrimSpace(res.Stderr)
	if detail == "" {
		return fmt.Errorf("%s: exit %d", command, res.ExitCode)
	}
	return fmt.Errorf("%s: %s", command, detail)
}

// CommandError describes a failed Result as an error, nil when it succeeded.
func CommandError(command string, res Result) error {
	if !res.Failed() {
		return nil
	}
	return commandError(command, res)
}
