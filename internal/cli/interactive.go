package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// isTerminal reports whether r is an interactive terminal. Tests replace it.
var isTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

// StdioPrompter asks questions on plain text streams. Without a terminal on
// stdin it declines every confirmation unless AssumeYes is set.
type StdioPrompter struct {
	Out         io.Writer
	AssumeYes   bool
	Interactive bool

	in *bufio.Reader
}

// NewStdioPrompter builds a prompter reading answers from in and writing prompts to out.
func NewStdioPrompter(in io.Reader, out io.Writer, assumeYes bool) *StdioPrompter {
	return &StdioPrompter{
		Out:         out,
		AssumeYes:   assumeYes,
		Interactive: isTerminal(in),
		in:          bufio.NewReader(in),
	}
}

// Confirm prints the question and reads a y/N answer.
func (p *StdioPrompter) Confirm(title, message string) bool {
	p.printBlock(title, message)
	fmt.Fprint(p.Out, "Send the changes? [y/N]: ")

	if p.AssumeYes {
		fmt.Fprintln(p.Out, "y (--yes)")
		return true
	}
	if !p.Interactive {
		fmt.Fprintln(p.Out, "n (stdin is not a terminal, use --yes)")
		return false
	}

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.Out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Notify prints the message.
func (p *StdioPrompter) Notify(title, message string) {
	p.printBlock(title, message)
}

// WithProgress prints each step as body reaches it.
func (p *StdioPrompter) WithProgress(title string, steps []string, body func(advance func(step int))) {
	fmt.Fprintf(p.Out, "%s\n", title)
	body(func(step int) {
		if step < 0 || step >= len(steps) {
			return
		}
		fmt.Fprintf(p.Out, "[%d/%d] %s\n", step+1, len(steps), steps[step])
	})
}

func (p *StdioPrompter) printBlock(title, message string) {
	if title != "" {
		fmt.Fprintf(p.Out, "== %s ==\n", title)
	}
	fmt.Fprintf(p.Out, "%s\n", strings.TrimRight(message, "\n"))
}
