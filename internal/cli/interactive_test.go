package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withTerminal(t *testing.T, interactive bool) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(io.Reader) bool { return interactive }
	t.Cleanup(func() { isTerminal = orig })
}

func TestStdioPrompterConfirm(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		interactive bool
		assumeYes   bool
		want        bool
		wantOut     string
	}{
		{name: "yes", input: "y\n", interactive: true, want: true},
		{name: "long yes", input: " YES \n", interactive: true, want: true},
		{name: "no", input: "n\n", interactive: true, want: false},
		{name: "empty answer declines", input: "\n", interactive: true, want: false},
		{name: "eof declines", input: "", interactive: true, want: false},
		{name: "non terminal declines", input: "y\n", interactive: false, want: false, wantOut: "stdin is not a terminal"},
		{name: "assume yes", input: "", interactive: false, assumeYes: true, want: true, wantOut: "y (--yes)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withTerminal(t, tt.interactive)
			var out bytes.Buffer
			p := NewStdioPrompter(strings.NewReader(tt.input), &out, tt.assumeYes)

			got := p.Confirm("Confirm", "You have 1 modified files.\n\n")

			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "== Confirm ==\nYou have 1 modified files.\n")
			assert.Contains(t, out.String(), "[y/N]")
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
		})
	}
}

func TestStdioPrompterNotifyAndProgress(t *testing.T) {
	withTerminal(t, false)
	var out bytes.Buffer
	p := NewStdioPrompter(strings.NewReader(""), &out, false)

	p.Notify("Done", "Updates sent successfully!")
	p.WithProgress("Sending", []string{"add", "commit"}, func(advance func(int)) {
		advance(0)
		advance(1)
		advance(5)
	})

	assert.Equal(t, "== Done ==\nUpdates sent successfully!\nSending\n[1/2] add\n[2/2] commit\n", out.String())
}
