package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LC_TEST_DIR", "/var/tmp")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "tilde alone", input: "~", expected: home},
		{name: "tilde prefix", input: "~/logs/debug.log", expected: filepath.Join(home, "logs", "debug.log")},
		{name: "env var", input: "$LC_TEST_DIR/x.log", expected: "/var/tmp/x.log"},
		{name: "tilde in the middle is literal", input: "/a/~b", expected: "/a/~b"},
		{name: "plain", input: "/tmp/file", expected: "/tmp/file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsPathWithin(t *testing.T) {
	assert.True(t, IsPathWithin("/a/b", "/a/b"))
	assert.True(t, IsPathWithin("/a/b", "/a/b/c/d"))
	assert.False(t, IsPathWithin("/a/b", "/a"))
	assert.False(t, IsPathWithin("/a/b", "/a/bc"))
	assert.False(t, IsPathWithin("/a/b", "/a/b/../../etc"))
}
