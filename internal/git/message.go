package git

import (
	"fmt"
	"strings"
	"time"
)

// DefaultCommitDescription follows the version token in generated commit subjects.
const DefaultCommitDescription = "Automatic update before closing the editor"

// versionLayout renders as YYMMDD.HHMM.
const versionLayout = "060102.1504"

// VersionToken returns "v YYMMDD.HHMM" for now in its own location.
func VersionToken(now time.Time) string {
	return "v " + now.Format(versionLayout)
}

// BuildCommitMessage renders "v <YYMMDD.HHMM> - <description>\n\n<listing>".
// The message is passed to git as a single argv element, so quotes and
// newlines need no escaping; NUL bytes cannot travel in argv and are dropped.
func BuildCommitMessage(now time.Time, description, listing string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		description = DefaultCommitDescription
	}
	msg := fmt.Sprintf("%s - %s\n\n%s", VersionToken(now), description, listing)
	return strings.ReplaceAll(msg, "\x00", "")
}
