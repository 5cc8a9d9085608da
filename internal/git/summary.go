package git

import (
	"strings"

	"github.com/chmouel/lazycommit/internal/models"
)

// countedCodes are the status characters that mark a line as a pending change.
const countedCodes = "MADRCU?"

// Summarize builds the change summary shown in the exit prompt and the commit
// message. Line terminators are normalised to \n first (see splitLines), then
// every non-empty line is listed with its content unchanged; Count only
// includes lines whose first non-space character is a change code, once per line.
func Summarize(raw string) models.ChangeSummary {
	var summary models.ChangeSummary
	for _, line := range splitLines(raw) {
		if line == "" {
			continue
		}
		summary.Lines = append(summary.Lines, line)
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed != "" && strings.IndexByte(countedCodes, trimmed[0]) >= 0 {
			summary.Count++
		}
	}
	return summary
}
