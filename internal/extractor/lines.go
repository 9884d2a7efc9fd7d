package extractor

import (
	"regexp"
	"strings"
)

var reLineBreak = regexp.MustCompile(`\r\n|\n|\r`)

// Sequence splits raw text into trimmed lines. Blank lines are kept because
// later stages use them as block terminators.
func Sequence(text string) []string {
	raw := reLineBreak.Split(text, -1)
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}
