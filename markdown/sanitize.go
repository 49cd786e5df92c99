package markdown

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize makes upstream text safe to print to a terminal. Escape sequences
// are stripped, CRLF becomes LF, and control characters other than tab and
// newline are dropped.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		default:
			return r
		}
	}, s)
}
