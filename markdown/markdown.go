// Package markdown renders model answers to ANSI-styled terminal output,
// parsing with goldmark and styling with lipgloss.
package markdown

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/relay"
)

// Section titles printed above the two parts of a segmented response.
const (
	ReasoningTitle = "Reasoning"
	AnswerTitle    = "Answer"
)

// Render parses markdown source and returns styled terminal output.
// Paragraphs, headings and list items are wrapped to width; code is kept
// verbatim behind a gutter.
func Render(source string, width int, theme relay.Theme) string {
	if source == "" {
		return ""
	}
	if width < minWidth {
		width = minWidth
	}
	return newRenderer(theme, answerTone).render([]byte(source), width)
}

// Reasoning styles a reasoning preamble: faint, in the theme's reasoning
// color, wrapped to width. With parse set it is rendered as markdown in that
// tone; otherwise it is only wrapped.
func Reasoning(text string, width int, theme relay.Theme, parse bool) string {
	if text == "" {
		return ""
	}
	if width < minWidth {
		width = minWidth
	}
	if parse {
		return newRenderer(theme, reasoningTone).render([]byte(text), width)
	}
	return lipgloss.NewStyle().
		Foreground(color(theme.Reasoning)).
		Faint(true).
		Width(width).
		Render(text)
}

// Section renders a title rule such as "── Answer ──────" that fills width,
// in the theme's accent color.
func Section(title string, width int, theme relay.Theme) string {
	if width < minWidth {
		width = minWidth
	}
	head := "── " + title + " "
	fill := max(width-lipgloss.Width(head), 2)
	return lipgloss.NewStyle().
		Foreground(color(theme.Accent)).
		Bold(true).
		Render(head + strings.Repeat("─", fill))
}

// Response renders a segmented response for the terminal. A non-empty
// reasoning gets its own titled section above the answer; a bare answer is
// printed without titles. With parse set both parts are rendered as markdown.
func Response(seg relay.Segmented, width int, theme relay.Theme, parse bool) string {
	answer := seg.Answer
	if parse {
		answer = Render(answer, width, theme)
	}
	if seg.Reasoning == "" {
		return answer
	}
	parts := []string{
		Section(ReasoningTitle, width, theme),
		Reasoning(seg.Reasoning, width, theme, parse),
		"",
		Section(AnswerTitle, width, theme),
	}
	if answer != "" {
		parts = append(parts, answer)
	}
	return strings.Join(parts, "\n")
}
