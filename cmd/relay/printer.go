package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/markdown"
	"github.com/mattn/go-runewidth"
)

const (
	defaultWidth = 80
	clearLine    = "\r\x1b[2K"
)

// printer writes one streamed answer. On a terminal it keeps a single live
// status line with the tail of the text received so far; the final answer is
// printed once the stream ends.
type printer struct {
	out      io.Writer
	theme    relay.Theme
	width    int
	live     bool
	markdown bool
	shown    bool
}

func newPrinter(out io.Writer, theme relay.Theme, renderMD bool) *printer {
	p := &printer{out: out, theme: theme, width: defaultWidth, markdown: renderMD}
	if f, ok := out.(*os.File); ok && term.IsTerminal(f.Fd()) {
		p.live = true
		if w, _, err := term.GetSize(f.Fd()); err == nil && w > 0 {
			p.width = w
		}
	}
	return p
}

// progress is the relay.ProgressFunc for one stream.
func (p *printer) progress(answer, reasoning string, final bool) {
	if !p.live || final {
		return
	}
	text := answer
	if text == "" {
		text = reasoning
	}
	line := tail(flatten(markdown.Sanitize(text)), p.width-1)
	style := lipgloss.NewStyle().Foreground(ansi(p.theme.Muted)).Faint(true)
	fmt.Fprint(p.out, clearLine+style.Render(line))
	p.shown = true
}

// finish clears the live line and prints the outcome.
func (p *printer) finish(out relay.Outcome) {
	if p.shown {
		fmt.Fprint(p.out, clearLine)
	}
	if !out.OK() {
		style := lipgloss.NewStyle().Foreground(ansi(p.theme.Error))
		fmt.Fprintln(p.out, style.Render(out.Content))
		return
	}
	seg := relay.Segmented{
		Reasoning: markdown.Sanitize(out.Reasoning),
		Answer:    markdown.Sanitize(out.Content),
	}
	fmt.Fprintln(p.out, markdown.Response(seg, p.width, p.theme, p.markdown))
}

func ansi(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

// flatten folds a multi-line text onto one line.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// tail returns the longest suffix of s that fits in width terminal cells,
// prefixed with an ellipsis when s was cut.
func tail(s string, width int) string {
	if width <= 1 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	w := 1 // ellipsis
	i := len(runes)
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if w+rw > width {
			break
		}
		w += rw
		i--
	}
	return "…" + string(runes[i:])
}
