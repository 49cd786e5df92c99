package markdown

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/relay"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const minWidth = 20

// tone selects the palette for one section of a response.
type tone int

const (
	answerTone tone = iota
	reasoningTone
)

type renderer struct {
	bold    lipgloss.Style
	italic  lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	link    lipgloss.Style
	body    lipgloss.Style
}

func newRenderer(theme relay.Theme, t tone) *renderer {
	r := &renderer{
		bold:    lipgloss.NewStyle().Bold(true),
		italic:  lipgloss.NewStyle().Italic(true),
		heading: lipgloss.NewStyle().Foreground(color(theme.Accent)).Bold(true),
		muted:   lipgloss.NewStyle().Foreground(color(theme.Muted)).Faint(true),
		link:    lipgloss.NewStyle().Underline(true),
		body:    lipgloss.NewStyle().Foreground(color(theme.Answer)),
	}
	if t == reasoningTone {
		// Reasoning stays one faint colour, headings included.
		r.body = lipgloss.NewStyle().Foreground(color(theme.Reasoning)).Faint(true)
		r.heading = r.body.Bold(true)
	}
	return r
}

func color(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *renderer) render(source []byte, width int) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var out bytes.Buffer
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		r.block(n, source, width, &out)
		if n.NextSibling() != nil {
			out.WriteString("\n")
		}
	}
	return strings.TrimRight(out.String(), "\n")
}

func (r *renderer) block(node ast.Node, source []byte, width int, out *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		r.wrapped(r.body.Render(r.inline(n, source)), width, out)
	case *ast.Heading:
		r.wrapped(r.heading.Render(r.inline(n, source)), width, out)
	case *ast.FencedCodeBlock:
		if lang := string(n.Language(source)); lang != "" {
			out.WriteString(r.muted.Render(lang) + "\n")
		}
		r.code(n, source, out)
	case *ast.CodeBlock:
		r.code(n, source, out)
	case *ast.List:
		r.list(n, source, width, 0, out)
	case *ast.ThematicBreak:
		out.WriteString(r.muted.Render(strings.Repeat("─", min(width, 40))) + "\n")
	case *ast.Blockquote:
		var inner bytes.Buffer
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			r.block(c, source, width-2, &inner)
		}
		bar := r.muted.Render("┃") + " "
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			out.WriteString(bar + line + "\n")
		}
	case *ast.HTMLBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			out.Write(seg.Value(source))
		}
	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.block(c, source, width, out)
		}
	}
}

func (r *renderer) wrapped(s string, width int, out *bytes.Buffer) {
	out.WriteString(lipgloss.NewStyle().Width(width).Render(s))
	out.WriteString("\n")
}

func (r *renderer) code(node ast.Node, source []byte, out *bytes.Buffer) {
	gutter := r.muted.Render("│") + " "
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out.WriteString(gutter + strings.TrimRight(string(seg.Value(source)), "\n") + "\n")
	}
}

func (r *renderer) list(node *ast.List, source []byte, width, depth int, out *bytes.Buffer) {
	num := node.Start
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "• "
		if node.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		indent := strings.Repeat("  ", depth)

		var content []string
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			if sub, ok := ic.(*ast.List); ok {
				r.item(indent, marker, strings.Join(content, " "), width, out)
				content, marker = nil, strings.Repeat(" ", len(marker))
				r.list(sub, source, width, depth+1, out)
				continue
			}
			content = append(content, r.inline(ic, source))
		}
		if len(content) > 0 {
			r.item(indent, marker, strings.Join(content, " "), width, out)
		}
	}
}

// item writes one list item, indenting continuation lines under the text.
func (r *renderer) item(indent, marker, content string, width int, out *bytes.Buffer) {
	if content == "" {
		return
	}
	prefix := indent + marker
	w := max(width-len(prefix), 10)
	lines := strings.Split(lipgloss.NewStyle().Width(w).Render(content), "\n")
	pad := strings.Repeat(" ", len(prefix))
	for i, line := range lines {
		if i == 0 {
			out.WriteString(prefix + line + "\n")
			continue
		}
		out.WriteString(pad + line + "\n")
	}
}

func (r *renderer) inline(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.span(c, source, &buf)
	}
	return buf.String()
}

func (r *renderer) span(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		switch {
		case n.HardLineBreak():
			buf.WriteByte('\n')
		case n.SoftLineBreak():
			buf.WriteByte(' ')
		}
	case *ast.String:
		buf.Write(n.Value)
	case *ast.Emphasis:
		if n.Level == 1 {
			buf.WriteString(r.italic.Render(r.inline(n, source)))
		} else {
			buf.WriteString(r.bold.Render(r.inline(n, source)))
		}
	case *ast.CodeSpan:
		buf.WriteString(r.bold.Render(r.inline(n, source)))
	case *ast.Link:
		buf.WriteString(r.link.Render(r.inline(n, source)))
		buf.WriteString(" " + r.muted.Render("("+string(n.Destination)+")"))
	case *ast.AutoLink:
		buf.WriteString(r.link.Render(string(n.URL(source))))
	case *ast.Image:
		buf.WriteString(r.link.Render(r.inline(n, source)))
		buf.WriteString(" " + r.muted.Render("("+string(n.Destination)+")"))
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(source))
		}
	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.span(c, source, buf)
		}
	}
}
