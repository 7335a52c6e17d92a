// Package markdown converts summary markdown into wrapped terminal
// text. It is a pure text-in, text-out collaborator: malformed input
// degrades to the raw text rather than failing.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	quoteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
)

var engine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Renderer renders markdown into plain styled text at a fixed width.
type Renderer struct {
	width int
}

// NewRenderer builds a renderer wrapping at width columns.
func NewRenderer(width int) *Renderer {
	if width < 20 {
		width = 20
	}
	return &Renderer{width: width}
}

// Render converts source markdown into terminal text. It never fails:
// input the parser chokes on comes back as wrapped raw text.
func (r *Renderer) Render(source string) (rendered string) {
	source = strings.TrimSpace(source)
	if source == "" {
		return ""
	}
	defer func() {
		if recover() != nil {
			rendered = wordwrap.String(source, r.width)
		}
	}()

	src := []byte(source)
	doc := engine.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	r.renderBlocks(doc, src, "", &b)
	out := strings.TrimRight(b.String(), "\n")
	if strings.TrimSpace(out) == "" {
		return wordwrap.String(source, r.width)
	}
	return out
}

func (r *Renderer) renderBlocks(parent ast.Node, src []byte, indent string, out *strings.Builder) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			out.WriteString(indent)
			out.WriteString(headingStyle.Render(inlineText(node, src)))
			out.WriteString("\n\n")
		case *ast.Paragraph:
			r.writeWrapped(out, inlineText(node, src), indent)
			out.WriteString("\n")
		case *ast.TextBlock:
			r.writeWrapped(out, inlineText(node, src), indent)
		case *ast.List:
			r.renderList(node, src, indent, out)
			out.WriteString("\n")
		case *ast.FencedCodeBlock:
			r.writeCode(out, node, src, indent)
		case *ast.CodeBlock:
			r.writeCode(out, node, src, indent)
		case *ast.Blockquote:
			var inner strings.Builder
			r.renderBlocks(node, src, "", &inner)
			for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
				out.WriteString(indent)
				out.WriteString(quoteStyle.Render("│ " + line))
				out.WriteString("\n")
			}
			out.WriteString("\n")
		case *ast.ThematicBreak:
			out.WriteString(indent)
			out.WriteString(strings.Repeat("─", r.wrapWidth(indent)))
			out.WriteString("\n\n")
		default:
			if sub := inlineText(n, src); sub != "" {
				r.writeWrapped(out, sub, indent)
				out.WriteString("\n")
			}
		}
	}
}

func (r *Renderer) renderList(list *ast.List, src []byte, indent string, out *strings.Builder) {
	index := list.Start
	if index == 0 {
		index = 1
	}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d. ", index)
			index++
		}
		var inner strings.Builder
		r.renderBlocks(item, src, "", &inner)
		lines := strings.Split(strings.TrimRight(inner.String(), "\n"), "\n")
		pad := strings.Repeat(" ", len([]rune(marker)))
		for i, line := range lines {
			out.WriteString(indent)
			if i == 0 {
				out.WriteString(marker)
			} else {
				out.WriteString(pad)
			}
			out.WriteString(line)
			out.WriteString("\n")
		}
	}
}

func (r *Renderer) writeCode(out *strings.Builder, n ast.Node, src []byte, indent string) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out.WriteString(indent)
		out.WriteString("    ")
		out.WriteString(codeStyle.Render(strings.TrimRight(string(seg.Value(src)), "\n")))
		out.WriteString("\n")
	}
	out.WriteString("\n")
}

func (r *Renderer) writeWrapped(out *strings.Builder, content, indent string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	wrapped := wordwrap.String(content, r.wrapWidth(indent))
	for _, line := range strings.Split(wrapped, "\n") {
		out.WriteString(indent)
		out.WriteString(line)
		out.WriteString("\n")
	}
}

func (r *Renderer) wrapWidth(indent string) int {
	available := r.width - len([]rune(indent))
	if available < 20 {
		available = 20
	}
	return available
}

// inlineText flattens the inline content beneath a node into one string.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.AutoLink:
			b.Write(t.URL(src))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
