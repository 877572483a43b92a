package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Typographic defaults for flow formats, in points. Body text is 12pt and
// headings follow the usual browser scale.
const (
	flowBodySize = 12.0
	flowCodeSize = 10.0
)

var flowHeadingSizes = map[int]float64{
	1: 24,
	2: 18,
	3: 15,
	4: 13,
	5: 12,
	6: 11,
}

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*layout.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []block
	collectMarkdownBlocks(doc, src, &blocks)
	return defaultFlow.paginate(filename, blocks), nil
}

// collectMarkdownBlocks walks block-level nodes in document order. Container
// blocks (lists, list items, block quotes) are descended into.
func collectMarkdownBlocks(n ast.Node, src []byte, out *[]block) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Heading:
			*out = append(*out, block{
				text: inlineText(node, src),
				size: flowHeadingSizes[node.Level],
				bold: true,
			})
		case *ast.Paragraph, *ast.TextBlock:
			*out = append(*out, block{
				text: inlineText(node, src),
				size: flowBodySize,
				bold: allStrong(node, src),
			})
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				*out = append(*out, block{text: string(line.Value(src)), size: flowCodeSize})
			}
		case *ast.ThematicBreak, *ast.HTMLBlock:
		default:
			collectMarkdownBlocks(node, src, out)
		}
	}
}

// inlineText gets the text content of a goldmark inline container.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.AutoLink:
			buf.Write(t.Label(src))
		default:
			// Recurse for nested inlines.
			buf.WriteString(inlineText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}

// allStrong reports whether a paragraph is entirely **strong** text.
func allStrong(n ast.Node, src []byte) bool {
	found := false
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if e, ok := c.(*ast.Emphasis); ok && e.Level == 2 {
			found = true
			continue
		}
		if t, ok := c.(*ast.Text); ok && strings.TrimSpace(string(t.Value(src))) == "" {
			continue
		}
		return false
	}
	return found
}
