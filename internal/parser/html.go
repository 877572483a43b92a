package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Elements get browser default sizes and
// are typeset on virtual pages.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*layout.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var blocks []block
	var walk func(n *html.Node, centered bool)
	walk = func(n *html.Node, centered bool) {
		if n.Type == html.ElementNode {
			centered = centered || isCenteredElement(n)
			if level := headingLevel(n.Data); level > 0 {
				blocks = append(blocks, block{
					text:     textContent(n),
					size:     flowHeadingSizes[level],
					bold:     true,
					centered: centered,
				})
				return // Don't recurse into heading children (already extracted text).
			}

			// Skip non-content elements.
			switch n.Data {
			case "script", "style", "noscript", "template", "nav", "footer", "header":
				return
			case "p", "li", "td", "th", "blockquote", "dt", "dd", "figcaption":
				blocks = append(blocks, block{
					text:     textContent(n),
					size:     flowBodySize,
					bold:     allWithin(n, "b", "strong"),
					italic:   allWithin(n, "i", "em"),
					centered: centered,
				})
				return
			case "pre":
				for _, line := range strings.Split(rawText(n), "\n") {
					blocks = append(blocks, block{text: line, size: flowCodeSize})
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, centered)
		}
	}

	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		walk(body, false)
	} else {
		walk(doc, false)
	}

	return defaultFlow.paginate(filename, blocks), nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func isCenteredElement(n *html.Node) bool {
	if n.Data == "center" {
		return true
	}
	for _, a := range n.Attr {
		switch a.Key {
		case "align":
			if strings.EqualFold(strings.TrimSpace(a.Val), "center") {
				return true
			}
		case "style":
			style := strings.ToLower(strings.ReplaceAll(a.Val, " ", ""))
			if strings.Contains(style, "text-align:center") {
				return true
			}
		}
	}
	return false
}

// allWithin reports whether every non-blank text node under n sits inside
// one of the given inline tags.
func allWithin(n *html.Node, tags ...string) bool {
	found := false
	ok := true
	var visit func(n *html.Node, inside bool)
	visit = func(n *html.Node, inside bool) {
		if n.Type == html.ElementNode {
			for _, t := range tags {
				if n.Data == t {
					inside = true
				}
			}
		}
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			if inside {
				found = true
			} else {
				ok = false
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c, inside)
		}
	}
	visit(n, false)
	return found && ok
}

func textContent(n *html.Node) string {
	return strings.TrimSpace(rawText(n))
}

func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
