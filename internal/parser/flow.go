package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/layout"
)

// block is a paragraph-level unit of a document that has no fixed pages
// (DOCX, HTML, Markdown). Blocks are laid out onto virtual pages so the
// same span heuristics apply to every input format.
type block struct {
	text     string
	size     float64
	bold     bool
	italic   bool
	centered bool
}

// flowLayout describes the virtual page blocks are typeset on.
type flowLayout struct {
	width   float64
	height  float64
	margin  float64
	leading float64 // line height as a multiple of font size
	gap     float64 // extra space after a block, in ems
}

var defaultFlow = flowLayout{
	width:   612,
	height:  792,
	margin:  72,
	leading: 1.2,
	gap:     0.5,
}

// glyphWidthEm approximates an average glyph advance.
const glyphWidthEm = 0.5

// paginate wraps blocks into lines and distributes them over pages.
func (f flowLayout) paginate(source string, blocks []block) *layout.Document {
	doc := &layout.Document{Source: source}
	contentWidth := f.width - 2*f.margin
	y := f.margin
	var page *layout.Page

	newPage := func() {
		doc.Pages = append(doc.Pages, layout.Page{
			Number: len(doc.Pages) + 1,
			Width:  f.width,
			Height: f.height,
		})
		page = &doc.Pages[len(doc.Pages)-1]
		y = f.margin
	}

	for _, b := range blocks {
		text := cleanText(strings.Join(strings.Fields(b.text), " "))
		if text == "" || b.size <= 0 {
			continue
		}
		var flags layout.Flags
		if b.bold {
			flags |= layout.FlagBold
		}
		if b.italic {
			flags |= layout.FlagItalic
		}

		for _, line := range wrapWords(text, int(contentWidth/(b.size*glyphWidthEm))) {
			baseline := y + b.size*ascentEm
			if page == nil || (baseline+b.size*descentEm > f.height-f.margin && len(page.Spans) > 0) {
				newPage()
				baseline = y + b.size*ascentEm
			}
			w := min(float64(utf8.RuneCountInString(line))*b.size*glyphWidthEm, contentWidth)
			x := f.margin
			if b.centered {
				x = (f.width - w) / 2
			}
			page.Spans = append(page.Spans, layout.Span{
				Text:   line,
				Size:   b.size,
				Flags:  flags,
				Origin: layout.Point{X: x, Y: baseline},
				BBox: layout.Rect{
					X0: x,
					Y0: baseline - b.size*ascentEm,
					X1: x + w,
					Y1: baseline + b.size*descentEm,
				},
				Page: page.Number,
			})
			y += b.size * f.leading
		}
		y += b.size * f.gap
	}
	return doc
}

// wrapWords greedily breaks text into lines of at most limit runes.
// Words longer than the limit get a line of their own.
func wrapWords(text string, limit int) []string {
	if limit < 1 {
		limit = 1
	}
	var lines []string
	var cur strings.Builder
	curLen := 0
	for _, w := range strings.Fields(text) {
		n := utf8.RuneCountInString(w)
		if curLen > 0 && curLen+1+n > limit {
			lines = append(lines, cur.String())
			cur.Reset()
			curLen = 0
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(w)
		curLen += n
	}
	if curLen > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
