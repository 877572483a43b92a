package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser reads the text layer of a PDF and groups its glyphs into spans.
// Image-only pages come back without spans.
type PDFParser struct{}

func (p *PDFParser) Parse(r io.Reader, filename string) (doc *layout.Document, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	// ledongthuc/pdf panics on some malformed streams instead of returning errors.
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = fmt.Errorf("parse pdf: %v", rec)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	numPages := reader.NumPage()
	doc = &layout.Document{
		Source: filename,
		Pages:  make([]layout.Page, 0, numPages),
	}
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		box := mediaBox(page.V)
		lp := layout.Page{
			Number: i,
			Width:  box.width(),
			Height: box.height(),
		}
		if !page.V.IsNull() {
			lp.Spans = groupGlyphs(page.Content().Text, box, i)
		}
		doc.Pages = append(doc.Pages, lp)
	}
	return doc, nil
}

// pageBox is a MediaBox in PDF user space (origin bottom-left).
type pageBox struct {
	llx, lly, urx, ury float64
}

func (b pageBox) width() float64  { return b.urx - b.llx }
func (b pageBox) height() float64 { return b.ury - b.lly }

// US Letter, used when a page has no usable MediaBox.
var letterBox = pageBox{0, 0, 612, 792}

// mediaBox resolves the page's MediaBox, following the inherited Parent chain.
func mediaBox(v pdflib.Value) pageBox {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		if b := v.Key("MediaBox"); b.Len() == 4 {
			box := pageBox{
				llx: math.Min(b.Index(0).Float64(), b.Index(2).Float64()),
				lly: math.Min(b.Index(1).Float64(), b.Index(3).Float64()),
				urx: math.Max(b.Index(0).Float64(), b.Index(2).Float64()),
				ury: math.Max(b.Index(1).Float64(), b.Index(3).Float64()),
			}
			if box.width() > 0 && box.height() > 0 {
				return box
			}
		}
		v = v.Key("Parent")
	}
	return letterBox
}

// Glyph grouping thresholds, in ems of the current font size.
const (
	spaceGapEm    = 0.2 // a wider gap inserts a space
	breakGapEm    = 3.0 // a wider gap starts a new span
	baselineTolEm = 0.5 // larger baseline shifts start a new line
	ascentEm      = 0.8
	descentEm     = 0.2
)

type runBuilder struct {
	font   string
	size   float64
	x0, x1 float64
	y      float64
	text   strings.Builder
}

func (b *runBuilder) accepts(t pdflib.Text) bool {
	if t.Font != b.font || math.Abs(t.FontSize-b.size) > 0.01 {
		return false
	}
	em := math.Max(b.size, 1)
	if math.Abs(t.Y-b.y) > em*baselineTolEm {
		return false
	}
	gap := t.X - b.x1
	return gap > -em*baselineTolEm && gap < em*breakGapEm
}

func (b *runBuilder) add(t pdflib.Text) {
	em := math.Max(b.size, 1)
	if t.X-b.x1 > em*spaceGapEm && t.S != " " && !strings.HasSuffix(b.text.String(), " ") {
		b.text.WriteByte(' ')
	}
	b.text.WriteString(t.S)
	b.x1 = math.Max(b.x1, t.X+t.W)
}

// groupGlyphs merges consecutive glyphs with the same font, size and
// baseline into spans, converting to top-down page coordinates.
func groupGlyphs(glyphs []pdflib.Text, box pageBox, pageNum int) []layout.Span {
	var spans []layout.Span
	var cur *runBuilder

	flush := func() {
		if cur == nil {
			return
		}
		text := cleanText(cur.text.String())
		if strings.TrimSpace(text) != "" {
			y := box.ury - cur.y
			spans = append(spans, layout.Span{
				Text:  text,
				Size:  cur.size,
				Flags: fontFlags(cur.font),
				Font:  cur.font,
				Origin: layout.Point{
					X: cur.x0 - box.llx,
					Y: y,
				},
				BBox: layout.Rect{
					X0: cur.x0 - box.llx,
					Y0: y - cur.size*ascentEm,
					X1: cur.x1 - box.llx,
					Y1: y + cur.size*descentEm,
				},
				Page: pageNum,
			})
		}
		cur = nil
	}

	for _, t := range glyphs {
		if t.S == "" {
			continue
		}
		if cur != nil && cur.accepts(t) {
			cur.add(t)
			continue
		}
		flush()
		cur = &runBuilder{
			font: t.Font,
			size: t.FontSize,
			x0:   t.X,
			x1:   t.X + t.W,
			y:    t.Y,
		}
		cur.text.WriteString(t.S)
	}
	flush()
	return spans
}

// fontFlags infers style bits from a PDF base font name such as
// "ABCDEF+Helvetica-BoldOblique".
func fontFlags(name string) layout.Flags {
	if i := strings.IndexByte(name, '+'); i >= 0 {
		name = name[i+1:]
	}
	lower := strings.ToLower(name)

	var f layout.Flags
	for _, w := range []string{"bold", "black", "heavy", "semibold", "demi"} {
		if strings.Contains(lower, w) {
			f |= layout.FlagBold
			break
		}
	}
	if strings.Contains(lower, "italic") || strings.Contains(lower, "oblique") {
		f |= layout.FlagItalic
	}
	if strings.Contains(lower, "courier") || strings.Contains(lower, "mono") {
		f |= layout.FlagMonospaced
	}
	if strings.Contains(lower, "times") || (strings.Contains(lower, "serif") && !strings.Contains(lower, "sans")) {
		f |= layout.FlagSerif
	}
	return f
}
