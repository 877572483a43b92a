// Package layout holds the page and text-span model produced by the span
// sources and consumed read-only by the outline heuristics.
package layout

// Flags is a bit set of span style attributes. Bit values follow the MuPDF
// text-extraction convention.
type Flags uint32

const (
	FlagSuperscript Flags = 1 << 0
	FlagItalic      Flags = 1 << 1
	FlagSerif       Flags = 1 << 2
	FlagMonospaced  Flags = 1 << 3
	FlagBold        Flags = 1 << 4
)

// Has reports whether all bits of f2 are set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// Point is a position in page space. Y grows downward from the top edge.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned box in page space (left, top, right, bottom).
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the horizontal extent of the box.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent of the box.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// Span is one contiguous run of uniformly styled text on a single line.
type Span struct {
	Text   string
	Size   float64 // font size in document units
	Flags  Flags
	Font   string // base font name, informational
	Origin Point  // baseline origin of the first glyph
	BBox   Rect
	Page   int // 1-based number of the owning page
}

// Page is one page of a document with its spans in engine order.
type Page struct {
	Number int // 1-based
	Width  float64
	Height float64
	Spans  []Span
}

// Document is the full span layout of one input file.
type Document struct {
	Source string // file name the layout was read from
	Pages  []Page
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	if d == nil {
		return 0
	}
	return len(d.Pages)
}
