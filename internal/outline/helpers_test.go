package outline

import "github.com/dgallion1/docoutline/internal/layout"

const (
	testPageWidth  = 600
	testPageHeight = 800
)

// mkSpan builds a span whose box starts at x and is w units wide.
func mkSpan(text string, size float64, bold bool, x, y, w float64) layout.Span {
	var flags layout.Flags
	if bold {
		flags |= layout.FlagBold
	}
	return layout.Span{
		Text:   text,
		Size:   size,
		Flags:  flags,
		Origin: layout.Point{X: x, Y: y},
		BBox:   layout.Rect{X0: x, Y0: y - size, X1: x + w, Y1: y + size*0.2},
	}
}

// bodySpan is a left-aligned size-10 paragraph line.
func bodySpan(text string, y float64) layout.Span {
	return mkSpan(text, 10, false, 72, y, 400)
}

func mkPage(n int, spans ...layout.Span) layout.Page {
	for i := range spans {
		spans[i].Page = n
	}
	return layout.Page{Number: n, Width: testPageWidth, Height: testPageHeight, Spans: spans}
}

func mkDoc(pages ...layout.Page) *layout.Document {
	return &layout.Document{Source: "test.pdf", Pages: pages}
}

func levelRank(l Level) int {
	switch l {
	case H1:
		return 3
	case H2:
		return 2
	case H3:
		return 1
	}
	return 0
}
