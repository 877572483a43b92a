package layout

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformedSpan marks a layout that breaks the span source contract.
var ErrMalformedSpan = errors.New("malformed span data")

// SpanError locates a contract violation inside a document layout.
// Span is -1 when the problem is with the page itself.
type SpanError struct {
	Page   int
	Span   int
	Reason string
}

func (e *SpanError) Error() string {
	if e.Span < 0 {
		return fmt.Sprintf("page %d: %s", e.Page, e.Reason)
	}
	return fmt.Sprintf("page %d span %d: %s", e.Page, e.Span, e.Reason)
}

func (e *SpanError) Unwrap() error {
	return ErrMalformedSpan
}

// Validate checks a layout at the boundary between a span source and the
// heuristics, so the scoring code can assume well-formed input.
func Validate(doc *Document) error {
	if doc == nil {
		return &SpanError{Page: 0, Span: -1, Reason: "nil document"}
	}
	for i, p := range doc.Pages {
		if p.Number != i+1 {
			return &SpanError{Page: p.Number, Span: -1, Reason: fmt.Sprintf("expected page number %d", i+1)}
		}
		if !finite(p.Width) || !finite(p.Height) || p.Width <= 0 || p.Height <= 0 {
			return &SpanError{Page: p.Number, Span: -1, Reason: fmt.Sprintf("invalid page size %gx%g", p.Width, p.Height)}
		}
		for j, s := range p.Spans {
			if s.Page != p.Number {
				return &SpanError{Page: p.Number, Span: j, Reason: fmt.Sprintf("span claims page %d", s.Page)}
			}
			if !finite(s.Size) || s.Size < 0 {
				return &SpanError{Page: p.Number, Span: j, Reason: fmt.Sprintf("invalid font size %g", s.Size)}
			}
			if !finite(s.Origin.X) || !finite(s.Origin.Y) {
				return &SpanError{Page: p.Number, Span: j, Reason: "non-finite origin"}
			}
			if !finite(s.BBox.X0) || !finite(s.BBox.Y0) || !finite(s.BBox.X1) || !finite(s.BBox.Y1) {
				return &SpanError{Page: p.Number, Span: j, Reason: "non-finite bounding box"}
			}
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
