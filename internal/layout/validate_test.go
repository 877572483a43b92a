package layout

import (
	"errors"
	"math"
	"testing"
)

func validDoc() *Document {
	return &Document{
		Source: "doc.pdf",
		Pages: []Page{
			{Number: 1, Width: 612, Height: 792, Spans: []Span{
				{Text: "Hello", Size: 10, Origin: Point{X: 72, Y: 100}, BBox: Rect{X0: 72, Y0: 90, X1: 100, Y1: 102}, Page: 1},
			}},
			{Number: 2, Width: 612, Height: 792},
		},
	}
}

func TestValidate_ValidPasses(t *testing.T) {
	if err := Validate(validDoc()); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}
}

func TestValidate_EmptyDocumentPasses(t *testing.T) {
	if err := Validate(&Document{}); err != nil {
		t.Fatalf("expected empty document to pass, got %v", err)
	}
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Document)
	}{
		{"page numbering gap", func(d *Document) { d.Pages[1].Number = 3 }},
		{"zero page height", func(d *Document) { d.Pages[0].Height = 0 }},
		{"infinite page width", func(d *Document) { d.Pages[0].Width = math.Inf(1) }},
		{"NaN font size", func(d *Document) { d.Pages[0].Spans[0].Size = math.NaN() }},
		{"negative font size", func(d *Document) { d.Pages[0].Spans[0].Size = -1 }},
		{"NaN origin", func(d *Document) { d.Pages[0].Spans[0].Origin.Y = math.NaN() }},
		{"infinite bbox", func(d *Document) { d.Pages[0].Spans[0].BBox.X1 = math.Inf(-1) }},
		{"wrong owning page", func(d *Document) { d.Pages[0].Spans[0].Page = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDoc()
			tt.mutate(d)
			err := Validate(d)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrMalformedSpan) {
				t.Errorf("expected ErrMalformedSpan, got %v", err)
			}
			var se *SpanError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SpanError, got %T", err)
			}
		})
	}
}

func TestValidate_NilDocument(t *testing.T) {
	if err := Validate(nil); !errors.Is(err, ErrMalformedSpan) {
		t.Errorf("expected ErrMalformedSpan for nil document, got %v", err)
	}
}

func TestSpanError_Message(t *testing.T) {
	e := &SpanError{Page: 2, Span: 4, Reason: "bad"}
	if e.Error() != "page 2 span 4: bad" {
		t.Errorf("unexpected message %q", e.Error())
	}
	e = &SpanError{Page: 2, Span: -1, Reason: "bad"}
	if e.Error() != "page 2: bad" {
		t.Errorf("unexpected message %q", e.Error())
	}
}

func TestFlags_Has(t *testing.T) {
	f := FlagBold | FlagItalic
	if !f.Has(FlagBold) || !f.Has(FlagItalic) {
		t.Error("expected bold and italic bits set")
	}
	if f.Has(FlagMonospaced) {
		t.Error("expected monospaced bit clear")
	}
}

func TestRect_Dimensions(t *testing.T) {
	r := Rect{X0: 10, Y0: 20, X1: 110, Y1: 32}
	if r.Width() != 100 || r.Height() != 12 {
		t.Errorf("expected 100x12, got %gx%g", r.Width(), r.Height())
	}
}
