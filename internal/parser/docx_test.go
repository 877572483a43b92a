package parser

import (
	"bytes"
	"testing"

	"github.com/dgallion1/docoutline/internal/layout"
	"github.com/fumiama/go-docx"
)

func TestDOCXParser_RunFormatting(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	title := w.AddParagraph()
	title.AddText("Quarterly Review").Size("40").Bold()
	title.Justification("center")
	w.AddParagraph().AddText("plain body text").Size("22")
	w.AddParagraph() // empty paragraphs are dropped

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}

	doc, err := (&DOCXParser{}).Parse(&buf, "review.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.PageCount() != 1 {
		t.Fatalf("expected 1 page, got %d", doc.PageCount())
	}
	spans := doc.Pages[0].Spans
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	h := spans[0]
	if h.Text != "Quarterly Review" || h.Size != 20 || !h.Flags.Has(layout.FlagBold) {
		t.Errorf("unexpected title span %+v", h)
	}
	if h.Origin.X == defaultFlow.margin {
		t.Error("expected centred title")
	}

	b := spans[1]
	if b.Text != "plain body text" || b.Size != 11 || b.Flags.Has(layout.FlagBold) {
		t.Errorf("unexpected body span %+v", b)
	}
}

func TestDOCXParser_RejectsGarbage(t *testing.T) {
	_, err := (&DOCXParser{}).Parse(bytes.NewReader([]byte("not a zip")), "bad.docx")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestDocxHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"heading 2", 2},
		{"Heading 6", 6},
		{"Heading7", 0},
		{"Normal", 0},
		{"HeadingX", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := docxHeadingLevel(tt.style); got != tt.want {
			t.Errorf("docxHeadingLevel(%q): expected %d, got %d", tt.style, tt.want, got)
		}
	}
}

func TestDocxStyleSize(t *testing.T) {
	tests := []struct {
		style string
		want  float64
	}{
		{"Title", 26},
		{"Heading1", 20},
		{"Heading2", 16},
		{"Heading3", 13},
		{"Heading5", 12},
		{"Normal", 11},
	}
	for _, tt := range tests {
		if got := docxStyleSize(tt.style); got != tt.want {
			t.Errorf("docxStyleSize(%q): expected %v, got %v", tt.style, tt.want, got)
		}
	}
}

func TestDocxHalfPoints(t *testing.T) {
	if v, ok := docxHalfPoints("24"); !ok || v != 12 {
		t.Errorf("expected 12pt, got %v (ok=%v)", v, ok)
	}
	for _, bad := range []string{"", "abc", "0", "-4"} {
		if _, ok := docxHalfPoints(bad); ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}
