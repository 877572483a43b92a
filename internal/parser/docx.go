package parser

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Run sizes and weights come from direct
// formatting when present and from the paragraph style otherwise.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*layout.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "docoutline-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var blocks []block
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if b, ok := docxBlock(para); ok {
			blocks = append(blocks, b)
		}
	}
	return defaultFlow.paginate(filename, blocks), nil
}

// docxBlock turns a paragraph into a block. The paragraph takes the size
// of its largest run and is bold only when every non-blank run is bold.
func docxBlock(para *docx.Paragraph) (block, bool) {
	style := ""
	if para.Properties != nil && para.Properties.Style != nil {
		style = para.Properties.Style.Val
	}
	styleSize := docxStyleSize(style)
	styleBold := docxHeadingLevel(style) > 0 || docxIsTitleStyle(style)

	b := block{bold: true, italic: true}
	var text strings.Builder
	runs := 0
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		var rt strings.Builder
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				rt.WriteString(t.Text)
			}
		}
		s := rt.String()
		text.WriteString(s)
		if strings.TrimSpace(s) == "" {
			continue
		}
		runs++

		size, bold, italic := styleSize, styleBold, false
		if rp := run.RunProperties; rp != nil {
			if rp.Size != nil {
				if v, ok := docxHalfPoints(rp.Size.Val); ok {
					size = v
				}
			}
			if rp.Bold != nil {
				bold = true
			}
			if rp.Italic != nil {
				italic = true
			}
		}
		b.size = max(b.size, size)
		b.bold = b.bold && bold
		b.italic = b.italic && italic
	}
	if runs == 0 {
		return block{}, false
	}
	b.text = strings.TrimSpace(text.String())
	if para.Properties != nil && para.Properties.Justification != nil {
		b.centered = strings.EqualFold(para.Properties.Justification.Val, "center")
	}
	return b, true
}

// docxHalfPoints converts a w:sz value (half-points) to points.
func docxHalfPoints(val string) (float64, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || n <= 0 {
		return 0, false
	}
	return float64(n) / 2, true
}

// docxStyleSize returns Word's default point size for a built-in
// paragraph style.
func docxStyleSize(style string) float64 {
	if docxIsTitleStyle(style) {
		return 26
	}
	switch docxHeadingLevel(style) {
	case 1:
		return 20
	case 2:
		return 16
	case 3:
		return 13
	case 4, 5, 6:
		return 12
	}
	return 11
}

func docxIsTitleStyle(style string) bool {
	return strings.EqualFold(style, "Title")
}

func docxHeadingLevel(style string) int {
	style = strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(style, "heading"))
	if err != nil || n < 1 || n > 6 {
		return 0
	}
	return n
}
