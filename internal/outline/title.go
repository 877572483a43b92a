package outline

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/layout"
)

// titleScan is the running state of the title fold.
type titleScan struct {
	text string
	max  float64
}

// foldUntil folds seq into acc and stops pulling values once stop holds.
func foldUntil[T, A any](seq iter.Seq[T], acc A, step func(A, T) A, stop func(A) bool) A {
	for v := range seq {
		acc = step(acc, v)
		if stop(acc) {
			break
		}
	}
	return acc
}

// ExtractTitle picks the largest-font span of the first page that looks like
// heading prose. The scan ends early once the running maximum is far above
// the body size.
func (p Policy) ExtractTitle(spans iter.Seq[layout.Span], body float64) string {
	step := func(acc titleScan, s layout.Span) titleScan {
		t := strings.TrimSpace(s.Text)
		if utf8.RuneCountInString(t) > p.TitleMinLength && s.Size > acc.max && LooksLikeHeadingProse(t) {
			return titleScan{text: t, max: s.Size}
		}
		return acc
	}
	stop := func(acc titleScan) bool {
		return acc.max > body+p.TitleStopDelta
	}

	res := foldUntil(spans, titleScan{}, step, stop)
	if res.text == "" {
		return p.Untitled
	}
	return res.text
}
