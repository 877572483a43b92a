package outline

import (
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
)

// roundSize rounds a font size to one decimal place, using the exact decimal
// value of size and rounding ties to even.
func roundSize(size float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(size, 'f', 1, 64), 64)
	if err != nil {
		return size
	}
	return r
}

// SizeHistogram counts rounded font sizes in first-seen order.
type SizeHistogram struct {
	counts map[float64]int
	order  []float64
}

// NewSizeHistogram returns an empty histogram.
func NewSizeHistogram() *SizeHistogram {
	return &SizeHistogram{counts: make(map[float64]int)}
}

// Add records one occurrence of size, rounded to one decimal.
func (h *SizeHistogram) Add(size float64) {
	size = roundSize(size)
	if _, ok := h.counts[size]; !ok {
		h.order = append(h.order, size)
	}
	h.counts[size]++
}

// Count returns the occurrences recorded for size.
func (h *SizeHistogram) Count(size float64) int {
	return h.counts[roundSize(size)]
}

// Len returns the number of distinct sizes.
func (h *SizeHistogram) Len() int {
	return len(h.order)
}

// Mode returns the most frequent size. Ties go to the size seen first.
func (h *SizeHistogram) Mode() (float64, bool) {
	if len(h.order) == 0 {
		return 0, false
	}
	best := h.order[0]
	for _, size := range h.order[1:] {
		if h.counts[size] > h.counts[best] {
			best = size
		}
	}
	return best, true
}

// BuildHistogram counts non-blank spans of the first SamplePages pages.
func BuildHistogram(doc *layout.Document, p Policy) *SizeHistogram {
	h := NewSizeHistogram()
	n := min(doc.PageCount(), p.SamplePages)
	for i := 0; i < n; i++ {
		for _, s := range doc.Pages[i].Spans {
			if strings.TrimSpace(s.Text) == "" {
				continue
			}
			h.Add(s.Size)
		}
	}
	return h
}

// EstimateBodySize returns the document's body text size, or false when the
// sampled pages hold no text at all.
func EstimateBodySize(doc *layout.Document, p Policy) (float64, bool) {
	return BuildHistogram(doc, p).Mode()
}
