package outline

import (
	"slices"

	"github.com/dgallion1/docoutline/internal/layout"
)

// Extractor runs the title and outline heuristics with a fixed policy.
type Extractor struct {
	policy Policy
}

// NewExtractor creates an extractor with the default policy.
func NewExtractor() *Extractor {
	return &Extractor{policy: DefaultPolicy()}
}

// NewExtractorWithPolicy creates an extractor with a custom policy.
func NewExtractorWithPolicy(p Policy) *Extractor {
	return &Extractor{policy: p}
}

// Policy returns the policy in use.
func (e *Extractor) Policy() Policy {
	return e.policy
}

// Extract computes the title and outline of doc. A document without any
// text in its sampled pages yields the untitled, empty result.
func (e *Extractor) Extract(doc *layout.Document) Result {
	p := e.policy
	body, ok := EstimateBodySize(doc, p)
	if !ok {
		return Empty(p.Untitled)
	}

	title := p.ExtractTitle(slices.Values(doc.Pages[0].Spans), body)

	var cands []Candidate
	for _, page := range doc.Pages {
		cands = append(cands, p.ScorePage(page, body)...)
	}

	return Result{
		Title:   title,
		Outline: p.Deduplicate(cands),
	}
}
