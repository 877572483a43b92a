// Package outline infers a document title and an H1-H3 outline from span
// typography: font size relative to the body text, weight, casing, numbered
// section shapes, centring and a small keyword list.
//
// Every function here is a pure computation over an immutable layout, so an
// Extractor may be shared by any number of goroutines.
package outline

// Level is the hierarchical tier of an outline entry.
type Level int

const (
	LevelNone Level = iota
	H1
	H2
	H3
)

// String returns "H1", "H2", "H3", or "" for LevelNone.
func (l Level) String() string {
	switch l {
	case H1:
		return "H1"
	case H2:
		return "H2"
	case H3:
		return "H3"
	default:
		return ""
	}
}

// Policy holds every numeric threshold, bonus and word list used by the
// heuristics.
type Policy struct {
	// SamplePages bounds the leading pages used for the body-size histogram.
	SamplePages int

	// H1Delta and H2Delta are the size increments over body size for H1/H2.
	H1Delta float64
	H2Delta float64

	// Margin excludes spans whose origin lies this close to the top or
	// bottom edge (running headers and footers).
	Margin float64

	// BaseScore is the starting score for each level.
	BaseScore map[Level]float64

	BoldBonus     float64
	AllCapsBonus  float64
	NumberedBonus float64
	CenterBonus   float64
	KeywordBonus  float64

	// CenterTolerance is the allowed distance between a span's left edge and
	// the left edge a perfectly centred span of the same width would have.
	CenterTolerance float64

	// Keywords earn KeywordBonus when contained in the lower-cased text.
	Keywords []string

	// AcceptScore is the minimum score for a candidate to be kept.
	AcceptScore float64

	// DedupDistance is the vertical distance under which adjacent equal
	// candidates collapse.
	DedupDistance float64

	// TitleMinLength is the rune length a title must strictly exceed.
	TitleMinLength int

	// TitleStopDelta stops the title scan once the running maximum exceeds
	// body size plus this delta.
	TitleStopDelta float64

	// Untitled is reported when no title qualifies.
	Untitled string
}

// DefaultPolicy returns the fixed heuristic constants.
func DefaultPolicy() Policy {
	return Policy{
		SamplePages: 5,
		H1Delta:     4.0,
		H2Delta:     1.5,
		Margin:      50,
		BaseScore: map[Level]float64{
			H1: 2.5,
			H2: 2.0,
			H3: 1.5,
		},
		BoldBonus:       1.0,
		AllCapsBonus:    0.8,
		NumberedBonus:   2.0,
		CenterBonus:     0.7,
		KeywordBonus:    0.5,
		CenterTolerance: 50,
		Keywords: []string{
			"introduction", "summary", "deliverables", "appendix",
			"references", "case study", "test case", "limitations",
			"conclusion", "methodology", "results", "discussion",
			"acknowledgments", "abstract",
		},
		AcceptScore:    1.5,
		DedupDistance:  10,
		TitleMinLength: 5,
		TitleStopDelta: 8.0,
		Untitled:       "Untitled",
	}
}
