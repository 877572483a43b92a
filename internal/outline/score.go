package outline

import (
	"math"
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
)

// Candidate is a span accepted by the scorer, before deduplication.
type Candidate struct {
	Level Level
	Text  string
	Page  int
	Score float64
	Y     float64 // origin y of the span
}

// seenKey identifies an accepted candidate within one page.
type seenKey struct {
	text string
	y    float64
}

// ScorePage returns the heading candidates of one page in span order.
func (p Policy) ScorePage(page layout.Page, body float64) []Candidate {
	var out []Candidate
	seen := make(map[seenKey]struct{})

	for _, s := range page.Spans {
		text := strings.TrimSpace(s.Text)
		if text == "" || !LooksLikeHeadingProse(text) {
			continue
		}
		level := p.AssignLevel(roundSize(s.Size), body, IsBold(s), text)
		if level == LevelNone {
			continue
		}
		y := s.Origin.Y
		if y < p.Margin || y > page.Height-p.Margin {
			continue
		}
		score := p.Score(s, text, level, page.Width)
		if score < p.AcceptScore {
			continue
		}
		key := seenKey{text: strings.ToLower(text), y: math.RoundToEven(y)}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Candidate{
			Level: level,
			Text:  text,
			Page:  page.Number,
			Score: score,
			Y:     y,
		})
	}
	return out
}

// Score sums the base score of level and every bonus that applies to s.
// text is the trimmed span text.
func (p Policy) Score(s layout.Span, text string, level Level, pageWidth float64) float64 {
	score := p.BaseScore[level]
	if IsBold(s) {
		score += p.BoldBonus
	}
	if IsAllCaps(text) {
		score += p.AllCapsBonus
	}
	if MatchesNumberedSection(text) {
		score += p.NumberedBonus
	}
	if p.isCentered(s, pageWidth) {
		score += p.CenterBonus
	}
	if p.hasKeyword(text) {
		score += p.KeywordBonus
	}
	return score
}

func (p Policy) isCentered(s layout.Span, pageWidth float64) bool {
	return math.Abs(s.Origin.X-(pageWidth-s.BBox.Width())/2) < p.CenterTolerance
}

func (p Policy) hasKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range p.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
