package outline

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

type entryKey struct {
	text  string
	page  int
	level Level
}

// dedupState is the accumulator threaded through the deduplication walk.
type dedupState struct {
	last      *Candidate
	finalized map[entryKey]struct{}
	out       []Entry
}

// Deduplicate orders candidates by reading order and collapses repeated
// detections of the same heading into one entry.
func (p Policy) Deduplicate(cands []Candidate) []Entry {
	sorted := slices.Clone(cands)
	slices.SortStableFunc(sorted, func(a, b Candidate) int {
		if c := cmp.Compare(a.Page, b.Page); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(b.Score, a.Score)
	})

	st := dedupState{
		finalized: make(map[entryKey]struct{}),
		out:       make([]Entry, 0, len(sorted)),
	}
	for i := range sorted {
		st = p.step(st, &sorted[i])
	}
	return st.out
}

func (p Policy) step(st dedupState, c *Candidate) dedupState {
	lower := strings.ToLower(c.Text)
	if last := st.last; last != nil &&
		last.Page == c.Page &&
		last.Level == c.Level &&
		strings.ToLower(last.Text) == lower &&
		math.Abs(last.Y-c.Y) < p.DedupDistance {
		return st
	}
	key := entryKey{text: lower, page: c.Page, level: c.Level}
	if _, done := st.finalized[key]; done {
		return st
	}
	st.finalized[key] = struct{}{}
	st.out = append(st.out, Entry{Level: c.Level, Text: c.Text, Page: c.Page})
	st.last = c
	return st
}
