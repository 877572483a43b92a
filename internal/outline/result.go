package outline

import (
	"encoding/json"
	"fmt"
	"io"
)

// Entry is one heading of the final outline.
type Entry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Result is the title and outline of one document.
type Result struct {
	Title   string  `json:"title"`
	Outline []Entry `json:"outline"`
}

// Empty returns the result reported for documents without text.
func Empty(title string) Result {
	return Result{Title: title, Outline: []Entry{}}
}

// MarshalJSON encodes the level as its "H1".."H3" name.
func (l Level) MarshalJSON() ([]byte, error) {
	if l == LevelNone {
		return nil, fmt.Errorf("outline: cannot encode level %d", int(l))
	}
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes "H1".."H3".
func (l *Level) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "H1":
		*l = H1
	case "H2":
		*l = H2
	case "H3":
		*l = H3
	default:
		return fmt.Errorf("outline: unknown level %q", s)
	}
	return nil
}

// WriteJSON writes the result with two-space indentation and without HTML
// escaping, so non-ASCII and markup characters stay readable.
// A nil outline is written as an empty array.
func (r Result) WriteJSON(w io.Writer) error {
	if r.Outline == nil {
		r.Outline = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}
