package outline

// AssignLevel maps a rounded span size to a heading level relative to the
// body size. Bold all-caps text is H3 regardless of size.
func (p Policy) AssignLevel(size, body float64, bold bool, text string) Level {
	switch {
	case size >= body+p.H1Delta:
		return H1
	case size >= body+p.H2Delta:
		return H2
	case size >= body && bold:
		return H3
	case bold && IsAllCaps(text):
		return H3
	}
	return LevelNone
}
