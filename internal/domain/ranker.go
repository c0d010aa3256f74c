package domain

// OrderHits moves hits located in the currently open file ahead of the
// rest. Relative order inside both groups is kept exactly, so whatever
// ranking the search produced survives apart from this promotion.
//
// An empty currentAbsolutePath means no file is open and hits are
// returned as given.
func OrderHits(
	hits []PositionHit,
	resolveAbsolutePath func(PositionHit) string,
	currentAbsolutePath string,
) []PositionHit {
	if currentAbsolutePath == "" || resolveAbsolutePath == nil {
		return hits
	}

	current := make([]PositionHit, 0, len(hits))
	others := make([]PositionHit, 0, len(hits))
	for _, h := range hits {
		if resolveAbsolutePath(h) == currentAbsolutePath {
			current = append(current, h)
		} else {
			others = append(others, h)
		}
	}
	return append(current, others...)
}
