package comparator

// IsSignificantDrop reports whether candidatePrice is enough of a
// decrease from referencePrice to be worth notifying about. Missing
// or negative inputs are never significant; a drop counts when the
// percentage decrease meets or exceeds thresholdPercent.
func IsSignificantDrop(referencePrice, candidatePrice *float64, thresholdPercent float64) bool {
	if referencePrice == nil || candidatePrice == nil {
		return false
	}

	ref := *referencePrice
	candidate := *candidatePrice
	if ref <= 0 || candidate < 0 || candidate >= ref {
		return false
	}

	dropPercent := (ref - candidate) / ref * 100
	return dropPercent >= thresholdPercent
}
