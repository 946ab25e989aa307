package comparison

import "fmt"

// Recommend derives ordered, human-readable action items from the match list
// and the overall similarity. The order is fixed: headline first, then the
// missing, extra, and similar notes, each omitted when its count is zero.
// Pure function of its inputs.
func Recommend(matches []LineMatch, overallSimilarity float64) []string {
	var missingCount, extraCount, similarCount int
	for _, m := range matches {
		switch m.MatchType {
		case MatchMissing:
			missingCount++
		case MatchExtra:
			extraCount++
		case MatchSimilar:
			similarCount++
		}
	}

	recommendations := make([]string, 0, 4)

	switch {
	case overallSimilarity >= 95:
		recommendations = append(recommendations, "Excellent! Data transfer appears to be nearly perfect.")
	case overallSimilarity >= 80:
		recommendations = append(recommendations, "Good data transfer with minor differences.")
	case overallSimilarity >= 60:
		recommendations = append(recommendations, "Moderate accuracy - please review the highlighted differences.")
	default:
		recommendations = append(recommendations, "Low accuracy detected - significant differences found.")
	}

	if missingCount > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Review %d missing line(s) that weren't transferred.", missingCount))
	}
	if extraCount > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Check %d extra line(s) that weren't in the original.", extraCount))
	}
	if similarCount > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Verify %d line(s) with minor differences for accuracy.", similarCount))
	}

	return recommendations
}
