package comparison

import (
	"strings"

	"gonum.org/v1/gonum/stat"
)

// blockSimilarity is the whole-text alignment ratio scaled to percent, with
// the degenerate-input rules: two empty texts compare as identical (100) and
// exactly one empty text as entirely different (0). Both overall_similarity
// and character_accuracy are defined by this function so the two fields stay
// numerically identical.
func blockSimilarity(source, dest string) float64 {
	switch {
	case source == "" && dest == "":
		return 100.0
	case source == "" || dest == "":
		return 0.0
	}

	return Ratio(source, dest) * 100
}

// wordAccuracy applies the same alignment-ratio family over the
// whitespace-split token sequences of the two normalized texts.
func wordAccuracy(source, dest string) float64 {
	sourceWords := strings.Fields(source)
	destWords := strings.Fields(dest)

	switch {
	case len(sourceWords) == 0 && len(destWords) == 0:
		return 100.0
	case len(sourceWords) == 0 || len(destWords) == 0:
		return 0.0
	}

	return TokenRatio(sourceWords, destWords) * 100
}

// averageMatchScore is the mean match score over the exact and similar
// entries, or 0 when no line was matched. Diagnostic only; it does not feed
// any classification.
func averageMatchScore(matches []LineMatch) float64 {
	var scores []float64
	for _, m := range matches {
		if m.MatchType == MatchExact || m.MatchType == MatchSimilar {
			scores = append(scores, m.MatchScore)
		}
	}

	if len(scores) == 0 {
		return 0.0
	}

	return stat.Mean(scores, nil)
}
