package comparison

// Engine compares two blocks of extracted text line by line and produces
// aggregate accuracy metrics plus human-readable diagnostics. It is
// stateless and pure: the zero value is ready to use, every call is
// independent, and concurrent calls need no synchronization.
type Engine struct{}

// NewEngine creates a comparison engine.
func NewEngine() Engine {
	return Engine{}
}

// Compare runs the full pipeline on a pair of raw text blocks: normalize,
// align lines, aggregate metrics, and generate recommendations. Empty or
// malformed input is valid degenerate input; Compare never fails.
func (Engine) Compare(sourceText, destText string) *Result {
	sourceLines := SplitLines(sourceText)
	destLines := SplitLines(destText)

	sourceBlock := JoinBlock(sourceLines)
	destBlock := JoinBlock(destLines)

	matches := MatchLines(sourceLines, destLines)

	// overall_similarity and character_accuracy are the same whole-text
	// measure, kept as two fields for the stored result shape.
	similarity := blockSimilarity(sourceBlock, destBlock)

	result := &Result{
		OverallSimilarity: similarity,
		CharacterAccuracy: similarity,
		WordAccuracy:      wordAccuracy(sourceBlock, destBlock),
		TotalLines:        max(len(sourceLines), len(destLines)),
		AverageMatchScore: averageMatchScore(matches),
		Matches:           matches,
	}

	for _, m := range matches {
		if m.MatchScore >= MatchThreshold*100 {
			result.MatchedLines++
		}
		switch m.MatchType {
		case MatchMissing:
			result.MissingLines++
		case MatchExtra:
			result.ExtraLines++
		}
	}

	result.Recommendations = Recommend(matches, result.OverallSimilarity)

	return result
}

// Compare runs a one-off comparison. Equivalent to NewEngine().Compare.
func Compare(sourceText, destText string) *Result {
	return Engine{}.Compare(sourceText, destText)
}
