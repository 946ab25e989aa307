package comparison

// Match classifications. Exact and similar pairs consume a destination line;
// missing and extra entries stand alone.
const (
	MatchExact   = "exact"
	MatchSimilar = "similar"
	MatchMissing = "missing"
	MatchExtra   = "extra"
)

const (
	// MatchThreshold is the minimum similarity for a destination line to be
	// assigned to a source line.
	MatchThreshold = 0.60

	// ExactThreshold promotes a matched pair from similar to exact.
	ExactThreshold = 0.95
)

// LineMatch is one aligned or unaligned unit of comparison. SourceText is
// empty for extra lines, DestText is empty for missing lines.
type LineMatch struct {
	SourceText string   `json:"source_text"`
	DestText   string   `json:"dest_text"`
	MatchScore float64  `json:"match_score"`
	MatchType  string   `json:"match_type"`
	LineNumber int      `json:"line_number"`
	Issues     []string `json:"issues"`
}

// Result is the full output of a comparison. Matches holds source lines in
// original order followed by unmatched destination lines in original order.
type Result struct {
	OverallSimilarity float64     `json:"overall_similarity"`
	TotalLines        int         `json:"total_lines"`
	MatchedLines      int         `json:"matched_lines"`
	MissingLines      int         `json:"missing_lines"`
	ExtraLines        int         `json:"extra_lines"`
	CharacterAccuracy float64     `json:"character_accuracy"`
	WordAccuracy      float64     `json:"word_accuracy"`
	AverageMatchScore float64     `json:"average_match_score"`
	Matches           []LineMatch `json:"text_matches"`
	Recommendations   []string    `json:"recommendations"`
}
