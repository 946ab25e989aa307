package comparison

import (
	"fmt"
	"strings"
)

const (
	// lengthDiffLimit is the character count difference above which a matched
	// pair gets a length-difference issue.
	lengthDiffLimit = 10

	// maxWordsReported bounds the word lists in issue messages.
	maxWordsReported = 3
)

// MatchLines aligns normalized source lines to destination lines and
// classifies each line. Both inputs must already be normalized and filtered
// of blank lines (see SplitLines).
//
// Matching is source-line-major, greedy, and single-pass: each source line
// takes the unused destination line with the strictly greatest similarity at
// or above MatchThreshold, with the first-found maximum winning ties
// (ascending destination index). There is no backtracking toward a globally
// optimal assignment; on inputs with many near-duplicate lines the pairing is
// locally greedy, which keeps the pass at O(n*m) and the output stable.
func MatchLines(sourceLines, destLines []string) []LineMatch {
	matches := make([]LineMatch, 0, len(sourceLines)+len(destLines))
	used := make(map[int]bool, len(destLines))

	for i, src := range sourceLines {
		bestIdx := -1
		bestScore := 0.0

		for j, dst := range destLines {
			if used[j] {
				continue
			}
			sim := Ratio(src, dst)
			if sim > bestScore && sim >= MatchThreshold {
				bestScore = sim
				bestIdx = j
			}
		}

		if bestIdx < 0 {
			matches = append(matches, LineMatch{
				SourceText: src,
				MatchScore: 0,
				MatchType:  MatchMissing,
				LineNumber: i + 1,
				Issues:     []string{"Line missing in destination"},
			})
			continue
		}

		used[bestIdx] = true
		matchType := MatchSimilar
		if bestScore >= ExactThreshold {
			matchType = MatchExact
		}

		matches = append(matches, LineMatch{
			SourceText: src,
			DestText:   destLines[bestIdx],
			MatchScore: bestScore * 100,
			MatchType:  matchType,
			LineNumber: i + 1,
			Issues:     lineIssues(src, destLines[bestIdx]),
		})
	}

	// Destination lines never claimed by a source line
	for j, dst := range destLines {
		if used[j] {
			continue
		}
		matches = append(matches, LineMatch{
			DestText:   dst,
			MatchScore: 0,
			MatchType:  MatchExtra,
			LineNumber: len(sourceLines) + 1,
			Issues:     []string{"Extra line not in source"},
		})
	}

	return matches
}

// lineIssues describes the discrepancies between a matched pair of lines.
func lineIssues(src, dst string) []string {
	issues := []string{}

	diff := len(src) - len(dst)
	if diff > lengthDiffLimit || -diff > lengthDiffLimit {
		issues = append(issues, fmt.Sprintf(
			"Length difference: source has %d chars, destination has %d chars",
			len(src), len(dst)))
	}

	if missing := wordsOnlyIn(src, dst); len(missing) > 0 {
		issues = append(issues, "Missing words: "+strings.Join(capWords(missing), ", "))
	}
	if extra := wordsOnlyIn(dst, src); len(extra) > 0 {
		issues = append(issues, "Extra words: "+strings.Join(capWords(extra), ", "))
	}

	return issues
}

// wordsOnlyIn returns the words of a that do not appear in b, deduplicated,
// preserving their order in a so the message is deterministic.
func wordsOnlyIn(a, b string) []string {
	have := make(map[string]bool)
	for _, w := range strings.Fields(b) {
		have[w] = true
	}

	seen := make(map[string]bool)
	var only []string
	for _, w := range strings.Fields(a) {
		if have[w] || seen[w] {
			continue
		}
		seen[w] = true
		only = append(only, w)
	}

	return only
}

func capWords(words []string) []string {
	if len(words) > maxWordsReported {
		return words[:maxWordsReported]
	}
	return words
}
