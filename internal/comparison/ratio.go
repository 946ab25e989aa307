package comparison

// Ratio computes the character-level sequence alignment ratio between two
// strings: 2*M / (len(a)+len(b)), where M is the number of aligned matching
// characters under a longest-common-subsequence alignment. The result is in
// [0,1], with 1 meaning identical sequences. This is the same family of
// metric as the classic sequence-matcher ratio.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	ra := []rune(a)
	rb := []rune(b)
	m := lcsLength(ra, rb)

	return 2.0 * float64(m) / float64(len(ra)+len(rb))
}

// TokenRatio is Ratio over token sequences instead of characters. Word-level
// accuracy uses it with whitespace-split tokens.
func TokenRatio(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	m := lcsLength(a, b)

	return 2.0 * float64(m) / float64(len(a)+len(b))
}

// lcsLength computes the longest-common-subsequence length between two
// sequences.
//
// Time complexity: O(len(a) * len(b))
// Space complexity: O(min(len(a), len(b))).
func lcsLength[T comparable](a, b []T) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Ensure b is the shorter sequence for space optimization
	if len(a) < len(b) {
		a, b = b, a
	}

	// Use two rows instead of the full matrix
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}

		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}

	return prev[len(b)]
}
