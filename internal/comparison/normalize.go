package comparison

import "strings"

// noisePunctuation lists the marks stripped before comparison. Hyphens,
// periods, and parentheses are kept: they are load-bearing in addresses,
// suite numbers, and phone numbers.
const noisePunctuation = `,;:!?"`

// Normalize canonicalizes a single line of text for comparison: lower-case,
// whitespace runs collapsed to one space, noise punctuation removed.
// Empty input normalizes to the empty string; Normalize never fails.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(noisePunctuation, r) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// SplitLines splits raw text on newlines and normalizes each line
// independently. Lines must be split before normalization so that line
// identity survives whitespace collapsing. Lines that normalize to nothing
// are dropped: they carry no comparison signal.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}

	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if n := Normalize(line); n != "" {
			lines = append(lines, n)
		}
	}

	return lines
}

// JoinBlock rebuilds the normalized whole-text block from its lines, with
// newlines preserved as line separators. The whole-text metrics operate on
// this form, so line order contributes to them even when every line has a
// per-line match.
func JoinBlock(lines []string) string {
	return strings.Join(lines, "\n")
}
