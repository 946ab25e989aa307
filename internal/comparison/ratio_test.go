package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"both empty", "", "", 1.0},
		{"left empty", "", "abc", 0.0},
		{"right empty", "abc", "", 0.0},
		{"identical", "abc", "abc", 1.0},
		{"disjoint", "abc", "xyz", 0.0},
		{"one substitution", "abcd", "abed", 0.75},
		{"half overlap", "ab", "bc", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRatioSymmetric(t *testing.T) {
	a, b := "123 main st", "boston ma 02101"
	assert.InDelta(t, Ratio(a, b), Ratio(b, a), 1e-9)
}

func TestRatioUnicode(t *testing.T) {
	// Ratio counts runes, not bytes.
	assert.InDelta(t, 1.0, Ratio("héllo", "héllo"), 1e-9)
	assert.InDelta(t, 0.8, Ratio("héllo", "hållo"), 1e-9)
}

func TestTokenRatio(t *testing.T) {
	assert.InDelta(t, 1.0, TokenRatio(nil, nil), 1e-9)
	assert.InDelta(t, 0.0, TokenRatio([]string{"a"}, nil), 1e-9)
	assert.InDelta(t, 1.0, TokenRatio([]string{"a", "b"}, []string{"a", "b"}), 1e-9)
	assert.InDelta(t, 0.5, TokenRatio([]string{"hello", "world"}, []string{"hello", "there"}), 1e-9)
}
