package text

import (
	"testing"

	"redline/assert"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name          string
		oldText       string
		newText       string
		wantStart     int
		wantDelta     int
	}{
		{
			name:      "insertion in the middle",
			oldText:   "the cat sat",
			newText:   "the fat cat sat",
			wantStart: 4,
			wantDelta: 4,
		},
		{
			name:      "deletion in the middle",
			oldText:   "the fat cat sat",
			newText:   "the cat sat",
			wantStart: 4,
			wantDelta: -4,
		},
		{
			name:      "trailing insertion",
			oldText:   "hello",
			newText:   "hello world",
			wantStart: 5,
			wantDelta: 6,
		},
		{
			name:      "trailing deletion",
			oldText:   "hello world",
			newText:   "hello",
			wantStart: 5,
			wantDelta: -6,
		},
		{
			name:      "change at offset zero",
			oldText:   "Xbc",
			newText:   "Ybc",
			wantStart: 0,
			wantDelta: 0,
		},
		{
			name:      "old empty",
			oldText:   "",
			newText:   "abc",
			wantStart: 0,
			wantDelta: 3,
		},
		{
			name:      "new empty",
			oldText:   "abc",
			newText:   "",
			wantStart: 0,
			wantDelta: -3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Diff(tt.oldText, tt.newText)
			assert.Equal(t, tt.wantStart, c.Start, "change start")
			assert.Equal(t, tt.wantDelta, c.LengthDelta, "length delta")
		})
	}
}

// The common prefix up to the change start must be identical in both
// snapshots, and the delta must equal the length difference.
func TestDiffPrefixProperty(t *testing.T) {
	pairs := [][2]string{
		{"abcdef", "abXdef"},
		{"paragraph one", "paragraph one and two"},
		{"same", "same"},
		{"", "x"},
		{"shorter", "short"},
	}

	for _, p := range pairs {
		c := Diff(p[0], p[1])
		assert.Equal(t, len(p[1])-len(p[0]), c.LengthDelta, "delta for "+p[0])
		if c.Start <= min(len(p[0]), len(p[1])) {
			assert.Equal(t, p[0][:c.Start], p[1][:c.Start], "common prefix for "+p[0])
		}
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""), "both empty")
	assert.Equal(t, 0.0, Similarity("abc", ""), "one empty")
	assert.Equal(t, 1.0, Similarity("hello", "hello"), "identical")

	high := Similarity("the quick brown fox", "the quick brown cat")
	assert.True(t, high > 0.7, "mostly equal strings score high")

	low := Similarity("aaaa", "zzzz")
	assert.True(t, low < 0.3, "disjoint strings score low")
}
