package utils

import (
	"strings"
	"testing"

	"redline/assert"
	"redline/types"
)

func TestEstimateTokenCount(t *testing.T) {
	assert.Equal(t, 0, EstimateTokenCount(""), "empty text")
	assert.Equal(t, 1, EstimateTokenCount("abc"), "rounds up")
	assert.Equal(t, 2, EstimateTokenCount("abcdefgh"), "eight chars")
}

func sectionOf(content string) types.TextSection {
	return types.TextSection{Content: content}
}

func TestTrimSectionsToTokensKeepsEarlier(t *testing.T) {
	sections := []types.TextSection{
		sectionOf(strings.Repeat("a", 40)),
		sectionOf(strings.Repeat("b", 40)),
		sectionOf(strings.Repeat("c", 40)),
	}

	trimmed := TrimSectionsToTokens(sections, 25)
	assert.Equal(t, 2, len(trimmed), "later sections dropped first")
	assert.Equal(t, sections[0].Content, trimmed[0].Content, "earliest section kept")
}

func TestTrimSectionsToTokensAlwaysKeepsFirst(t *testing.T) {
	sections := []types.TextSection{sectionOf(strings.Repeat("a", 400))}
	trimmed := TrimSectionsToTokens(sections, 10)
	assert.Equal(t, 1, len(trimmed), "single oversized section survives")
}

func TestTrimSectionsToTokensNoLimit(t *testing.T) {
	sections := []types.TextSection{sectionOf("one"), sectionOf("two")}
	assert.Equal(t, 2, len(TrimSectionsToTokens(sections, 0)), "zero means no limit")
}
