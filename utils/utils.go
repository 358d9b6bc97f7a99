// Package utils holds small shared helpers for payload budgeting.
package utils

import "redline/types"

// AvgCharsPerToken is a rough estimation: 1 token ≈ 4 characters.
const AvgCharsPerToken = 4

// EstimateTokenCount estimates the number of tokens in text.
func EstimateTokenCount(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + AvgCharsPerToken - 1) / AvgCharsPerToken
}

// EstimateCharsFromTokens estimates the character budget for a token count.
func EstimateCharsFromTokens(tokens int) int {
	return tokens * AvgCharsPerToken
}

// TrimSectionsToTokens drops sections from the end of the slice until
// the combined content fits within maxTokens. Earlier sections are
// kept because the changed-section list is in document order and the
// edit that triggered the pass is most likely near its start.
func TrimSectionsToTokens(sections []types.TextSection, maxTokens int) []types.TextSection {
	if len(sections) == 0 || maxTokens <= 0 {
		return sections
	}

	maxChars := EstimateCharsFromTokens(maxTokens)
	total := 0
	for i, s := range sections {
		total += len(s.Content) + 1
		if total > maxChars && i > 0 {
			return sections[:i]
		}
	}
	return sections
}
