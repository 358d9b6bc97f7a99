package dictionary

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"redline/assert"
	"redline/types"
)

func writeAssets(t *testing.T, words, affixes string) *types.ProviderConfig {
	t.Helper()
	dir := t.TempDir()

	wordPath := filepath.Join(dir, "words.txt")
	affixPath := filepath.Join(dir, "affix.txt")
	assert.NoError(t, os.WriteFile(wordPath, []byte(words), 0o644), "writing word list")
	assert.NoError(t, os.WriteFile(affixPath, []byte(affixes), 0o644), "writing affix rules")

	return &types.ProviderConfig{
		WordListURL: wordPath,
		AffixURL:    affixPath,
	}
}

const testWords = "the\ncat\nsat\non\nmat\nhello\nworld\nreceive\nwalk\n"

func TestAnalyzeFlagsMisspellings(t *testing.T) {
	p, err := NewProvider(writeAssets(t, testWords, "s\ned\ning\n"))
	assert.NoError(t, err, "NewProvider")
	assert.True(t, p.Ready(), "provider ready")

	doc := "Teh cat sat."
	result, err := p.Analyze(context.Background(), &types.AnalyzeRequest{Text: doc})
	assert.NoError(t, err, "Analyze")
	assert.Equal(t, 1, len(result.Suggestions), "suggestion count")

	s := result.Suggestions[0]
	assert.Equal(t, "Teh", s.Original, "original")
	assert.Equal(t, "The", s.Suggested, "case-matched correction")
	assert.Equal(t, types.KindGrammar, s.Kind, "kind")
	assert.Equal(t, types.SourceDictionary, s.Source(), "source from ID prefix")
	assert.Equal(t, doc[s.Span.Start:s.Span.End], s.Original, "span hint points at original")
}

func TestAnalyzeAppliesRequestOffset(t *testing.T) {
	p, err := NewProvider(writeAssets(t, testWords, ""))
	assert.NoError(t, err, "NewProvider")

	result, err := p.Analyze(context.Background(), &types.AnalyzeRequest{Text: "teh cat", Offset: 100})
	assert.NoError(t, err, "Analyze")
	assert.Equal(t, 1, len(result.Suggestions), "suggestion count")
	assert.Equal(t, 100, result.Suggestions[0].Span.Start, "offset applied to span")
}

func TestAnalyzeSuffixStripping(t *testing.T) {
	p, err := NewProvider(writeAssets(t, testWords, "s\ned\ning\n"))
	assert.NoError(t, err, "NewProvider")

	// "walked" and "cats" are known via suffix stripping.
	result, err := p.Analyze(context.Background(), &types.AnalyzeRequest{Text: "the cats walked on the mat"})
	assert.NoError(t, err, "Analyze")
	assert.Equal(t, 0, len(result.Suggestions), "suffixed forms accepted")
}

func TestAnalyzeModelCorrection(t *testing.T) {
	p, err := NewProvider(writeAssets(t, testWords, ""))
	assert.NoError(t, err, "NewProvider")

	result, err := p.Analyze(context.Background(), &types.AnalyzeRequest{Text: "helo world"})
	assert.NoError(t, err, "Analyze")
	assert.Equal(t, 1, len(result.Suggestions), "suggestion count")
	assert.Equal(t, "hello", result.Suggestions[0].Suggested, "model correction")
	assert.True(t, result.Suggestions[0].Confidence > 0, "confidence set")
}

func TestAnalyzeCapturesContext(t *testing.T) {
	p, err := NewProvider(writeAssets(t, testWords, ""))
	assert.NoError(t, err, "NewProvider")

	doc := "the cat teh mat"
	result, err := p.Analyze(context.Background(), &types.AnalyzeRequest{Text: doc})
	assert.NoError(t, err, "Analyze")
	assert.Equal(t, 1, len(result.Suggestions), "suggestion count")

	s := result.Suggestions[0]
	assert.Equal(t, "the cat ", s.ContextBefore, "context before")
	assert.Equal(t, " mat", s.ContextAfter, "context after")
}

func TestMissingAssetsDegradeSilently(t *testing.T) {
	p, err := NewProvider(&types.ProviderConfig{
		WordListURL: "/nonexistent/words.txt",
		AffixURL:    "/nonexistent/affix.txt",
	})
	assert.NoError(t, err, "NewProvider tolerates missing assets")
	assert.False(t, p.Ready(), "provider not ready")

	result, err := p.Analyze(context.Background(), &types.AnalyzeRequest{Text: "teh"})
	assert.NoError(t, err, "Analyze on degraded provider")
	assert.Equal(t, 0, len(result.Suggestions), "no suggestions when degraded")
}
