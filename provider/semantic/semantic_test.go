package semantic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"redline/assert"
	"redline/types"

	"github.com/andybalholm/brotli"
)

func fakeService(t *testing.T, response any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(brotli.NewReader(r.Body))
		assert.NoError(t, err, "decompressing request")
		var req map[string]any
		assert.NoError(t, json.Unmarshal(body, &req), "decoding request")

		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(response), "encoding response")
	}))
}

func wireEntry(kind, original, suggested string, position int, confidence float64) map[string]any {
	return map[string]any{
		"id":         "srv-1",
		"kind":       kind,
		"original":   original,
		"suggested":  suggested,
		"position":   position,
		"confidence": confidence,
	}
}

func TestAnalyzeMapsWireSuggestions(t *testing.T) {
	srv := fakeService(t, map[string]any{
		"suggestions": []any{
			wireEntry("tone", "very unique", "unique", 10, 0.9),
		},
	})
	defer srv.Close()

	p, err := NewProvider(&types.ProviderConfig{URL: srv.URL})
	assert.NoError(t, err, "NewProvider")

	result, err := p.Analyze(context.Background(), &types.AnalyzeRequest{Text: "some text", Offset: 40})
	assert.NoError(t, err, "Analyze")
	assert.Equal(t, 1, len(result.Suggestions), "suggestion count")

	s := result.Suggestions[0]
	assert.Equal(t, types.KindTone, s.Kind, "kind")
	assert.Equal(t, types.SourceSemantic, s.Source(), "source from ID prefix")
	assert.Equal(t, 50, s.Span.Start, "position shifted by offset")
	assert.Equal(t, 50+len("very unique"), s.Span.End, "span end from original length")
	assert.Equal(t, "very unique", s.Original, "original")
	assert.Equal(t, "unique", s.Suggested, "suggested")
}

func TestAnalyzeFiltersLowConfidence(t *testing.T) {
	srv := fakeService(t, map[string]any{
		"suggestions": []any{
			wireEntry("grammar", "teh", "the", 0, 0.5),
			wireEntry("tone", "really good", "excellent", 8, 0.85),
		},
	})
	defer srv.Close()

	p, err := NewProvider(&types.ProviderConfig{URL: srv.URL})
	assert.NoError(t, err, "NewProvider")

	result, err := p.Analyze(context.Background(), &types.AnalyzeRequest{Text: "some text"})
	assert.NoError(t, err, "Analyze")
	assert.Equal(t, 1, len(result.Suggestions), "low-confidence entry dropped")
	assert.Equal(t, "really good", result.Suggestions[0].Original, "kept the confident entry")
}

func TestAnalyzeCapsSuggestionCount(t *testing.T) {
	entries := []any{
		wireEntry("tone", "a1", "b1", 0, 0.71),
		wireEntry("tone", "a2", "b2", 5, 0.99),
		wireEntry("tone", "a3", "b3", 10, 0.72),
	}
	srv := fakeService(t, map[string]any{"suggestions": entries})
	defer srv.Close()

	p, err := NewProvider(&types.ProviderConfig{URL: srv.URL, MaxSuggestions: 2})
	assert.NoError(t, err, "NewProvider")

	result, err := p.Analyze(context.Background(), &types.AnalyzeRequest{Text: "some text"})
	assert.NoError(t, err, "Analyze")
	assert.Equal(t, 2, len(result.Suggestions), "capped at max")
	assert.Equal(t, "a2", result.Suggestions[0].Original, "most confident kept first")
}

func TestAnalyzeUnknownKindDefaultsToGrammar(t *testing.T) {
	srv := fakeService(t, map[string]any{
		"suggestions": []any{
			wireEntry("style", "utilize", "use", 0, 0.8),
		},
	})
	defer srv.Close()

	p, err := NewProvider(&types.ProviderConfig{URL: srv.URL})
	assert.NoError(t, err, "NewProvider")

	result, err := p.Analyze(context.Background(), &types.AnalyzeRequest{Text: "utilize this"})
	assert.NoError(t, err, "Analyze")
	assert.Equal(t, 1, len(result.Suggestions), "suggestion count")
	assert.Equal(t, types.KindGrammar, result.Suggestions[0].Kind, "unknown kind defaulted")
}

func TestAnalyzeServiceErrorPropagates(t *testing.T) {
	srv := fakeService(t, map[string]any{"error": "rate limited"})
	defer srv.Close()

	p, err := NewProvider(&types.ProviderConfig{URL: srv.URL})
	assert.NoError(t, err, "NewProvider")

	_, err = p.Analyze(context.Background(), &types.AnalyzeRequest{Text: "some text"})
	assert.Error(t, err, "service error surfaces")
}

func TestNewProviderRequiresURL(t *testing.T) {
	_, err := NewProvider(&types.ProviderConfig{})
	assert.Error(t, err, "missing URL rejected")
}
