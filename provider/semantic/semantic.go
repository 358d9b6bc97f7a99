// Package semantic implements the deep analysis pass backed by the
// remote semantic service, producing tone and persuasion suggestions
// alongside grammar fixes the local dictionary cannot see.
package semantic

import (
	"context"
	"fmt"
	"sort"

	"redline/client/semanticapi"
	"redline/logger"
	"redline/types"
)

const (
	// minConfidence filters out suggestions the service itself is not
	// sure about.
	minConfidence = 0.7
	// defaultMaxSuggestions bounds how many suggestions a single pass
	// may surface when the config leaves the limit unset.
	defaultMaxSuggestions = 5
)

// Provider implements types.Provider against the remote semantic
// analysis service.
type Provider struct {
	client         *semanticapi.Client
	maxSuggestions int
}

// NewProvider creates the semantic provider from the shared config.
func NewProvider(config *types.ProviderConfig) (*Provider, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.URL == "" {
		return nil, fmt.Errorf("semantic service URL not configured")
	}

	maxSuggestions := config.MaxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = defaultMaxSuggestions
	}

	return &Provider{
		client:         semanticapi.NewClient(config.URL, config.APIKey, config.TimeoutMs),
		maxSuggestions: maxSuggestions,
	}, nil
}

// Analyze submits the text to the remote service and converts the wire
// suggestions into the internal model. Low-confidence entries are
// dropped, the rest capped at the configured limit, keeping the most
// confident ones. Wire positions become span hints shifted by the
// request offset; nothing here is verified against the document, the
// caller owns that.
func (p *Provider) Analyze(ctx context.Context, req *types.AnalyzeRequest) (*types.AnalyzeResult, error) {
	defer logger.Trace("semantic.Analyze")()

	wire, err := p.client.DoAnalyze(ctx, &semanticapi.AnalyzeRequest{
		Text:          req.Text,
		PreferredTone: req.Settings.PreferredTone,
		WritingGoals:  req.Settings.WritingGoals,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic analysis failed: %w", err)
	}

	kept := make([]*semanticapi.WireSuggestion, 0, len(wire))
	for _, ws := range wire {
		if ws.Confidence < minConfidence {
			logger.Debug("semantic: dropping low-confidence suggestion (%.2f): %q", ws.Confidence, ws.Original)
			continue
		}
		if ws.Original == "" || ws.Suggested == "" || ws.Original == ws.Suggested {
			continue
		}
		kept = append(kept, ws)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Confidence > kept[j].Confidence
	})
	if len(kept) > p.maxSuggestions {
		kept = kept[:p.maxSuggestions]
	}

	result := &types.AnalyzeResult{}
	for _, ws := range kept {
		start := req.Offset + ws.Position
		result.Suggestions = append(result.Suggestions, &types.Suggestion{
			ID:            types.NewID(types.SourceSemantic),
			Kind:          parseKind(ws.Kind),
			Span:          types.Span{Start: start, End: start + len(ws.Original)},
			Original:      ws.Original,
			Suggested:     ws.Suggested,
			ContextBefore: ws.ContextBefore,
			ContextAfter:  ws.ContextAfter,
			Explanation:   ws.Explanation,
			Confidence:    ws.Confidence,
		})
	}
	return result, nil
}

// parseKind maps the service's kind strings onto the internal enum.
// Unknown kinds default to grammar rather than failing the entry.
func parseKind(kind string) types.Kind {
	switch kind {
	case string(types.KindTone):
		return types.KindTone
	case string(types.KindPersuasion):
		return types.KindPersuasion
	default:
		return types.KindGrammar
	}
}
