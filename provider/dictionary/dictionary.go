// Package dictionary implements the fast local analysis pass: a
// spell model built from two static text assets (affix rules and a
// word list), producing grammar suggestions for misspelled words.
package dictionary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"redline/logger"
	"redline/text"
	"redline/types"

	"github.com/agnivade/levenshtein"
	"github.com/sajari/fuzzy"
	"golang.org/x/sync/errgroup"
)

const (
	// contextRadius is how many characters of surrounding text are
	// captured to disambiguate repeated occurrences later.
	contextRadius = 10
	// minWordLen is the shortest word worth checking.
	minWordLen = 2
	// maxCandidateDistance rejects corrections too far from the typo.
	maxCandidateDistance = 3
	assetFetchTimeout    = 10 * time.Second
)

// confusions are common typos corrected before any model lookup.
var confusions = map[string]string{
	"teh":        "the",
	"adn":        "and",
	"taht":       "that",
	"thier":      "their",
	"recieve":    "receive",
	"seperate":   "separate",
	"definately": "definitely",
	"occured":    "occurred",
}

// Provider implements types.Provider using a local spell model. The
// two dictionary assets are loaded once at construction; if either is
// unavailable the provider degrades to producing no suggestions, a
// non-fatal condition by contract.
type Provider struct {
	mu       sync.RWMutex
	model    *fuzzy.Model
	suffixes []string
	known    map[string]bool
	ready    bool
}

// NewProvider creates the dictionary provider, fetching and training
// on the word list and affix assets. Asset unavailability is logged
// and swallowed: the returned provider simply produces nothing.
func NewProvider(config *types.ProviderConfig) (*Provider, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	p := &Provider{}

	var affixData, wordData string
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		var err error
		affixData, err = fetchAsset(ctx, config.AffixURL)
		return err
	})
	g.Go(func() error {
		var err error
		wordData, err = fetchAsset(ctx, config.WordListURL)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Warn("dictionary: assets unavailable, local checks disabled: %v", err)
		return p, nil
	}

	p.train(affixData, wordData)
	return p, nil
}

// Ready reports whether the dictionary assets loaded successfully.
func (p *Provider) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ready
}

// train builds the spell model from the raw asset contents.
func (p *Provider) train(affixData, wordData string) {
	model := fuzzy.NewModel()
	model.SetDepth(2)

	known := make(map[string]bool)
	for _, line := range strings.Split(wordData, "\n") {
		word := strings.ToLower(strings.TrimSpace(line))
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		model.TrainWord(word)
		known[word] = true
	}
	if len(known) == 0 {
		logger.Warn("dictionary: empty word list, local checks disabled")
		return
	}

	var suffixes []string
	for _, line := range strings.Split(affixData, "\n") {
		sfx := strings.TrimSpace(line)
		if sfx == "" || strings.HasPrefix(sfx, "#") {
			continue
		}
		suffixes = append(suffixes, strings.ToLower(sfx))
	}

	p.mu.Lock()
	p.model = model
	p.known = known
	p.suffixes = suffixes
	p.ready = true
	p.mu.Unlock()

	logger.Info("dictionary: trained on %d words, %d affix rules", len(known), len(suffixes))
}

// Analyze checks every word of the request text against the dictionary
// and emits a grammar suggestion per misspelling. Spans are hints into
// the full document (request offset applied); the caller re-verifies
// them before display.
func (p *Provider) Analyze(_ context.Context, req *types.AnalyzeRequest) (*types.AnalyzeResult, error) {
	defer logger.Trace("dictionary.Analyze")()

	p.mu.RLock()
	defer p.mu.RUnlock()

	result := &types.AnalyzeResult{}
	if !p.ready {
		return result, nil
	}

	for _, w := range text.Words(req.Text) {
		if len(w.Text) < minWordLen {
			continue
		}
		lower := strings.ToLower(w.Text)
		if p.isKnown(lower) {
			continue
		}

		correction, confidence := p.correct(lower)
		if correction == "" || correction == lower {
			continue
		}

		fixed := matchCase(w.Text, correction)
		result.Suggestions = append(result.Suggestions, &types.Suggestion{
			ID:            types.NewID(types.SourceDictionary),
			Kind:          types.KindGrammar,
			Span:          types.Span{Start: req.Offset + w.Start, End: req.Offset + w.End},
			Original:      w.Text,
			Suggested:     fixed,
			ContextBefore: contextBefore(req.Text, w.Start),
			ContextAfter:  contextAfter(req.Text, w.End),
			Explanation:   fmt.Sprintf("%q appears to be a misspelling of %q", w.Text, fixed),
			Confidence:    confidence,
		})
	}
	return result, nil
}

// isKnown reports whether the word, or the word with a known suffix
// stripped, is in the dictionary.
func (p *Provider) isKnown(word string) bool {
	if p.known[word] {
		return true
	}
	for _, sfx := range p.suffixes {
		if base, ok := strings.CutSuffix(word, sfx); ok && len(base) >= minWordLen && p.known[base] {
			return true
		}
	}
	return false
}

// correct returns the best correction for a misspelled word and a
// confidence derived from edit distance. The confusion list wins over
// the model; model candidates are ranked by levenshtein distance.
func (p *Provider) correct(word string) (string, float64) {
	if fix, ok := confusions[word]; ok {
		return fix, 0.95
	}

	best := ""
	bestDist := maxCandidateDistance + 1
	for _, candidate := range p.model.Suggestions(word, false) {
		candidate = strings.ToLower(candidate)
		if candidate == word {
			continue
		}
		d := levenshtein.ComputeDistance(word, candidate)
		if d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	if best == "" || bestDist > maxCandidateDistance {
		return "", 0
	}
	return best, 1.0 - float64(bestDist)/float64(max(len(word), 1))
}

// matchCase copies the leading capitalization of src onto fix.
func matchCase(src, fix string) string {
	if src == "" || fix == "" {
		return fix
	}
	if src[0] >= 'A' && src[0] <= 'Z' {
		return strings.ToUpper(fix[:1]) + fix[1:]
	}
	return fix
}

func contextBefore(text string, start int) string {
	from := max(0, start-contextRadius)
	return text[from:start]
}

func contextAfter(text string, end int) string {
	to := min(len(text), end+contextRadius)
	return text[end:to]
}

// fetchAsset loads a dictionary asset from an http(s) URL or a local
// file path.
func fetchAsset(ctx context.Context, location string) (string, error) {
	if location == "" {
		return "", fmt.Errorf("asset location not configured")
	}

	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		data, err := os.ReadFile(location)
		if err != nil {
			return "", fmt.Errorf("failed to read asset %s: %w", location, err)
		}
		return string(data), nil
	}

	ctx, cancel := context.WithTimeout(ctx, assetFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", location, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create asset request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch asset %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("asset fetch %s failed with status %d", location, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read asset body: %w", err)
	}
	return string(data), nil
}
