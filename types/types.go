// Package types defines the suggestion data model shared across the
// analysis providers, the text algorithms, and the engine.
package types

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Source identifies which producer created a suggestion. It is encoded
// into the suggestion ID as a prefix so that provenance survives
// serialization and merge decisions can be made from the ID alone.
type Source string

const (
	SourceDictionary Source = "dict"
	SourceSemantic   Source = "sem"
)

// Kind categorizes what a suggestion is trying to improve.
type Kind string

const (
	KindGrammar    Kind = "grammar"
	KindTone       Kind = "tone"
	KindPersuasion Kind = "persuasion"
)

// Span is a half-open [Start, End) character-offset range into the
// current document text. A span is only meaningful relative to one
// specific snapshot of the text buffer.
type Span struct {
	Start int
	End   int
}

// Len returns the number of characters the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether two spans share at least one character.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && s.End > o.Start
}

// Valid reports whether the span is well formed against a document of
// the given length.
func (s Span) Valid(docLen int) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= docLen
}

// Suggestion is a proposed edit to the document.
//
// Invariant: while a suggestion is live, document[Span.Start:Span.End]
// equals Original. A suggestion that cannot be restored to this state
// is destroyed, never clamped.
type Suggestion struct {
	ID            string
	Kind          Kind
	Span          Span
	Original      string
	Suggested     string
	ContextBefore string
	ContextAfter  string
	Explanation   string
	Confidence    float64
}

// NewID returns a fresh suggestion ID carrying the source tag prefix.
func NewID(source Source) string {
	return string(source) + "-" + uuid.NewString()
}

// SuggestionSource extracts the producer tag from a suggestion ID.
// Unknown prefixes are treated as dictionary-sourced, the lowest
// priority, so malformed IDs can never displace better analysis.
func SuggestionSource(id string) Source {
	if strings.HasPrefix(id, string(SourceSemantic)+"-") {
		return SourceSemantic
	}
	return SourceDictionary
}

// Source returns the producer that created the suggestion.
func (s *Suggestion) Source() Source {
	return SuggestionSource(s.ID)
}

// MatchesText reports whether the suggestion's span still points at its
// original text in the given document snapshot.
func (s *Suggestion) MatchesText(text string) bool {
	if !s.Span.Valid(len(text)) {
		return false
	}
	return text[s.Span.Start:s.Span.End] == s.Original
}

// TextSection is a hashable unit of re-analysis scope. A section is
// "changed" iff no section with an identical hash existed in the
// previous partition of the document.
type TextSection struct {
	Hash       uint32
	Content    string
	StartIndex int
	EndIndex   int
}

// Settings holds per-user analysis preferences, supplied verbatim to
// the semantic provider.
type Settings struct {
	PreferredTone string   `msgpack:"preferred_tone"`
	WritingGoals  []string `msgpack:"writing_goals"`
}

// AnalyzeRequest is the input to an analysis producer.
type AnalyzeRequest struct {
	// Text is the content to analyze. For scoped passes this is the
	// concatenated changed-section text, not the whole document.
	Text string
	// Offset is the position of Text within the full document, used to
	// translate provider-relative hints into document offsets.
	Offset int
	// Settings are forwarded to providers that understand them.
	Settings Settings
}

// AnalyzeResult carries raw suggestions with best-effort spans. Every
// span is a hint: callers must verify it against the current document
// before showing anything.
type AnalyzeResult struct {
	Suggestions []*Suggestion
}

// Provider is an analysis producer: text in, suggestions out.
type Provider interface {
	Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResult, error)
}

// ProviderConfig carries the knobs shared by provider constructors.
type ProviderConfig struct {
	URL            string
	APIKey         string
	TimeoutMs      int
	AffixURL       string
	WordListURL    string
	MaxSuggestions int
}
