// Package engine schedules analysis passes over a live-edited document
// and owns the suggestion lifecycle: keystrokes in, verified
// suggestions out, applies and dismissals handled in between.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"redline/logger"
	"redline/metrics"
	"redline/text"
	"redline/types"
	"redline/utils"
)

type state int

const (
	stateIdle state = iota
	statePendingImmediate
	statePendingDebounced
	stateAnalyzing
)

// Config holds the engine's scheduling knobs.
type Config struct {
	// ImmediateDelay is the debounce before the small-window dictionary
	// check after a completed word (default 150ms).
	ImmediateDelay time.Duration
	// IdleDelay is the debounce before the full changed-section pass
	// (default 2s).
	IdleDelay time.Duration
	// AnalysisTimeout bounds each provider call (default 10s).
	AnalysisTimeout time.Duration
	// MaxRemoteTokens trims the changed-section payload sent to the
	// semantic provider (0 = no limit).
	MaxRemoteTokens int
	// RecentWordWindow is how many trailing words the immediate
	// dictionary check covers (default 3).
	RecentWordWindow int
	// OnWarning is invoked for remote failures on the manual analysis
	// path only; automatic failures stay silent. May be nil.
	OnWarning func(msg string)
}

const (
	defaultImmediateDelay   = 150 * time.Millisecond
	defaultIdleDelay        = 2 * time.Second
	defaultAnalysisTimeout  = 10 * time.Second
	defaultRecentWordWindow = 3
)

// Engine runs the analysis scheduler and owns the editor surface. All
// state mutations are serialized: the event loop and the public
// surface methods share one mutex, so callbacks and calls never
// overlap.
type Engine struct {
	dictionary types.Provider
	semantic   types.Provider
	sender     metrics.Sender

	surface  *Surface
	cache    *sectionCache
	settings types.Settings

	state          state
	inFlight       int
	immediateTimer *time.Timer
	idleTimer      *time.Timer

	mu        sync.RWMutex
	eventChan chan Event

	mainCtx    context.Context
	mainCancel context.CancelFunc
	stopped    bool
	stopOnce   sync.Once

	config Config
}

// NewEngine creates an engine over the two analysis producers. Either
// provider may be nil, its pass is then skipped. A nil sender gets the
// no-op implementation.
func NewEngine(dictionary, semantic types.Provider, sender metrics.Sender, config Config) *Engine {
	if config.ImmediateDelay <= 0 {
		config.ImmediateDelay = defaultImmediateDelay
	}
	if config.IdleDelay <= 0 {
		config.IdleDelay = defaultIdleDelay
	}
	if config.AnalysisTimeout <= 0 {
		config.AnalysisTimeout = defaultAnalysisTimeout
	}
	if config.RecentWordWindow <= 0 {
		config.RecentWordWindow = defaultRecentWordWindow
	}
	if sender == nil {
		sender = metrics.Nop{}
	}

	return &Engine{
		dictionary: dictionary,
		semantic:   semantic,
		sender:     sender,
		surface:    &Surface{},
		cache:      newSectionCache(),
		state:      stateIdle,
		eventChan:  make(chan Event, 100),
		config:     config,
	}
}

// Start launches the event loop.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.mainCtx, e.mainCancel = context.WithCancel(ctx)
	e.mu.Unlock()

	go e.eventLoop(e.mainCtx)
	logger.Info("engine started")
}

// Stop shuts the engine down and releases its timers. Safe to call
// more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		e.stopped = true
		if e.mainCancel != nil {
			e.mainCancel()
		}
		e.stopImmediateTimer()
		e.stopIdleTimer()

		logger.Info("engine stopped")
	})
}

func (e *Engine) eventLoop(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event loop panic recovered: %v", r)
			e.eventLoop(e.mainCtx)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-e.eventChan:
			if !ok {
				return
			}

			e.mu.RLock()
			stopped := e.stopped
			e.mu.RUnlock()
			if stopped {
				return
			}

			func() {
				defer func() {
					if r := recover(); r != nil {
						logger.Error("event handler panic recovered for event %v: %v", event.Type, r)
					}
				}()
				e.handleEvent(event)
			}()
		}
	}
}

func (e *Engine) handleEvent(event Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return
	}

	logger.Debug("handle event: %v", event.Type)

	switch event.Type {
	case EventTextChanged:
		e.handleTextChange(event.Data.(*textChange))
	case EventImmediateTimeout:
		e.handleImmediateTimeout()
	case EventIdleTimeout:
		e.handleIdleTimeout()
	case EventAnalyzeRequested:
		e.handleManualAnalyze()
	case EventAnalysisReady:
		e.handleAnalysisReady(event.Data.(*analysisOutcome))
	case EventAnalysisError:
		e.handleAnalysisError(event.Data.(*analysisFailure))
	}
}

// SetDocument switches the engine to a new document session, clearing
// the suggestion set, the section cache, and any pending timers.
func (e *Engine) SetDocument(id, content string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return
	}

	e.stopImmediateTimer()
	e.stopIdleTimer()
	e.surface.setDocument(id, content)
	e.cache.reset()
	e.state = stateIdle
	logger.Info("document session %q opened (%d chars)", id, len(content))
}

// SetSettings updates the user preferences forwarded to the semantic
// provider on subsequent passes.
func (e *Engine) SetSettings(settings types.Settings) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings = settings
}

// UpdateText feeds a new buffer snapshot to the scheduler. Non-blocking;
// repositioning and scheduling happen on the event loop.
func (e *Engine) UpdateText(newText string, caret int) {
	e.mu.RLock()
	stopped := e.stopped
	mainCtx := e.mainCtx
	e.mu.RUnlock()
	if stopped || mainCtx == nil {
		return
	}

	select {
	case e.eventChan <- Event{Type: EventTextChanged, Data: &textChange{Text: newText, Caret: caret}}:
	case <-mainCtx.Done():
	}
}

// AnalyzeNow requests a manual full-document pass. Remote failures on
// this path are surfaced through Config.OnWarning.
func (e *Engine) AnalyzeNow() {
	e.mu.RLock()
	stopped := e.stopped
	mainCtx := e.mainCtx
	e.mu.RUnlock()
	if stopped || mainCtx == nil {
		return
	}

	select {
	case e.eventChan <- Event{Type: EventAnalyzeRequested}:
	case <-mainCtx.Done():
	}
}

// ErrSuggestionGone is returned by Apply when the target text is no
// longer present at the suggestion's span. The suggestion is left in
// place and the document untouched.
var ErrSuggestionGone = errors.New("suggestion target text no longer present")

// Apply splices a suggestion's replacement into the document. The span
// is re-verified first; on mismatch the document is not modified and
// the suggestion stays live so the user can retry or dismiss it.
func (e *Engine) Apply(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sg := e.surface.find(id)
	if sg == nil {
		return fmt.Errorf("no live suggestion %q", id)
	}
	if !sg.MatchesText(e.surface.text) {
		logger.Warn("apply rejected for %s: span no longer matches", id)
		return fmt.Errorf("apply %s: %w", id, ErrSuggestionGone)
	}

	e.surface.apply(sg)
	e.cache.record(e.surface.suggestions)
	e.notify(metrics.EventAccepted, sg)
	return nil
}

// Dismiss removes a suggestion without touching the document.
func (e *Engine) Dismiss(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sg := e.surface.find(id)
	if sg == nil {
		return fmt.Errorf("no live suggestion %q", id)
	}
	e.surface.removeByID(id)
	e.cache.record(e.surface.suggestions)
	e.notify(metrics.EventDismissed, sg)
	return nil
}

// Select marks a live suggestion as the user's current focus. The
// selection follows the suggestion through repositioning and is
// cleared the moment the suggestion leaves the live set.
func (e *Engine) Select(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.surface.find(id) == nil {
		return fmt.Errorf("no live suggestion %q", id)
	}
	e.surface.selectedID = id
	return nil
}

// ClearSelection drops the current selection, if any.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.surface.selectedID = ""
}

// Selected returns a copy of the currently selected suggestion, with
// its span current for the present buffer, or nil when nothing is
// selected.
func (e *Engine) Selected() *types.Suggestion {
	e.mu.RLock()
	defer e.mu.RUnlock()

	sg := e.surface.find(e.surface.selectedID)
	if sg == nil {
		return nil
	}
	cp := *sg
	return &cp
}

// Suggestions returns a copy of the live suggestion set, sorted by
// span start.
func (e *Engine) Suggestions() []*types.Suggestion {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.surface.snapshot()
}

// Text returns the current document buffer.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.surface.text
}

// Caret returns the current caret offset.
func (e *Engine) Caret() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.surface.caret
}

func (e *Engine) handleTextChange(change *textChange) {
	e.surface.updateText(change.Text, change.Caret)

	if _, ok := text.CompletedWord(change.Text, change.Caret); ok {
		e.startImmediateTimer()
		e.state = statePendingImmediate
	} else if e.state == stateIdle {
		e.state = statePendingDebounced
	}
	e.resetIdleTimer()
}

// handleImmediateTimeout runs the bounded dictionary check over the
// last few words typed.
func (e *Engine) handleImmediateTimeout() {
	window, offset := text.LastWords(e.surface.text, e.surface.caret, e.config.RecentWordWindow)
	if window == "" {
		e.state = stateIdle
		return
	}
	e.launchAnalysis(e.dictionary, &types.AnalyzeRequest{
		Text:     window,
		Offset:   offset,
		Settings: e.settings,
	}, false)
}

// handleIdleTimeout runs the debounced changed-section pass: local
// dictionary results merge immediately per section, the semantic call
// goes out as one background task over the concatenated changed text.
func (e *Engine) handleIdleTimeout() {
	curr := text.SplitSections(e.surface.text)
	changed := e.cache.changed(curr)
	if len(changed) == 0 {
		e.state = stateIdle
		return
	}

	var remote []types.TextSection
	for _, sec := range changed {
		if cached, ok := e.cache.lookup(sec.Hash); ok {
			// The section's content was seen before; restore its old
			// suggestions instead of re-querying.
			e.mergeIncoming(cached)
			continue
		}
		e.launchAnalysis(e.dictionary, &types.AnalyzeRequest{
			Text:     sec.Content,
			Offset:   sec.StartIndex,
			Settings: e.settings,
		}, false)
		remote = append(remote, sec)
	}

	if len(remote) > 0 {
		if e.config.MaxRemoteTokens > 0 {
			remote = utils.TrimSectionsToTokens(remote, e.config.MaxRemoteTokens)
		}
		contents := make([]string, len(remote))
		for i, sec := range remote {
			contents[i] = sec.Content
		}
		e.launchAnalysis(e.semantic, &types.AnalyzeRequest{
			Text:     strings.Join(contents, "\n\n"),
			Settings: e.settings,
		}, false)
	}

	if e.inFlight == 0 {
		e.state = stateIdle
	}
}

// handleManualAnalyze runs both passes over the whole document.
func (e *Engine) handleManualAnalyze() {
	e.launchAnalysis(e.dictionary, &types.AnalyzeRequest{Text: e.surface.text, Settings: e.settings}, false)
	e.launchAnalysis(e.semantic, &types.AnalyzeRequest{Text: e.surface.text, Settings: e.settings}, true)
}

// launchAnalysis fires one provider call as a background task posting
// its outcome back to the loop. In-flight calls are never cancelled; a
// stale result is sanitized against the current text on arrival.
func (e *Engine) launchAnalysis(provider types.Provider, req *types.AnalyzeRequest, manual bool) {
	if provider == nil || e.stopped || e.mainCtx == nil {
		return
	}

	e.inFlight++
	e.state = stateAnalyzing

	ctx, cancel := context.WithTimeout(e.mainCtx, e.config.AnalysisTimeout)
	go func() {
		defer cancel()

		result, err := provider.Analyze(ctx, req)
		if err != nil {
			select {
			case e.eventChan <- Event{Type: EventAnalysisError, Data: &analysisFailure{err: err, manual: manual}}:
			case <-e.mainCtx.Done():
			}
			return
		}

		select {
		case e.eventChan <- Event{Type: EventAnalysisReady, Data: &analysisOutcome{suggestions: result.Suggestions, manual: manual}}:
		case <-e.mainCtx.Done():
		}
	}()
}

func (e *Engine) handleAnalysisReady(outcome *analysisOutcome) {
	e.inFlight--
	e.mergeIncoming(outcome.suggestions)
	if e.inFlight <= 0 {
		e.inFlight = 0
		e.state = stateIdle
	}
}

func (e *Engine) handleAnalysisError(failure *analysisFailure) {
	e.inFlight--
	if e.inFlight <= 0 {
		e.inFlight = 0
		e.state = stateIdle
	}

	if errors.Is(failure.err, context.Canceled) {
		logger.Debug("analysis canceled: %v", failure.err)
		return
	}
	if failure.manual {
		logger.Warn("manual analysis failed: %v", failure.err)
		if e.config.OnWarning != nil {
			go e.config.OnWarning(fmt.Sprintf("analysis failed: %v", failure.err))
		}
		return
	}
	logger.Debug("background analysis failed: %v", failure.err)
}

// mergeIncoming resolves raw suggestions against the current text and
// merges survivors into the live set. Runs against whatever the buffer
// is now, not the text at request time.
func (e *Engine) mergeIncoming(incoming []*types.Suggestion) {
	resolved := e.resolveIncoming(incoming)
	if len(resolved) == 0 && len(e.surface.suggestions) == 0 {
		return
	}

	before := e.surface.liveIDs()
	e.surface.suggestions = text.Merge(e.surface.suggestions, resolved, e.surface.text)
	e.surface.syncSelection()
	e.cache.record(e.surface.suggestions)

	for _, sg := range e.surface.suggestions {
		if !before[sg.ID] {
			e.notify(metrics.EventShown, sg)
		}
	}
}

// resolveIncoming verifies every raw suggestion's span against the
// current buffer, correcting drifted hints and dropping anything that
// cannot be pinned to verbatim text.
func (e *Engine) resolveIncoming(incoming []*types.Suggestion) []*types.Suggestion {
	docText := e.surface.text
	var out []*types.Suggestion
	for _, sg := range incoming {
		loc := text.Locate(docText, sg.Original, sg.Span.Start, sg.Span.End, sg.ContextBefore, sg.ContextAfter)
		if !loc.Found {
			logger.Debug("dropping unlocatable suggestion %s (%q)", sg.ID, sg.Original)
			continue
		}
		sg.Span = types.Span{Start: loc.Start, End: loc.End}
		if !sg.MatchesText(docText) {
			logger.Debug("dropping non-verbatim suggestion %s (%q)", sg.ID, sg.Original)
			continue
		}
		out = append(out, sg)
	}
	return out
}

func (e *Engine) notify(eventType metrics.EventType, sg *types.Suggestion) {
	ctx := e.mainCtx
	if ctx == nil {
		ctx = context.Background()
	}
	e.sender.SendMetric(ctx, metrics.Event{
		Type: eventType,
		Info: metrics.SuggestionInfo{
			ID:         sg.ID,
			Kind:       string(sg.Kind),
			Confidence: sg.Confidence,
			ShownAt:    time.Now(),
		},
	})
}
