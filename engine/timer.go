package engine

import "time"

// post delivers a timer-fired event unless the engine has stopped.
func (e *Engine) post(eventType EventType) {
	e.mu.RLock()
	stopped := e.stopped
	mainCtx := e.mainCtx
	e.mu.RUnlock()

	if stopped || mainCtx == nil {
		return
	}

	select {
	case e.eventChan <- Event{Type: eventType}:
	case <-mainCtx.Done():
	}
}

func (e *Engine) startImmediateTimer() {
	e.stopImmediateTimer()
	e.immediateTimer = time.AfterFunc(e.config.ImmediateDelay, func() {
		e.post(EventImmediateTimeout)
	})
}

func (e *Engine) stopImmediateTimer() {
	if e.immediateTimer != nil {
		e.immediateTimer.Stop()
		e.immediateTimer = nil
	}
}

func (e *Engine) startIdleTimer() {
	e.stopIdleTimer()
	e.idleTimer = time.AfterFunc(e.config.IdleDelay, func() {
		e.post(EventIdleTimeout)
	})
}

func (e *Engine) stopIdleTimer() {
	if e.idleTimer != nil {
		e.idleTimer.Stop()
		e.idleTimer = nil
	}
}

// resetIdleTimer implements trailing debounce: only the most recent
// timer ever fires.
func (e *Engine) resetIdleTimer() {
	e.stopIdleTimer()
	e.startIdleTimer()
}
