// Package session owns per-document scheduling state: quick checks run
// synchronously on every edit, the full pipeline runs after a quiet period
// or an explicit trigger, and results that arrive after the document has
// moved on are discarded unpublished.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/harrison/promptcheck/internal/analyzer"
	"github.com/harrison/promptcheck/internal/logger"
	"github.com/harrison/promptcheck/internal/models"
)

// State is a session's scheduling state. There is no quick-pending state:
// the quick profile resolves synchronously before OnChange returns.
type State int

const (
	StateIdle State = iota
	StateFullScheduled
	StateFullRunning
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFullScheduled:
		return "full-scheduled"
	case StateFullRunning:
		return "full-running"
	default:
		return "unknown"
	}
}

// PublishFunc receives findings for a document version. Quick findings are
// published on every edit; full findings only when their version is still
// current.
type PublishFunc func(identifier string, version int64, findings []models.Finding)

// Session is the debounce controller for one open document. Methods are safe
// for concurrent use.
type Session struct {
	identifier    string
	workspaceRoot string
	analyzer      *analyzer.Analyzer
	publish       PublishFunc
	log           logger.Logger
	delay         time.Duration

	mu      sync.Mutex
	version int64
	text    string
	state   State
	timer   *time.Timer
	running bool
	closed  bool
}

// NewSession creates a session for one document identifier.
func NewSession(identifier, workspaceRoot string, a *analyzer.Analyzer, delay time.Duration, publish PublishFunc, log logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	if publish == nil {
		publish = func(string, int64, []models.Finding) {}
	}
	return &Session{
		identifier:    identifier,
		workspaceRoot: workspaceRoot,
		analyzer:      a,
		publish:       publish,
		log:           log,
		delay:         delay,
		state:         StateIdle,
	}
}

// Version returns the current document version counter.
func (s *Session) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// State returns the current scheduling state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OnChange accepts a new text snapshot: it cancels any armed timer, runs the
// quick rule profile synchronously, publishes those findings, and re-arms
// the timer for the full pipeline. The quick findings are returned.
func (s *Session) OnChange(text string) []models.Finding {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.version++
	version := s.version
	s.text = text
	s.stopTimerLocked()
	s.state = StateFullScheduled
	s.timer = time.AfterFunc(s.delay, func() {
		s.runFull(context.Background())
	})
	s.mu.Unlock()

	findings := s.analyzer.AnalyzeQuick(text, s.identifier, s.workspaceRoot)
	s.publish(s.identifier, version, findings)
	return findings
}

// OnOpen accepts the opening snapshot and triggers the full pipeline
// immediately.
func (s *Session) OnOpen(text string) {
	s.trigger(text)
}

// OnSave accepts the saved snapshot and triggers the full pipeline
// immediately.
func (s *Session) OnSave(text string) {
	s.trigger(text)
}

// Reanalyze invalidates the whole shared cache, then triggers the full
// pipeline, forcing a fresh result even if hashes coincidentally match.
func (s *Session) Reanalyze() {
	s.analyzer.InvalidateCache()
	s.mu.Lock()
	text := s.text
	s.mu.Unlock()
	s.trigger(text)
}

// Close cancels any armed timer. In-flight runs finish but their results are
// discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.version++
	s.stopTimerLocked()
	s.state = StateIdle
}

// trigger stores a snapshot and starts a full run without waiting for the
// quiet period.
func (s *Session) trigger(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.version++
	s.text = text
	s.stopTimerLocked()
	s.mu.Unlock()

	go s.runFull(context.Background())
}

// runFull executes the full pipeline for the current snapshot. If the
// version advances while the run is in flight (a concurrent edit arrived),
// the computed result is discarded unpublished rather than overwriting newer
// quick-profile findings with stale data.
func (s *Session) runFull(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.running {
		// One in-flight run per document; retry after the current one.
		s.stopTimerLocked()
		s.timer = time.AfterFunc(s.delay, func() {
			s.runFull(context.Background())
		})
		s.mu.Unlock()
		return
	}
	s.running = true
	s.state = StateFullRunning
	version := s.version
	text := s.text
	s.mu.Unlock()

	findings := s.analyzer.Analyze(ctx, text, s.identifier, s.workspaceRoot)

	s.mu.Lock()
	s.running = false
	stale := s.version != version || s.closed
	if s.state == StateFullRunning {
		s.state = StateIdle
	}
	s.mu.Unlock()

	if stale {
		s.log.LogDebug(fmt.Sprintf("discarding stale analysis of %s (version moved past %d)", s.identifier, version))
		return
	}

	s.publish(s.identifier, version, findings)
}

// stopTimerLocked cancels an armed timer. Callers hold s.mu.
func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
