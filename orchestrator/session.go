package orchestrator

import (
	"errors"
	"time"

	"github.com/signlang-ai/signstream/gesture"
	"github.com/signlang-ai/signstream/stabilizer"
	"github.com/signlang-ai/signstream/summary"
)

var ErrNotRunning = errors.New("session not running")

// Speaker receives the text of every confirmed sign. Fire-and-forget.
type Speaker interface {
	Say(text string)
}

// Display receives the live sign text and confidence percent every frame.
type Display interface {
	Show(text string, percent int)
}

// Session owns the bounds, the append-only event log and the stabilizer of
// one detection run. Observe must be called from a single goroutine.
type Session struct {
	StartedAt time.Time
	EndedAt   time.Time

	stab    *stabilizer.Stabilizer
	events  []gesture.ConfirmedEvent
	running bool

	speaker Speaker
	display Display
	metrics *Metrics

	shownText string
	shownPct  int
}

type Option func(*Session)

func WithSpeaker(s Speaker) Option { return func(ss *Session) { ss.speaker = s } }
func WithDisplay(d Display) Option { return func(ss *Session) { ss.display = d } }
func WithMetrics(m *Metrics) Option { return func(ss *Session) { ss.metrics = m } }

func NewSession(opts ...Option) *Session {
	s := &Session{}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start resets the stabilizer and begins a fresh event log.
func (s *Session) Start(now time.Time) {
	if s.stab == nil {
		s.stab = stabilizer.New(now)
	} else {
		s.stab.Reset(now)
	}
	s.StartedAt = now
	s.EndedAt = time.Time{}
	s.events = nil
	s.running = true
	s.shownText, s.shownPct = "", 0
}

func (s *Session) Running() bool { return s.running }

// Observe feeds one frame. It returns the confirmed event, if any. Frames
// arriving while the session is stopped are ignored.
func (s *Session) Observe(o gesture.Observation) *gesture.ConfirmedEvent {
	if !s.running {
		return nil
	}
	s.metrics.observed(o.HasSign())

	d := s.stab.Observe(o)
	switch {
	case d.Clear:
		s.shownText, s.shownPct = "", 0
	case d.Event != nil:
		s.events = append(s.events, *d.Event)
		s.shownText, s.shownPct = d.Event.Sign, d.Event.Score
		s.metrics.confirmed(d.Event.Sign)
		if s.speaker != nil {
			s.speaker.Say(d.Event.Sign)
		}
	}
	if s.display != nil {
		s.display.Show(s.shownText, s.shownPct)
	}
	return d.Event
}

// Events returns a copy of the log collected so far.
func (s *Session) Events() []gesture.ConfirmedEvent {
	return append([]gesture.ConfirmedEvent(nil), s.events...)
}

// Stop freezes the log and summarizes it. The summary is produced even when
// nothing was confirmed.
func (s *Session) Stop(now time.Time) (summary.SessionSummary, error) {
	if !s.running {
		return summary.SessionSummary{}, ErrNotRunning
	}
	s.running = false
	s.EndedAt = now
	s.stab.Reset(now)
	if s.display != nil && s.shownText != "" {
		s.display.Show("", 0)
	}
	s.shownText, s.shownPct = "", 0

	sum := summary.Summarize(s.events, s.StartedAt, s.EndedAt)
	s.metrics.sessionDone(sum.SecondsSpent)
	return sum, nil
}
