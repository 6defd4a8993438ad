// Package stabilizer debounces a per-frame gesture stream into confirmed signs.
package stabilizer

import (
	"time"

	"github.com/signlang-ai/signstream/gesture"
)

// Window is both the initial confirmation delay and the re-confirmation
// cadence for a held sign.
const Window = 1000 * time.Millisecond

// Decision is the outcome of one Observe call.
type Decision struct {
	// Clear is set when the frame had no sign; the display should be emptied.
	Clear bool
	// Event is non-nil when the frame confirmed a sign.
	Event *gesture.ConfirmedEvent
}

// Stabilizer holds the single pending/confirmed candidate. It is not safe for
// concurrent use; the session loop owns it.
type Stabilizer struct {
	lastCandidate     string
	lastCandidateTime time.Time
}

func New(start time.Time) *Stabilizer {
	s := &Stabilizer{}
	s.Reset(start)
	return s
}

// Reset drops the current candidate and re-arms the window at the given instant.
func (s *Stabilizer) Reset(at time.Time) {
	s.lastCandidate = ""
	s.lastCandidateTime = at
}

// Candidate reports the current candidate label and when its window started.
func (s *Stabilizer) Candidate() (string, time.Time) {
	return s.lastCandidate, s.lastCandidateTime
}

func (s *Stabilizer) Observe(o gesture.Observation) Decision {
	if !o.HasSign() {
		return Decision{Clear: true}
	}
	if o.Label != s.lastCandidate {
		s.lastCandidate = o.Label
		s.lastCandidateTime = o.Timestamp
		return Decision{}
	}
	if o.Timestamp.Sub(s.lastCandidateTime) < Window {
		return Decision{}
	}
	s.lastCandidateTime = o.Timestamp
	return Decision{Event: &gesture.ConfirmedEvent{
		Sign:        o.Label,
		Score:       gesture.Percent(o.Score),
		ConfirmedAt: o.Timestamp,
	}}
}
