package stabilizer

import (
	"testing"
	"time"

	"github.com/signlang-ai/signstream/gesture"
)

var t0 = time.Date(2024, 4, 25, 10, 0, 0, 0, time.UTC)

func obs(label string, score float64, ms int) gesture.Observation {
	return gesture.Observation{Label: label, Score: score, Timestamp: t0.Add(time.Duration(ms) * time.Millisecond)}
}

func feed(s *Stabilizer, in []gesture.Observation) []gesture.ConfirmedEvent {
	var out []gesture.ConfirmedEvent
	for _, o := range in {
		if d := s.Observe(o); d.Event != nil {
			out = append(out, *d.Event)
		}
	}
	return out
}

func TestHeldSignConfirmsOncePerWindow(t *testing.T) {
	s := New(t0)
	var in []gesture.Observation
	// 60 fps-ish frames for 3.5s
	for ms := 0; ms <= 3500; ms += 16 {
		in = append(in, obs("Hello", 0.9, ms))
	}
	events := feed(s, in)
	if len(events) != 3 {
		t.Fatalf("expected 3 confirmations, got %d", len(events))
	}
	first := events[0].ConfirmedAt.Sub(t0)
	if first < Window {
		t.Fatalf("first confirmation too early: %s", first)
	}
	for i := 1; i < len(events); i++ {
		gap := events[i].ConfirmedAt.Sub(events[i-1].ConfirmedAt)
		if gap < Window {
			t.Fatalf("re-confirmation gap %s below window", gap)
		}
	}
	if events[0].Sign != "Hello" || events[0].Score != 90 {
		t.Fatalf("unexpected event %+v", events[0])
	}
}

func TestConfirmAtExactWindowBoundary(t *testing.T) {
	s := New(t0)
	if d := s.Observe(obs("A", 0.5, 0)); d.Event != nil {
		t.Fatalf("fresh candidate must not confirm")
	}
	if d := s.Observe(obs("A", 0.5, 999)); d.Event != nil {
		t.Fatalf("confirmed before window")
	}
	d := s.Observe(obs("A", 0.5, 1000))
	if d.Event == nil {
		t.Fatalf("expected confirmation at window boundary")
	}
	if d.Event.Score != 50 {
		t.Fatalf("expected score 50, got %d", d.Event.Score)
	}
	if d := s.Observe(obs("A", 0.5, 1999)); d.Event != nil {
		t.Fatalf("re-armed window not honoured")
	}
	if d := s.Observe(obs("A", 0.5, 2000)); d.Event == nil {
		t.Fatalf("expected re-confirmation")
	}
}

func TestFlickerSuppressed(t *testing.T) {
	s := New(t0)
	in := []gesture.Observation{
		obs("A", 0.9, 0),
		obs("B", 0.6, 16),
		obs("A", 0.9, 32),
		obs("A", 0.9, 600),
	}
	if events := feed(s, in); len(events) != 0 {
		t.Fatalf("flicker produced %d events", len(events))
	}
	// B interrupted A, so A restarted its window at 32ms
	if d := s.Observe(obs("A", 0.9, 1010)); d.Event != nil {
		t.Fatalf("window should restart after flicker")
	}
	if d := s.Observe(obs("A", 0.9, 1032)); d.Event == nil {
		t.Fatalf("expected confirmation once restarted window elapsed")
	}
}

func TestNoHandKeepsCandidate(t *testing.T) {
	s := New(t0)
	s.Observe(obs("A", 0.8, 0))
	label, at := s.Candidate()

	d := s.Observe(obs("", 0, 500))
	if !d.Clear || d.Event != nil {
		t.Fatalf("no-hand frame must clear and emit nothing: %+v", d)
	}
	gotLabel, gotAt := s.Candidate()
	if gotLabel != label || !gotAt.Equal(at) {
		t.Fatalf("no-hand frame mutated state: %q %s", gotLabel, gotAt)
	}
	if d := s.Observe(obs("A", 0.8, 1000)); d.Event == nil {
		t.Fatalf("candidate should survive a no-hand gap")
	}
}

func TestInitialEmptyCandidateNeverMatches(t *testing.T) {
	s := New(t0)
	if d := s.Observe(obs("A", 1, 5000)); d.Event != nil {
		t.Fatalf("first appearance must wait a full window")
	}
}

func TestReset(t *testing.T) {
	s := New(t0)
	s.Observe(obs("A", 0.8, 0))
	later := t0.Add(10 * time.Second)
	s.Reset(later)
	label, at := s.Candidate()
	if label != "" || !at.Equal(later) {
		t.Fatalf("reset did not restore initial state")
	}
}
