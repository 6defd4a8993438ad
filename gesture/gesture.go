package gesture

import (
	"math"
	"strings"
	"time"
)

// Candidate is one ranked output of the external recognizer.
type Candidate struct {
	Label string  `json:"category_name"`
	Score float64 `json:"score"`
}

// Observation is one frame's classification result. An empty Label means no
// hand was detected.
type Observation struct {
	Label     string
	Score     float64 // [0,1]
	Timestamp time.Time
}

func (o Observation) HasSign() bool { return o.Label != "" }

// ConfirmedEvent marks a sign held for at least one debounce window.
type ConfirmedEvent struct {
	Sign        string    `json:"sign"`
	Score       int       `json:"score"` // percent
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// FromCandidates keeps only the top-ranked candidate.
func FromCandidates(cands []Candidate, ts time.Time) Observation {
	if len(cands) == 0 {
		return Observation{Timestamp: ts}
	}
	top := cands[0]
	return Observation{Label: strings.TrimSpace(top.Label), Score: top.Score, Timestamp: ts}
}

// Percent converts a [0,1] confidence to a rounded percentage in [0,100].
func Percent(score float64) int {
	if math.IsNaN(score) || score <= 0 {
		return 0
	}
	p := int(math.Round(score * 100))
	if p > 100 {
		return 100
	}
	return p
}
