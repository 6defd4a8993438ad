// Package summary collapses a session's confirmed-event log into a ranked
// top-N report.
package summary

import (
	"sort"
	"time"

	"github.com/signlang-ai/signstream/gesture"
)

// TopN caps the number of ranked signs in a summary.
const TopN = 5

type SignCount struct {
	Sign  string `json:"SignDetected" yaml:"sign"`
	Count int    `json:"count" yaml:"count"`
}

type SessionSummary struct {
	TopSigns     []SignCount `json:"signsPerformed" yaml:"signs_performed"`
	SecondsSpent float64     `json:"secondsSpent" yaml:"seconds_spent"`
	StartedAt    time.Time   `json:"startedAt" yaml:"started_at"`
	EndedAt      time.Time   `json:"endedAt" yaml:"ended_at"`
}

// Summarize is a pure function of the event log and the session bounds.
func Summarize(events []gesture.ConfirmedEvent, startedAt, endedAt time.Time) SessionSummary {
	occ := Collapse(Filter(events))
	ranked := Rank(Count(occ))
	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}
	return SessionSummary{
		TopSigns:     ranked,
		SecondsSpent: Seconds(endedAt.Sub(startedAt)),
		StartedAt:    startedAt,
		EndedAt:      endedAt,
	}
}

// Filter drops malformed events: empty sign or a score outside [0,100].
func Filter(events []gesture.ConfirmedEvent) []gesture.ConfirmedEvent {
	out := make([]gesture.ConfirmedEvent, 0, len(events))
	for _, e := range events {
		if e.Sign == "" || e.Score < 0 || e.Score > 100 {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Collapse keeps the first event of every run of consecutive identical signs.
// Scores do not split a run.
func Collapse(events []gesture.ConfirmedEvent) []gesture.ConfirmedEvent {
	out := make([]gesture.ConfirmedEvent, 0, len(events))
	for i, e := range events {
		if i > 0 && e.Sign == events[i-1].Sign {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count tallies occurrences per sign in order of first appearance.
func Count(occurrences []gesture.ConfirmedEvent) []SignCount {
	idx := make(map[string]int, len(occurrences))
	out := make([]SignCount, 0, len(occurrences))
	for _, e := range occurrences {
		if i, ok := idx[e.Sign]; ok {
			out[i].Count++
			continue
		}
		idx[e.Sign] = len(out)
		out = append(out, SignCount{Sign: e.Sign, Count: 1})
	}
	return out
}

// Rank sorts by count descending; ties keep their input order.
func Rank(counts []SignCount) []SignCount {
	out := append([]SignCount(nil), counts...)
	if out == nil {
		out = []SignCount{}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Seconds rounds d to hundredths of a second, half away from zero.
func Seconds(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return d.Round(10 * time.Millisecond).Seconds()
}
