package orchestrator

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/signlang-ai/signstream/clients"
	"github.com/signlang-ai/signstream/gesture"
)

// Source yields observations in timestamp order; io.EOF ends the session.
type Source interface {
	Next(ctx context.Context) (gesture.Observation, error)
}

// LiveSource polls the recognizer service once per frame tick.
type LiveSource struct {
	http   *clients.HTTP
	url    string
	ticker *time.Ticker
	now    func() time.Time
	log    log.FieldLogger
}

func NewLiveSource(h *clients.HTTP, url string, interval time.Duration, logger log.FieldLogger) *LiveSource {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LiveSource{
		http:   h,
		url:    strings.TrimRight(url, "/"),
		ticker: time.NewTicker(interval),
		now:    time.Now,
		log:    logger,
	}
}

// Next waits for the next tick. A failed recognizer call counts as a frame
// without a sign so the loop keeps its cadence.
func (s *LiveSource) Next(ctx context.Context) (gesture.Observation, error) {
	select {
	case <-ctx.Done():
		return gesture.Observation{}, ctx.Err()
	case <-s.ticker.C:
	}
	at := s.now()
	resp, err := s.http.Recognize(ctx, s.url, at)
	if err != nil {
		if ctx.Err() != nil {
			return gesture.Observation{}, ctx.Err()
		}
		s.log.WithError(err).Warn("recognize")
		return gesture.Observation{Timestamp: at}, nil
	}
	return gesture.FromCandidates(resp.Top(), at), nil
}

func (s *LiveSource) Close() { s.ticker.Stop() }

// ReplayFrame is one line of a recorded observation file.
type ReplayFrame struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	TMs   int64   `json:"t_ms"`
}

// ReplaySource reads JSON lines of ReplayFrame relative to a base instant.
// Blank lines are skipped.
type ReplaySource struct {
	sc   *bufio.Scanner
	base time.Time
	last time.Time
	line int
}

func NewReplaySource(r io.Reader, base time.Time) *ReplaySource {
	return &ReplaySource{sc: bufio.NewScanner(r), base: base, last: base}
}

func (s *ReplaySource) Next(ctx context.Context) (gesture.Observation, error) {
	for {
		if err := ctx.Err(); err != nil {
			return gesture.Observation{}, err
		}
		if !s.sc.Scan() {
			if err := s.sc.Err(); err != nil {
				return gesture.Observation{}, err
			}
			return gesture.Observation{}, io.EOF
		}
		s.line++
		raw := strings.TrimSpace(s.sc.Text())
		if raw == "" {
			continue
		}
		var f ReplayFrame
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			return gesture.Observation{}, fmt.Errorf("replay line %d: %w", s.line, err)
		}
		at := s.base.Add(time.Duration(f.TMs) * time.Millisecond)
		if at.Before(s.last) {
			return gesture.Observation{}, fmt.Errorf("replay line %d: timestamp goes backwards", s.line)
		}
		s.last = at
		return gesture.Observation{Label: strings.TrimSpace(f.Label), Score: f.Score, Timestamp: at}, nil
	}
}

// Now is the timestamp of the last frame delivered; use it as the session clock.
func (s *ReplaySource) Now() time.Time { return s.last }
