// Package speech speaks confirmed signs without blocking the frame loop.
package speech

import (
	"context"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/signlang-ai/signstream/clients"
)

type Engine interface {
	Name() string
	Speak(ctx context.Context, text string) error
}

type SystemEngine struct {
	command string
	voice   string
	rate    int
}

func NewSystemEngine(cmd, voice string, rate int) (*SystemEngine, error) {
	if cmd == "" {
		cmd = "espeak-ng"
	}
	resolved, err := exec.LookPath(cmd)
	if err != nil {
		return nil, err
	}
	return &SystemEngine{command: resolved, voice: voice, rate: rate}, nil
}

func (s *SystemEngine) Name() string { return "system" }

func (s *SystemEngine) Speak(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	args := []string{}
	if s.voice != "" {
		args = append(args, "-v", s.voice)
	}
	if s.rate > 0 {
		args = append(args, "-s", strconv.Itoa(s.rate))
	}
	args = append(args, trimmed)
	cmd := exec.CommandContext(ctx, s.command, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

type HTTPEngine struct {
	http  *clients.HTTP
	url   string
	voice string
	rate  float64
}

func NewHTTPEngine(h *clients.HTTP, url, voice string, rate float64) *HTTPEngine {
	return &HTTPEngine{http: h, url: strings.TrimRight(url, "/"), voice: voice, rate: rate}
}

func (e *HTTPEngine) Name() string { return "http" }

func (e *HTTPEngine) Speak(ctx context.Context, text string) error {
	return e.http.Speak(ctx, e.url, clients.SpeakReq{Text: text, Voice: e.voice, Rate: e.rate})
}

// baseWPM is espeak-ng's default speed, the 1.0 point of the http engine's rate.
const baseWPM = 175

// RateMultiplier converts words per minute to the http engine's relative rate;
// a non-positive rate means the service default.
func RateMultiplier(wpm int) float64 {
	if wpm <= 0 {
		return 1
	}
	return math.Round(float64(wpm)/baseWPM*100) / 100
}

// Options selects and parameterises an engine.
type Options struct {
	Engine  string
	Command string
	Voice   string
	Rate    int
	URL     string
}

// New builds the configured engine; "none" or "" yields a nil engine.
func New(opts Options, h *clients.HTTP) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Engine)) {
	case "", "none":
		return nil, nil
	case "system":
		e, err := NewSystemEngine(opts.Command, opts.Voice, opts.Rate)
		if err != nil {
			return nil, fmt.Errorf("speech engine system: %w", err)
		}
		return e, nil
	case "http":
		if opts.URL == "" {
			return nil, fmt.Errorf("speech engine http: no service url")
		}
		return NewHTTPEngine(h, opts.URL, opts.Voice, RateMultiplier(opts.Rate)), nil
	default:
		return nil, fmt.Errorf("unsupported speech engine: %s", opts.Engine)
	}
}
