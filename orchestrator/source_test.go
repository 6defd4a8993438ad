package orchestrator

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/signlang-ai/signstream/clients"
)

func TestReplaySource(t *testing.T) {
	in := `{"label":"Hello","score":0.9,"t_ms":0}

{"label":"","score":0,"t_ms":40}
{"label":" Yes ","score":0.7,"t_ms":80}
`
	src := NewReplaySource(strings.NewReader(in), t0)
	ctx := context.Background()

	o, err := src.Next(ctx)
	if err != nil || o.Label != "Hello" || !o.Timestamp.Equal(t0) {
		t.Fatalf("first frame: %+v %v", o, err)
	}
	o, err = src.Next(ctx)
	if err != nil || o.HasSign() {
		t.Fatalf("blank line should be skipped and empty label kept: %+v %v", o, err)
	}
	o, err = src.Next(ctx)
	if err != nil || o.Label != "Yes" || !o.Timestamp.Equal(at(80)) {
		t.Fatalf("third frame: %+v %v", o, err)
	}
	if !src.Now().Equal(at(80)) {
		t.Fatalf("clock not following frames: %s", src.Now())
	}
	if _, err := src.Next(ctx); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestReplaySourceBadLine(t *testing.T) {
	src := NewReplaySource(strings.NewReader("{\"label\":\"A\",\"t_ms\":0}\nnot json\n"), t0)
	if _, err := src.Next(context.Background()); err != nil {
		t.Fatalf("first: %v", err)
	}
	_, err := src.Next(context.Background())
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line-numbered error, got %v", err)
	}
}

func TestReplaySourceBackwards(t *testing.T) {
	src := NewReplaySource(strings.NewReader("{\"t_ms\":100}\n{\"t_ms\":50}\n"), t0)
	if _, err := src.Next(context.Background()); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := src.Next(context.Background()); err == nil {
		t.Fatalf("expected ordering error")
	}
}

func TestReplayThroughPipeline(t *testing.T) {
	var b strings.Builder
	for ms := 0; ms <= 12345; ms += 33 {
		label := "A"
		if ms > 6000 {
			label = "B"
		}
		b.WriteString(`{"label":"` + label + `","score":0.8,"t_ms":` + strconv.Itoa(ms) + "}\n")
	}
	b.WriteString(`{"label":"","t_ms":12345}` + "\n")
	src := NewReplaySource(strings.NewReader(b.String()), t0)
	p := NewPipeline(NewSession(), WithClock(src.Now), WithLogger(quietLogger()))
	res, err := p.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if math.Abs(res.Summary.SecondsSpent-12.35) > 1e-9 {
		t.Fatalf("seconds %v", res.Summary.SecondsSpent)
	}
	if len(res.Summary.TopSigns) != 2 || res.Summary.TopSigns[0].Sign != "A" {
		t.Fatalf("top %v", res.Summary.TopSigns)
	}
}

func TestLiveSource(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			_, _ = w.Write([]byte(`{"gestures":[[{"category_name":"Hello","score":0.8}]]}`))
		case 2:
			http.Error(w, "busy", http.StatusServiceUnavailable)
		default:
			_, _ = w.Write([]byte(`{"gestures":[]}`))
		}
	}))
	defer srv.Close()

	src := NewLiveSource(clients.NewHTTPTimeout(time.Second), srv.URL+"/", time.Millisecond, quietLogger())
	defer src.Close()
	ctx := context.Background()

	o, err := src.Next(ctx)
	if err != nil || o.Label != "Hello" || o.Score != 0.8 {
		t.Fatalf("first: %+v %v", o, err)
	}
	o, err = src.Next(ctx)
	if err != nil || o.HasSign() || o.Timestamp.IsZero() {
		t.Fatalf("recognizer failure should yield an empty frame: %+v %v", o, err)
	}
	o, err = src.Next(ctx)
	if err != nil || o.HasSign() {
		t.Fatalf("no gestures: %+v %v", o, err)
	}
}

func TestLiveSourceCancel(t *testing.T) {
	src := NewLiveSource(clients.NewHTTP(), "http://127.0.0.1:0", time.Hour, quietLogger())
	defer src.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
