package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRecognize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recognize" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var req RecognizeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.TimestampMs != 1500 {
			t.Errorf("timestamp %d", req.TimestampMs)
		}
		_, _ = w.Write([]byte(`{"gestures":[[{"category_name":"Hello","score":0.87},{"category_name":"Yes","score":0.1}]]}`))
	}))
	defer srv.Close()

	h := NewHTTPTimeout(time.Second)
	resp, err := h.Recognize(context.Background(), srv.URL, time.UnixMilli(1500))
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	top := resp.Top()
	if len(top) != 2 || top[0].Label != "Hello" || top[0].Score != 0.87 {
		t.Fatalf("unexpected candidates: %+v", top)
	}
}

func TestRecognizeNoHands(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"gestures":[]}`))
	}))
	defer srv.Close()

	resp, err := NewHTTP().Recognize(context.Background(), srv.URL, time.Now())
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if resp.Top() != nil {
		t.Fatalf("expected no candidates")
	}
}

func TestRecognizeStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTP().Recognize(context.Background(), srv.URL, time.Now())
	if err == nil || !strings.Contains(err.Error(), "model not loaded") {
		t.Fatalf("expected status error with body, got %v", err)
	}
}

func TestSpeak(t *testing.T) {
	var got SpeakReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/speak" {
			t.Errorf("path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	if err := NewHTTP().Speak(context.Background(), srv.URL, SpeakReq{Text: "Thank you", Rate: 1.2}); err != nil {
		t.Fatalf("speak: %v", err)
	}
	if got.Text != "Thank you" || got.Rate != 1.2 {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestSpeakError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if err := NewHTTP().Speak(context.Background(), srv.URL, SpeakReq{Text: "x"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestAddSignData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body["id"] != "abc" {
			t.Errorf("unexpected body %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":"ok","id":"abc"}`))
	}))
	defer srv.Close()

	resp, err := NewHTTP().AddSignData(context.Background(), srv.URL, map[string]any{"id": "abc"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if resp.ID != "abc" {
		t.Fatalf("unexpected resp %+v", resp)
	}
}

func TestAddSignDataEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	if _, err := NewHTTP().AddSignData(context.Background(), srv.URL, struct{}{}); err != nil {
		t.Fatalf("empty 200 body should be accepted: %v", err)
	}
}
