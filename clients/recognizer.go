package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/signlang-ai/signstream/gesture"
)

// --- Gesture recognizer (/recognize) ---
type RecognizeReq struct {
	TimestampMs int64 `json:"timestamp_ms"`
}

// RecognizeResp mirrors the recognizer's per-hand ranked categories; only the
// first hand is consumed.
type RecognizeResp struct {
	Gestures [][]gesture.Candidate `json:"gestures"`
}

func (r *RecognizeResp) Top() []gesture.Candidate {
	if r == nil || len(r.Gestures) == 0 {
		return nil
	}
	return r.Gestures[0]
}

func (h *HTTP) Recognize(ctx context.Context, url string, at time.Time) (*RecognizeResp, error) {
	b, _ := json.Marshal(RecognizeReq{TimestampMs: at.UnixMilli()})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/recognize", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("recognizer %s: %s", resp.Status, string(body))
	}

	var out RecognizeResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("recognizer decode: %w", err)
	}
	return &out, nil
}
