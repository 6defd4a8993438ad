package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// --- Sign data backend (/sign-data) ---
type SignDataResp struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// AddSignData posts one session record. The record is sent as-is so the
// backend schema stays owned by the caller.
func (h *HTTP) AddSignData(ctx context.Context, url string, record any) (*SignDataResp, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("signdata encode: %w", err)
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/sign-data", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", "application/json")
	resp, err := h.c.Do(r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("signdata %s: %s", resp.Status, string(body))
	}

	var out SignDataResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && err != io.EOF {
		return nil, fmt.Errorf("signdata decode: %w", err)
	}
	return &out, nil
}
