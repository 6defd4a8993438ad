package orchestrator

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/signlang-ai/signstream/clients"
	"github.com/signlang-ai/signstream/gesture"
)

// Sink persists one record per completed session.
type Sink interface {
	Name() string
	Save(ctx context.Context, rec SessionRecord, events []gesture.ConfirmedEvent) error
}

// PersistBundle is the on-disk event log of a session; it is enough to
// recompute the summary.
type PersistBundle struct {
	SessionID string                   `json:"session_id"`
	StartedAt time.Time                `json:"started_at"`
	EndedAt   time.Time                `json:"ended_at"`
	Events    []gesture.ConfirmedEvent `json:"events"`
}

// FileSink writes session_<ts>_<id>/{summary,events}.json under Root.
type FileSink struct {
	Root string
}

func (FileSink) Name() string { return "file" }

// SessionDirName names a record's directory by end time and id prefix, so
// sessions ending within the same second stay apart.
func SessionDirName(rec SessionRecord) string {
	id := rec.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "session_" + rec.CreatedAt.Format("20060102-150405") + "_" + id
}

// mkSessionDir refuses an existing directory rather than overwrite a record.
func mkSessionDir(outputsRoot string, rec SessionRecord) (string, error) {
	if err := os.MkdirAll(outputsRoot, 0o755); err != nil {
		return "", err
	}
	dir := filepath.Join(outputsRoot, SessionDirName(rec))
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (s FileSink) Save(_ context.Context, rec SessionRecord, events []gesture.ConfirmedEvent) error {
	dir, err := mkSessionDir(s.Root, rec)
	if err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "summary.json"), rec); err != nil {
		return err
	}
	if events == nil {
		events = []gesture.ConfirmedEvent{}
	}
	return writeJSON(filepath.Join(dir, "events.json"), PersistBundle{
		SessionID: rec.ID,
		StartedAt: rec.StartedAt,
		EndedAt:   rec.CreatedAt,
		Events:    events,
	})
}

// ReadBundle loads an events.json written by FileSink.
func ReadBundle(path string) (*PersistBundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var b PersistBundle
	if err := json.NewDecoder(f).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// HTTPSink posts the record to the sign-data backend.
type HTTPSink struct {
	http *clients.HTTP
	url  string
}

func NewHTTPSink(h *clients.HTTP, url string) *HTTPSink {
	return &HTTPSink{http: h, url: strings.TrimRight(url, "/")}
}

func (HTTPSink) Name() string { return "http" }

func (s *HTTPSink) Save(ctx context.Context, rec SessionRecord, _ []gesture.ConfirmedEvent) error {
	_, err := s.http.AddSignData(ctx, s.url, rec)
	return err
}
