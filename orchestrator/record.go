package orchestrator

import (
	"time"

	"github.com/google/uuid"

	"github.com/signlang-ai/signstream/summary"
)

type User struct {
	Name string
	ID   string
}

// SessionRecord is a summary augmented with identifiers for persistence.
type SessionRecord struct {
	ID             string              `json:"id"`
	Username       string              `json:"username,omitempty"`
	UserID         string              `json:"userId,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	StartedAt      time.Time           `json:"startedAt"`
	SecondsSpent   float64             `json:"secondsSpent"`
	SignsPerformed []summary.SignCount `json:"signsPerformed"`
}

func NewRecord(s summary.SessionSummary, u User) SessionRecord {
	signs := s.TopSigns
	if signs == nil {
		signs = []summary.SignCount{}
	}
	return SessionRecord{
		ID:             uuid.NewString(),
		Username:       u.Name,
		UserID:         u.ID,
		CreatedAt:      s.EndedAt,
		StartedAt:      s.StartedAt,
		SecondsSpent:   s.SecondsSpent,
		SignsPerformed: signs,
	}
}
