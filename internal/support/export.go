package support

import (
	"encoding/json"
	"io"
	"time"
)

// Snapshot is the exported form of a session. Key names and order are
// consumed by existing tools: title, timestamp, messages.
type Snapshot struct {
	Title     *string   `json:"title"`
	Timestamp string    `json:"timestamp"`
	Messages  []Message `json:"messages"`

	at time.Time
}

func NewSnapshot(s *Session, now time.Time) *Snapshot {
	snap := &Snapshot{
		Timestamp: now.Format(time.RFC3339),
		Messages:  s.Clone().Transcript,
		at:        now,
	}
	if s.Title != "" {
		title := s.Title
		snap.Title = &title
	}
	return snap
}

func (s *Snapshot) FileName() string {
	return "support_chat_" + s.at.Format("20060102_1504") + ".json"
}

// Encode writes the snapshot as UTF-8 JSON without HTML escaping.
func (s *Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(s)
}
