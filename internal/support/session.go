package support

import (
	"fmt"
	"slices"
	"time"
)

func NewSession(id string, mode Mode, now time.Time) *Session {
	return &Session{
		ID:         id,
		Transcript: []Message{},
		Counters:   NewCounters(),
		Mode:       mode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Submit gates and classifies text. A rejected message leaves the session
// untouched; an accepted one is appended and counted.
func (s *Session) Submit(text string) (Category, error) {
	if s.Pending() {
		return "", ErrExchangeInProgress
	}
	if !IsInDomain(text) {
		return "", ErrDomainRejected
	}

	category := Classify(text)
	s.Transcript = append(s.Transcript, Message{Role: RoleUser, Content: text})
	if s.Counters == nil {
		s.Counters = NewCounters()
	}
	s.Counters[category]++
	return category, nil
}

// Complete appends the assistant side of the pending exchange.
func (s *Session) Complete(reply string) {
	s.Transcript = append(s.Transcript, Message{Role: RoleAssistant, Content: reply})
}

// Pending reports an accepted message still waiting for its reply.
func (s *Session) Pending() bool {
	return len(s.Transcript)%2 == 1
}

// Reset starts the conversation over, keeping the mode.
func (s *Session) Reset() {
	s.Transcript = []Message{}
	s.Counters = NewCounters()
	s.Title = ""
}

func (s *Session) SetMode(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, m)
	}
	s.Mode = m
	return nil
}

// Accepted counts user messages in the transcript.
func (s *Session) Accepted() int {
	n := 0
	for _, m := range s.Transcript {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// DisplayTitle is the derived title, or a dated placeholder before one exists.
func (s *Session) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return "Support Chat " + s.CreatedAt.Format("Jan 02, 15:04")
}

func (s *Session) Clone() *Session {
	c := *s
	c.Transcript = slices.Clone(s.Transcript)
	if c.Transcript == nil {
		c.Transcript = []Message{}
	}
	c.Counters = NewCounters()
	for k, v := range s.Counters {
		c.Counters[k] = v
	}
	return &c
}

// View is what the presentation layer renders.
type View struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Mode       Mode      `json:"mode"`
	ModeLabel  string    `json:"mode_label"`
	Transcript []Message `json:"transcript"`
	Counters   Counters  `json:"counters"`
	Pending    bool      `json:"pending"`
	CanExport  bool      `json:"can_export"`
}

func NewView(s *Session) View {
	c := s.Clone()
	return View{
		ID:         c.ID,
		Title:      c.DisplayTitle(),
		Mode:       c.Mode,
		ModeLabel:  c.Mode.Label(),
		Transcript: c.Transcript,
		Counters:   c.Counters,
		Pending:    c.Pending(),
		CanExport:  len(c.Transcript) >= 2,
	}
}
