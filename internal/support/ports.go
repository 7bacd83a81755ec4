package support

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. Never modified after it is appended.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Category is the issue label assigned to an accepted user message.
type Category string

const (
	CategoryDelivery  Category = "Delivery"
	CategoryRefund    Category = "Refund"
	CategoryTechnical Category = "Technical"
	CategoryOther     Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryDelivery, CategoryRefund, CategoryTechnical, CategoryOther}

// Counters always holds all four categories.
type Counters map[Category]int

func NewCounters() Counters {
	c := make(Counters, len(Categories))
	for _, cat := range Categories {
		c[cat] = 0
	}
	return c
}

// Session is one conversation: transcript, category counters, active mode
// and derived title. A Session is owned by exactly one store entry.
type Session struct {
	ID         string    `json:"id"`
	Transcript []Message `json:"transcript"`
	Counters   Counters  `json:"counters"`
	Mode       Mode      `json:"mode"`
	Title      string    `json:"title,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store persists sessions for as long as they live.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Credentials is the credential side of the backend.
type Credentials interface {
	SetKey(ctx context.Context, key string) error
	Ready() bool
}

// Exchange is the outcome of one accepted submission.
type Exchange struct {
	Category Category `json:"category"`
	Reply    Message  `json:"reply"`
	Failed   bool     `json:"failed"`
	Session  View     `json:"session"`
}

// Service runs exchanges against stored sessions.
type Service interface {
	Configure(ctx context.Context, apiKey string) error
	Start(ctx context.Context, mode Mode) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	End(ctx context.Context, id string) error
	Submit(ctx context.Context, id, text string, onPartial func(string)) (*Exchange, error)
	ChangeMode(ctx context.Context, id string, mode Mode) (*Session, error)
	Reset(ctx context.Context, id string) (*Session, error)
	Dashboard(ctx context.Context, id string) (*Dashboard, error)
	Export(ctx context.Context, id string) (*Snapshot, error)
}
