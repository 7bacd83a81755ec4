package support

import (
	"fmt"
	"strings"
)

type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// Report is the read-only aggregate the dashboard charts.
type Report struct {
	Total    int             `json:"total"`
	Top      Category        `json:"top,omitempty"`
	TopCount int             `json:"top_count"`
	Series   []CategoryCount `json:"series"`
}

func (c Counters) Total() int {
	total := 0
	for _, cat := range Categories {
		total += c[cat]
	}
	return total
}

// Top returns the category with the highest count; ties go to the
// earlier category in display order.
func (c Counters) Top() (Category, int) {
	top, best := Categories[0], c[Categories[0]]
	for _, cat := range Categories[1:] {
		if c[cat] > best {
			top, best = cat, c[cat]
		}
	}
	return top, best
}

func (c Counters) Series() []CategoryCount {
	out := make([]CategoryCount, 0, len(Categories))
	for _, cat := range Categories {
		out = append(out, CategoryCount{Category: cat, Count: c[cat]})
	}
	return out
}

// String renders counters in display order, e.g. "Delivery: 2, Refund: 0, ...".
func (c Counters) String() string {
	parts := make([]string, 0, len(Categories))
	for _, cat := range Categories {
		parts = append(parts, fmt.Sprintf("%s: %d", cat, c[cat]))
	}
	return strings.Join(parts, ", ")
}

func Summarize(c Counters) Report {
	r := Report{Total: c.Total(), Series: c.Series()}
	if r.Total > 0 {
		r.Top, r.TopCount = c.Top()
	}
	return r
}

// InsightRequest asks for one recommendation from the session counters.
func InsightRequest(c Counters, messages int) string {
	return fmt.Sprintf(InsightPrompt, "{"+c.String()+"}", messages)
}

// Dashboard is the business view of one session.
type Dashboard struct {
	SessionID         string `json:"session_id"`
	Mode              Mode   `json:"mode"`
	MessagesExchanged int    `json:"messages_exchanged"`
	Report
	Insight string `json:"insight,omitempty"`
}
